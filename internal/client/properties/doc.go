// Package properties holds the state behind the properties screen: the
// fetched list, the search query and the add-property form.
//
// Every list fetch is tagged with the view's generation. Mount and Unmount
// bump the generation, so a response that arrives after either is dropped
// instead of overwriting newer state.
package properties
