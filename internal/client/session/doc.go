// Package session owns the client's authentication state.
//
// A Controller is created once per process and passed to whoever needs it.
// Its State starts as not ready with no user. Start resolves a stored token
// into a user profile exactly once; Login, Register and Logout mutate the
// token store and the in-memory user together.
package session
