package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propman/internal/client/properties"
	"github.com/dmitrijs2005/propman/internal/client/session"
	"github.com/dmitrijs2005/propman/internal/common"
)

// List prints the properties that match the current search query.
func (a *App) List(ctx context.Context) error {
	if !a.protected() {
		return nil
	}

	snap := a.view.Snapshot()
	switch {
	case snap.Loading:
		printlnFn(session.MsgLoading)
		return nil
	case snap.LoadErr != "":
		printlnFn(snap.LoadErr)
		return nil
	}

	if snap.Query != "" {
		printlnFn(fmt.Sprintf("Search %q: %d of %d", snap.Query, len(snap.Items), snap.Total))
	}
	if len(snap.Items) == 0 {
		printlnFn("No properties.")
		return nil
	}
	for i, p := range snap.Items {
		printlnFn(fmt.Sprintf("%d. %s", i+1, p))
	}
	return nil
}

// Search sets the query and lists the matches. An empty query clears it.
func (a *App) Search(ctx context.Context, query string) error {
	if !a.protected() {
		return nil
	}
	a.view.SetQuery(query)
	return a.List(ctx)
}

// Add walks the user through the add-property form and submits it. On
// failure the draft is kept, so the next "add" offers the same values.
func (a *App) Add(ctx context.Context) error {
	if !a.protected() {
		return nil
	}

	draft := a.view.Form()
	if draft.Title != "" {
		printlnFn(fmt.Sprintf("Retrying previous draft %q (press Enter to keep values)", draft.Title))
	}

	form, err := a.readForm(draft)
	if err != nil {
		return err
	}
	a.view.SetForm(form)

	created, err := a.view.Submit(ctx)
	if err != nil {
		a.logger.Debug(ctx, "add property failed", "error", err)
		printlnFn(properties.MsgAddFailed)
		return err
	}

	printlnFn(fmt.Sprintf("Added: %s", created))
	return nil
}

func (a *App) readForm(draft properties.Form) (properties.Form, error) {
	var err error
	f := draft

	if f.Title, err = a.askKeep("Title", draft.Title); err != nil {
		return draft, err
	}
	def := draft.Type
	if def == "" {
		def = common.PropertyTypeOwned
	}
	if f.Type, err = getChoice(a.reader, "Type",
		[]string{common.PropertyTypeOwned, common.PropertyTypeRented}, def, a.out); err != nil {
		return draft, err
	}
	if f.City, err = a.askKeep("City (optional)", draft.City); err != nil {
		return draft, err
	}
	if f.Address, err = a.askKeep("Address (optional)", draft.Address); err != nil {
		return draft, err
	}
	return f, nil
}

// askKeep prompts with the current value; an empty answer keeps it.
func (a *App) askKeep(prompt, current string) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	text, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if text == "" {
		return current, nil
	}
	return text, nil
}

// Reload fetches the list again.
func (a *App) Reload(ctx context.Context) error {
	if !a.protected() {
		return nil
	}
	a.mountView(ctx)
	if snap := a.view.Snapshot(); snap.LoadErr == "" {
		printlnFn(fmt.Sprintf("Loaded %d properties.", snap.Total))
	}
	return nil
}
