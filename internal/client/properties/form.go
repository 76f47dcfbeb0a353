package properties

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/propman/internal/client/models"
	"github.com/dmitrijs2005/propman/internal/common"
)

// MaxTitleLen mirrors the backend column limit.
const MaxTitleLen = 120

// Form is the add-property draft.
type Form struct {
	Title   string
	Type    string
	City    string
	Address string
}

// DefaultForm is the state the form starts in and returns to after a
// successful submit.
func DefaultForm() Form {
	return Form{Type: common.PropertyTypeOwned}
}

// Validate reports missing or out-of-range fields. It returns nil when the
// form can be submitted.
func (f Form) Validate() error {
	verr := common.NewValidationError()

	title := strings.TrimSpace(f.Title)
	switch {
	case title == "":
		verr.Add("title", "required")
	case utf8.RuneCountInString(title) > MaxTitleLen:
		verr.Add("title", "too long")
	}
	if !common.IsValidPropertyType(f.Type) {
		verr.Add("type", "must be owned or rented")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// Payload is the request body for this form.
func (f Form) Payload() models.NewProperty {
	return models.NewProperty{
		Title:   f.Title,
		Type:    f.Type,
		City:    f.City,
		Address: f.Address,
	}
}
