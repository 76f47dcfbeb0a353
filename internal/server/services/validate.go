package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/propman/internal/common"
)

const (
	MaxNameLen        = 100
	MinPasswordLen    = 6
	MaxTitleLen       = 120
	msgRequired       = "This field is required."
	msgInvalidEmail   = "Enter a valid email address."
	msgInvalidChoice  = "%q is not a valid choice."
	msgTooLongFormat  = "Ensure this field has no more than %d characters."
	msgTooShortFormat = "Ensure this field has at least %d characters."
)

func requireString(v *common.ValidationError, field, value string, max int) {
	switch {
	case value == "":
		v.Add(field, msgRequired)
	case max > 0 && utf8.RuneCountInString(value) > max:
		v.Add(field, fmt.Sprintf(msgTooLongFormat, max))
	}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

// result returns v as an error, or nil when nothing was rejected.
func result(v *common.ValidationError) error {
	if v.Empty() {
		return nil
	}
	return v
}
