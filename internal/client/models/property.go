// Package models defines the records the PropMan client exchanges with the backend.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/propman/internal/common"
)

// Property is a server-owned listing. The client never generates ID; it only
// keeps whatever the backend echoed back.
type Property struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	City      string   `json:"city,omitempty"`
	Address   string   `json:"address,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// TypeLabel is the human label for Type; anything but "rented" reads as owned.
func (p Property) TypeLabel() string {
	if p.Type == common.PropertyTypeRented {
		return "Rented"
	}
	return "Owned"
}

func (p Property) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", p.TypeLabel(), p.Title)
	if p.City != "" {
		fmt.Fprintf(&b, " | %s", p.City)
	}
	if p.Address != "" {
		fmt.Fprintf(&b, " | %s", p.Address)
	}
	if p.ID != "" {
		fmt.Fprintf(&b, " (id=%s)", p.ID)
	}
	return b.String()
}

// NewProperty is the body of POST /api/properties/.
type NewProperty struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	City    string `json:"city"`
	Address string `json:"address"`
}
