// Package common contains shared constants and sentinel errors used across
// PropMan components.
package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header value.
const BearerPrefix = "Bearer "

// Property types accepted by the backend.
const (
	PropertyTypeOwned  = "owned"
	PropertyTypeRented = "rented"
)

// IsValidPropertyType reports whether t is one of the known property types.
func IsValidPropertyType(t string) bool {
	return t == PropertyTypeOwned || t == PropertyTypeRented
}
