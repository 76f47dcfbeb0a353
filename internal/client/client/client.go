package client

import (
	"context"

	"github.com/dmitrijs2005/propman/internal/client/models"
)

// Client is the PropMan backend contract used by the session controller and
// the properties view.
type Client interface {
	Me(ctx context.Context) (models.UserProfile, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error)
	ListProperties(ctx context.Context) ([]models.Property, error)
	CreateProperty(ctx context.Context, p models.NewProperty) (*models.Property, error)
}

// Endpoint paths. They are case-sensitive and keep their trailing slashes.
const (
	PathMe         = "/api/auth/me"
	PathLogin      = "/api/auth/login"
	PathRegister   = "/api/auth/register"
	PathProperties = "/api/properties/"
)
