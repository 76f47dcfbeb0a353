// Package users stores PropMan accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/propman/internal/server/models"
)

// Repository persists users. Lookups return common.ErrorNotFound when no
// user matches; Create returns common.ErrorAlreadyExists for a taken email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
