// Package properties stores property listings. Every query is scoped to an
// owner, so one user can never read or change another user's records.
package properties

import (
	"context"

	"github.com/dmitrijs2005/propman/internal/server/models"
)

// Repository persists properties. Get, Update and Delete return
// common.ErrorNotFound when the owner has no property with that id.
type Repository interface {
	Create(ctx context.Context, p *models.Property) (*models.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
	Get(ctx context.Context, ownerID, id string) (*models.Property, error)
	Update(ctx context.Context, p *models.Property) (*models.Property, error)
	Delete(ctx context.Context, ownerID, id string) error
}
