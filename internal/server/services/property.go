package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/server/models"
	"github.com/dmitrijs2005/propman/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PropertyInput carries the writable fields of a property.
type PropertyInput struct {
	Title   string
	Type    string
	Address string
	City    string
	Lat     *float64
	Lng     *float64
	Notes   string
}

func (in PropertyInput) validate() error {
	v := common.NewValidationError()
	requireString(v, "title", in.Title, MaxTitleLen)
	if in.Type == "" {
		v.Add("type", msgRequired)
	} else if !common.IsValidPropertyType(in.Type) {
		v.Add("type", fmt.Sprintf(msgInvalidChoice, in.Type))
	}
	return result(v)
}

func (in PropertyInput) normalized() PropertyInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.TrimSpace(in.Type)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

// PropertyService manages the caller's own properties. Every method takes
// the owner's id; other users' records behave as if they did not exist.
type PropertyService struct {
	repomanager repomanager.RepositoryManager
}

func NewPropertyService(m repomanager.RepositoryManager) *PropertyService {
	return &PropertyService{repomanager: m}
}

// List returns the owner's properties, newest first.
func (s *PropertyService) List(ctx context.Context, ownerID string) ([]models.Property, error) {
	items, err := s.repomanager.Properties().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing properties: %w", err)
	}
	return items, nil
}

func (s *PropertyService) Create(ctx context.Context, ownerID string, in PropertyInput) (*models.Property, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Property{ID: uuid.NewString(), OwnerID: ownerID}
	apply(p, in)

	created, err := s.repomanager.Properties().Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error creating property: %w", err)
	}
	return created, nil
}

func (s *PropertyService) Get(ctx context.Context, ownerID, id string) (*models.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.wrap(s.repomanager.Properties().Get(ctx, ownerID, id))
}

// Update replaces every writable field.
func (s *PropertyService) Update(ctx context.Context, ownerID, id string, in PropertyInput) (*models.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Property{ID: id, OwnerID: ownerID}
	apply(p, in)
	return s.wrap(s.repomanager.Properties().Update(ctx, p))
}

func (s *PropertyService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	_, err := s.wrap(nil, s.repomanager.Properties().Delete(ctx, ownerID, id))
	return err
}

func (s *PropertyService) wrap(p *models.Property, err error) (*models.Property, error) {
	if err == nil {
		return p, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorNotFound
	}
	return nil, fmt.Errorf("property store: %w", err)
}

func apply(p *models.Property, in PropertyInput) {
	p.Title = in.Title
	p.Type = in.Type
	p.Address = in.Address
	p.City = in.City
	p.Lat = in.Lat
	p.Lng = in.Lng
	p.Notes = in.Notes
}
