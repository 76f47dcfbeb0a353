package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/logging"
	"github.com/dmitrijs2005/propman/internal/server/models"
	"github.com/dmitrijs2005/propman/internal/server/services"
)

var ann = &models.User{ID: "u-1", Name: "Ann", Email: "ann@example.com"}

type fakeUsers struct {
	registerErr error
	loginErr    error
	// authErr is returned for any token other than "good".
	authErr error

	gotRegister []string
}

func (f *fakeUsers) Register(_ context.Context, name, email, password string) (*services.AuthResult, error) {
	f.gotRegister = []string{name, email, password}
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &services.AuthResult{Token: "tok", User: ann}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.AuthResult{Token: "tok", User: ann}, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	if token == "good" {
		return ann, nil
	}
	if f.authErr != nil {
		return nil, f.authErr
	}
	return nil, common.ErrInvalidToken
}

type fakeProperties struct {
	items []models.Property
	err   error

	gotOwner string
	gotID    string
	gotInput services.PropertyInput
}

func (f *fakeProperties) List(_ context.Context, ownerID string) ([]models.Property, error) {
	f.gotOwner = ownerID
	return f.items, f.err
}

func (f *fakeProperties) Create(_ context.Context, ownerID string, in services.PropertyInput) (*models.Property, error) {
	f.gotOwner, f.gotInput = ownerID, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Property{ID: "p-new", OwnerID: ownerID, Title: in.Title, Type: in.Type, City: in.City,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeProperties) Get(_ context.Context, ownerID, id string) (*models.Property, error) {
	f.gotOwner, f.gotID = ownerID, id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Property{ID: id, OwnerID: ownerID, Title: "Flat A", Type: "owned"}, nil
}

func (f *fakeProperties) Update(_ context.Context, ownerID, id string, in services.PropertyInput) (*models.Property, error) {
	f.gotOwner, f.gotID, f.gotInput = ownerID, id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Property{ID: id, OwnerID: ownerID, Title: in.Title, Type: in.Type}, nil
}

func (f *fakeProperties) Delete(_ context.Context, ownerID, id string) error {
	f.gotOwner, f.gotID = ownerID, id
	return f.err
}

func newTestServer(us *fakeUsers, ps *fakeProperties) *Server {
	return NewServer("127.0.0.1:0", logging.Nop(), us, ps, []string{"*"}, time.Second)
}
