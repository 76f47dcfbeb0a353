package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/server/models"
	"github.com/dmitrijs2005/propman/internal/server/repositories/properties"
	"github.com/dmitrijs2005/propman/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/propman/internal/server/repositories/users"
)

var _ repomanager.RepositoryManager = (*memStore)(nil)

// memStore is an in-memory repomanager.RepositoryManager.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	props map[string]*models.Property
	clock time.Time

	// failWith, when set, is returned by every repository call.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		props: map[string]*models.Property{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Users() users.Repository           { return memUsers{m} }
func (m *memStore) Properties() properties.Repository { return memProps{m} }
func (m *memStore) RunMigrations(context.Context) error {
	return nil
}
func (m *memStore) Close(context.Context) error { return nil }

func (m *memStore) WithTx(ctx context.Context, fn repomanager.TxFunc) error {
	return fn(ctx, m.Users(), m.Properties())
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.CreatedAt = r.m.tick()
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type memProps struct{ m *memStore }

func (r memProps) Create(_ context.Context, p *models.Property) (*models.Property, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	p.CreatedAt = r.m.tick()
	cp := *p
	r.m.props[p.ID] = &cp
	return p, nil
}

func (r memProps) ListByOwner(_ context.Context, ownerID string) ([]models.Property, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	out := make([]models.Property, 0)
	for _, p := range r.m.props {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memProps) Get(_ context.Context, ownerID, id string) (*models.Property, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	p, ok := r.m.props[id]
	if !ok || p.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProps) Update(_ context.Context, p *models.Property) (*models.Property, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	cur, ok := r.m.props[p.ID]
	if !ok || cur.OwnerID != p.OwnerID {
		return nil, common.ErrorNotFound
	}
	p.CreatedAt = cur.CreatedAt
	cp := *p
	r.m.props[p.ID] = &cp
	return p, nil
}

func (r memProps) Delete(_ context.Context, ownerID, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return r.m.failWith
	}
	p, ok := r.m.props[id]
	if !ok || p.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.m.props, id)
	return nil
}
