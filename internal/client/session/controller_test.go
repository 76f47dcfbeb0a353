package session

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/propman/internal/client/client"
	"github.com/dmitrijs2005/propman/internal/client/models"
	"github.com/dmitrijs2005/propman/internal/client/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements client.Client with canned responses.
type fakeAPI struct {
	mu sync.Mutex

	MeRet models.UserProfile
	MeErr error

	LoginRet *models.AuthResponse
	LoginErr error

	RegisterRet *models.AuthResponse
	RegisterErr error

	// beforeMeReturn runs inside Me, before it returns.
	beforeMeReturn func()

	meCalls       int
	loginCalls    int
	registerCalls int
}

func (f *fakeAPI) Me(ctx context.Context) (models.UserProfile, error) {
	f.mu.Lock()
	f.meCalls++
	hook := f.beforeMeReturn
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.MeRet, f.MeErr
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAPI) ListProperties(ctx context.Context) ([]models.Property, error) {
	return nil, nil
}

func (f *fakeAPI) CreateProperty(ctx context.Context, p models.NewProperty) (*models.Property, error) {
	return nil, nil
}

var _ client.Client = (*fakeAPI)(nil)

// failingStore is a tokenstore.Store whose writes fail.
type failingStore struct {
	tokenstore.Memory
	err error
}

func (s *failingStore) Set(context.Context, string) error { return s.err }
func (s *failingStore) Clear(context.Context) error       { return s.err }

func authResp(token, id string) *models.AuthResponse {
	return &models.AuthResponse{Token: token, User: models.UserProfile{"id": id, "email": id + "@example.com"}}
}

func storedToken(t *testing.T, s tokenstore.Store) string {
	t.Helper()
	tok, err := s.Get(context.Background())
	require.NoError(t, err)
	return tok
}

func TestNew_InitialState(t *testing.T) {
	c := New(&fakeAPI{}, tokenstore.NewMemory(), nil)
	st := c.State()
	assert.False(t, st.Ready)
	assert.Nil(t, st.User)
	assert.Equal(t, GateLoading, Guard(st))
}

func TestStart_NoTokenSkipsNetwork(t *testing.T) {
	api := &fakeAPI{}
	c := New(api, tokenstore.NewMemory(), nil)

	c.Start(context.Background())

	st := c.State()
	assert.True(t, st.Ready)
	assert.Nil(t, st.User)
	assert.Equal(t, 0, api.meCalls)
	select {
	case <-c.Ready():
	default:
		t.Fatal("Ready channel not closed")
	}
}

func TestStart_ValidTokenLoadsUser(t *testing.T) {
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), "good"))
	api := &fakeAPI{MeRet: models.UserProfile{"id": "u1", "name": "Ann"}}
	c := New(api, store, nil)

	c.Start(context.Background())

	st := c.State()
	assert.True(t, st.Ready)
	assert.Equal(t, "Ann", st.User.DisplayName())
	assert.Equal(t, "good", storedToken(t, store))
	assert.Equal(t, GateContent, Guard(st))
}

func TestStart_RejectedTokenIsCleared(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "401", err: &client.HTTPError{Status: http.StatusUnauthorized}},
		{name: "500", err: &client.HTTPError{Status: http.StatusInternalServerError}},
		{name: "network", err: client.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tokenstore.NewMemory()
			require.NoError(t, store.Set(context.Background(), "stale"))
			c := New(&fakeAPI{MeErr: tt.err}, store, nil)

			c.Start(context.Background())

			st := c.State()
			assert.True(t, st.Ready)
			assert.Nil(t, st.User)
			assert.Empty(t, storedToken(t, store))
			assert.Equal(t, GateLoginRequired, Guard(st))
		})
	}
}

func TestStart_RunsOnce(t *testing.T) {
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), "good"))
	api := &fakeAPI{MeRet: models.UserProfile{"id": "u1"}}
	c := New(api, store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Start(context.Background())
		}()
	}
	wg.Wait()
	c.Start(context.Background())

	assert.Equal(t, 1, api.meCalls)
}

func TestStart_LoginDuringResolutionWins(t *testing.T) {
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), "stale"))
	api := &fakeAPI{
		MeErr:    &client.HTTPError{Status: http.StatusUnauthorized},
		LoginRet: authResp("fresh", "u2"),
	}
	c := New(api, store, nil)
	api.beforeMeReturn = func() {
		require.NoError(t, c.Login(context.Background(), "u2@example.com", "pw"))
	}

	c.Start(context.Background())

	st := c.State()
	assert.True(t, st.Ready)
	assert.Equal(t, "u2", st.User["id"])
	assert.Equal(t, "fresh", storedToken(t, store))
}

func TestLogin_Success(t *testing.T) {
	store := tokenstore.NewMemory()
	c := New(&fakeAPI{LoginRet: authResp("t1", "u1")}, store, nil)
	c.Start(context.Background())

	require.NoError(t, c.Login(context.Background(), "u1@example.com", "pw"))

	assert.Equal(t, "t1", storedToken(t, store))
	assert.Equal(t, "u1", c.User()["id"])
	assert.Equal(t, GateContent, Guard(c.State()))
}

func TestLogin_401LeavesUserAbsent(t *testing.T) {
	store := tokenstore.NewMemory()
	httpErr := &client.HTTPError{Status: http.StatusUnauthorized, Payload: map[string]any{"detail": "Invalid credentials"}}
	c := New(&fakeAPI{LoginErr: httpErr}, store, nil)
	c.Start(context.Background())

	err := c.Login(context.Background(), "a@b.io", "bad")

	require.Error(t, err)
	assert.Same(t, httpErr, err)
	assert.Nil(t, c.User())
	assert.Empty(t, storedToken(t, store))
	assert.Equal(t, "Invalid email or password.", MsgLoginFailed)
}

func TestLogin_FailureKeepsPreviousSession(t *testing.T) {
	store := tokenstore.NewMemory()
	api := &fakeAPI{LoginRet: authResp("t1", "u1")}
	c := New(api, store, nil)
	require.NoError(t, c.Login(context.Background(), "u1@example.com", "pw"))

	api.LoginRet = nil
	api.LoginErr = client.ErrNetwork
	err := c.Login(context.Background(), "u2@example.com", "pw")

	require.ErrorIs(t, err, client.ErrNetwork)
	assert.Equal(t, "u1", c.User()["id"])
	assert.Equal(t, "t1", storedToken(t, store))
}

func TestLogin_TokenStoreFailureKeepsUserAbsent(t *testing.T) {
	storeErr := errors.New("disk full")
	c := New(&fakeAPI{LoginRet: authResp("t1", "u1")}, &failingStore{err: storeErr}, nil)

	err := c.Login(context.Background(), "u1@example.com", "pw")

	require.ErrorIs(t, err, storeErr)
	assert.Nil(t, c.User())
}

func TestRegister_MatchesLogin(t *testing.T) {
	resp := authResp("t9", "u9")

	regStore := tokenstore.NewMemory()
	reg := New(&fakeAPI{RegisterRet: resp}, regStore, nil)
	reg.Start(context.Background())
	require.NoError(t, reg.Register(context.Background(), "Nine", "u9@example.com", "pw"))

	loginStore := tokenstore.NewMemory()
	login := New(&fakeAPI{LoginRet: resp}, loginStore, nil)
	login.Start(context.Background())
	require.NoError(t, login.Login(context.Background(), "u9@example.com", "pw"))

	assert.Equal(t, login.State(), reg.State())
	assert.Equal(t, storedToken(t, loginStore), storedToken(t, regStore))
}

func TestRegister_FailurePropagates(t *testing.T) {
	httpErr := &client.HTTPError{Status: http.StatusBadRequest, Payload: map[string]any{"detail": "Email already registered"}}
	store := tokenstore.NewMemory()
	c := New(&fakeAPI{RegisterErr: httpErr}, store, nil)

	err := c.Register(context.Background(), "A", "a@b.io", "pw")

	assert.Same(t, httpErr, err)
	assert.Nil(t, c.User())
	assert.Empty(t, storedToken(t, store))
}

func TestLoginLogoutSequences(t *testing.T) {
	sequences := [][]string{
		{"login", "logout"},
		{"login", "login", "logout"},
		{"register", "logout"},
		{"login", "logout", "login", "logout"},
		{"logout"},
		{"register", "login", "logout", "logout"},
	}

	for _, seq := range sequences {
		store := tokenstore.NewMemory()
		api := &fakeAPI{LoginRet: authResp("tl", "ul"), RegisterRet: authResp("tr", "ur")}
		c := New(api, store, nil)
		c.Start(context.Background())

		for _, op := range seq {
			switch op {
			case "login":
				require.NoError(t, c.Login(context.Background(), "x@example.com", "pw"))
			case "register":
				require.NoError(t, c.Register(context.Background(), "X", "x@example.com", "pw"))
			case "logout":
				require.NoError(t, c.Logout(context.Background()))
			}
		}

		assert.Empty(t, storedToken(t, store), "sequence %v", seq)
		assert.Nil(t, c.User(), "sequence %v", seq)
	}
}

func TestLogout_StoreFailureStillClearsUser(t *testing.T) {
	storeErr := errors.New("locked")
	store := &failingStore{err: storeErr}
	c := New(&fakeAPI{}, store, nil)
	c.user = models.UserProfile{"id": "u1"}

	err := c.Logout(context.Background())

	require.ErrorIs(t, err, storeErr)
	assert.Nil(t, c.User())
}

// flakyStore is a Memory whose first clearFails calls to Clear fail.
type flakyStore struct {
	*tokenstore.Memory
	clearFails int
	err        error
}

func (s *flakyStore) Clear(ctx context.Context) error {
	if s.clearFails > 0 {
		s.clearFails--
		return s.err
	}
	return s.Memory.Clear(ctx)
}

func TestLogout_StoreFailureReportsTokenNotCleared(t *testing.T) {
	storeErr := errors.New("locked")
	store := &flakyStore{Memory: tokenstore.NewMemory(), clearFails: 1, err: storeErr}
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tok"))
	c := New(&fakeAPI{}, store, nil)

	err := c.Logout(ctx)

	require.ErrorIs(t, err, ErrTokenNotCleared)
	require.ErrorIs(t, err, storeErr)
	assert.Equal(t, "tok", storedToken(t, store))

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, storedToken(t, store))
}

func TestStart_RetriesClearLeftByFailedLogout(t *testing.T) {
	store := &flakyStore{Memory: tokenstore.NewMemory(), clearFails: 1, err: errors.New("locked")}
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tok"))
	api := &fakeAPI{MeRet: models.UserProfile{"id": "u1"}}
	c := New(api, store, nil)
	require.Error(t, c.Logout(ctx))

	c.Start(ctx)

	assert.Zero(t, api.meCalls)
	assert.Nil(t, c.User())
	assert.Empty(t, storedToken(t, store))
}

func TestStart_NeverResumesTokenLeftByFailedLogout(t *testing.T) {
	store := &flakyStore{Memory: tokenstore.NewMemory(), clearFails: 2, err: errors.New("locked")}
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tok"))
	api := &fakeAPI{MeRet: models.UserProfile{"id": "u1"}}
	c := New(api, store, nil)
	require.Error(t, c.Logout(ctx))

	c.Start(ctx)

	assert.Zero(t, api.meCalls)
	assert.Nil(t, c.User())
	assert.True(t, c.State().Ready)
}

func TestSession_SurvivesRestartWithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")

	first, err := tokenstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	c1 := New(&fakeAPI{LoginRet: authResp("persisted", "u1")}, first, nil)
	c1.Start(ctx)
	require.NoError(t, c1.Login(ctx, "u1@example.com", "pw"))
	require.NoError(t, first.Close())

	second, err := tokenstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	api := &fakeAPI{MeRet: models.UserProfile{"id": "u1"}}
	c2 := New(api, second, nil)
	c2.Start(ctx)

	assert.Equal(t, 1, api.meCalls)
	assert.Equal(t, "u1", c2.User()["id"])
}
