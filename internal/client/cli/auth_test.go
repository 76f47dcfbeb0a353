package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/propman/internal/client/client"
	"github.com/dmitrijs2005/propman/internal/client/models"
	"github.com/dmitrijs2005/propman/internal/client/session"
	"github.com/dmitrijs2005/propman/internal/client/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	out := capturePrintln(t)
	stubInputs(t, "secret", "ann@example.com")

	api := &fakeAPI{
		LoginRet: &models.AuthResponse{Token: "tok", User: models.UserProfile{"id": "u1", "name": "Ann"}},
		ListRet:  []models.Property{{ID: "p1", Title: "Flat A"}},
	}
	store := tokenstore.NewMemory()
	a := newTestApp(api, store)
	a.session.Start(context.Background())

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, "ann@example.com", api.lastEmail)
	assert.Equal(t, "secret", api.lastPassword)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "Ann", a.getStatus())
	assert.Equal(t, 1, api.listCalls)
	assert.Contains(t, out.String(), "Signed in as Ann")

	tok, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestLogin_401ShowsGenericMessage(t *testing.T) {
	out := capturePrintln(t)
	stubInputs(t, "bad", "ann@example.com")

	api := &fakeAPI{LoginErr: &client.HTTPError{Status: http.StatusUnauthorized}}
	a := newTestApp(api, nil)
	a.session.Start(context.Background())

	err := a.Login(context.Background())

	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Invalid email or password.")
	assert.Equal(t, 0, api.listCalls)
}

func TestLogin_NetworkFailureSameMessage(t *testing.T) {
	out := capturePrintln(t)
	stubInputs(t, "pw", "ann@example.com")

	a := newTestApp(&fakeAPI{LoginErr: client.ErrNetwork}, nil)

	require.Error(t, a.Login(context.Background()))
	assert.Contains(t, out.String(), "Invalid email or password.")
}

func TestLogin_InputErrorStops(t *testing.T) {
	capturePrintln(t)
	boom := errors.New("tty gone")
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return "", boom }
	t.Cleanup(func() { getSimpleText = orig })

	api := &fakeAPI{}
	a := newTestApp(api, nil)

	require.ErrorIs(t, a.Login(context.Background()), boom)
	assert.Empty(t, api.lastEmail)
}

func TestRegister_SignsIn(t *testing.T) {
	capturePrintln(t)
	stubInputs(t, "secret", "Ann", "ann@example.com")

	api := &fakeAPI{RegisterRet: &models.AuthResponse{Token: "t2", User: models.UserProfile{"id": "u2", "email": "ann@example.com"}}}
	a := newTestApp(api, nil)
	a.session.Start(context.Background())

	require.NoError(t, a.Register(context.Background()))

	assert.Equal(t, "Ann", api.lastName)
	assert.Equal(t, "ann@example.com", api.lastEmail)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "ann@example.com", a.getStatus())
}

func TestRegister_FailureMessage(t *testing.T) {
	out := capturePrintln(t)
	stubInputs(t, "secret", "Ann", "taken@example.com")

	api := &fakeAPI{RegisterErr: &client.HTTPError{Status: 400, Payload: map[string]any{"detail": "Email already registered"}}}
	a := newTestApp(api, nil)

	require.Error(t, a.Register(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Registration failed. Try a different email.")
}

func TestLogout(t *testing.T) {
	out := capturePrintln(t)
	api := &fakeAPI{ListRet: []models.Property{{ID: "p1"}}}
	a := signedInApp(t, api)

	require.NoError(t, a.Logout(context.Background()))

	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "guest", a.getStatus())
	assert.Empty(t, a.view.Items())
	assert.Contains(t, out.String(), "Logged out.")
}

// clearFailStore is a Memory whose Clear always fails.
type clearFailStore struct {
	*tokenstore.Memory
}

func (clearFailStore) Clear(context.Context) error { return errors.New("disk full") }

func TestLogout_TokenNotClearedIsReported(t *testing.T) {
	out := capturePrintln(t)
	api := &fakeAPI{LoginRet: &models.AuthResponse{Token: "tok", User: models.UserProfile{"id": "u1"}}}
	a := newTestApp(api, clearFailStore{tokenstore.NewMemory()})
	a.session.Start(context.Background())
	require.NoError(t, a.session.Login(context.Background(), "ann@example.com", "pw"))

	err := a.Logout(context.Background())

	require.ErrorIs(t, err, session.ErrTokenNotCleared)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), session.MsgTokenNotCleared)
	assert.NotContains(t, out.lines, "Logged out.")
}

func TestWhoami(t *testing.T) {
	out := capturePrintln(t)
	a := signedInApp(t, &fakeAPI{})

	require.NoError(t, a.Whoami(context.Background()))
	assert.Contains(t, out.String(), "Ann (id=u1)")
}
