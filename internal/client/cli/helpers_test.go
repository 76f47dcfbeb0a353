package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/propman/internal/client/client"
	"github.com/dmitrijs2005/propman/internal/client/models"
	"github.com/dmitrijs2005/propman/internal/client/tokenstore"
)

// output collects everything printed through printlnFn.
type output struct {
	mu    sync.Mutex
	lines []string
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "\n")
}

func capturePrintln(t *testing.T) *output {
	t.Helper()
	out := &output{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out.mu.Lock()
		out.lines = append(out.lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		out.mu.Unlock()
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return out
}

// stubInputs feeds answers to getSimpleText in order and returns password for
// getPassword.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	var i int
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			t.Fatalf("unexpected prompt %q", prompt)
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAPI struct {
	MeRet models.UserProfile
	MeErr error

	LoginRet    *models.AuthResponse
	LoginErr    error
	RegisterRet *models.AuthResponse
	RegisterErr error

	ListRet   []models.Property
	ListErr   error
	CreateRet *models.Property
	CreateErr error

	lastEmail    string
	lastPassword string
	lastName     string
	created      []models.NewProperty
	listCalls    int
}

func (f *fakeAPI) Me(context.Context) (models.UserProfile, error) { return f.MeRet, f.MeErr }

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.AuthResponse, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Register(_ context.Context, name, email, password string) (*models.AuthResponse, error) {
	f.lastName, f.lastEmail, f.lastPassword = name, email, password
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAPI) ListProperties(context.Context) ([]models.Property, error) {
	f.listCalls++
	return f.ListRet, f.ListErr
}

func (f *fakeAPI) CreateProperty(_ context.Context, p models.NewProperty) (*models.Property, error) {
	f.created = append(f.created, p)
	return f.CreateRet, f.CreateErr
}

var _ client.Client = (*fakeAPI)(nil)

func newTestApp(api client.Client, store tokenstore.Store) *App {
	if store == nil {
		store = tokenstore.NewMemory()
	}
	return newApp(api, store, nil, strings.NewReader(""), &bytes.Buffer{})
}

// signedInApp returns an App whose session already holds a user and whose
// view is mounted.
func signedInApp(t *testing.T, api *fakeAPI) *App {
	t.Helper()
	api.LoginRet = &models.AuthResponse{Token: "tok", User: models.UserProfile{"id": "u1", "name": "Ann"}}
	a := newTestApp(api, nil)
	a.session.Start(context.Background())
	if err := a.session.Login(context.Background(), "ann@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	a.mountView(context.Background())
	return a
}
