package properties

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/propman/internal/client/client"
	"github.com/dmitrijs2005/propman/internal/client/models"
	"github.com/dmitrijs2005/propman/internal/logging"
)

// User-facing messages.
const (
	MsgLoadFailed = "Failed to load properties."
	MsgAddFailed  = "Could not add property."
)

// ErrStale is returned by Fetch.Wait and Submit when the view moved on before
// the response arrived, so the result was not applied.
var ErrStale = errors.New("stale response discarded")

// Snapshot is a consistent copy of the view state for rendering.
type Snapshot struct {
	// Items is the filtered list in server order.
	Items   []models.Property
	Total   int
	Query   string
	Loading bool
	LoadErr string
	AddErr  string
	Form    Form
	Mounted bool
}

type View struct {
	api    client.Client
	logger logging.Logger

	mu         sync.Mutex
	generation uint64
	// teardowns counts Unmount calls. A submit started under one count is
	// dropped if it completes under another.
	teardowns uint64
	mounted   bool
	current    *Fetch

	items   []models.Property
	query   string
	loading bool
	loadErr string
	addErr  string
	form    Form
}

func NewView(api client.Client, logger logging.Logger) *View {
	if logger == nil {
		logger = logging.Nop()
	}
	return &View{
		api:    api,
		logger: logger.With("module", "properties_view"),
		items:  []models.Property{},
		form:   DefaultForm(),
	}
}

// Fetch is the handle for one in-flight list request.
type Fetch struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Cancel aborts the request. A canceled fetch never touches the view.
func (f *Fetch) Cancel() {
	f.cancel()
}

// Done is closed when the fetch has finished and its result was either
// applied or discarded.
func (f *Fetch) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the fetch finishes. It returns nil when the list was
// applied, the request error when the failure was applied, and ErrStale when
// the result was discarded.
func (f *Fetch) Wait() error {
	<-f.done
	return f.err
}

// Mount marks the view live and starts loading the list. Any fetch still in
// flight from an earlier Mount is canceled and its result discarded.
func (v *View) Mount(ctx context.Context) *Fetch {
	fctx, cancel := context.WithCancel(ctx)

	v.mu.Lock()
	v.generation++
	if v.current != nil {
		v.current.cancel()
	}
	f := &Fetch{gen: v.generation, cancel: cancel, done: make(chan struct{})}
	v.current = f
	v.mounted = true
	v.loading = true
	v.mu.Unlock()

	go v.run(fctx, f)
	return f
}

// Reload is Mount for a view that is already live.
func (v *View) Reload(ctx context.Context) *Fetch {
	return v.Mount(ctx)
}

func (v *View) run(ctx context.Context, f *Fetch) {
	defer close(f.done)
	defer f.cancel()

	items, err := v.api.ListProperties(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if f.gen != v.generation || ctx.Err() != nil {
		v.logger.Debug(ctx, "discarding stale list response", "generation", f.gen)
		if v.current == f {
			v.current = nil
			v.loading = false
		}
		f.err = ErrStale
		return
	}

	v.loading = false
	v.current = nil
	if err != nil {
		v.logger.Warn(ctx, "load properties", "error", err)
		v.items = []models.Property{}
		v.loadErr = MsgLoadFailed
		f.err = err
		return
	}
	if items == nil {
		items = []models.Property{}
	}
	v.items = items
	v.loadErr = ""
}

// Unmount tears the view down and drops its state. In-flight fetches are
// canceled and anything that resolves afterwards is ignored.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.generation++
	v.teardowns++
	v.mounted = false
	v.loading = false
	if v.current != nil {
		v.current.cancel()
		v.current = nil
	}
	v.items = []models.Property{}
	v.query = ""
	v.loadErr = ""
	v.addErr = ""
	v.form = DefaultForm()
}

// SetQuery updates the search string. It never hits the network.
func (v *View) SetQuery(q string) {
	v.mu.Lock()
	v.query = q
	v.mu.Unlock()
}

// Filtered returns the list narrowed by the current query.
func (v *View) Filtered() []models.Property {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneProps(Filter(v.items, v.query))
}

// Items returns the full fetched list.
func (v *View) Items() []models.Property {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneProps(v.items)
}

func (v *View) Form() Form {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// SetForm replaces the draft.
func (v *View) SetForm(f Form) {
	v.mu.Lock()
	v.form = f
	v.mu.Unlock()
}

// Submit posts the current draft. On success the server's record is put at
// the front of the list and the form is reset. On failure the draft is left
// as it was and AddErr is set. If the view was unmounted while the request
// was in flight, nothing is applied and ErrStale is returned, even when the
// view has been mounted again since.
func (v *View) Submit(ctx context.Context) (*models.Property, error) {
	v.mu.Lock()
	form := v.form
	teardowns := v.teardowns
	v.mu.Unlock()

	if err := form.Validate(); err != nil {
		v.setAddErr(MsgAddFailed)
		return nil, err
	}

	created, err := v.api.CreateProperty(ctx, form.Payload())

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.torndown() || teardowns != v.teardowns {
		v.logger.Debug(ctx, "view unmounted during submit, not applying", "error", err)
		if err != nil {
			return nil, errors.Join(ErrStale, err)
		}
		return created, ErrStale
	}
	if err != nil {
		v.logger.Warn(ctx, "create property", "error", err)
		v.addErr = MsgAddFailed
		return nil, err
	}

	items := make([]models.Property, 0, len(v.items)+1)
	items = append(items, *created)
	v.items = append(items, v.items...)
	v.form = DefaultForm()
	v.addErr = ""
	return created, nil
}

// torndown reports whether Unmount ran after the view was mounted.
// Callers hold v.mu.
func (v *View) torndown() bool {
	return !v.mounted && v.generation > 0
}

func (v *View) setAddErr(msg string) {
	v.mu.Lock()
	v.addErr = msg
	v.mu.Unlock()
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		Items:   cloneProps(Filter(v.items, v.query)),
		Total:   len(v.items),
		Query:   v.query,
		Loading: v.loading,
		LoadErr: v.loadErr,
		AddErr:  v.addErr,
		Form:    v.form,
		Mounted: v.mounted,
	}
}

func cloneProps(in []models.Property) []models.Property {
	out := make([]models.Property, len(in))
	copy(out, in)
	return out
}
