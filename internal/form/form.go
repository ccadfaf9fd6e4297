// Package form holds the draft, error and submit lifecycle shared by the customer and address forms.
package form

import (
	"context"
	"sync"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/validation"
)

// State is the lifecycle position of a form
type State int

const (
	StateIdle State = iota
	StateLoading
	StateEditable
	StateSubmitting
	StateInvalid
	StateSucceeded
	StateBroken // initial fetch failed; the form cannot be used
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateEditable:
		return "editable"
	case StateSubmitting:
		return "submitting"
	case StateInvalid:
		return "invalid"
	case StateSucceeded:
		return "succeeded"
	case StateBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// Outcome is what a submit or cancel resolved to
type Outcome int

const (
	Succeeded Outcome = iota + 1
	Cancelled
	Invalid  // local validation failed, nothing was sent
	Failed   // the API rejected the save or could not be reached
	Rejected // the form was not in a submittable state
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Cancelled:
		return "cancelled"
	case Invalid:
		return "invalid"
	case Failed:
		return "failed"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is returned from Submit and Cancel; the caller decides where to go next
type Result struct {
	Outcome Outcome
	ID      int64 // id of the saved entity on success, or of the edited entity
	Err     error // set when Outcome is Failed
}

// Binding adapts the controller to one kind of entity
type Binding interface {
	Fields() []string
	Validate(draft map[string]string) validation.Errors
	Load(ctx context.Context, id int64) (map[string]string, error)
	Save(ctx context.Context, id int64, draft map[string]string) (int64, error)
	Messages() Messages
}

// Messages are the general errors shown when the API fails
type Messages struct {
	LoadFailed string
	SaveFailed string
}

// Snapshot is a copy of the form state for rendering
type Snapshot struct {
	ID       int64
	State    State
	Draft    map[string]string
	Errors   validation.Errors
	General  string
	NotFound bool
}

// Editing reports whether the form edits an existing entity
func (s Snapshot) Editing() bool {
	return s.ID != 0
}

// Busy reports whether a save is in flight
func (s Snapshot) Busy() bool {
	return s.State == StateSubmitting
}

// Controller owns the draft of one mounted form. Safe for concurrent use.
type Controller struct {
	binding Binding

	mu       sync.Mutex
	id       int64
	state    State
	draft    map[string]string
	errors   validation.Errors
	general  string
	notFound bool
}

// New creates a controller. id == 0 means create mode and the form is immediately
// editable; otherwise the form starts loading and Load must be called.
func New(b Binding, id int64) *Controller {
	c := &Controller{
		binding: b,
		id:      id,
		state:   StateEditable,
		draft:   make(map[string]string, len(b.Fields())),
		errors:  validation.Errors{},
	}
	for _, f := range b.Fields() {
		c.draft[f] = ""
	}
	if id != 0 {
		c.state = StateLoading
	}
	return c
}

// Load fetches the entity being edited and fills the draft from it.
// It is a no-op in create mode.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateLoading {
		c.mu.Unlock()
		return nil
	}
	id := c.id
	c.mu.Unlock()

	values, err := c.binding.Load(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateBroken
		c.notFound = apiclient.IsNotFound(err)
		c.general = c.binding.Messages().LoadFailed
		return err
	}

	for _, f := range c.binding.Fields() {
		c.draft[f] = values[f]
	}
	c.state = StateEditable
	return nil
}

func (c *Controller) hasField(name string) bool {
	for _, f := range c.binding.Fields() {
		if f == name {
			return true
		}
	}
	return false
}

// SetField records a user edit and clears that field's stale error.
// The general error is left alone. It returns false when the field is unknown
// or the form is not accepting edits.
func (c *Controller) SetField(name, value string) bool {
	if !c.hasField(name) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateEditable, StateInvalid:
	default:
		return false
	}

	c.draft[name] = value
	delete(c.errors, name)
	return true
}

// SetFields applies several edits at once, as when a whole form is posted
func (c *Controller) SetFields(values map[string]string) {
	for name, value := range values {
		c.SetField(name, value)
	}
}

// Submit validates the draft and, if it is clean, creates or updates the entity
func (c *Controller) Submit(ctx context.Context) Result {
	c.mu.Lock()
	switch c.state {
	case StateEditable, StateInvalid:
	default:
		c.mu.Unlock()
		return Result{Outcome: Rejected, ID: c.id}
	}

	if errs := c.binding.Validate(c.draft); !errs.OK() {
		c.errors = errs
		c.general = ""
		c.state = StateInvalid
		c.mu.Unlock()
		return Result{Outcome: Invalid, ID: c.id}
	}

	c.errors = validation.Errors{}
	c.general = ""
	c.state = StateSubmitting
	id := c.id
	draft := copyDraft(c.draft)
	c.mu.Unlock()

	savedID, err := c.binding.Save(ctx, id, draft)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if msg := apiclient.ServerMessage(err); msg != "" {
			c.general = msg
		} else {
			c.general = c.binding.Messages().SaveFailed
		}
		c.state = StateInvalid
		return Result{Outcome: Failed, ID: id, Err: err}
	}

	c.state = StateSucceeded
	if savedID == 0 {
		savedID = id
	}
	return Result{Outcome: Succeeded, ID: savedID}
}

// Cancel abandons the draft
func (c *Controller) Cancel() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Result{Outcome: Cancelled, ID: c.id}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(validation.Errors, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	return Snapshot{
		ID:       c.id,
		State:    c.state,
		Draft:    copyDraft(c.draft),
		Errors:   errs,
		General:  c.general,
		NotFound: c.notFound,
	}
}

func copyDraft(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
