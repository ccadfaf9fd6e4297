// Package listing holds the fetch, filter, pagination and delete state of a list view.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"winsbygroup.com/crmweb/internal/models"
)

// ErrNotListed is returned by Delete when the id is not among the current items
var ErrNotListed = errors.New("item is not in the current list")

// Query is the key a list is fetched by
type Query struct {
	Page   int
	Search string
	City   string
}

// Fetched is what a Source returns for one Query.
// Pagination is nil for lists the API does not page.
type Fetched[T any] struct {
	Items      []T
	Pagination *models.Pagination
}

// Messages are the list-level errors shown when the API fails
type Messages struct {
	FetchFailed  string
	DeleteFailed string
}

// Source adapts the controller to one kind of entity
type Source[T any] interface {
	Fetch(ctx context.Context, q Query) (Fetched[T], error)
	Delete(ctx context.Context, id int64) error
	ID(item T) int64
	ConfirmMessage(item T) string
	Messages() Messages
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool {
	return f(message)
}

// Update reports what happened to a fetch
type Update struct {
	Stale bool  // a newer fetch was issued first; the result was dropped
	Err   error // the fetch failed; the previous items are kept
}

// DeleteOutcome is the result of Delete
type DeleteOutcome int

const (
	Deleted DeleteOutcome = iota + 1
	Aborted               // the user declined the confirmation
	DeleteFailed
)

// Pager describes the pagination bar for the server-provided page
type Pager struct {
	Page       int
	Total      int
	TotalPages int
}

// HasPrev reports whether "Previous" is enabled
func (p Pager) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether "Next" is enabled
func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages
}

// Visible reports whether the bar is shown at all
func (p Pager) Visible() bool {
	return p.TotalPages > 1
}

// PrevPage returns the page "Previous" goes to
func (p Pager) PrevPage() int {
	return p.Page - 1
}

// NextPage returns the page "Next" goes to
func (p Pager) NextPage() int {
	return p.Page + 1
}

// View is a copy of the list state for rendering
type View[T any] struct {
	Items   []T
	Query   Query
	Pager   Pager
	Paged   bool
	Loading bool
	Loaded  bool
	Error   string
}

// Empty reports whether a completed fetch returned nothing
func (v View[T]) Empty() bool {
	return v.Loaded && len(v.Items) == 0
}

// Controller owns the state of one mounted list. Safe for concurrent use.
//
// Every fetch is stamped with a sequence number when issued; its result is
// applied only if no newer fetch was issued in the meantime.
type Controller[T any] struct {
	src Source[T]

	mu         sync.Mutex
	query      Query
	seq        uint64
	items      []T
	pagination *models.Pagination
	loading    bool
	loaded     bool
	err        string
}

// New creates a controller starting at page 1 with no filters
func New[T any](src Source[T]) *Controller[T] {
	return &Controller[T]{
		src:   src,
		query: Query{Page: 1},
	}
}

// Refresh refetches the current page at the current filters
func (c *Controller[T]) Refresh(ctx context.Context) Update {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	return c.fetch(ctx, q)
}

// Apply moves the list to q. A change of search or city resets the page to 1;
// otherwise q.Page is used with the filters unchanged.
func (c *Controller[T]) Apply(ctx context.Context, q Query) Update {
	c.mu.Lock()
	next := c.query
	if q.Search != next.Search || q.City != next.City {
		next = Query{Page: 1, Search: q.Search, City: q.City}
	} else if q.Page >= 1 {
		next.Page = q.Page
	}
	c.mu.Unlock()
	return c.fetch(ctx, next)
}

// SetSearch changes the search term and returns to page 1
func (c *Controller[T]) SetSearch(ctx context.Context, search string) Update {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	q.Search = search
	return c.Apply(ctx, q)
}

// SetCity changes the city filter and returns to page 1
func (c *Controller[T]) SetCity(ctx context.Context, city string) Update {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	q.City = city
	return c.Apply(ctx, q)
}

// SetPage moves to page with the filters unchanged
func (c *Controller[T]) SetPage(ctx context.Context, page int) Update {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	q.Page = page
	return c.Apply(ctx, q)
}

func (c *Controller[T]) fetch(ctx context.Context, q Query) Update {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.query = q
	c.loading = true
	c.mu.Unlock()

	res, err := c.src.Fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return Update{Stale: true, Err: err}
	}

	c.loading = false
	if err != nil {
		c.err = c.src.Messages().FetchFailed
		return Update{Err: err}
	}

	c.items = res.Items
	c.pagination = res.Pagination
	c.loaded = true
	c.err = ""
	return Update{}
}

// Delete asks for confirmation, deletes the item and refetches the current page.
// A declined confirmation is not an error. The page number is left as is even
// when the deleted row was the last one on its page.
func (c *Controller[T]) Delete(ctx context.Context, id int64, confirm Confirmer) (DeleteOutcome, error) {
	c.mu.Lock()
	var (
		item  T
		found bool
	)
	for _, it := range c.items {
		if c.src.ID(it) == id {
			item, found = it, true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return DeleteFailed, ErrNotListed
	}

	if !confirm.Confirm(c.src.ConfirmMessage(item)) {
		return Aborted, nil
	}

	if err := c.src.Delete(ctx, id); err != nil {
		c.mu.Lock()
		c.err = c.src.Messages().DeleteFailed
		c.mu.Unlock()
		return DeleteFailed, err
	}

	// The row is gone even when the refetch fails; report the refetch error
	// with the Deleted outcome.
	if u := c.Refresh(ctx); u.Err != nil {
		return Deleted, fmt.Errorf("refetch after delete: %w", u.Err)
	}
	return Deleted, nil
}

// Has reports whether id is among the currently listed items
func (c *Controller[T]) Has(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if c.src.ID(it) == id {
			return true
		}
	}
	return false
}

// ConfirmMessage returns the confirmation text Delete would ask for id
func (c *Controller[T]) ConfirmMessage(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if c.src.ID(it) == id {
			return c.src.ConfirmMessage(it)
		}
	}
	return ""
}

// Snapshot returns a copy of the current state
func (c *Controller[T]) Snapshot() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View[T]{
		Items:   append([]T(nil), c.items...),
		Query:   c.query,
		Loading: c.loading,
		Loaded:  c.loaded,
		Error:   c.err,
	}
	if c.pagination != nil {
		v.Paged = true
		v.Pager = Pager{
			Page:       c.pagination.Page,
			Total:      c.pagination.Total,
			TotalPages: c.pagination.TotalPages,
		}
	}
	return v
}
