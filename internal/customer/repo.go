package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("customer not found")

type Repository interface {
	List(ctx context.Context, f Filter) ([]Customer, error)
	Count(ctx context.Context, f Filter) (int, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, tx *sqlx.Tx, c *Customer) (int64, error)
	Update(ctx context.Context, tx *sqlx.Tx, c *Customer) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) List(ctx context.Context, f Filter) ([]Customer, error) {
	out := []Customer{}
	args := append(filterArgs(f), f.Limit, f.Offset)
	err := r.db.SelectContext(ctx, &out, listCustomersSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (r *repo) Count(ctx context.Context, f Filter) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, countCustomersSQL, filterArgs(f)...)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, getCustomerSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, c *Customer) (int64, error) {
	res, err := tx.ExecContext(ctx, createCustomerSQL,
		c.FirstName,
		c.LastName,
		c.PhoneNumber,
	)
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return res.LastInsertId()
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, c *Customer) error {
	res, err := tx.ExecContext(ctx, updateCustomerSQL,
		c.FirstName,
		c.LastName,
		c.PhoneNumber,
		c.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return requireRow(res, c.CustomerID)
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, deleteCustomerSQL, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireRow(res, id)
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, customerExistsSQL, id)
	if err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return exists, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	return nil
}

func filterArgs(f Filter) []any {
	search := strings.TrimSpace(f.Search)
	city := strings.TrimSpace(f.City)
	sp := likePattern(search)
	return []any{search, sp, sp, sp, city, likePattern(city)}
}

// likePattern builds a substring LIKE pattern with \ as the escape character.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
