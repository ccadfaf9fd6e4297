package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]Address, error)
	Get(ctx context.Context, id int64) (*Address, error)
	Create(ctx context.Context, tx *sqlx.Tx, a *Address) (int64, error)
	Update(ctx context.Context, tx *sqlx.Tx, a *Address) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) ListByCustomer(ctx context.Context, customerID int64) ([]Address, error) {
	out := []Address{}
	err := r.db.SelectContext(ctx, &out, listAddressesSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*Address, error) {
	var a Address
	err := r.db.GetContext(ctx, &a, getAddressSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, a *Address) (int64, error) {
	res, err := tx.ExecContext(ctx, createAddressSQL,
		a.CustomerID,
		a.AddressDetails,
		a.City,
		a.State,
		a.PinCode,
	)
	if err != nil {
		return 0, fmt.Errorf("create address: %w", err)
	}
	return res.LastInsertId()
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, a *Address) error {
	res, err := tx.ExecContext(ctx, updateAddressSQL,
		a.AddressDetails,
		a.City,
		a.State,
		a.PinCode,
		a.AddressID,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return requireRow(res, a.AddressID)
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, deleteAddressSQL, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return requireRow(res, id)
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
