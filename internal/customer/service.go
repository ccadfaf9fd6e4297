package customer

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:   db,
		repo: New(db),
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// List returns one page of matching customers and the total number of matches.
func (s *Service) List(ctx context.Context, f Filter) ([]Customer, int, error) {
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c *Customer) (*Customer, error) {
	var id int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.repo.Create(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Customer) (*Customer, error) {
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Update(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, c.CustomerID)
}

// Delete removes the customer; its addresses go with it (ON DELETE CASCADE).
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
