package customer_test

import (
	"context"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/crmweb/internal/customer"
	"winsbygroup.com/crmweb/internal/sqlite"
	"winsbygroup.com/crmweb/internal/testutil"
)

func TestCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	svc := customer.NewService(db)

	// Create
	created, err := svc.Create(ctx, &customer.Customer{
		FirstName:   "Asha",
		LastName:    "Rao",
		PhoneNumber: "9876543210",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CustomerID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	// Get
	got, err := svc.Get(ctx, created.CustomerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FirstName != "Asha" || got.LastName != "Rao" {
		t.Errorf("unexpected name %q %q", got.FirstName, got.LastName)
	}

	// Update
	got.LastName = "Iyer"
	updated, err := svc.Update(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.LastName != "Iyer" {
		t.Errorf("expected updated last name %q, got %q", "Iyer", updated.LastName)
	}

	// Delete
	if err := svc.Delete(ctx, updated.CustomerID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.Get(ctx, updated.CustomerID)
	if !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound getting deleted customer, got %v", err)
	}
}

func TestCustomerMissingRows(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	if _, err := svc.Update(ctx, &customer.Customer{CustomerID: 42, FirstName: "A", LastName: "B", PhoneNumber: "1234567890"}); !errors.Is(err, customer.ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 42); !errors.Is(err, customer.ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}
	exists, err := svc.Exists(ctx, 42)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("expected customer 42 not to exist")
	}
}

func TestCustomerDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	svc := customer.NewService(db)

	_, err := svc.Create(ctx, &customer.Customer{FirstName: "Asha", LastName: "Rao", PhoneNumber: "9876543210"})
	if err != nil {
		t.Fatalf("create first customer: %v", err)
	}

	_, err = svc.Create(ctx, &customer.Customer{FirstName: "Ravi", LastName: "Kumar", PhoneNumber: "9876543210"})
	if err == nil {
		t.Fatal("expected error for duplicate phone number, got none")
	}
	if !sqlite.IsUniqueConstraintError(err) {
		t.Errorf("expected unique constraint error, got: %v", err)
	}
}

func TestCustomerList(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	if _, err := db.Exec(`
		INSERT INTO customer (customer_id, first_name, last_name, phone_number) VALUES
			(1, 'Asha', 'Rao', '9876543210'),
			(2, 'Ravi', 'Kumar', '9123456780'),
			(3, 'Meera', 'Nair', '9000000001'),
			(4, 'Kiran', 'Rao_', '9000000002');

		INSERT INTO address (customer_id, address_details, city, state, pin_code) VALUES
			(1, '12 MG Road', 'Bengaluru', 'Karnataka', '560001'),
			(1, '4 Park St', 'Kolkata', 'West Bengal', '700016'),
			(3, '9 Marine Dr', 'Mumbai', 'Maharashtra', '400002');
	`); err != nil {
		t.Fatalf("insert test data: %v", err)
	}

	svc := customer.NewService(db)

	ids := func(cs []customer.Customer) []int64 {
		out := make([]int64, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.CustomerID)
		}
		return out
	}

	tests := []struct {
		name      string
		filter    customer.Filter
		wantIDs   []int64
		wantTotal int
	}{
		{"newest first", customer.Filter{Limit: 10}, []int64{4, 3, 2, 1}, 4},
		{"paged", customer.Filter{Limit: 2, Offset: 2}, []int64{2, 1}, 4},
		{"search last name case-insensitive", customer.Filter{Search: "RAO", Limit: 10}, []int64{4, 1}, 2},
		{"search phone", customer.Filter{Search: "91234", Limit: 10}, []int64{2}, 1},
		{"like wildcards are literal", customer.Filter{Search: "rao_", Limit: 10}, []int64{4}, 1},
		{"city substring", customer.Filter{City: "kol", Limit: 10}, []int64{1}, 1},
		{"search and city", customer.Filter{Search: "meera", City: "mum", Limit: 10}, []int64{3}, 1},
		{"no match", customer.Filter{City: "Delhi", Limit: 10}, []int64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if total != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, total)
			}
			got := ids(items)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected ids %v, got %v", tt.wantIDs, got)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Fatalf("expected ids %v, got %v", tt.wantIDs, got)
				}
			}
		})
	}

	t.Run("address count", func(t *testing.T) {
		c, err := svc.Get(ctx, 1)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if c.AddressCount != 2 {
			t.Errorf("expected address count 2, got %d", c.AddressCount)
		}
	})
}
