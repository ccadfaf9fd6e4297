package customer

import "time"

type Customer struct {
	CustomerID   int64     `db:"customer_id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	PhoneNumber  string    `db:"phone_number"`
	CreatedAt    time.Time `db:"created_at"`
	AddressCount int       `db:"address_count"`
}

// Filter narrows a customer listing. Empty strings match everything.
type Filter struct {
	Search string
	City   string
	Limit  int
	Offset int
}
