package address

type Address struct {
	AddressID      int64  `db:"address_id"`
	CustomerID     int64  `db:"customer_id"`
	AddressDetails string `db:"address_details"`
	City           string `db:"city"`
	State          string `db:"state"`
	PinCode        string `db:"pin_code"`
}
