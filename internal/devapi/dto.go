package devapi

// -------------------------
// Response envelopes
// -------------------------

type dataResponse struct {
	Data any `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Messages sent in {"error": ...} bodies
const (
	msgCustomerNotFound = "Customer not found"
	msgAddressNotFound  = "Address not found"
	msgDuplicatePhone   = "A customer with this phone number already exists"
	msgInvalidID        = "Invalid id"
	msgInvalidBody      = "Invalid request body"
	msgInternal         = "Internal server error"
)
