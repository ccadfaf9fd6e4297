package devapi

import "errors"

// InvalidError carries server-side validation failures. Message is the first
// failing field's message in form order.
type InvalidError struct {
	Message string
	Fields  map[string]string
}

func (e *InvalidError) Error() string {
	return e.Message
}

func newInvalid(order []string, errs map[string]string) error {
	for _, f := range order {
		if msg, ok := errs[f]; ok {
			return &InvalidError{Message: msg, Fields: errs}
		}
	}
	return nil
}

var errDuplicatePhone = errors.New("duplicate phone number")
