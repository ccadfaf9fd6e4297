package form

import (
	"context"
	"strings"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/models"
	"winsbygroup.com/crmweb/internal/validation"
)

type customerBinding struct {
	api apiclient.CustomerAPI
}

// NewCustomer creates a customer form; id == 0 creates a new customer
func NewCustomer(api apiclient.CustomerAPI, id int64) *Controller {
	return New(customerBinding{api: api}, id)
}

func (customerBinding) Fields() []string {
	return validation.CustomerFields
}

func (customerBinding) Validate(draft map[string]string) validation.Errors {
	return validation.Customer(draft)
}

func (customerBinding) Messages() Messages {
	return Messages{
		LoadFailed: "Failed to load customer data",
		SaveFailed: "An error occurred while saving the customer",
	}
}

func (b customerBinding) Load(ctx context.Context, id int64) (map[string]string, error) {
	cust, err := b.api.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		validation.FirstName:   cust.FirstName,
		validation.LastName:    cust.LastName,
		validation.PhoneNumber: cust.PhoneNumber,
	}, nil
}

// Save stores the phone number as its 10 digits, whatever formatting was typed
func (b customerBinding) Save(ctx context.Context, id int64, draft map[string]string) (int64, error) {
	in := models.CustomerInput{
		FirstName:   strings.TrimSpace(draft[validation.FirstName]),
		LastName:    strings.TrimSpace(draft[validation.LastName]),
		PhoneNumber: validation.Digits(draft[validation.PhoneNumber]),
	}

	var (
		out *models.Customer
		err error
	)
	if id != 0 {
		out, err = b.api.UpdateCustomer(ctx, id, in)
	} else {
		out, err = b.api.CreateCustomer(ctx, in)
	}
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}
