package form

import (
	"context"
	"strings"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/models"
	"winsbygroup.com/crmweb/internal/validation"
)

type addressBinding struct {
	api        apiclient.AddressAPI
	customerID int64
}

// NewAddress creates an address form for a customer; id == 0 adds a new address
func NewAddress(api apiclient.AddressAPI, customerID, id int64) *Controller {
	return New(addressBinding{api: api, customerID: customerID}, id)
}

func (addressBinding) Fields() []string {
	return validation.AddressFields
}

func (addressBinding) Validate(draft map[string]string) validation.Errors {
	return validation.Address(draft)
}

func (addressBinding) Messages() Messages {
	return Messages{
		LoadFailed: "Failed to load address data",
		SaveFailed: "An error occurred while saving the address",
	}
}

func (b addressBinding) Load(ctx context.Context, id int64) (map[string]string, error) {
	addr, err := b.api.GetAddress(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		validation.AddressDetails: addr.AddressDetails,
		validation.City:           addr.City,
		validation.State:          addr.State,
		validation.PinCode:        addr.PinCode,
	}, nil
}

func (b addressBinding) Save(ctx context.Context, id int64, draft map[string]string) (int64, error) {
	in := models.AddressInput{
		AddressDetails: strings.TrimSpace(draft[validation.AddressDetails]),
		City:           strings.TrimSpace(draft[validation.City]),
		State:          strings.TrimSpace(draft[validation.State]),
		PinCode:        draft[validation.PinCode],
	}

	var (
		out *models.Address
		err error
	)
	if id != 0 {
		out, err = b.api.UpdateAddress(ctx, id, in)
	} else {
		out, err = b.api.CreateAddress(ctx, b.customerID, in)
	}
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}
