package listing

import (
	"context"
	"fmt"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/models"
)

type addressSource struct {
	api        apiclient.AddressAPI
	customerID int64
}

// NewAddresses creates the address list of one customer. The API does not
// page or filter addresses, so the query is ignored.
func NewAddresses(api apiclient.AddressAPI, customerID int64) *Controller[models.Address] {
	return New[models.Address](addressSource{api: api, customerID: customerID})
}

func (s addressSource) Fetch(ctx context.Context, _ Query) (Fetched[models.Address], error) {
	addrs, err := s.api.ListAddresses(ctx, s.customerID)
	if err != nil {
		return Fetched[models.Address]{}, err
	}
	return Fetched[models.Address]{Items: addrs}, nil
}

func (s addressSource) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteAddress(ctx, id)
}

func (addressSource) ID(a models.Address) int64 {
	return a.ID
}

func (addressSource) ConfirmMessage(a models.Address) string {
	return AddressConfirmMessage(a)
}

// AddressConfirmMessage is the question asked before deleting a
func AddressConfirmMessage(a models.Address) string {
	return fmt.Sprintf("Are you sure you want to delete the address in %s?", a.City)
}

func (addressSource) Messages() Messages {
	return Messages{
		FetchFailed:  "Failed to load addresses",
		DeleteFailed: "Failed to delete address",
	}
}
