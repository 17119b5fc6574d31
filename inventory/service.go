package inventory

import "context"

// Service is the address-inventory engine boundary. Every operation is
// synchronous and atomic: it either fully commits or leaves state untouched.
type Service interface {
	ListNetworks(ctx context.Context) ([]Network, error)
	GetNetwork(ctx context.Context, id NetworkID) (Network, error)
	CreateNetwork(ctx context.Context, input CreateNetworkInput) (Network, []Address, error)
	UpdateNetwork(ctx context.Context, id NetworkID, patch UpdateNetworkInput) (Network, error)
	DeleteNetwork(ctx context.Context, id NetworkID) error
	SplitNetwork(ctx context.Context, id NetworkID, childPrefix int) ([]Network, error)

	ListAddresses(ctx context.Context, networkID NetworkID) ([]Address, error)
	GetAddress(ctx context.Context, id AddressID) (Address, error)
	AssignAddress(ctx context.Context, id AddressID, input AssignAddressInput) (Address, error)
	UnassignAddress(ctx context.Context, id AddressID) (Address, error)
	ReserveAddress(ctx context.Context, id AddressID, note string) (Address, error)
	UnreserveAddress(ctx context.Context, id AddressID) (Address, error)
	UpdateAddress(ctx context.Context, id AddressID, patch UpdateAddressInput) (Address, error)

	History(ctx context.Context, id AddressID) ([]HistoryEvent, error)
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}
