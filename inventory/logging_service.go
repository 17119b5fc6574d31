package inventory

import (
	"context"
	"log/slog"
)

type loggingService struct {
	logger *slog.Logger
	next   Service
}

// NewLoggingService wraps next so every failed operation is logged at error
// level and every committed mutation at info/debug level. A nil logger or
// next returns next unchanged.
func NewLoggingService(logger *slog.Logger, next Service) Service {
	if logger == nil || next == nil {
		return next
	}

	return &loggingService{
		logger: logger,
		next:   next,
	}
}

func (s *loggingService) ListNetworks(ctx context.Context) ([]Network, error) {
	networks, err := s.next.ListNetworks(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list networks failed", "err", err.Error())
	}
	return networks, err
}

func (s *loggingService) GetNetwork(ctx context.Context, id NetworkID) (Network, error) {
	network, err := s.next.GetNetwork(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get network failed", "id", string(id), "err", err.Error())
	}
	return network, err
}

func (s *loggingService) CreateNetwork(ctx context.Context, input CreateNetworkInput) (Network, []Address, error) {
	network, addresses, err := s.next.CreateNetwork(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "create network failed", "cidr", input.CIDR, "err", err.Error())
		return Network{}, nil, err
	}

	s.logger.InfoContext(ctx, "network created", "id", string(network.ID), "cidr", network.CIDR, "pool_size", len(addresses))
	return network, addresses, nil
}

func (s *loggingService) UpdateNetwork(ctx context.Context, id NetworkID, patch UpdateNetworkInput) (Network, error) {
	network, err := s.next.UpdateNetwork(ctx, id, patch)
	if err != nil {
		s.logger.ErrorContext(ctx, "update network failed", "id", string(id), "err", err.Error())
		return Network{}, err
	}

	s.logger.InfoContext(ctx, "network updated", "id", string(id), "cidr", network.CIDR)
	return network, nil
}

func (s *loggingService) DeleteNetwork(ctx context.Context, id NetworkID) error {
	err := s.next.DeleteNetwork(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete network failed", "id", string(id), "err", err.Error())
		return err
	}

	s.logger.InfoContext(ctx, "network deleted", "id", string(id))
	return nil
}

func (s *loggingService) SplitNetwork(ctx context.Context, id NetworkID, childPrefix int) ([]Network, error) {
	children, err := s.next.SplitNetwork(ctx, id, childPrefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "split network failed", "id", string(id), "child_prefix", childPrefix, "err", err.Error())
		return nil, err
	}

	s.logger.InfoContext(ctx, "network split", "id", string(id), "child_prefix", childPrefix, "children", len(children))
	return children, nil
}

func (s *loggingService) ListAddresses(ctx context.Context, networkID NetworkID) ([]Address, error) {
	addresses, err := s.next.ListAddresses(ctx, networkID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list addresses failed", "network_id", string(networkID), "err", err.Error())
	}
	return addresses, err
}

func (s *loggingService) GetAddress(ctx context.Context, id AddressID) (Address, error) {
	address, err := s.next.GetAddress(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get address failed", "id", string(id), "err", err.Error())
	}
	return address, err
}

func (s *loggingService) AssignAddress(ctx context.Context, id AddressID, input AssignAddressInput) (Address, error) {
	address, err := s.next.AssignAddress(ctx, id, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "assign address failed", "id", string(id), "err", err.Error())
		return Address{}, err
	}

	s.logger.DebugContext(ctx, "address assigned", "ip", address.IP, "mode", string(address.Mode), "customer", address.CustomerName)
	return address, nil
}

func (s *loggingService) UnassignAddress(ctx context.Context, id AddressID) (Address, error) {
	address, err := s.next.UnassignAddress(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "unassign address failed", "id", string(id), "err", err.Error())
		return Address{}, err
	}

	s.logger.DebugContext(ctx, "address unassigned", "ip", address.IP)
	return address, nil
}

func (s *loggingService) ReserveAddress(ctx context.Context, id AddressID, note string) (Address, error) {
	address, err := s.next.ReserveAddress(ctx, id, note)
	if err != nil {
		s.logger.ErrorContext(ctx, "reserve address failed", "id", string(id), "err", err.Error())
		return Address{}, err
	}

	s.logger.DebugContext(ctx, "address reserved", "ip", address.IP)
	return address, nil
}

func (s *loggingService) UnreserveAddress(ctx context.Context, id AddressID) (Address, error) {
	address, err := s.next.UnreserveAddress(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "unreserve address failed", "id", string(id), "err", err.Error())
		return Address{}, err
	}

	s.logger.DebugContext(ctx, "address unreserved", "ip", address.IP)
	return address, nil
}

func (s *loggingService) UpdateAddress(ctx context.Context, id AddressID, patch UpdateAddressInput) (Address, error) {
	address, err := s.next.UpdateAddress(ctx, id, patch)
	if err != nil {
		s.logger.ErrorContext(ctx, "update address failed", "id", string(id), "err", err.Error())
	}
	return address, err
}

func (s *loggingService) History(ctx context.Context, id AddressID) ([]HistoryEvent, error) {
	events, err := s.next.History(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "address history failed", "id", string(id), "err", err.Error())
	}
	return events, err
}

func (s *loggingService) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.next.Subscribe(fn)
}
