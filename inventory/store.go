package inventory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"net"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mdraganov/ipinventory/cidr"
)

// snapshot is one committed state of the inventory. Mutations clone the
// current snapshot, apply their changes to the clone and swap it in, so a
// reader never observes a partially applied operation.
type snapshot struct {
	networks  map[NetworkID]Network
	addresses map[AddressID]Address
	byIP      map[string]AddressID
	byNetwork map[NetworkID][]AddressID
	history   map[AddressID][]HistoryEvent
}

func newSnapshot() *snapshot {
	return &snapshot{
		networks:  map[NetworkID]Network{},
		addresses: map[AddressID]Address{},
		byIP:      map[string]AddressID{},
		byNetwork: map[NetworkID][]AddressID{},
		history:   map[AddressID][]HistoryEvent{},
	}
}

// clone shallow-copies the maps. Slice values are shared between snapshots
// and must be replaced wholesale, never appended to in place.
func (s *snapshot) clone() *snapshot {
	return &snapshot{
		networks:  maps.Clone(s.networks),
		addresses: maps.Clone(s.addresses),
		byIP:      maps.Clone(s.byIP),
		byNetwork: maps.Clone(s.byNetwork),
		history:   maps.Clone(s.history),
	}
}

// Store is the authoritative in-memory address inventory. It has no ambient
// singleton: construct one per host with NewStore and inject it where
// needed. All operations are synchronous; writers are serialized, readers
// always see the latest committed snapshot without blocking.
type Store struct {
	writeMu sync.Mutex
	state   atomic.Pointer[snapshot]

	creds CredentialGenerator
	actor string

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

type Option func(*Store)

// WithCredentialGenerator replaces the default PPPoE credential generator.
func WithCredentialGenerator(g CredentialGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.creds = g
		}
	}
}

// WithActor sets the actor recorded on history events when the mutating
// input does not name one. Defaults to "system".
func WithActor(actor string) Option {
	return func(s *Store) {
		if actor != "" {
			s.actor = actor
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		creds: pppoeCredentials{},
		actor: "system",
		subs:  map[int]func(Snapshot){},
	}
	s.state.Store(newSnapshot())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Service = (*Store)(nil)

// commit runs mutate against a clone of the current snapshot. On error the
// clone is discarded and nothing changes; on success the clone becomes the
// committed state and subscribers are notified with it.
func (s *Store) commit(mutate func(*snapshot) error) error {
	s.writeMu.Lock()
	next := s.state.Load().clone()
	if err := mutate(next); err != nil {
		s.writeMu.Unlock()
		return err
	}
	s.state.Store(next)
	s.writeMu.Unlock()
	s.notify(next)
	return nil
}

// Subscribe registers fn to be called synchronously, on the mutating
// goroutine, with the new snapshot after every committed mutation. The
// callback must not call back into mutating operations. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(snap *snapshot) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	if len(fns) == 0 {
		return
	}
	view := snap.view()
	for _, fn := range fns {
		fn(view)
	}
}

func (s *Store) ListNetworks(_ context.Context) ([]Network, error) {
	snap := s.state.Load()
	out := make([]Network, 0, len(snap.networks))
	for _, n := range snap.networks {
		out = append(out, n)
	}
	slices.SortFunc(out, compareNetworks)
	return out, nil
}

func (s *Store) GetNetwork(_ context.Context, id NetworkID) (Network, error) {
	snap := s.state.Load()
	n, ok := snap.networks[id]
	if !ok {
		return Network{}, fmt.Errorf("%w: network %s", ErrNotFound, id)
	}
	return n, nil
}

func (s *Store) CreateNetwork(_ context.Context, input CreateNetworkInput) (Network, []Address, error) {
	if err := validatePoolKind(input.PoolKind); err != nil {
		return Network{}, nil, err
	}
	if err := validateAssignMode(input.AssignmentMode); err != nil {
		return Network{}, nil, err
	}
	for _, f := range []struct{ name, value string }{
		{"gateway", input.Gateway}, {"dns1", input.DNS1}, {"dns2", input.DNS2},
	} {
		if err := validateOptionalIP(f.name, f.value); err != nil {
			return Network{}, nil, err
		}
	}

	var (
		network   Network
		addresses []Address
	)
	err := s.commit(func(snap *snapshot) error {
		var err error
		network, addresses, err = snap.insertNetwork(input)
		return err
	})
	if err != nil {
		return Network{}, nil, err
	}
	return network, addresses, nil
}

func (s *Store) UpdateNetwork(_ context.Context, id NetworkID, patch UpdateNetworkInput) (Network, error) {
	if patch.PoolKind != nil {
		if err := validatePoolKind(*patch.PoolKind); err != nil {
			return Network{}, err
		}
	}
	if patch.AssignmentMode != nil {
		if err := validateAssignMode(*patch.AssignmentMode); err != nil {
			return Network{}, err
		}
	}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"gateway", patch.Gateway}, {"dns1", patch.DNS1}, {"dns2", patch.DNS2},
	} {
		if f.value != nil {
			if err := validateOptionalIP(f.name, *f.value); err != nil {
				return Network{}, err
			}
		}
	}

	var out Network
	err := s.commit(func(snap *snapshot) error {
		n, ok := snap.networks[id]
		if !ok {
			return fmt.Errorf("%w: network %s", ErrNotFound, id)
		}

		if patch.PoolKind != nil {
			n.PoolKind = *patch.PoolKind
		}
		if patch.AssignmentMode != nil {
			n.AssignmentMode = *patch.AssignmentMode
		}
		if patch.Description != nil {
			n.Description = *patch.Description
		}
		if patch.Gateway != nil {
			n.Gateway = *patch.Gateway
		}
		if patch.DNS1 != nil {
			n.DNS1 = *patch.DNS1
		}
		if patch.DNS2 != nil {
			n.DNS2 = *patch.DNS2
		}
		snap.networks[id] = n

		// Owned addresses carry denormalized copies of gateway/dns and must
		// always match the network.
		for _, addrID := range snap.byNetwork[id] {
			a := snap.addresses[addrID]
			a.Gateway = n.Gateway
			a.DNS1 = n.DNS1
			a.DNS2 = n.DNS2
			snap.addresses[addrID] = a
		}

		out = n
		return nil
	})
	return out, err
}

func (s *Store) DeleteNetwork(_ context.Context, id NetworkID) error {
	return s.commit(func(snap *snapshot) error {
		if _, ok := snap.networks[id]; !ok {
			return fmt.Errorf("%w: network %s", ErrNotFound, id)
		}
		snap.removeNetwork(id)
		return nil
	})
}

func (s *Store) SplitNetwork(_ context.Context, id NetworkID, childPrefix int) ([]Network, error) {
	var children []Network
	err := s.commit(func(snap *snapshot) error {
		parent, ok := snap.networks[id]
		if !ok {
			return fmt.Errorf("%w: network %s", ErrNotFound, id)
		}

		childCIDRs, err := cidr.Split(parent.CIDR, childPrefix)
		if err != nil {
			return err
		}

		for _, addrID := range snap.byNetwork[id] {
			if a := snap.addresses[addrID]; a.Status != StatusFree {
				return fmt.Errorf("%w: %s is %s", ErrNetworkInUse, a.IP, a.Status)
			}
		}

		snap.removeNetwork(id)
		for _, childCIDR := range childCIDRs {
			child, _, err := snap.insertNetwork(CreateNetworkInput{
				CIDR:           childCIDR,
				PoolKind:       parent.PoolKind,
				AssignmentMode: parent.AssignmentMode,
				Description:    parent.Description,
				Gateway:        parent.Gateway,
				DNS1:           parent.DNS1,
				DNS2:           parent.DNS2,
			})
			if err != nil {
				return err
			}
			children = append(children, child)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (s *Store) ListAddresses(_ context.Context, networkID NetworkID) ([]Address, error) {
	snap := s.state.Load()
	if _, ok := snap.networks[networkID]; !ok {
		return nil, fmt.Errorf("%w: network %s", ErrNotFound, networkID)
	}
	ids := snap.byNetwork[networkID]
	out := make([]Address, 0, len(ids))
	for _, id := range ids {
		out = append(out, snap.addresses[id])
	}
	return out, nil
}

func (s *Store) GetAddress(_ context.Context, id AddressID) (Address, error) {
	snap := s.state.Load()
	a, ok := snap.addresses[id]
	if !ok {
		return Address{}, fmt.Errorf("%w: address %s", ErrNotFound, id)
	}
	return a, nil
}

func (s *Store) AssignAddress(_ context.Context, id AddressID, input AssignAddressInput) (Address, error) {
	if input.CustomerName == "" {
		return Address{}, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	var out Address
	err := s.commit(func(snap *snapshot) error {
		a, ok := snap.addresses[id]
		if !ok {
			return fmt.Errorf("%w: address %s", ErrNotFound, id)
		}
		if a.Status != StatusFree {
			return fmt.Errorf("%w: address %s is %s", ErrConflict, a.IP, a.Status)
		}

		mode := input.Mode
		if mode == "" {
			// Per-address mode defaults to the owning network's declared
			// mode but may be set explicitly and is allowed to diverge.
			mode = snap.networks[a.NetworkID].AssignmentMode
		}
		if err := validateAssignMode(mode); err != nil {
			return err
		}

		before := Change{Status: a.Status}

		switch mode {
		case ModeDHCP:
			if input.MAC == "" {
				return fmt.Errorf("%w: mac is required for dhcp assignments", ErrInvalidInput)
			}
			hw, err := net.ParseMAC(input.MAC)
			if err != nil {
				return fmt.Errorf("%w: mac %q", ErrInvalidInput, input.MAC)
			}
			a.MAC = hw.String()
		case ModePPPoE:
			login := input.PPPoELogin
			if login == "" {
				login = s.creds.Login(input.CustomerName, a.IP)
			}
			password := input.PPPoEPassword
			if password == "" {
				var err error
				if password, err = s.creds.Password(); err != nil {
					return fmt.Errorf("generate pppoe password: %w", err)
				}
			}
			a.PPPoELogin = login
			a.PPPoEPassword = password
		}

		a.Status = StatusAssigned
		a.Mode = mode
		a.CustomerName = input.CustomerName
		if input.Description != "" {
			a.Description = input.Description
		}
		a.AssignedAt = time.Now().UTC()
		a.ExpiresAt = input.ExpiresAt
		snap.addresses[id] = a

		snap.record(id, ActionAssign, s.eventActor(input.Actor), input.Note, before, Change{
			Status:       a.Status,
			Mode:         a.Mode,
			CustomerName: a.CustomerName,
			Description:  a.Description,
			MAC:          a.MAC,
			PPPoELogin:   a.PPPoELogin,
			ExpiresAt:    a.ExpiresAt,
		})
		out = a
		return nil
	})
	return out, err
}

func (s *Store) UnassignAddress(_ context.Context, id AddressID) (Address, error) {
	var out Address
	err := s.commit(func(snap *snapshot) error {
		a, ok := snap.addresses[id]
		if !ok {
			return fmt.Errorf("%w: address %s", ErrNotFound, id)
		}
		if a.Status != StatusAssigned {
			return fmt.Errorf("%w: address %s is %s", ErrConflict, a.IP, a.Status)
		}

		before := Change{
			Status:       a.Status,
			Mode:         a.Mode,
			CustomerName: a.CustomerName,
			Description:  a.Description,
			MAC:          a.MAC,
			PPPoELogin:   a.PPPoELogin,
			ExpiresAt:    a.ExpiresAt,
		}

		a.Status = StatusFree
		a.Mode = ""
		a.CustomerName = ""
		a.Description = ""
		a.AssignedAt = time.Time{}
		a.ExpiresAt = time.Time{}
		a.PPPoELogin = ""
		a.PPPoEPassword = ""
		a.MAC = ""
		snap.addresses[id] = a

		snap.record(id, ActionUnassign, s.actor, "", before, Change{Status: a.Status})
		out = a
		return nil
	})
	return out, err
}

func (s *Store) ReserveAddress(_ context.Context, id AddressID, note string) (Address, error) {
	return s.setReservation(id, StatusFree, StatusReserved, ActionReserve, note)
}

func (s *Store) UnreserveAddress(_ context.Context, id AddressID) (Address, error) {
	return s.setReservation(id, StatusReserved, StatusFree, ActionUnreserve, "")
}

func (s *Store) setReservation(id AddressID, from, to Status, action HistoryAction, note string) (Address, error) {
	var out Address
	err := s.commit(func(snap *snapshot) error {
		a, ok := snap.addresses[id]
		if !ok {
			return fmt.Errorf("%w: address %s", ErrNotFound, id)
		}
		if a.Status != from {
			return fmt.Errorf("%w: address %s is %s", ErrConflict, a.IP, a.Status)
		}

		before := Change{Status: a.Status}
		a.Status = to
		snap.addresses[id] = a
		snap.record(id, action, s.actor, note, before, Change{Status: a.Status})
		out = a
		return nil
	})
	return out, err
}

func (s *Store) UpdateAddress(ctx context.Context, id AddressID, patch UpdateAddressInput) (Address, error) {
	if patch.Description == nil {
		return s.GetAddress(ctx, id)
	}

	var out Address
	err := s.commit(func(snap *snapshot) error {
		a, ok := snap.addresses[id]
		if !ok {
			return fmt.Errorf("%w: address %s", ErrNotFound, id)
		}

		before := Change{Description: a.Description}
		a.Description = *patch.Description
		snap.addresses[id] = a
		snap.record(id, ActionEdit, s.eventActor(patch.Actor), patch.Note, before, Change{Description: a.Description})
		out = a
		return nil
	})
	return out, err
}

func (s *Store) History(_ context.Context, id AddressID) ([]HistoryEvent, error) {
	snap := s.state.Load()
	events, ok := snap.history[id]
	if !ok {
		if _, exists := snap.addresses[id]; !exists {
			return nil, fmt.Errorf("%w: address %s", ErrNotFound, id)
		}
		return nil, nil
	}
	return slices.Clone(events), nil
}

func (s *Store) eventActor(override string) string {
	if override != "" {
		return override
	}
	return s.actor
}

// insertNetwork validates the CIDR, derives the broadcast address and
// generates the full free address pool. The CIDR is canonicalized to its
// masked form; an exact duplicate or any pool address already present in
// the store fails the whole insert.
func (s *snapshot) insertNetwork(input CreateNetworkInput) (Network, []Address, error) {
	p, err := cidr.Parse(input.CIDR)
	if err != nil {
		return Network{}, nil, err
	}
	canonical := p.Masked().String()

	info, err := cidr.NetworkInfo(canonical)
	if err != nil {
		return Network{}, nil, err
	}
	ips, err := cidr.UsableIPs(canonical)
	if err != nil {
		return Network{}, nil, err
	}

	for _, n := range s.networks {
		if n.CIDR == canonical {
			return Network{}, nil, fmt.Errorf("%w: network %s already exists", ErrConflict, canonical)
		}
	}
	for _, ip := range ips {
		if _, taken := s.byIP[ip]; taken {
			return Network{}, nil, fmt.Errorf("%w: address %s already managed", ErrConflict, ip)
		}
	}

	network := Network{
		ID:             NetworkID(uuid.NewString()),
		CIDR:           canonical,
		PoolKind:       input.PoolKind,
		AssignmentMode: input.AssignmentMode,
		Description:    input.Description,
		Gateway:        input.Gateway,
		DNS1:           input.DNS1,
		DNS2:           input.DNS2,
		Broadcast:      info.Broadcast.String(),
		CreatedAt:      time.Now().UTC(),
	}

	addresses := make([]Address, 0, len(ips))
	ids := make([]AddressID, 0, len(ips))
	for _, ip := range ips {
		a := Address{
			ID:        AddressID(uuid.NewString()),
			IP:        ip,
			NetworkID: network.ID,
			Status:    StatusFree,
			Gateway:   network.Gateway,
			DNS1:      network.DNS1,
			DNS2:      network.DNS2,
		}
		addresses = append(addresses, a)
		ids = append(ids, a.ID)
		s.addresses[a.ID] = a
		s.byIP[a.IP] = a.ID
	}

	s.networks[network.ID] = network
	s.byNetwork[network.ID] = ids
	return network, addresses, nil
}

// removeNetwork drops the network and every owned address. Address history
// is intentionally retained: the audit trail survives the address.
func (s *snapshot) removeNetwork(id NetworkID) {
	for _, addrID := range s.byNetwork[id] {
		delete(s.byIP, s.addresses[addrID].IP)
		delete(s.addresses, addrID)
	}
	delete(s.byNetwork, id)
	delete(s.networks, id)
}

func (s *snapshot) view() Snapshot {
	networks := make([]Network, 0, len(s.networks))
	for _, n := range s.networks {
		networks = append(networks, n)
	}
	slices.SortFunc(networks, compareNetworks)

	addresses := make([]Address, 0, len(s.addresses))
	for _, n := range networks {
		for _, id := range s.byNetwork[n.ID] {
			addresses = append(addresses, s.addresses[id])
		}
	}
	return Snapshot{Networks: networks, Addresses: addresses}
}

func compareNetworks(a, b Network) int {
	pa, _ := cidr.Parse(a.CIDR)
	pb, _ := cidr.Parse(b.CIDR)
	if c := pa.Addr().Compare(pb.Addr()); c != 0 {
		return c
	}
	return cmp.Compare(pa.Bits(), pb.Bits())
}
