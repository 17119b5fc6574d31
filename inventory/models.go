package inventory

import "time"

type NetworkID string

type AddressID string

type PoolKind string

const (
	PoolCustomerNAT    PoolKind = "customer-nat"
	PoolCustomerPublic PoolKind = "customer-public"
	PoolInfra          PoolKind = "infra"
)

type AssignMode string

const (
	ModeDHCP   AssignMode = "dhcp"
	ModePPPoE  AssignMode = "pppoe"
	ModeStatic AssignMode = "static"
)

type Status string

const (
	StatusFree     Status = "free"
	StatusAssigned Status = "assigned"
	StatusReserved Status = "reserved"
)

// Network is one managed IPv4 block. CIDR is immutable after creation and
// Broadcast is always derived from it, never set independently.
type Network struct {
	ID             NetworkID
	CIDR           string
	PoolKind       PoolKind
	AssignmentMode AssignMode
	Description    string
	Gateway        string
	DNS1           string
	DNS2           string
	Broadcast      string
	CreatedAt      time.Time
}

// Address is one usable host address of a Network. Gateway/DNS1/DNS2 are
// denormalized copies of the owning Network's values. Mode and the fields
// below it are populated only while the address is assigned.
type Address struct {
	ID            AddressID
	IP            string
	NetworkID     NetworkID
	Description   string
	Status        Status
	Gateway       string
	DNS1          string
	DNS2          string
	Mode          AssignMode
	CustomerName  string
	AssignedAt    time.Time
	ExpiresAt     time.Time
	PPPoELogin    string
	PPPoEPassword string
	MAC           string
}

type HistoryAction string

const (
	ActionAssign    HistoryAction = "assign"
	ActionUnassign  HistoryAction = "unassign"
	ActionBlock     HistoryAction = "block"
	ActionUnblock   HistoryAction = "unblock"
	ActionReserve   HistoryAction = "reserve"
	ActionUnreserve HistoryAction = "unreserve"
	ActionEdit      HistoryAction = "edit"
)

// Change is a partial address snapshot attached to a history event. Only the
// fields touched by the recorded action are populated.
type Change struct {
	Status       Status
	Mode         AssignMode
	CustomerName string
	Description  string
	MAC          string
	PPPoELogin   string
	ExpiresAt    time.Time
}

// HistoryEvent is one immutable audit record of a state transition applied
// to an address.
type HistoryEvent struct {
	ID        string
	AddressID AddressID
	At        time.Time
	Action    HistoryAction
	Actor     string
	Note      string
	Before    Change
	After     Change
}

// Snapshot is the consistent read model handed to subscribers after every
// committed mutation.
type Snapshot struct {
	Networks  []Network
	Addresses []Address
}
