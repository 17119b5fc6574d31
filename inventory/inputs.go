package inventory

import "time"

type CreateNetworkInput struct {
	CIDR           string
	PoolKind       PoolKind
	AssignmentMode AssignMode
	Description    string
	Gateway        string
	DNS1           string
	DNS2           string
}

// UpdateNetworkInput is a patch: nil fields are left untouched. CIDR is
// deliberately absent, it cannot change after creation.
type UpdateNetworkInput struct {
	PoolKind       *PoolKind
	AssignmentMode *AssignMode
	Description    *string
	Gateway        *string
	DNS1           *string
	DNS2           *string
}

type AssignAddressInput struct {
	CustomerName  string
	Mode          AssignMode
	Description   string
	ExpiresAt     time.Time
	MAC           string
	PPPoELogin    string
	PPPoEPassword string
	Actor         string
	Note          string
}

type UpdateAddressInput struct {
	Description *string
	Actor       string
	Note        string
}
