package inventory

import (
	"fmt"
	"net/netip"
)

func validatePoolKind(k PoolKind) error {
	switch k {
	case PoolCustomerNAT, PoolCustomerPublic, PoolInfra:
		return nil
	}
	return fmt.Errorf("%w: pool kind %q", ErrInvalidInput, k)
}

func validateAssignMode(m AssignMode) error {
	switch m {
	case ModeDHCP, ModePPPoE, ModeStatic:
		return nil
	}
	return fmt.Errorf("%w: assignment mode %q", ErrInvalidInput, m)
}

func validateOptionalIP(field, value string) error {
	if value == "" {
		return nil
	}
	a, err := netip.ParseAddr(value)
	if err != nil || !a.Is4() {
		return fmt.Errorf("%w: %s %q is not an IPv4 address", ErrInvalidInput, field, value)
	}
	return nil
}
