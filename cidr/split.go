package cidr

import "fmt"

// Split subdivides the parent block into contiguous child blocks of
// childPrefix bits, returned in ascending order. childPrefix must be longer
// than the parent's prefix and at most 32.
func Split(parent string, childPrefix int) ([]string, error) {
	p, err := Parse(parent)
	if err != nil {
		return nil, err
	}

	if childPrefix <= p.Bits() || childPrefix > 32 {
		return nil, fmt.Errorf("%w: /%d does not subdivide %s", ErrInvalidSplit, childPrefix, parent)
	}

	parentSize := uint64(1) << (32 - p.Bits())
	childSize := uint64(1) << (32 - childPrefix)
	// Unreachable for power-of-two block sizes, but guarded anyway.
	if parentSize%childSize != 0 {
		return nil, fmt.Errorf("%w: %s into /%d", ErrSplitSizeMismatch, parent, childPrefix)
	}

	base, err := IPToInt(p.Masked().Addr().String())
	if err != nil {
		return nil, err
	}

	count := parentSize / childSize
	children := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		children = append(children, fmt.Sprintf("%s/%d", IntToIP(base+uint32(i*childSize)), childPrefix))
	}
	return children, nil
}
