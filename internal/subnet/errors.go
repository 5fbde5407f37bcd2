package subnet

import (
	"errors"
	"fmt"
)

var (
	// ErrRangeTooLarge is returned when a block holds more hosts than a sweep may probe
	ErrRangeTooLarge = errors.New("address range too large")

	errWildcard = errors.New("wildcard is only allowed as the last octet")
	errNotIPv4  = errors.New("not an IPv4 network")
)

// InvalidSubnetError reports an identifier that does not describe an IPv4 network
type InvalidSubnetError struct {
	Subnet string
	Err    error
}

func (e *InvalidSubnetError) Error() string {
	return fmt.Sprintf("invalid subnet %q: %v", e.Subnet, e.Err)
}

func (e *InvalidSubnetError) Unwrap() error {
	return e.Err
}
