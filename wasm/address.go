package wasm

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
)

var ErrInvalidAddress = errors.New("invalid address")

// ValidateAddress accepts the non nil UUIDs used as account and contract
// addresses.
func ValidateAddress(addr string) error {
	id, err := uuid.FromString(addr)
	if err != nil || id == uuid.Nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return nil
}
