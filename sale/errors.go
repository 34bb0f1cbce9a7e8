package sale

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUnitPrice = errors.New("sale: invalid unit price")
	ErrInvalidMaxTokens = errors.New("sale: invalid max tokens")
	ErrInvalidDenom     = errors.New("sale: invalid denom")
	ErrInvalidAddress   = errors.New("sale: invalid address")

	ErrNotOwner                  = errors.New("sale: only owner can call the function")
	ErrUnauthorizedTokenContract = errors.New("sale: unauthorized token contract")

	ErrWrongDenom         = errors.New("sale: wrong denom")
	ErrWrongPaymentAmount = errors.New("sale: wrong payment amount")
	ErrMintPaused         = errors.New("sale: minting is paused")

	ErrUninitialized       = errors.New("sale: uninitialized")
	ErrCw721NotLinked      = errors.New("sale: cw721 not linked")
	ErrCw721AlreadyLinked  = errors.New("sale: cw721 already linked")
	ErrInvalidTokenReplyId = errors.New("sale: invalid token reply id")
	ErrParseReply          = errors.New("sale: malformed instantiate reply")

	ErrSoldOut         = errors.New("sale: sold out")
	ErrCw721CallFailed = errors.New("sale: cw721 call failed")

	ErrUnknownMessage = errors.New("sale: unknown message")
	ErrNotFound       = errors.New("sale: not found")
)

var (
	ErrNoFunds        = errors.New("no funds sent")
	ErrMultipleDenoms = errors.New("multiple denominations are not allowed in this context")
	ErrMissingDenom   = errors.New("must send the accepted denom")
	ErrExtraDenom     = errors.New("received unsupported denom")
)

// PaymentError reports why the funds attached to a call could not be taken
// as a single payment. Kind is one of the ErrNoFunds family.
type PaymentError struct {
	Kind  error
	Denom string
}

func (e *PaymentError) Error() string {
	if e.Denom == "" {
		return fmt.Sprintf("sale: payment: %v", e.Kind)
	}
	return fmt.Sprintf("sale: payment: %v '%s'", e.Kind, e.Denom)
}

func (e *PaymentError) Unwrap() error {
	return e.Kind
}
