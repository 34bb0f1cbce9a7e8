package sale

import (
	"github.com/MixinNetwork/nfp/wasm"
	"github.com/shopspring/decimal"
)

// OneCoin requires exactly one non-zero coin attached to the call.
func OneCoin(info wasm.MessageInfo) (wasm.Coin, error) {
	switch len(info.Funds) {
	case 0:
		return wasm.Coin{}, &PaymentError{Kind: ErrNoFunds}
	case 1:
		coin := info.Funds[0]
		if coin.Amount.Sign() <= 0 {
			return wasm.Coin{}, &PaymentError{Kind: ErrNoFunds}
		}
		return coin, nil
	}
	return wasm.Coin{}, &PaymentError{Kind: ErrMultipleDenoms}
}

// MustPay requires exactly one coin of denom and returns its amount.
func MustPay(info wasm.MessageInfo, denom string) (decimal.Decimal, error) {
	coin, err := OneCoin(info)
	if err != nil {
		return decimal.Zero, err
	}
	if coin.Denom != denom {
		return decimal.Zero, &PaymentError{Kind: ErrMissingDenom, Denom: denom}
	}
	return coin.Amount, nil
}

// NonPayable rejects any attached funds, for calls that must not receive a
// payment.
func NonPayable(info wasm.MessageInfo) error {
	if len(info.Funds) == 0 {
		return nil
	}
	return &PaymentError{Kind: ErrExtraDenom, Denom: info.Funds[0].Denom}
}
