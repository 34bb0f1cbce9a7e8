package host

import (
	"fmt"

	"github.com/MixinNetwork/nfp/store"
	"github.com/MixinNetwork/nfp/wasm"
	"github.com/shopspring/decimal"
)

const prefixBankBalance = "BANK:BALANCE:"

// Bank keeps the native coin balances of users and contracts.
type Bank struct {
	kv store.KV
}

func NewBank(kv store.KV) *Bank {
	return &Bank{kv: store.NewPrefix(kv, prefixBankBalance)}
}

func (b *Bank) Balance(addr, denom string) (decimal.Decimal, error) {
	val, err := b.kv.Get(balanceKey(addr, denom))
	if err != nil || val == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(string(val))
}

// Mint credits coins out of thin air, the genesis funding of an account.
func (b *Bank) Mint(addr string, coins wasm.Coins) error {
	err := ValidateAddress(addr)
	if err != nil {
		return err
	}
	for _, c := range coins {
		err := validateCoin(c)
		if err != nil {
			return err
		}
		err = b.add(addr, c.Denom, c.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Bank) Send(from, to string, coins wasm.Coins) error {
	err := ValidateAddress(to)
	if err != nil {
		return err
	}
	for _, c := range coins {
		err := validateCoin(c)
		if err != nil {
			return err
		}
		err = b.sub(from, c.Denom, c.Amount)
		if err != nil {
			return err
		}
		err = b.add(to, c.Denom, c.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Bank) add(addr, denom string, amount decimal.Decimal) error {
	balance, err := b.Balance(addr, denom)
	if err != nil {
		return err
	}
	return b.write(addr, denom, balance.Add(amount))
}

func (b *Bank) sub(addr, denom string, amount decimal.Decimal) error {
	balance, err := b.Balance(addr, denom)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s%s, needs %s%s", ErrInsufficientFunds, addr, balance, denom, amount, denom)
	}
	return b.write(addr, denom, balance.Sub(amount))
}

func (b *Bank) write(addr, denom string, amount decimal.Decimal) error {
	key := balanceKey(addr, denom)
	if amount.IsZero() {
		return b.kv.Delete(key)
	}
	return b.kv.Set(key, []byte(amount.String()))
}

func validateCoin(c wasm.Coin) error {
	if c.Denom == "" {
		return fmt.Errorf("%w: empty denom", ErrInvalidCoin)
	}
	if c.Amount.Sign() <= 0 || !c.Amount.Equal(c.Amount.Truncate(0)) {
		return fmt.Errorf("%w: %s", ErrInvalidCoin, c)
	}
	return nil
}

func ValidateAddress(addr string) error {
	if wasm.ValidateAddress(addr) != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return nil
}

func balanceKey(addr, denom string) []byte {
	return []byte(addr + "/" + denom)
}
