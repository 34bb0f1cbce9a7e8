package sale

import (
	"encoding/binary"
	"fmt"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/nfp/nft"
	"github.com/MixinNetwork/nfp/wasm"
	"github.com/shopspring/decimal"
)

const (
	keyConfig       = "config"
	keyMintStatus   = "mintstatus"
	keyTotalMint    = "totalmint"
	keyContractInfo = "contract_info"
	prefixBalance   = "balance:"
)

type Config struct {
	Owner        string
	Denom1       string
	Denom2       string
	Cw721Address string
	UnitPrice1   decimal.Decimal
	UnitPrice2   decimal.Decimal
	Name         string
	Symbol       string
	TokenURI     string
	Extension    *nft.Metadata
	NextTokenId  uint32
	MaxTokens    uint32
}

// PriceFor returns the configured price of denom. The first pair wins when
// both pairs share a denom.
func (c *Config) PriceFor(denom string) (decimal.Decimal, bool) {
	switch denom {
	case c.Denom1:
		return c.UnitPrice1, true
	case c.Denom2:
		return c.UnitPrice2, true
	}
	return decimal.Zero, false
}

func (c *Config) Linked() bool {
	return c.Cw721Address != ""
}

type ContractVersionInfo struct {
	Contract string
	Version  string
}

func ReadConfig(s wasm.Storage) (*Config, error) {
	val, err := s.Get([]byte(keyConfig))
	if err != nil {
		return nil, err
	} else if val == nil {
		return nil, ErrNotFound
	}
	var c Config
	err = common.MsgpackUnmarshal(val, &c)
	return &c, err
}

func writeConfig(s wasm.Storage, c *Config) error {
	return s.Set([]byte(keyConfig), common.MsgpackMarshalPanic(c))
}

func ReadMintPaused(s wasm.Storage) (bool, error) {
	val, err := s.Get([]byte(keyMintStatus))
	if err != nil || len(val) == 0 {
		return false, err
	}
	return val[0] == 1, nil
}

func writeMintPaused(s wasm.Storage, paused bool) error {
	val := []byte{0}
	if paused {
		val[0] = 1
	}
	return s.Set([]byte(keyMintStatus), val)
}

func ReadTotalMint(s wasm.Storage) (uint64, error) {
	return readCounter(s, []byte(keyTotalMint))
}

func ReadBalance(s wasm.Storage, user string) (uint64, error) {
	return readCounter(s, balanceKey(user))
}

// incrementMinted bumps the buyer balance and the total together, the two
// counters are only ever written here.
func incrementMinted(s wasm.Storage, user string) error {
	minted, err := ReadBalance(s, user)
	if err != nil {
		return err
	}
	total, err := ReadTotalMint(s)
	if err != nil {
		return err
	}
	err = writeCounter(s, balanceKey(user), minted+1)
	if err != nil {
		return err
	}
	return writeCounter(s, []byte(keyTotalMint), total+1)
}

func ReadContractVersion(s wasm.Storage) (*ContractVersionInfo, error) {
	val, err := s.Get([]byte(keyContractInfo))
	if err != nil {
		return nil, err
	} else if val == nil {
		return nil, ErrNotFound
	}
	var cv ContractVersionInfo
	err = common.MsgpackUnmarshal(val, &cv)
	return &cv, err
}

func writeContractVersion(s wasm.Storage, contract, version string) error {
	cv := &ContractVersionInfo{Contract: contract, Version: version}
	return s.Set([]byte(keyContractInfo), common.MsgpackMarshalPanic(cv))
}

func balanceKey(user string) []byte {
	return append([]byte(prefixBalance), user...)
}

func readCounter(s wasm.Storage, key []byte) (uint64, error) {
	val, err := s.Get(key)
	if err != nil || val == nil {
		return 0, err
	}
	if len(val) != 8 {
		return 0, fmt.Errorf("sale: invalid counter %x", val)
	}
	return binary.BigEndian.Uint64(val), nil
}

func writeCounter(s wasm.Storage, key []byte, n uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return s.Set(key, buf)
}
