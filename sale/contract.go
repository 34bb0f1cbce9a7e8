// Package sale is a fixed price NFT sale. Instantiation deploys a companion
// cw721 collection and links it once the host reports the deployed address;
// after that every paid mint forwards the payment to the owner and mints one
// token to the payer.
package sale

import (
	"encoding/json"
	"fmt"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfp/nft"
	"github.com/MixinNetwork/nfp/wasm"
	"github.com/shopspring/decimal"
)

const (
	ContractName    = "crates.io:cw721-fixed-price"
	ContractVersion = "0.1.0"

	InstantiateTokenReplyId uint64 = 1
	instantiateTokenLabel          = "Instantiate fixed price NFT contract"
)

// Contract adapts the typed entry points to the JSON messages the host
// delivers.
type Contract struct{}

func (Contract) Instantiate(s wasm.Storage, env wasm.Env, info wasm.MessageInfo, raw []byte) (*wasm.Response, error) {
	var msg InstantiateMsg
	err := json.Unmarshal(raw, &msg)
	if err != nil {
		return nil, fmt.Errorf("sale: invalid instantiate message: %w", err)
	}
	return Instantiate(s, env, info, &msg)
}

func (Contract) Execute(s wasm.Storage, env wasm.Env, info wasm.MessageInfo, raw []byte) (*wasm.Response, error) {
	var msg ExecuteMsg
	err := json.Unmarshal(raw, &msg)
	if err != nil {
		return nil, fmt.Errorf("sale: invalid execute message: %w", err)
	}
	return Execute(s, env, info, &msg)
}

func (Contract) Query(s wasm.Storage, env wasm.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	err := json.Unmarshal(raw, &msg)
	if err != nil {
		return nil, fmt.Errorf("sale: invalid query message: %w", err)
	}
	return Query(s, env, &msg)
}

func (Contract) Reply(s wasm.Storage, env wasm.Env, reply wasm.Reply) (*wasm.Response, error) {
	return Reply(s, env, reply)
}

// Instantiate persists the sale configuration without a linked collection
// and asks the host to deploy the collection, replying with
// InstantiateTokenReplyId on success.
func Instantiate(s wasm.Storage, env wasm.Env, info wasm.MessageInfo, msg *InstantiateMsg) (*wasm.Response, error) {
	if !validPrice(msg.UnitPrice1) || !validPrice(msg.UnitPrice2) {
		return nil, ErrInvalidUnitPrice
	}
	if msg.Denom1 == "" || msg.Denom2 == "" {
		return nil, ErrInvalidDenom
	}
	if msg.MaxTokens != nil && *msg.MaxTokens == 0 {
		return nil, ErrInvalidMaxTokens
	}

	owner := msg.Owner
	if owner == "" {
		owner = info.Sender
	}
	if err := wasm.ValidateAddress(owner); err != nil {
		return nil, fmt.Errorf("%w: owner %s", ErrInvalidAddress, owner)
	}
	if wa := msg.WithdrawAddress; wa != nil {
		if err := wasm.ValidateAddress(*wa); err != nil {
			return nil, fmt.Errorf("%w: withdraw address %s", ErrInvalidAddress, *wa)
		}
	}
	config := &Config{
		Owner:       owner,
		Denom1:      msg.Denom1,
		Denom2:      msg.Denom2,
		UnitPrice1:  msg.UnitPrice1,
		UnitPrice2:  msg.UnitPrice2,
		Name:        msg.Name,
		Symbol:      msg.Symbol,
		TokenURI:    msg.TokenURI,
		Extension:   msg.Extension,
		NextTokenId: 0,
	}
	if msg.MaxTokens != nil {
		config.MaxTokens = *msg.MaxTokens
	}

	initMsg, err := json.Marshal(&nft.InstantiateMsg{
		Name:            msg.Name,
		Symbol:          msg.Symbol,
		Minter:          nil,
		WithdrawAddress: msg.WithdrawAddress,
	})
	if err != nil {
		return nil, err
	}

	err = writeContractVersion(s, ContractName, ContractVersion)
	if err != nil {
		return nil, err
	}
	err = writeConfig(s, config)
	if err != nil {
		return nil, err
	}
	logger.Verbosef("sale.Instantiate(%s) owner %s prices %s%s %s%s\n", env.Contract.Address,
		config.Owner, config.UnitPrice1, config.Denom1, config.UnitPrice2, config.Denom2)

	sub := wasm.SubMsg{
		Id: InstantiateTokenReplyId,
		Msg: wasm.CosmosMsg{Wasm: &wasm.WasmMsg{Instantiate: &wasm.InstantiateMsg{
			CodeId: msg.TokenCodeId,
			Msg:    initMsg,
			Funds:  wasm.Coins{},
			Label:  instantiateTokenLabel,
		}}},
		ReplyOn: wasm.ReplySuccess,
	}
	return wasm.NewResponse().AddSubMessage(sub), nil
}

// validPrice accepts positive whole amounts, the only coins the bank moves.
func validPrice(p decimal.Decimal) bool {
	return p.Sign() > 0 && p.Equal(p.Truncate(0))
}

func Execute(s wasm.Storage, env wasm.Env, info wasm.MessageInfo, msg *ExecuteMsg) (*wasm.Response, error) {
	switch {
	case msg.Mint != nil && msg.ChangeStatus == nil && msg.ChangePrice == nil:
		return executeMint(s, env, info, msg.Mint.Denom)
	case msg.ChangeStatus != nil && msg.Mint == nil && msg.ChangePrice == nil:
		return executeChangeStatus(s, info, msg.ChangeStatus.MintPause)
	case msg.ChangePrice != nil && msg.Mint == nil && msg.ChangeStatus == nil:
		return executeChangePrice(s, info, msg.ChangePrice)
	}
	return nil, ErrUnknownMessage
}
