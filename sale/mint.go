package sale

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfp/nft"
	"github.com/MixinNetwork/nfp/wasm"
)

func executeMint(s wasm.Storage, env wasm.Env, info wasm.MessageInfo, denom string) (*wasm.Response, error) {
	config, err := ReadConfig(s)
	if err != nil {
		return nil, err
	}
	paused, err := ReadMintPaused(s)
	if err != nil {
		return nil, err
	}
	if paused {
		return nil, ErrMintPaused
	}

	price, found := config.PriceFor(denom)
	if !found {
		return nil, ErrWrongDenom
	}
	amount, err := MustPay(info, denom)
	if err != nil {
		return nil, err
	}
	if !amount.Equal(price) {
		return nil, ErrWrongPaymentAmount
	}

	if !config.Linked() {
		return nil, ErrUninitialized
	}
	total, err := ReadTotalMint(s)
	if err != nil {
		return nil, err
	}
	if config.MaxTokens > 0 && total >= uint64(config.MaxTokens) {
		return nil, ErrSoldOut
	}
	if config.NextTokenId == math.MaxUint32 {
		return nil, ErrSoldOut
	}

	tokenId := strconv.FormatUint(uint64(config.NextTokenId), 10)
	mint, err := buildMintMessage(config, tokenId, info.Sender)
	if err != nil {
		return nil, err
	}
	err = incrementMinted(s, info.Sender)
	if err != nil {
		return nil, err
	}
	send := wasm.CosmosMsg{Bank: &wasm.BankMsg{Send: &wasm.SendMsg{
		ToAddress: config.Owner,
		Amount:    wasm.Coins{{Denom: denom, Amount: amount}},
	}}}

	config.NextTokenId += 1
	err = writeConfig(s, config)
	if err != nil {
		return nil, err
	}
	logger.Verbosef("sale.Mint(%s) token %s to %s for %s%s\n", env.Contract.Address, tokenId, info.Sender, amount, denom)

	return wasm.NewResponse().
		AddMessage(mint).
		AddMessage(send).
		AddAttribute("action", "mint_nft").
		AddAttribute("token_id", tokenId).
		AddAttribute("amount", amount.String()).
		AddAttribute("denom", denom), nil
}

func buildMintMessage(config *Config, tokenId, owner string) (wasm.CosmosMsg, error) {
	if !config.Linked() {
		return wasm.CosmosMsg{}, ErrCw721NotLinked
	}
	uri := config.TokenURI
	msg, err := json.Marshal(&nft.ExecuteMsg{Mint: &nft.MintMsg{
		TokenId:   tokenId,
		Owner:     owner,
		TokenURI:  &uri,
		Extension: config.Extension,
	}})
	if err != nil {
		return wasm.CosmosMsg{}, fmt.Errorf("%w: %v", ErrCw721CallFailed, err)
	}
	return wasm.CosmosMsg{Wasm: &wasm.WasmMsg{Execute: &wasm.ExecuteMsg{
		ContractAddr: config.Cw721Address,
		Msg:          msg,
		Funds:        wasm.Coins{},
	}}}, nil
}
