package sale

import (
	"encoding/json"

	"github.com/MixinNetwork/nfp/wasm"
)

func Query(s wasm.Storage, env wasm.Env, msg *QueryMsg) ([]byte, error) {
	switch {
	case msg.GetConfig != nil:
		res, err := QueryConfig(s)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)
	case msg.BalanceOf != nil:
		res, err := QueryBalance(s, msg.BalanceOf.User)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)
	case msg.ContractInfo != nil:
		cv, err := ReadContractVersion(s)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&ContractInfoResponse{Contract: cv.Contract, Version: cv.Version})
	}
	return nil, ErrUnknownMessage
}

func QueryConfig(s wasm.Storage) (*ConfigResponse, error) {
	config, err := ReadConfig(s)
	if err != nil {
		return nil, err
	}
	total, err := ReadTotalMint(s)
	if err != nil {
		return nil, err
	}
	paused, err := ReadMintPaused(s)
	if err != nil {
		return nil, err
	}
	res := &ConfigResponse{
		Owner:       config.Owner,
		Denom1:      config.Denom1,
		Denom2:      config.Denom2,
		UnitPrice1:  config.UnitPrice1,
		UnitPrice2:  config.UnitPrice2,
		Name:        config.Name,
		Symbol:      config.Symbol,
		TokenURI:    config.TokenURI,
		Extension:   config.Extension,
		TotalMint:   total,
		NextTokenId: config.NextTokenId,
		MintPaused:  paused,
	}
	if config.Linked() {
		addr := config.Cw721Address
		res.Cw721Address = &addr
	}
	if config.MaxTokens > 0 {
		max := config.MaxTokens
		res.MaxTokens = &max
	}
	return res, nil
}

func QueryBalance(s wasm.Storage, user string) (*BalanceOfResponse, error) {
	balance, err := ReadBalance(s, user)
	if err != nil {
		return nil, err
	}
	return &BalanceOfResponse{Balance: balance}, nil
}
