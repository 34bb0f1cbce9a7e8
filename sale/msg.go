package sale

import (
	"github.com/MixinNetwork/nfp/nft"
	"github.com/shopspring/decimal"
)

type InstantiateMsg struct {
	Owner           string          `json:"owner"`
	Denom1          string          `json:"denom1"`
	Denom2          string          `json:"denom2"`
	UnitPrice1      decimal.Decimal `json:"unit_price1"`
	UnitPrice2      decimal.Decimal `json:"unit_price2"`
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	TokenCodeId     uint64          `json:"token_code_id"`
	TokenURI        string          `json:"token_uri"`
	Extension       *nft.Metadata   `json:"extension"`
	WithdrawAddress *string         `json:"withdraw_address"`
	MaxTokens       *uint32         `json:"max_tokens,omitempty"`
}

type ExecuteMsg struct {
	Mint         *MintMsg         `json:"mint,omitempty"`
	ChangeStatus *ChangeStatusMsg `json:"change_status,omitempty"`
	ChangePrice  *ChangePriceMsg  `json:"change_price,omitempty"`
}

type MintMsg struct {
	Denom string `json:"denom"`
}

type ChangeStatusMsg struct {
	MintPause bool `json:"mint_pause"`
}

type ChangePriceMsg struct {
	NewPrice1 *decimal.Decimal `json:"new_price1"`
	NewPrice2 *decimal.Decimal `json:"new_price2"`
}

type QueryMsg struct {
	GetConfig    *struct{}     `json:"get_config,omitempty"`
	BalanceOf    *BalanceQuery `json:"balance_of,omitempty"`
	ContractInfo *struct{}     `json:"contract_info,omitempty"`
}

type BalanceQuery struct {
	User string `json:"user"`
}

type BalanceOfResponse struct {
	Balance uint64 `json:"balance"`
}

type ConfigResponse struct {
	Owner        string          `json:"owner"`
	Cw721Address *string         `json:"cw721_address"`
	Denom1       string          `json:"denom1"`
	Denom2       string          `json:"denom2"`
	UnitPrice1   decimal.Decimal `json:"unit_price1"`
	UnitPrice2   decimal.Decimal `json:"unit_price2"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	TokenURI     string          `json:"token_uri"`
	Extension    *nft.Metadata   `json:"extension"`
	TotalMint    uint64          `json:"total_mint"`
	NextTokenId  uint32          `json:"unused_token_id"`
	MaxTokens    *uint32         `json:"max_tokens,omitempty"`
	MintPaused   bool            `json:"mint_paused"`
}

type ContractInfoResponse struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}
