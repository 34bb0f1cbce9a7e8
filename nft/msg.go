package nft

// Metadata is the optional on-chain extension stored with each token.
type Metadata struct {
	Image           string  `json:"image,omitempty"`
	ImageData       string  `json:"image_data,omitempty"`
	ExternalURL     string  `json:"external_url,omitempty"`
	Description     string  `json:"description,omitempty"`
	Name            string  `json:"name,omitempty"`
	Attributes      []Trait `json:"attributes,omitempty"`
	BackgroundColor string  `json:"background_color,omitempty"`
	AnimationURL    string  `json:"animation_url,omitempty"`
	YoutubeURL      string  `json:"youtube_url,omitempty"`
}

type Trait struct {
	DisplayType string `json:"display_type,omitempty"`
	TraitType   string `json:"trait_type"`
	Value       string `json:"value"`
}

type InstantiateMsg struct {
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	Minter          *string `json:"minter"`
	WithdrawAddress *string `json:"withdraw_address"`
}

type ExecuteMsg struct {
	Mint *MintMsg `json:"mint,omitempty"`
}

type MintMsg struct {
	TokenId   string    `json:"token_id"`
	Owner     string    `json:"owner"`
	TokenURI  *string   `json:"token_uri"`
	Extension *Metadata `json:"extension"`
}

type QueryMsg struct {
	OwnerOf      *OwnerOfQuery `json:"owner_of,omitempty"`
	NftInfo      *NftInfoQuery `json:"nft_info,omitempty"`
	NumTokens    *struct{}     `json:"num_tokens,omitempty"`
	ContractInfo *struct{}     `json:"contract_info,omitempty"`
	Minter       *struct{}     `json:"minter,omitempty"`
}

type OwnerOfQuery struct {
	TokenId string `json:"token_id"`
}

type NftInfoQuery struct {
	TokenId string `json:"token_id"`
}

type OwnerOfResponse struct {
	Owner string `json:"owner"`
}

type NftInfoResponse struct {
	TokenURI  *string   `json:"token_uri"`
	Extension *Metadata `json:"extension"`
}

type NumTokensResponse struct {
	Count uint64 `json:"count"`
}

type ContractInfoResponse struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	WithdrawAddress string `json:"withdraw_address,omitempty"`
}

type MinterResponse struct {
	Minter string `json:"minter"`
}
