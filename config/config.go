package config

import (
	"fmt"
	"os"

	"github.com/MixinNetwork/nfp/nft"
	"github.com/MixinNetwork/nfp/sale"
	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

type Configuration struct {
	Chain struct {
		Id       string `toml:"id"`
		LogLevel int    `toml:"log-level"`
	} `toml:"chain"`

	Sale struct {
		Creator         string     `toml:"creator"`
		Owner           string     `toml:"owner"`
		Denom1          string     `toml:"denom1"`
		Price1          string     `toml:"price1"`
		Denom2          string     `toml:"denom2"`
		Price2          string     `toml:"price2"`
		Name            string     `toml:"name"`
		Symbol          string     `toml:"symbol"`
		TokenURI        string     `toml:"token-uri"`
		WithdrawAddress string     `toml:"withdraw-address"`
		MaxTokens       uint32     `toml:"max-tokens"`
		Extension       *Extension `toml:"extension"`
	} `toml:"sale"`
}

type Extension struct {
	Image        string `toml:"image"`
	ExternalURL  string `toml:"external-url"`
	Description  string `toml:"description"`
	Name         string `toml:"name"`
	AnimationURL string `toml:"animation-url"`
}

func Setup(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(data, &conf)
	if err != nil {
		return nil, err
	}
	if conf.Chain.Id == "" {
		conf.Chain.Id = "nfp-local"
	}
	return &conf, nil
}

// InstantiateMsg builds the sale instantiation from the [sale] section,
// pointing at the collection code registered as tokenCodeId.
func (conf *Configuration) InstantiateMsg(tokenCodeId uint64) (*sale.InstantiateMsg, error) {
	sc := conf.Sale
	price1, err := decimal.NewFromString(sc.Price1)
	if err != nil {
		return nil, fmt.Errorf("invalid price1 %s: %w", sc.Price1, err)
	}
	price2, err := decimal.NewFromString(sc.Price2)
	if err != nil {
		return nil, fmt.Errorf("invalid price2 %s: %w", sc.Price2, err)
	}
	msg := &sale.InstantiateMsg{
		Owner:       sc.Owner,
		Denom1:      sc.Denom1,
		Denom2:      sc.Denom2,
		UnitPrice1:  price1,
		UnitPrice2:  price2,
		Name:        sc.Name,
		Symbol:      sc.Symbol,
		TokenCodeId: tokenCodeId,
		TokenURI:    sc.TokenURI,
	}
	if e := sc.Extension; e != nil {
		msg.Extension = &nft.Metadata{
			Image:        e.Image,
			ExternalURL:  e.ExternalURL,
			Description:  e.Description,
			Name:         e.Name,
			AnimationURL: e.AnimationURL,
		}
	}
	if sc.WithdrawAddress != "" {
		wa := sc.WithdrawAddress
		msg.WithdrawAddress = &wa
	}
	if sc.MaxTokens > 0 {
		max := sc.MaxTokens
		msg.MaxTokens = &max
	}
	return msg, nil
}
