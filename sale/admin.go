package sale

import (
	"strconv"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfp/wasm"
)

func executeChangeStatus(s wasm.Storage, info wasm.MessageInfo, mintPause bool) (*wasm.Response, error) {
	config, err := ReadConfig(s)
	if err != nil {
		return nil, err
	}
	if info.Sender != config.Owner {
		return nil, ErrNotOwner
	}
	err = NonPayable(info)
	if err != nil {
		return nil, err
	}

	err = writeMintPaused(s, mintPause)
	if err != nil {
		return nil, err
	}
	logger.Verbosef("sale.ChangeStatus(%s) paused %t\n", info.Sender, mintPause)
	return wasm.NewResponse().AddAttribute("ChangeStatus", strconv.FormatBool(mintPause)), nil
}

// executeChangePrice updates each price independently. Prices are checked
// the same way instantiation checks them.
func executeChangePrice(s wasm.Storage, info wasm.MessageInfo, msg *ChangePriceMsg) (*wasm.Response, error) {
	config, err := ReadConfig(s)
	if err != nil {
		return nil, err
	}
	if info.Sender != config.Owner {
		return nil, ErrNotOwner
	}
	err = NonPayable(info)
	if err != nil {
		return nil, err
	}

	if msg.NewPrice1 != nil && !validPrice(*msg.NewPrice1) {
		return nil, ErrInvalidUnitPrice
	}
	if msg.NewPrice2 != nil && !validPrice(*msg.NewPrice2) {
		return nil, ErrInvalidUnitPrice
	}
	if msg.NewPrice1 != nil {
		config.UnitPrice1 = *msg.NewPrice1
	}
	if msg.NewPrice2 != nil {
		config.UnitPrice2 = *msg.NewPrice2
	}

	err = writeConfig(s, config)
	if err != nil {
		return nil, err
	}
	logger.Verbosef("sale.ChangePrice(%s) %s%s %s%s\n", info.Sender,
		config.UnitPrice1, config.Denom1, config.UnitPrice2, config.Denom2)
	return wasm.NewResponse().
		AddAttribute("action", "change_price").
		AddAttribute("unit_price1", config.UnitPrice1.String()).
		AddAttribute("unit_price2", config.UnitPrice2.String()), nil
}
