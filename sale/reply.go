package sale

import (
	"fmt"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfp/wasm"
)

// Reply completes the collection deployment started by Instantiate. The
// collection address is bound at most once, any later completion fails.
func Reply(s wasm.Storage, env wasm.Env, reply wasm.Reply) (*wasm.Response, error) {
	if reply.Id != InstantiateTokenReplyId {
		return nil, ErrInvalidTokenReplyId
	}
	config, err := ReadConfig(s)
	if err != nil {
		return nil, err
	}
	if config.Linked() {
		return nil, ErrCw721AlreadyLinked
	}

	res, err := wasm.ParseReplyInstantiateData(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseReply, err)
	}
	if res.ContractAddress == "" {
		return nil, ErrUnauthorizedTokenContract
	}

	config.Cw721Address = res.ContractAddress
	err = writeConfig(s, config)
	if err != nil {
		return nil, err
	}
	logger.Verbosef("sale.Reply(%s) linked cw721 %s\n", env.Contract.Address, config.Cw721Address)
	return wasm.NewResponse().
		AddAttribute("action", "link_cw721").
		AddAttribute("cw721_address", config.Cw721Address), nil
}
