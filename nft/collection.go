package nft

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/nfp/wasm"
)

const (
	keyCollection   = "COLLECTION:INFO"
	keyNumTokens    = "COLLECTION:NUM"
	prefixTokenInfo = "COLLECTION:TOKEN:"
)

var (
	ErrUnauthorized   = errors.New("nft: caller is not the minter")
	ErrTokenClaimed   = errors.New("nft: token id already claimed")
	ErrTokenNotFound  = errors.New("nft: token not found")
	ErrInvalidOwner   = errors.New("nft: invalid token owner")
	ErrInvalidTokenId = errors.New("nft: invalid token id")
	ErrUnknownMessage = errors.New("nft: unknown message")
	ErrNotInitialized = errors.New("nft: collection not instantiated")
)

type Info struct {
	Name            string
	Symbol          string
	Minter          string
	WithdrawAddress string
}

type Token struct {
	Id        string
	Owner     string
	TokenURI  string
	Extension *Metadata
}

// Collection is a minimal cw721 contract: a named set of uniquely identified
// tokens that only the minter can create.
type Collection struct{}

func (Collection) Instantiate(s wasm.Storage, env wasm.Env, info wasm.MessageInfo, raw []byte) (*wasm.Response, error) {
	var msg InstantiateMsg
	err := json.Unmarshal(raw, &msg)
	if err != nil {
		return nil, fmt.Errorf("nft: invalid instantiate message: %w", err)
	}
	ci := &Info{
		Name:   msg.Name,
		Symbol: msg.Symbol,
		Minter: info.Sender,
	}
	if msg.Minter != nil {
		ci.Minter = *msg.Minter
	}
	if msg.WithdrawAddress != nil {
		ci.WithdrawAddress = *msg.WithdrawAddress
	}
	err = s.Set([]byte(keyCollection), common.MsgpackMarshalPanic(ci))
	if err != nil {
		return nil, err
	}
	return wasm.NewResponse().
		AddAttribute("action", "instantiate").
		AddAttribute("minter", ci.Minter), nil
}

func (c Collection) Execute(s wasm.Storage, env wasm.Env, info wasm.MessageInfo, raw []byte) (*wasm.Response, error) {
	var msg ExecuteMsg
	err := json.Unmarshal(raw, &msg)
	if err != nil {
		return nil, fmt.Errorf("nft: invalid execute message: %w", err)
	}
	if msg.Mint == nil {
		return nil, ErrUnknownMessage
	}
	return c.Mint(s, info, msg.Mint)
}

// Mint creates a new token owned by msg.Owner. The id must be unused.
func (Collection) Mint(s wasm.Storage, info wasm.MessageInfo, msg *MintMsg) (*wasm.Response, error) {
	ci, err := ReadInfo(s)
	if err != nil {
		return nil, err
	}
	if info.Sender != ci.Minter {
		return nil, ErrUnauthorized
	}
	if msg.TokenId == "" {
		return nil, ErrInvalidTokenId
	}
	if msg.Owner == "" {
		return nil, ErrInvalidOwner
	}

	old, err := ReadToken(s, msg.TokenId)
	if err != nil {
		return nil, err
	} else if old != nil {
		return nil, ErrTokenClaimed
	}

	token := &Token{
		Id:        msg.TokenId,
		Owner:     msg.Owner,
		Extension: msg.Extension,
	}
	if msg.TokenURI != nil {
		token.TokenURI = *msg.TokenURI
	}
	key := append([]byte(prefixTokenInfo), msg.TokenId...)
	err = s.Set(key, common.MsgpackMarshalPanic(token))
	if err != nil {
		return nil, err
	}

	count, err := readNumTokens(s)
	if err != nil {
		return nil, err
	}
	err = s.Set([]byte(keyNumTokens), []byte(strconv.FormatUint(count+1, 10)))
	if err != nil {
		return nil, err
	}

	return wasm.NewResponse().
		AddAttribute("action", "mint").
		AddAttribute("minter", info.Sender).
		AddAttribute("owner", msg.Owner).
		AddAttribute("token_id", msg.TokenId), nil
}

func (Collection) Query(s wasm.Storage, env wasm.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	err := json.Unmarshal(raw, &msg)
	if err != nil {
		return nil, fmt.Errorf("nft: invalid query message: %w", err)
	}
	switch {
	case msg.OwnerOf != nil:
		token, err := ReadToken(s, msg.OwnerOf.TokenId)
		if err != nil {
			return nil, err
		} else if token == nil {
			return nil, ErrTokenNotFound
		}
		return json.Marshal(&OwnerOfResponse{Owner: token.Owner})
	case msg.NftInfo != nil:
		token, err := ReadToken(s, msg.NftInfo.TokenId)
		if err != nil {
			return nil, err
		} else if token == nil {
			return nil, ErrTokenNotFound
		}
		res := &NftInfoResponse{Extension: token.Extension}
		if token.TokenURI != "" {
			res.TokenURI = &token.TokenURI
		}
		return json.Marshal(res)
	case msg.NumTokens != nil:
		count, err := readNumTokens(s)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&NumTokensResponse{Count: count})
	case msg.ContractInfo != nil:
		ci, err := ReadInfo(s)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&ContractInfoResponse{
			Name:            ci.Name,
			Symbol:          ci.Symbol,
			WithdrawAddress: ci.WithdrawAddress,
		})
	case msg.Minter != nil:
		ci, err := ReadInfo(s)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&MinterResponse{Minter: ci.Minter})
	}
	return nil, ErrUnknownMessage
}

func ReadInfo(s wasm.Storage) (*Info, error) {
	val, err := s.Get([]byte(keyCollection))
	if err != nil {
		return nil, err
	} else if val == nil {
		return nil, ErrNotInitialized
	}
	var ci Info
	err = common.MsgpackUnmarshal(val, &ci)
	return &ci, err
}

func ReadToken(s wasm.Storage, id string) (*Token, error) {
	key := append([]byte(prefixTokenInfo), id...)
	val, err := s.Get(key)
	if err != nil || val == nil {
		return nil, err
	}
	var token Token
	err = common.MsgpackUnmarshal(val, &token)
	return &token, err
}

func readNumTokens(s wasm.Storage) (uint64, error) {
	val, err := s.Get([]byte(keyNumTokens))
	if err != nil || val == nil {
		return 0, err
	}
	return strconv.ParseUint(string(val), 10, 64)
}
