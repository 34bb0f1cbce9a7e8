// Package wasm holds the host interface shared by contracts and the chain
// that runs them: environment, funds, responses and the messages a contract
// asks the host to dispatch once it returns.
package wasm

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Storage is the keyed store a contract reads and writes during one call.
// Get returns nil without error when the key is absent.
type Storage interface {
	Get(key []byte) ([]byte, error)
	Set(key, val []byte) error
	Delete(key []byte) error
}

type Coin struct {
	Denom  string          `json:"denom"`
	Amount decimal.Decimal `json:"amount"`
}

func NewCoin(amount int64, denom string) Coin {
	return Coin{Denom: denom, Amount: decimal.NewFromInt(amount)}
}

func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}

type Coins []Coin

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

type BlockInfo struct {
	Height  uint64    `json:"height"`
	Time    time.Time `json:"time"`
	ChainId string    `json:"chain_id"`
}

type ContractInfo struct {
	Address string `json:"address"`
}

type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

type MessageInfo struct {
	Sender string `json:"sender"`
	Funds  Coins  `json:"funds"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

type Response struct {
	Messages   []SubMsg    `json:"messages"`
	Attributes []Attribute `json:"attributes"`
	Data       []byte      `json:"data,omitempty"`
}

func NewResponse() *Response {
	return &Response{}
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddMessage appends a message whose result is never reported back.
func (r *Response) AddMessage(msg CosmosMsg) *Response {
	return r.AddSubMessage(SubMsg{Msg: msg, ReplyOn: ReplyNever})
}

func (r *Response) AddSubMessage(sub SubMsg) *Response {
	r.Messages = append(r.Messages, sub)
	return r
}

func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

type ReplyOn int

const (
	ReplyNever ReplyOn = iota
	ReplySuccess
	ReplyError
	ReplyAlways
)

// Matches reports whether a sub message that finished with err should be
// replied to the contract that emitted it.
func (ro ReplyOn) Matches(err error) bool {
	switch ro {
	case ReplyNever:
		return false
	case ReplySuccess:
		return err == nil
	case ReplyError:
		return err != nil
	case ReplyAlways:
		return true
	}
	panic(int(ro))
}

type SubMsg struct {
	Id       uint64    `json:"id"`
	Msg      CosmosMsg `json:"msg"`
	GasLimit *uint64   `json:"gas_limit,omitempty"`
	ReplyOn  ReplyOn   `json:"reply_on"`
}

type CosmosMsg struct {
	Bank *BankMsg `json:"bank,omitempty"`
	Wasm *WasmMsg `json:"wasm,omitempty"`
}

type BankMsg struct {
	Send *SendMsg `json:"send,omitempty"`
}

type SendMsg struct {
	ToAddress string `json:"to_address"`
	Amount    Coins  `json:"amount"`
}

type WasmMsg struct {
	Execute     *ExecuteMsg     `json:"execute,omitempty"`
	Instantiate *InstantiateMsg `json:"instantiate,omitempty"`
}

type ExecuteMsg struct {
	ContractAddr string          `json:"contract_addr"`
	Msg          json.RawMessage `json:"msg"`
	Funds        Coins           `json:"funds"`
}

type InstantiateMsg struct {
	Admin  string          `json:"admin,omitempty"`
	CodeId uint64          `json:"code_id"`
	Msg    json.RawMessage `json:"msg"`
	Funds  Coins           `json:"funds"`
	Label  string          `json:"label"`
}

type Reply struct {
	Id     uint64       `json:"id"`
	Result SubMsgResult `json:"result"`
}

// SubMsgResult carries either Ok or a non empty Err.
type SubMsgResult struct {
	Ok  *SubMsgResponse `json:"ok,omitempty"`
	Err string          `json:"error,omitempty"`
}

type SubMsgResponse struct {
	Events []Event `json:"events"`
	Data   []byte  `json:"data,omitempty"`
}

// Contract is the set of entry points the host drives. Messages are JSON
// encoded; queries return JSON.
type Contract interface {
	Instantiate(s Storage, env Env, info MessageInfo, msg []byte) (*Response, error)
	Execute(s Storage, env Env, info MessageInfo, msg []byte) (*Response, error)
	Query(s Storage, env Env, msg []byte) ([]byte, error)
}

// Replier is implemented by contracts that emit sub messages with a reply.
type Replier interface {
	Reply(s Storage, env Env, reply Reply) (*Response, error)
}
