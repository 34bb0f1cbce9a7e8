// Package host runs contracts the way a ledger would: each external call is
// one serialized badger transaction, messages emitted by a contract execute
// in order inside that transaction, and any failure discards all of it.
package host

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfp/store"
	"github.com/MixinNetwork/nfp/wasm"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/shopspring/decimal"
)

const (
	prefixContractInfo  = "WASM:CONTRACT:INFO:"
	prefixContractState = "WASM:CONTRACT:STATE:"
	keyContractSequence = "WASM:CONTRACT:SEQUENCE"
	keyBlockHeight      = "HOST:BLOCK:HEIGHT"

	maxCallDepth = 8
)

var (
	ErrCodeNotFound      = errors.New("host: code not found")
	ErrContractNotFound  = errors.New("host: contract not found")
	ErrInvalidAddress    = errors.New("host: invalid address")
	ErrInvalidCoin       = errors.New("host: invalid coin")
	ErrInsufficientFunds = errors.New("host: insufficient funds")
	ErrCallDepth         = errors.New("host: call depth exceeded")
	ErrReplyUnsupported  = errors.New("host: contract does not handle replies")
	ErrEmptyMessage      = errors.New("host: empty message")
)

type Contract struct {
	Address   string
	CodeId    uint64
	Creator   string
	Admin     string
	Label     string
	CreatedAt time.Time
}

// Chain serializes calls, queries and code registration on one mutex; the
// code registry is only read while it is held.
type Chain struct {
	mutex   sync.Mutex
	store   *store.BadgerStore
	clock   *Clock
	chainId string
	codes   map[uint64]wasm.Contract
}

func NewChain(db *store.BadgerStore, chainId string) (*Chain, error) {
	clock, err := NewClock(db)
	if err != nil {
		return nil, err
	}
	return &Chain{
		store:   db,
		clock:   clock,
		chainId: chainId,
		codes:   make(map[uint64]wasm.Contract),
	}, nil
}

// StoreCode registers a contract implementation and returns its code id.
// Ids follow registration order, so a process must register the same codes
// in the same order to find its contracts again.
func (c *Chain) StoreCode(code wasm.Contract) uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	id := uint64(len(c.codes) + 1)
	c.codes[id] = code
	return id
}

func (c *Chain) Instantiate(ctx context.Context, sender string, codeId uint64, msg []byte, funds wasm.Coins, label string) (string, *wasm.Response, error) {
	err := ValidateAddress(sender)
	if err != nil {
		return "", nil, err
	}
	var addr string
	var res *wasm.Response
	err = c.run(ctx, func(txn *store.Txn, env wasm.Env) error {
		var err error
		im := &wasm.InstantiateMsg{CodeId: codeId, Msg: msg, Funds: funds, Label: label}
		addr, res, err = c.instantiate(txn, env, sender, im, 0)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return addr, res, nil
}

func (c *Chain) Execute(ctx context.Context, sender, contract string, msg []byte, funds wasm.Coins) (*wasm.Response, error) {
	err := ValidateAddress(sender)
	if err != nil {
		return nil, err
	}
	var res *wasm.Response
	err = c.run(ctx, func(txn *store.Txn, env wasm.Env) error {
		var err error
		em := &wasm.ExecuteMsg{ContractAddr: contract, Msg: msg, Funds: funds}
		res, err = c.execute(txn, env, sender, em, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Chain) Query(ctx context.Context, contract string, msg []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var out []byte
	err := c.store.View(func(txn *store.Txn) error {
		meta, err := readContract(txn, contract)
		if err != nil {
			return err
		}
		code, found := c.codes[meta.CodeId]
		if !found {
			return fmt.Errorf("%w: %d", ErrCodeNotFound, meta.CodeId)
		}
		env := wasm.Env{
			Block:    wasm.BlockInfo{ChainId: c.chainId},
			Contract: wasm.ContractInfo{Address: contract},
		}
		out, err = code.Query(contractStore(txn, contract), env, msg)
		return err
	})
	return out, err
}

func (c *Chain) ReadContract(contract string) (*Contract, error) {
	var meta *Contract
	err := c.store.View(func(txn *store.Txn) error {
		var err error
		meta, err = readContract(txn, contract)
		return err
	})
	return meta, err
}

// Fund credits coins to addr outside of any contract call.
func (c *Chain) Fund(ctx context.Context, addr string, coins wasm.Coins) error {
	return c.run(ctx, func(txn *store.Txn, env wasm.Env) error {
		return NewBank(txn).Mint(addr, coins)
	})
}

func (c *Chain) Balance(addr, denom string) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := c.store.View(func(txn *store.Txn) error {
		var err error
		balance, err = NewBank(txn).Balance(addr, denom)
		return err
	})
	return balance, err
}

func (c *Chain) Height() (uint64, error) {
	var height uint64
	err := c.store.View(func(txn *store.Txn) error {
		var err error
		height, err = readHeight(txn)
		return err
	})
	return height, err
}

// run serializes calls and gives each one its own transaction and block.
func (c *Chain) run(ctx context.Context, fn func(txn *store.Txn, env wasm.Env) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now, err := c.clock.Now()
	if err != nil {
		return err
	}
	return c.store.Update(func(txn *store.Txn) error {
		height, err := readHeight(txn)
		if err != nil {
			return err
		}
		height += 1
		err = writeUint64(txn, []byte(keyBlockHeight), height)
		if err != nil {
			return err
		}
		env := wasm.Env{Block: wasm.BlockInfo{
			Height:  height,
			Time:    now,
			ChainId: c.chainId,
		}}
		return fn(txn, env)
	})
}

func (c *Chain) instantiate(kv store.KV, env wasm.Env, sender string, msg *wasm.InstantiateMsg, depth int) (string, *wasm.Response, error) {
	if depth > maxCallDepth {
		return "", nil, ErrCallDepth
	}
	code, found := c.codes[msg.CodeId]
	if !found {
		return "", nil, fmt.Errorf("%w: %d", ErrCodeNotFound, msg.CodeId)
	}
	if len(msg.Msg) == 0 {
		return "", nil, ErrEmptyMessage
	}
	addr, err := allocateAddress(kv, sender, msg.Label)
	if err != nil {
		return "", nil, err
	}
	meta := &Contract{
		Address:   addr,
		CodeId:    msg.CodeId,
		Creator:   sender,
		Admin:     msg.Admin,
		Label:     msg.Label,
		CreatedAt: env.Block.Time,
	}
	err = kv.Set([]byte(prefixContractInfo+addr), common.MsgpackMarshalPanic(meta))
	if err != nil {
		return "", nil, err
	}
	if len(msg.Funds) > 0 {
		err = NewBank(kv).Send(sender, addr, msg.Funds)
		if err != nil {
			return "", nil, err
		}
	}

	env.Contract = wasm.ContractInfo{Address: addr}
	info := wasm.MessageInfo{Sender: sender, Funds: msg.Funds}
	res, err := code.Instantiate(contractStore(kv, addr), env, info, msg.Msg)
	if err != nil {
		return "", nil, err
	}
	logResponse("instantiate", addr, res)
	err = c.dispatch(kv, env, addr, res.Messages, depth)
	if err != nil {
		return "", nil, err
	}
	return addr, res, nil
}

func (c *Chain) execute(kv store.KV, env wasm.Env, sender string, msg *wasm.ExecuteMsg, depth int) (*wasm.Response, error) {
	if depth > maxCallDepth {
		return nil, ErrCallDepth
	}
	if len(msg.Msg) == 0 {
		return nil, ErrEmptyMessage
	}
	meta, err := readContract(kv, msg.ContractAddr)
	if err != nil {
		return nil, err
	}
	code, found := c.codes[meta.CodeId]
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrCodeNotFound, meta.CodeId)
	}
	if len(msg.Funds) > 0 {
		err = NewBank(kv).Send(sender, meta.Address, msg.Funds)
		if err != nil {
			return nil, err
		}
	}

	env.Contract = wasm.ContractInfo{Address: meta.Address}
	info := wasm.MessageInfo{Sender: sender, Funds: msg.Funds}
	res, err := code.Execute(contractStore(kv, meta.Address), env, info, msg.Msg)
	if err != nil {
		return nil, err
	}
	logResponse("execute", meta.Address, res)
	err = c.dispatch(kv, env, meta.Address, res.Messages, depth)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// dispatch runs the messages emitted by contract in order. Each one runs in
// its own cache: a failure either aborts the whole call or, when the
// contract asked for it, is reverted and reported through Reply.
func (c *Chain) dispatch(kv store.KV, env wasm.Env, contract string, msgs []wasm.SubMsg, depth int) error {
	for _, sub := range msgs {
		cache := store.NewCache(kv)
		data, err := c.dispatchMessage(cache, env, contract, sub.Msg, depth+1)
		if err == nil {
			err = cache.Write()
			if err != nil {
				return err
			}
		}
		if !sub.ReplyOn.Matches(err) {
			if err != nil {
				return err
			}
			continue
		}

		reply := wasm.Reply{Id: sub.Id}
		if err != nil {
			reply.Result.Err = err.Error()
		} else {
			reply.Result.Ok = &wasm.SubMsgResponse{Data: data}
		}
		err = c.reply(kv, env, contract, reply, depth)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) dispatchMessage(kv store.KV, env wasm.Env, contract string, msg wasm.CosmosMsg, depth int) ([]byte, error) {
	switch {
	case msg.Bank != nil && msg.Bank.Send != nil:
		send := msg.Bank.Send
		logger.Verbosef("host.BankSend(%s) %s => %s\n", contract, send.Amount, send.ToAddress)
		return nil, NewBank(kv).Send(contract, send.ToAddress, send.Amount)
	case msg.Wasm != nil && msg.Wasm.Execute != nil:
		res, err := c.execute(kv, env, contract, msg.Wasm.Execute, depth)
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	case msg.Wasm != nil && msg.Wasm.Instantiate != nil:
		addr, res, err := c.instantiate(kv, env, contract, msg.Wasm.Instantiate, depth)
		if err != nil {
			return nil, err
		}
		return wasm.EncodeInstantiateResponse(&wasm.InstantiateResponse{
			ContractAddress: addr,
			Data:            res.Data,
		}), nil
	}
	return nil, ErrEmptyMessage
}

func (c *Chain) reply(kv store.KV, env wasm.Env, contract string, reply wasm.Reply, depth int) error {
	meta, err := readContract(kv, contract)
	if err != nil {
		return err
	}
	replier, ok := c.codes[meta.CodeId].(wasm.Replier)
	if !ok {
		return fmt.Errorf("%w: %s", ErrReplyUnsupported, contract)
	}
	env.Contract = wasm.ContractInfo{Address: contract}
	res, err := replier.Reply(contractStore(kv, contract), env, reply)
	if err != nil {
		return err
	}
	logResponse("reply", contract, res)
	return c.dispatch(kv, env, contract, res.Messages, depth)
}

func readContract(kv store.KV, addr string) (*Contract, error) {
	val, err := kv.Get([]byte(prefixContractInfo + addr))
	if err != nil {
		return nil, err
	} else if val == nil {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, addr)
	}
	var meta Contract
	err = common.MsgpackUnmarshal(val, &meta)
	return &meta, err
}

// allocateAddress derives a deterministic contract address from the creator
// and a chain wide sequence.
func allocateAddress(kv store.KV, creator, label string) (string, error) {
	seq, err := readUint64(kv, []byte(keyContractSequence))
	if err != nil {
		return "", err
	}
	seq += 1
	err = writeUint64(kv, []byte(keyContractSequence), seq)
	if err != nil {
		return "", err
	}
	return mixin.UniqueConversationID(creator, fmt.Sprintf("%s:%d", label, seq)), nil
}

func contractStore(kv store.KV, addr string) wasm.Storage {
	return store.NewPrefix(kv, prefixContractState+addr+":")
}

func logResponse(action, contract string, res *wasm.Response) {
	for _, a := range res.Attributes {
		logger.Verbosef("host.%s(%s) %s=%s\n", action, contract, a.Key, a.Value)
	}
}

func readHeight(kv store.KV) (uint64, error) {
	return readUint64(kv, []byte(keyBlockHeight))
}

func readUint64(kv store.KV, key []byte) (uint64, error) {
	val, err := kv.Get(key)
	if err != nil || len(val) == 0 {
		return 0, err
	}
	if len(val) != 8 {
		return 0, fmt.Errorf("host: invalid counter %x", val)
	}
	return binary.BigEndian.Uint64(val), nil
}

func writeUint64(kv store.KV, key []byte, n uint64) error {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, n)
	return kv.Set(key, val)
}
