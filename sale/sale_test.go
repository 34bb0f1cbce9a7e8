package sale

import (
	"encoding/json"
	"testing"

	"github.com/MixinNetwork/nfp/nft"
	"github.com/MixinNetwork/nfp/store"
	"github.com/MixinNetwork/nfp/wasm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCreator = "d3b4e8b1-5e6a-4a0b-9d4e-0f4f5a9d2c11"
	testOwner   = "0a0dbd0c-a9b6-4c32-a2b2-e7b4a3d1f26b"
	testBuyer   = "5b7c2a4e-9f31-4e0d-8c6a-2d1b3e4f5a6b"
	testCw721   = "8f14e45f-ceea-367a-9a36-dedd4bea2543"
)

func testInstantiateMsg() *InstantiateMsg {
	return &InstantiateMsg{
		Owner:       testOwner,
		Denom1:      "ujuno",
		Denom2:      "uusdc",
		UnitPrice1:  decimal.NewFromInt(1),
		UnitPrice2:  decimal.NewFromInt(5),
		Name:        "Fixed",
		Symbol:      "FIX",
		TokenCodeId: 10,
		TokenURI:    "https://example.com/token.json",
		Extension:   &nft.Metadata{Name: "Fixed Token"},
	}
}

func testEnv() wasm.Env {
	return wasm.Env{Contract: wasm.ContractInfo{Address: "sale"}}
}

func linkReply(addr string) wasm.Reply {
	data := wasm.EncodeInstantiateResponse(&wasm.InstantiateResponse{ContractAddress: addr})
	return wasm.Reply{
		Id:     InstantiateTokenReplyId,
		Result: wasm.SubMsgResult{Ok: &wasm.SubMsgResponse{Data: data}},
	}
}

func setupSale(t *testing.T, msg *InstantiateMsg) *store.Cache {
	s := store.NewMemory()
	_, err := Instantiate(s, testEnv(), wasm.MessageInfo{Sender: testCreator}, msg)
	require.Nil(t, err)
	_, err = Reply(s, testEnv(), linkReply(testCw721))
	require.Nil(t, err)
	return s
}

func mint(s wasm.Storage, sender string, amount int64, denom string) (*wasm.Response, error) {
	info := wasm.MessageInfo{Sender: sender, Funds: wasm.Coins{wasm.NewCoin(amount, denom)}}
	return Execute(s, testEnv(), info, &ExecuteMsg{Mint: &MintMsg{Denom: denom}})
}

func TestInstantiate(t *testing.T) {
	require := require.New(t)

	s := store.NewMemory()
	res, err := Instantiate(s, testEnv(), wasm.MessageInfo{Sender: testCreator}, testInstantiateMsg())
	require.Nil(err)
	require.Len(res.Messages, 1)

	sub := res.Messages[0]
	require.Equal(InstantiateTokenReplyId, sub.Id)
	require.Equal(wasm.ReplySuccess, sub.ReplyOn)
	require.Nil(sub.Msg.Bank)
	im := sub.Msg.Wasm.Instantiate
	require.NotNil(im)
	require.Equal(uint64(10), im.CodeId)
	require.Equal("Instantiate fixed price NFT contract", im.Label)
	require.Len(im.Funds, 0)
	var initMsg nft.InstantiateMsg
	require.Nil(json.Unmarshal(im.Msg, &initMsg))
	require.Equal("Fixed", initMsg.Name)
	require.Equal("FIX", initMsg.Symbol)
	require.Nil(initMsg.Minter)

	config, err := ReadConfig(s)
	require.Nil(err)
	require.Equal(testOwner, config.Owner)
	require.False(config.Linked())
	require.Equal(uint32(0), config.NextTokenId)
	require.True(config.UnitPrice2.Equal(decimal.NewFromInt(5)))
	require.Equal("Fixed Token", config.Extension.Name)

	total, err := ReadTotalMint(s)
	require.Nil(err)
	require.Equal(uint64(0), total)

	cv, err := ReadContractVersion(s)
	require.Nil(err)
	require.Equal(ContractName, cv.Contract)
	require.Equal(ContractVersion, cv.Version)
}

func TestInstantiateDefaultsOwner(t *testing.T) {
	msg := testInstantiateMsg()
	msg.Owner = ""
	s := store.NewMemory()
	_, err := Instantiate(s, testEnv(), wasm.MessageInfo{Sender: testCreator}, msg)
	require.Nil(t, err)
	config, err := ReadConfig(s)
	require.Nil(t, err)
	require.Equal(t, testCreator, config.Owner)
}

func TestInstantiateInvalid(t *testing.T) {
	assert := assert.New(t)
	info := wasm.MessageInfo{Sender: testCreator}

	msg := testInstantiateMsg()
	msg.UnitPrice1 = decimal.Zero
	s := store.NewMemory()
	_, err := Instantiate(s, testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidUnitPrice)
	_, err = ReadConfig(s)
	assert.ErrorIs(err, ErrNotFound)

	msg = testInstantiateMsg()
	msg.UnitPrice2 = decimal.Zero
	_, err = Instantiate(store.NewMemory(), testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidUnitPrice)

	msg = testInstantiateMsg()
	msg.UnitPrice1 = decimal.NewFromInt(-1)
	_, err = Instantiate(store.NewMemory(), testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidUnitPrice)

	var zero uint32
	msg = testInstantiateMsg()
	msg.MaxTokens = &zero
	_, err = Instantiate(store.NewMemory(), testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidMaxTokens)

	msg = testInstantiateMsg()
	msg.UnitPrice1 = decimal.RequireFromString("1.5")
	_, err = Instantiate(store.NewMemory(), testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidUnitPrice)

	msg = testInstantiateMsg()
	msg.UnitPrice2 = decimal.RequireFromString("0.001")
	_, err = Instantiate(store.NewMemory(), testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidUnitPrice)

	msg = testInstantiateMsg()
	msg.Denom2 = ""
	_, err = Instantiate(store.NewMemory(), testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidDenom)
}

func TestInstantiateInvalidAddress(t *testing.T) {
	assert := assert.New(t)
	info := wasm.MessageInfo{Sender: testCreator}

	msg := testInstantiateMsg()
	msg.Owner = "bob"
	s := store.NewMemory()
	_, err := Instantiate(s, testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidAddress)
	_, err = ReadConfig(s)
	assert.ErrorIs(err, ErrNotFound)

	msg = testInstantiateMsg()
	msg.Owner = "00000000-0000-0000-0000-000000000000"
	_, err = Instantiate(store.NewMemory(), testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidAddress)

	msg = testInstantiateMsg()
	msg.Owner = ""
	_, err = Instantiate(store.NewMemory(), testEnv(), wasm.MessageInfo{Sender: "bob"}, msg)
	assert.ErrorIs(err, ErrInvalidAddress)

	withdraw := "treasury"
	msg = testInstantiateMsg()
	msg.WithdrawAddress = &withdraw
	_, err = Instantiate(store.NewMemory(), testEnv(), info, msg)
	assert.ErrorIs(err, ErrInvalidAddress)

	withdraw = testOwner
	res, err := Instantiate(store.NewMemory(), testEnv(), info, msg)
	require.Nil(t, err)
	var initMsg nft.InstantiateMsg
	assert.Nil(json.Unmarshal(res.Messages[0].Msg.Wasm.Instantiate.Msg, &initMsg))
	assert.Equal(testOwner, *initMsg.WithdrawAddress)
}

func TestReplyLinksOnce(t *testing.T) {
	require := require.New(t)

	s := store.NewMemory()
	_, err := Instantiate(s, testEnv(), wasm.MessageInfo{Sender: testCreator}, testInstantiateMsg())
	require.Nil(err)

	_, err = mint(s, testBuyer, 1, "ujuno")
	require.ErrorIs(err, ErrUninitialized)

	reply := linkReply(testCw721)
	reply.Id = 2
	_, err = Reply(s, testEnv(), reply)
	require.ErrorIs(err, ErrInvalidTokenReplyId)

	res, err := Reply(s, testEnv(), linkReply(testCw721))
	require.Nil(err)
	addr, _ := res.Attribute("cw721_address")
	require.Equal(testCw721, addr)

	_, err = Reply(s, testEnv(), linkReply("9d5ed678-fe57-3cca-8101-8ac1ba1d5ef8"))
	require.ErrorIs(err, ErrCw721AlreadyLinked)
	config, err := ReadConfig(s)
	require.Nil(err)
	require.Equal(testCw721, config.Cw721Address)

	reply.Id = 2
	_, err = Reply(s, testEnv(), reply)
	require.ErrorIs(err, ErrInvalidTokenReplyId)
}

func TestReplyMalformed(t *testing.T) {
	require := require.New(t)

	s := store.NewMemory()
	_, err := Instantiate(s, testEnv(), wasm.MessageInfo{Sender: testCreator}, testInstantiateMsg())
	require.Nil(err)

	bad := wasm.Reply{Id: InstantiateTokenReplyId, Result: wasm.SubMsgResult{Ok: &wasm.SubMsgResponse{Data: []byte{0x0a, 0x20}}}}
	_, err = Reply(s, testEnv(), bad)
	require.ErrorIs(err, ErrParseReply)

	failed := wasm.Reply{Id: InstantiateTokenReplyId, Result: wasm.SubMsgResult{Err: "instantiate failed"}}
	_, err = Reply(s, testEnv(), failed)
	require.ErrorIs(err, ErrParseReply)

	_, err = Reply(s, testEnv(), linkReply(""))
	require.ErrorIs(err, ErrParseReply)

	empty := wasm.EncodeInstantiateResponse(&wasm.InstantiateResponse{Data: []byte("x")})
	_, err = Reply(s, testEnv(), wasm.Reply{Id: InstantiateTokenReplyId, Result: wasm.SubMsgResult{Ok: &wasm.SubMsgResponse{Data: empty}}})
	require.ErrorIs(err, ErrUnauthorizedTokenContract)

	config, err := ReadConfig(s)
	require.Nil(err)
	require.False(config.Linked())
}

func TestMintScenario(t *testing.T) {
	require := require.New(t)

	s := setupSale(t, testInstantiateMsg())

	res, err := mint(s, testBuyer, 1, "ujuno")
	require.Nil(err)
	require.Len(res.Messages, 2)

	exec := res.Messages[0].Msg.Wasm.Execute
	require.NotNil(exec)
	require.Equal(testCw721, exec.ContractAddr)
	require.Len(exec.Funds, 0)
	var em nft.ExecuteMsg
	require.Nil(json.Unmarshal(exec.Msg, &em))
	require.Equal("0", em.Mint.TokenId)
	require.Equal(testBuyer, em.Mint.Owner)
	require.Equal("https://example.com/token.json", *em.Mint.TokenURI)
	require.Equal("Fixed Token", em.Mint.Extension.Name)

	send := res.Messages[1].Msg.Bank.Send
	require.NotNil(send)
	require.Equal(testOwner, send.ToAddress)
	require.Equal("1ujuno", send.Amount.String())
	for _, sub := range res.Messages {
		require.Equal(wasm.ReplyNever, sub.ReplyOn)
	}

	for k, v := range map[string]string{"action": "mint_nft", "token_id": "0", "amount": "1", "denom": "ujuno"} {
		got, found := res.Attribute(k)
		require.True(found, k)
		require.Equal(v, got, k)
	}

	res, err = mint(s, testBuyer, 5, "uusdc")
	require.Nil(err)
	id, _ := res.Attribute("token_id")
	require.Equal("1", id)
	require.Equal("5uusdc", res.Messages[1].Msg.Bank.Send.Amount.String())

	balance, err := QueryBalance(s, testBuyer)
	require.Nil(err)
	require.Equal(uint64(2), balance.Balance)
	balance, err = QueryBalance(s, testOwner)
	require.Nil(err)
	require.Equal(uint64(0), balance.Balance)

	cr, err := QueryConfig(s)
	require.Nil(err)
	require.Equal(uint64(2), cr.TotalMint)
	require.Equal(uint32(2), cr.NextTokenId)
}

func TestMintRejects(t *testing.T) {
	require := require.New(t)

	s := setupSale(t, testInstantiateMsg())

	_, err := mint(s, testBuyer, 1, "uatom")
	require.ErrorIs(err, ErrWrongDenom)
	_, err = mint(s, testBuyer, 2, "ujuno")
	require.ErrorIs(err, ErrWrongPaymentAmount)
	_, err = mint(s, testBuyer, 1, "uusdc")
	require.ErrorIs(err, ErrWrongPaymentAmount)

	info := wasm.MessageInfo{Sender: testBuyer}
	_, err = Execute(s, testEnv(), info, &ExecuteMsg{Mint: &MintMsg{Denom: "ujuno"}})
	require.ErrorIs(err, ErrNoFunds)
	var pe *PaymentError
	require.ErrorAs(err, &pe)

	info.Funds = wasm.Coins{wasm.NewCoin(1, "ujuno"), wasm.NewCoin(5, "uusdc")}
	_, err = Execute(s, testEnv(), info, &ExecuteMsg{Mint: &MintMsg{Denom: "ujuno"}})
	require.ErrorIs(err, ErrMultipleDenoms)

	info.Funds = wasm.Coins{wasm.NewCoin(5, "uusdc")}
	_, err = Execute(s, testEnv(), info, &ExecuteMsg{Mint: &MintMsg{Denom: "ujuno"}})
	require.ErrorIs(err, ErrMissingDenom)

	total, err := ReadTotalMint(s)
	require.Nil(err)
	require.Equal(uint64(0), total)
	minted, err := ReadBalance(s, testBuyer)
	require.Nil(err)
	require.Equal(uint64(0), minted)
	config, err := ReadConfig(s)
	require.Nil(err)
	require.Equal(uint32(0), config.NextTokenId)
}

func TestMintPause(t *testing.T) {
	require := require.New(t)

	s := setupSale(t, testInstantiateMsg())
	owner := wasm.MessageInfo{Sender: testOwner}

	res, err := Execute(s, testEnv(), owner, &ExecuteMsg{ChangeStatus: &ChangeStatusMsg{MintPause: true}})
	require.Nil(err)
	v, _ := res.Attribute("ChangeStatus")
	require.Equal("true", v)

	_, err = mint(s, testBuyer, 1, "ujuno")
	require.ErrorIs(err, ErrMintPaused)
	_, err = mint(s, testBuyer, 1, "uatom")
	require.ErrorIs(err, ErrMintPaused)

	cr, err := QueryConfig(s)
	require.Nil(err)
	require.True(cr.MintPaused)

	_, err = Execute(s, testEnv(), wasm.MessageInfo{Sender: testBuyer}, &ExecuteMsg{ChangeStatus: &ChangeStatusMsg{MintPause: false}})
	require.ErrorIs(err, ErrNotOwner)

	_, err = Execute(s, testEnv(), owner, &ExecuteMsg{ChangeStatus: &ChangeStatusMsg{MintPause: false}})
	require.Nil(err)
	res, err = mint(s, testBuyer, 1, "ujuno")
	require.Nil(err)
	id, _ := res.Attribute("token_id")
	require.Equal("0", id)
}

func TestChangePrice(t *testing.T) {
	require := require.New(t)

	s := setupSale(t, testInstantiateMsg())
	owner := wasm.MessageInfo{Sender: testOwner}

	price := decimal.NewFromInt(3)
	_, err := Execute(s, testEnv(), wasm.MessageInfo{Sender: testBuyer}, &ExecuteMsg{ChangePrice: &ChangePriceMsg{NewPrice1: &price}})
	require.ErrorIs(err, ErrNotOwner)

	zero := decimal.Zero
	_, err = Execute(s, testEnv(), owner, &ExecuteMsg{ChangePrice: &ChangePriceMsg{NewPrice1: &price, NewPrice2: &zero}})
	require.ErrorIs(err, ErrInvalidUnitPrice)
	fraction := decimal.RequireFromString("2.5")
	_, err = Execute(s, testEnv(), owner, &ExecuteMsg{ChangePrice: &ChangePriceMsg{NewPrice1: &fraction}})
	require.ErrorIs(err, ErrInvalidUnitPrice)
	_, err = Execute(s, testEnv(), owner, &ExecuteMsg{ChangePrice: &ChangePriceMsg{NewPrice2: &fraction}})
	require.ErrorIs(err, ErrInvalidUnitPrice)
	config, err := ReadConfig(s)
	require.Nil(err)
	require.True(config.UnitPrice1.Equal(decimal.NewFromInt(1)))

	paid := wasm.MessageInfo{Sender: testOwner, Funds: wasm.Coins{wasm.NewCoin(1, "ujuno")}}
	_, err = Execute(s, testEnv(), paid, &ExecuteMsg{ChangePrice: &ChangePriceMsg{NewPrice1: &price}})
	require.ErrorIs(err, ErrExtraDenom)

	_, err = Execute(s, testEnv(), owner, &ExecuteMsg{ChangePrice: &ChangePriceMsg{NewPrice1: &price}})
	require.Nil(err)
	config, err = ReadConfig(s)
	require.Nil(err)
	require.True(config.UnitPrice1.Equal(price))
	require.True(config.UnitPrice2.Equal(decimal.NewFromInt(5)))

	_, err = mint(s, testBuyer, 1, "ujuno")
	require.ErrorIs(err, ErrWrongPaymentAmount)
	_, err = mint(s, testBuyer, 3, "ujuno")
	require.Nil(err)
}

func TestMaxTokens(t *testing.T) {
	require := require.New(t)

	max := uint32(2)
	msg := testInstantiateMsg()
	msg.MaxTokens = &max
	s := setupSale(t, msg)

	_, err := mint(s, testBuyer, 1, "ujuno")
	require.Nil(err)
	_, err = mint(s, testOwner, 1, "ujuno")
	require.Nil(err)
	_, err = mint(s, testBuyer, 1, "ujuno")
	require.ErrorIs(err, ErrSoldOut)

	cr, err := QueryConfig(s)
	require.Nil(err)
	require.Equal(uint32(2), *cr.MaxTokens)
	require.Equal(uint64(2), cr.TotalMint)
}

func TestExecuteUnknown(t *testing.T) {
	s := setupSale(t, testInstantiateMsg())
	price := decimal.NewFromInt(2)
	_, err := Execute(s, testEnv(), wasm.MessageInfo{Sender: testOwner}, &ExecuteMsg{})
	require.ErrorIs(t, err, ErrUnknownMessage)
	_, err = Execute(s, testEnv(), wasm.MessageInfo{Sender: testOwner}, &ExecuteMsg{
		ChangeStatus: &ChangeStatusMsg{},
		ChangePrice:  &ChangePriceMsg{NewPrice1: &price},
	})
	require.ErrorIs(t, err, ErrUnknownMessage)
	_, err = Contract{}.Execute(s, testEnv(), wasm.MessageInfo{Sender: testOwner}, []byte(`{"burn":{}}`))
	require.ErrorIs(t, err, ErrUnknownMessage)
}

func TestQueryJSON(t *testing.T) {
	require := require.New(t)

	c := Contract{}
	s := store.NewMemory()
	raw, _ := json.Marshal(testInstantiateMsg())
	_, err := c.Instantiate(s, testEnv(), wasm.MessageInfo{Sender: testCreator}, raw)
	require.Nil(err)

	out, err := c.Query(s, testEnv(), []byte(`{"get_config":{}}`))
	require.Nil(err)
	var cr map[string]interface{}
	require.Nil(json.Unmarshal(out, &cr))
	require.Nil(cr["cw721_address"])
	require.Equal("1", cr["unit_price1"])
	require.Equal("ujuno", cr["denom1"])
	require.Equal(false, cr["mint_paused"])
	_, found := cr["max_tokens"]
	require.False(found)

	_, err = c.Reply(s, testEnv(), linkReply(testCw721))
	require.Nil(err)
	out, err = c.Query(s, testEnv(), []byte(`{"get_config":{}}`))
	require.Nil(err)
	require.Nil(json.Unmarshal(out, &cr))
	require.Equal(testCw721, cr["cw721_address"])

	out, err = c.Query(s, testEnv(), []byte(`{"balance_of":{"user":"`+testBuyer+`"}}`))
	require.Nil(err)
	require.JSONEq(`{"balance":0}`, string(out))

	out, err = c.Query(s, testEnv(), []byte(`{"contract_info":{}}`))
	require.Nil(err)
	require.JSONEq(`{"contract":"crates.io:cw721-fixed-price","version":"0.1.0"}`, string(out))

	_, err = c.Query(s, testEnv(), []byte(`{}`))
	require.ErrorIs(err, ErrUnknownMessage)
}
