package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfp/config"
	"github.com/MixinNetwork/nfp/host"
	"github.com/MixinNetwork/nfp/nft"
	"github.com/MixinNetwork/nfp/sale"
	"github.com/MixinNetwork/nfp/store"
	"github.com/MixinNetwork/nfp/wasm"
	"github.com/shopspring/decimal"
)

const saleAddressPropertyKey = "NFP:SALE:ADDRESS"

func main() {
	ctx := context.Background()

	bp := flag.String("d", "~/.mixin/nfp/data", "database directory path")
	cp := flag.String("c", "~/.mixin/nfp/config.toml", "configuration file path")
	flag.Usage = usage
	flag.Parse()

	if strings.HasPrefix(*cp, "~/") {
		usr, _ := user.Current()
		*cp = filepath.Join(usr.HomeDir, (*cp)[2:])
	}
	conf, err := config.Setup(*cp)
	if err != nil {
		panic(err)
	}
	logger.SetLevel(conf.Chain.LogLevel)

	if strings.HasPrefix(*bp, "~/") {
		usr, _ := user.Current()
		*bp = filepath.Join(usr.HomeDir, (*bp)[2:])
	}
	db, err := store.OpenBadger(ctx, *bp)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	chain, err := host.NewChain(db, conf.Chain.Id)
	if err != nil {
		panic(err)
	}
	app := &App{
		chain:       chain,
		db:          db,
		conf:        conf,
		saleCodeId:  chain.StoreCode(sale.Contract{}),
		tokenCodeId: chain.StoreCode(nft.Collection{}),
	}
	out, err := app.Run(ctx, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		db.Close()
		os.Exit(1)
	}
	fmt.Println(out)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-d dir] [-c config] <command>\n\n", os.Args[0])
	fmt.Fprintln(flag.CommandLine.Output(), "Commands:")
	fmt.Fprintln(flag.CommandLine.Output(), "  instantiate")
	fmt.Fprintln(flag.CommandLine.Output(), "  mint <sender> <amount> <denom>")
	fmt.Fprintln(flag.CommandLine.Output(), "  pause <sender> <true|false>")
	fmt.Fprintln(flag.CommandLine.Output(), "  price <sender> <price1|-> <price2|->")
	fmt.Fprintln(flag.CommandLine.Output(), "  config")
	fmt.Fprintln(flag.CommandLine.Output(), "  balance <user>")
	fmt.Fprintln(flag.CommandLine.Output(), "  owner <token id>")
	fmt.Fprintln(flag.CommandLine.Output(), "  fund <address> <amount> <denom>")
	fmt.Fprintln(flag.CommandLine.Output(), "  coins <address> <denom>")
	flag.PrintDefaults()
}

type App struct {
	chain       *host.Chain
	db          *store.BadgerStore
	conf        *config.Configuration
	saleCodeId  uint64
	tokenCodeId uint64
}

func (app *App) Run(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing command")
	}
	cmd, args := args[0], args[1:]
	if cmd == "instantiate" {
		return app.instantiate(ctx)
	}
	if cmd == "fund" || cmd == "coins" {
		return app.bank(ctx, cmd, args)
	}

	addr, err := app.saleAddress()
	if err != nil {
		return "", err
	}
	switch cmd {
	case "mint":
		if len(args) != 3 {
			return "", fmt.Errorf("usage: mint <sender> <amount> <denom>")
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return "", err
		}
		msg := &sale.ExecuteMsg{Mint: &sale.MintMsg{Denom: args[2]}}
		funds := wasm.Coins{{Denom: args[2], Amount: amount}}
		return app.execute(ctx, args[0], addr, msg, funds)
	case "pause":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: pause <sender> <true|false>")
		}
		paused, err := strconv.ParseBool(args[1])
		if err != nil {
			return "", err
		}
		msg := &sale.ExecuteMsg{ChangeStatus: &sale.ChangeStatusMsg{MintPause: paused}}
		return app.execute(ctx, args[0], addr, msg, nil)
	case "price":
		if len(args) != 3 {
			return "", fmt.Errorf("usage: price <sender> <price1|-> <price2|->")
		}
		price1, err := parseOptionalPrice(args[1])
		if err != nil {
			return "", err
		}
		price2, err := parseOptionalPrice(args[2])
		if err != nil {
			return "", err
		}
		msg := &sale.ExecuteMsg{ChangePrice: &sale.ChangePriceMsg{NewPrice1: price1, NewPrice2: price2}}
		return app.execute(ctx, args[0], addr, msg, nil)
	case "config":
		return app.query(ctx, addr, &sale.QueryMsg{GetConfig: &struct{}{}})
	case "balance":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: balance <user>")
		}
		return app.query(ctx, addr, &sale.QueryMsg{BalanceOf: &sale.BalanceQuery{User: args[0]}})
	case "owner":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: owner <token id>")
		}
		return app.owner(ctx, addr, args[0])
	}
	return "", fmt.Errorf("unknown command %s", cmd)
}

func (app *App) instantiate(ctx context.Context) (string, error) {
	addr, err := app.db.ReadProperty([]byte(saleAddressPropertyKey))
	if err != nil {
		return "", err
	} else if len(addr) > 0 {
		return "", fmt.Errorf("sale already instantiated at %s", addr)
	}
	msg, err := app.conf.InstantiateMsg(app.tokenCodeId)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	sender := app.conf.Sale.Creator
	if sender == "" {
		sender = app.conf.Sale.Owner
	}
	contract, res, err := app.chain.Instantiate(ctx, sender, app.saleCodeId, raw, nil, sale.ContractName)
	if err != nil {
		return "", err
	}
	err = app.db.WriteProperty([]byte(saleAddressPropertyKey), []byte(contract))
	if err != nil {
		return "", err
	}
	logger.Printf("sale instantiated at %s with %d messages\n", contract, len(res.Messages))
	return contract, nil
}

func (app *App) execute(ctx context.Context, sender, contract string, msg *sale.ExecuteMsg, funds wasm.Coins) (string, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	res, err := app.chain.Execute(ctx, sender, contract, raw, funds)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(res.Attributes, "", "  ")
	return string(out), err
}

func (app *App) query(ctx context.Context, contract string, msg *sale.QueryMsg) (string, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	out, err := app.chain.Query(ctx, contract, raw)
	return string(out), err
}

func (app *App) owner(ctx context.Context, contract, tokenId string) (string, error) {
	raw, err := app.chain.Query(ctx, contract, []byte(`{"get_config":{}}`))
	if err != nil {
		return "", err
	}
	var cr sale.ConfigResponse
	err = json.Unmarshal(raw, &cr)
	if err != nil {
		return "", err
	}
	if cr.Cw721Address == nil {
		return "", sale.ErrUninitialized
	}
	q, err := json.Marshal(&nft.QueryMsg{OwnerOf: &nft.OwnerOfQuery{TokenId: tokenId}})
	if err != nil {
		return "", err
	}
	out, err := app.chain.Query(ctx, *cr.Cw721Address, q)
	return string(out), err
}

func (app *App) bank(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "fund":
		if len(args) != 3 {
			return "", fmt.Errorf("usage: fund <address> <amount> <denom>")
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return "", err
		}
		err = app.chain.Fund(ctx, args[0], wasm.Coins{{Denom: args[2], Amount: amount}})
		if err != nil {
			return "", err
		}
		fallthrough
	case "coins":
		if len(args) < 2 {
			return "", fmt.Errorf("usage: coins <address> <denom>")
		}
		denom := args[len(args)-1]
		balance, err := app.chain.Balance(args[0], denom)
		if err != nil {
			return "", err
		}
		return balance.String() + denom, nil
	}
	return "", fmt.Errorf("unknown command %s", cmd)
}

func (app *App) saleAddress() (string, error) {
	addr, err := app.db.ReadProperty([]byte(saleAddressPropertyKey))
	if err != nil {
		return "", err
	} else if len(addr) == 0 {
		return "", fmt.Errorf("sale not instantiated, run instantiate first")
	}
	return string(addr), nil
}

func parseOptionalPrice(s string) (*decimal.Decimal, error) {
	if s == "-" {
		return nil, nil
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
