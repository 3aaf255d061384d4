// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// bitvault-demo exercises the vault, UTXO selection, fee estimation,
// event bus, and configuration manager end to end against a throwaway
// wallet, for manual inspection during development.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/bitvault/core/btcvalidate"
	"github.com/bitvault/core/config"
	"github.com/bitvault/core/eventbus"
	"github.com/bitvault/core/feeestimate"
	"github.com/bitvault/core/utxo"
	"github.com/bitvault/core/vault"
)

type options struct {
	VaultPath   string `long:"vault-path" description:"Path to the vault file" default:"/tmp/bitvault-demo.vault"`
	Strategy    string `long:"strategy" description:"UTXO selection strategy to demonstrate" default:"MinimizeFee"`
	TargetSats  int64  `long:"target-sats" description:"Target amount in satoshis" default:"300000"`
	FeeRate     float64 `long:"fee-rate" description:"Fee rate in sat/vB used for the UTXO selection demo" default:"5"`
	HighSecurity bool   `long:"high-security" description:"Use the high_security PBKDF2 iteration policy"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	bus := eventbus.New(eventbus.Config{})
	defer bus.Shutdown()
	logEvents(bus)

	if err := runVaultDemo(opts, bus); err != nil {
		log.Fatalf("vault demo: %v", err)
	}
	if err := runSelectionDemo(opts, bus); err != nil {
		log.Fatalf("selection demo: %v", err)
	}
	if err := runFeeDemo(opts, bus); err != nil {
		log.Fatalf("fee demo: %v", err)
	}
	if err := runConfigDemo(); err != nil {
		log.Fatalf("config demo: %v", err)
	}

	time.Sleep(50 * time.Millisecond) // let the dispatcher drain before exit
}

func logEvents(bus *eventbus.Bus) {
	_, ch := bus.Subscribe(eventbus.Settings)
	_, utxoCh := bus.Subscribe(eventbus.UtxoSelectionCompleted)
	_, feeCh := bus.Subscribe(eventbus.FeeEstimationUpdate)
	go func() {
		for {
			select {
			case e, ok := <-ch:
				if !ok {
					return
				}
				fmt.Printf("[settings] %s\n", e.Payload)
			case e, ok := <-utxoCh:
				if !ok {
					return
				}
				fmt.Printf("[utxo] %s\n", e.Payload)
			case e, ok := <-feeCh:
				if !ok {
					return
				}
				fmt.Printf("[fee] %s\n", e.Payload)
			}
		}
	}()
}

func runVaultDemo(opts options, bus *eventbus.Bus) error {
	policy := vault.DefaultPolicy()
	if opts.HighSecurity {
		policy = vault.HighSecurityPolicy()
	}

	mnemonic, err := vault.GenerateMnemonic()
	if err != nil {
		return err
	}
	defer mnemonic.Clear()

	const password = "demo-password-do-not-use-in-production"

	if err := vault.EncryptAndStore(mnemonic, password, opts.VaultPath, 1, policy); err != nil {
		return err
	}
	fmt.Printf("vault written to %s\n", opts.VaultPath)

	_, recovered, err := vault.DecryptAndRetrieve(password, opts.VaultPath)
	if err != nil {
		return err
	}
	defer recovered.Clear()
	fmt.Println("vault round-trip verified")
	return nil
}

func runSelectionDemo(opts options, bus *eventbus.Bus) error {
	strategy := strategyByName(opts.Strategy)

	set := utxo.NewSet(btcvalidate.Mainnet)
	seed := []utxo.UTXO{
		{Outpoint: utxo.Outpoint{Txid: "demo1", Vout: 0}, Amount: 150_000, Confirmations: 40},
		{Outpoint: utxo.Outpoint{Txid: "demo2", Vout: 0}, Amount: 250_000, Confirmations: 6},
		{Outpoint: utxo.Outpoint{Txid: "demo3", Vout: 0}, Amount: 50_000, Confirmations: 120},
	}
	for _, u := range seed {
		if err := set.Insert(u); err != nil {
			return err
		}
	}

	result, err := utxo.Select(context.Background(), utxo.Request{
		Available:    set.Spendable(),
		TargetAmount: opts.TargetSats,
		FeeRate:      opts.FeeRate,
		Network:      btcvalidate.Mainnet,
		Strategy:     strategy,
		Publisher:    bus,
	})
	if err != nil {
		return err
	}
	if !result.Success {
		fmt.Printf("selection failed: need %d, have %d\n", result.RequiredAmount, result.AvailableAmount)
		return nil
	}
	fmt.Printf("selected %d UTXOs, fee=%d, change=%d\n", len(result.Selected), result.Fee, result.Change)
	return nil
}

func runFeeDemo(opts options, bus *eventbus.Bus) error {
	svc := feeestimate.New(feeestimate.Config{Network: btcvalidate.Mainnet, Publisher: bus})
	defer svc.Close()

	rec, err := svc.GetRecommendations(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("fee recommendations from %s:\n", rec.Source)
	for level, rate := range rec.Rates {
		fmt.Printf("  %-6s %.2f sat/vB (target %d blocks)\n", level, rate.SatPerVByte, rate.BlockTarget)
	}
	return nil
}

func runConfigDemo() error {
	dir, err := os.MkdirTemp("", "bitvault-demo-wallet")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	cfg := config.New(dir, nil)
	if _, err := cfg.UpdateValue("wallet", "fee_level", "high"); err != nil {
		return err
	}
	if err := cfg.SaveProfile("demo"); err != nil {
		return err
	}
	fmt.Println("config.toml persisted and profile saved")
	return nil
}

func strategyByName(name string) utxo.Strategy {
	switch name {
	case "MinimizeChange":
		return utxo.MinimizeChange
	case "OldestFirst":
		return utxo.OldestFirst
	case "PrivacyFocused":
		return utxo.PrivacyFocused
	case "MaximizePrivacy":
		return utxo.MaximizePrivacy
	case "Consolidate":
		return utxo.Consolidate
	case "AvoidChange":
		return utxo.AvoidChange
	default:
		return utxo.MinimizeFee
	}
}
