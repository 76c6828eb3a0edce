// Command lnbridged drives a local bitcoin-cli and exercises the bitcoind
// package's RPC operations other than SendRawTx (get_raw_block and
// get_output only when their flags are set), printing each result as it
// arrives. It is a demonstration harness, not a long-running service: it
// fires its requests, waits for all callbacks, and exits.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"lnbridge.dev/node/bitcoind"
	"lnbridge.dev/node/config"
	"lnbridge.dev/node/wire"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := config.DefaultConfig()
	cfg := defaults

	fs := flag.NewFlagSet("lnbridged", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Binary, "bitcoin-cli", defaults.Binary, "bitcoin-cli executable name or path")
	fs.StringVar(&cfg.Network, "network", defaults.Network, "network: mainnet|testnet|regtest")
	fs.StringVar(&cfg.DataDir, "datadir", defaults.DataDir, "data directory shared with bitcoin-cli")
	fs.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "log level: debug|info|warn|error")
	blockHash := fs.String("block-hash", "", "block hash to probe with get_raw_block")
	outputHeight := fs.Uint("output-height", 0, "block height to probe with get_output (0 = skip)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}
	networkArg, err := config.NetworkArg(cfg.Network)
	if err != nil {
		fmt.Fprintf(stderr, "invalid network: %v\n", err)
		return 2
	}
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		fmt.Fprintf(stderr, "datadir create failed: %v\n", err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	db, err := bitcoind.OpenWalletDB(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(stderr, "wallet db open failed: %v\n", err)
		return 2
	}
	defer db.Close()

	params := bitcoind.ChainParams{Binary: cfg.Binary}
	if networkArg != "" {
		params.BaseArgs = []string{networkArg}
	}

	var fatalOnce sync.Once
	var fatalCode int
	client := bitcoind.NewClient(params, cfg.DataDir, db,
		bitcoind.WithLogger(logger),
		bitcoind.WithFatalHook(func(fe bitcoind.FatalError) {
			fatalOnce.Do(func() {
				logger.Error("fatal", "code", fe.Code, "command", fe.Command, "exit_code", fe.ExitCode, "error", fe.Err)
				fatalCode = 1
			})
		}),
	)
	defer client.Close()

	logger.Info("warming up", "binary", cfg.Binary, "network", cfg.Network)
	if err := client.Warmup(); err != nil {
		fmt.Fprintf(stderr, "warmup failed: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	client.GetBlockCount(ctx, func(height uint32) {
		defer wg.Done()
		fmt.Fprintf(stdout, "get_block_count: height=%d\n", height)
	})

	wg.Add(1)
	client.EstimateFees(ctx, []uint32{1, 6, 144}, "economical", func(rates map[uint32]int64) {
		defer wg.Done()
		fmt.Fprintf(stdout, "estimate_fees: %v\n", rates)
	})

	if *blockHash != "" {
		if _, err := hex.DecodeString(*blockHash); err != nil {
			fmt.Fprintf(stderr, "invalid -block-hash: %v\n", err)
		} else {
			wg.Add(1)
			client.GetRawBlock(ctx, *blockHash, func(ok bool, raw []byte) {
				defer wg.Done()
				fmt.Fprintf(stdout, "get_raw_block: ok=%v bytes=%d\n", ok, len(raw))
			})
		}
	}

	if *outputHeight != 0 {
		wg.Add(1)
		client.GetOutput(ctx, uint32(*outputHeight), 0, 0, func(out bitcoind.Output) {
			defer wg.Done()
			if out.Missing {
				fmt.Fprintln(stdout, "get_output: missing")
				return
			}
			fmt.Fprintf(stdout, "get_output: amount=%d script=%x\n", out.Amount, out.Script)
		})
	}

	wg.Add(1)
	client.GetBlockHash(ctx, 0, func(id *wire.BlockID) {
		defer wg.Done()
		if id == nil {
			fmt.Fprintln(stdout, "get_block_hash: none at height 0")
			return
		}
		fmt.Fprintf(stdout, "get_block_hash: %x\n", id.Inner)
	})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		fmt.Fprintln(stderr, "timed out waiting for RPC callbacks")
		return 1
	}

	return fatalCode
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
