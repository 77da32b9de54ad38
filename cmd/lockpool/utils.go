// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/lockpool/lockpool/genesis"
	"github.com/lockpool/lockpool/ledger"
	"github.com/lockpool/lockpool/log"
	"github.com/lockpool/lockpool/logdb"
	"github.com/lockpool/lockpool/lvldb"
)

// maxClockOffset is the drift tolerated before warning, ledger time has a one second resolution.
const maxClockOffset = time.Second

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := &slog.LevelVar{}
	logLevel.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	// terminal format for humans, logfmt when stderr is piped
	var handler slog.Handler
	switch {
	case ctx.Bool(jsonLogsFlag.Name):
		handler = log.JSONHandlerWithLevel(os.Stdout, logLevel)
	case isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()):
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, os.Getenv("TERM") != "dumb")
	default:
		handler = log.LogfmtHandlerWithLevel(os.Stderr, logLevel)
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		logger.Warn("no genesis file given, using the dev pool")
		return genesis.NewDevnet(), nil
	}
	return genesis.Load(path)
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	pool := gene.PoolAddress()
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", pool.Bytes()[:8]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// openStore opens the ledger database, the returned instance dir is empty for in-memory stores.
func openStore(ctx *cli.Context, gene *genesis.Genesis) (*lvldb.LevelDB, string, error) {
	if ctx.Bool(inMemoryFlag.Name) {
		db, err := lvldb.NewMem()
		return db, "", err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return nil, "", err
	}
	path := filepath.Join(instanceDir, "ledger.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              normalizeCacheSize(ctx.Int(cacheFlag.Name)),
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "open ledger database [%v]", path)
	}
	return db, instanceDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

// openLogDB returns nil when the event log is skipped.
func openLogDB(ctx *cli.Context, instanceDir string) (*logdb.LogDB, error) {
	if ctx.Bool(skipLogsFlag.Name) {
		return nil, nil
	}
	if instanceDir == "" {
		return logdb.NewMem()
	}
	path := filepath.Join(instanceDir, "events.db")
	db, err := logdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event log [%v]", path)
	}
	return db, nil
}

// checkClockOffset warns whenever the local clock drifts from the NTP server,
// every ledger timestamp is taken from it.
func checkClockOffset(ctx context.Context, server string) {
	check := func() {
		resp, err := ntp.Query(server)
		if err != nil {
			logger.Debug("failed to access NTP", "server", server, "err", err)
			return
		}
		offset := resp.ClockOffset
		if offset < 0 {
			offset = -offset
		}
		if offset > maxClockOffset {
			logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
		}
	}

	check()
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(gene *genesis.Genesis, ldg *ledger.Ledger, instanceDir, apiURL, metricsURL, adminURL string) {
	if instanceDir == "" {
		instanceDir = "Memory"
	}
	sum, err := ldg.Summary()
	round := "unknown"
	if err == nil {
		round = fmt.Sprint(sum.Round)
	}
	fmt.Printf(`Starting %v
    Pool          [ %v ]
    Asset         [ %v ]
    Owner         [ %v ]
    Round         [ %v ]
    Instance dir  [ %v ]
    API portal    [ %v ]
    Metrics       [ %v ]
    Admin         [ %v ]
`,
		fullVersion(),
		ldg.Pool(),
		gene.Asset,
		gene.Owner,
		round,
		instanceDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL),
	)
}

func orDisabled(url string) string {
	if url == "" {
		return "Disabled"
	}
	return url
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "io.lockpool")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "io.lockpool")
		default:
			return filepath.Join(home, ".io.lockpool")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
