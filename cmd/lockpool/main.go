// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/lockpool/lockpool/api"
	"github.com/lockpool/lockpool/cmd/lockpool/httpserver"
	"github.com/lockpool/lockpool/co"
	"github.com/lockpool/lockpool/genesis"
	"github.com/lockpool/lockpool/ledger"
	"github.com/lockpool/lockpool/log"
	"github.com/lockpool/lockpool/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "LockPool",
		Usage:   "Time-weighted staking and reward ledger",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			inMemoryFlag,
			cacheFlag,
			skipLogsFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "dev-genesis",
				Usage:  "print the dev pool genesis, a starting point for a genesis file",
				Action: devGenesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var goes co.Goes
	defer goes.Wait()
	routineCtx, cancelRoutines := context.WithCancel(exitSignal)
	defer cancelRoutines()
	if server := ctx.String(ntpServerFlag.Name); server != "" {
		goes.Go(func() { checkClockOffset(routineCtx, server) })
	}

	store, instanceDir, err := openStore(ctx, gene)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing ledger database..."); store.Close() }()

	logDB, err := openLogDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	if logDB != nil {
		defer func() { logger.Info("closing event log..."); logDB.Close() }()
	}

	ldg, err := ledger.New(store, logDB, gene, ledger.SystemClock)
	if err != nil {
		return err
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeSubs := api.New(ldg, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      apiLogs,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		SkipLogs:             logDB == nil,
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	apiURL, stopAPI, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		closeSubs()
		return err
	}
	defer func() {
		logger.Info("stopping API server...")
		closeSubs()
		stopAPI()
	}()

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		metricsURL = url
	}

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, ldg)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	printStartupMessage(gene, ldg, instanceDir, apiURL, metricsURL, adminURL)

	<-exitSignal.Done()
	return nil
}

func devGenesisAction(*cli.Context) error {
	data, err := yaml.Marshal(genesis.NewDevnet())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
