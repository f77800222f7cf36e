// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/genesis"
	"github.com/vechain/devshare/health"
	"github.com/vechain/devshare/kv"
	"github.com/vechain/devshare/log"
	"github.com/vechain/devshare/lvldb"
	"github.com/vechain/devshare/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")

	defaultFlags = []cli.Flag{
		configFlag,
		genesisFlag,
		dataDirFlag,
		cacheFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		pprofFlag,
		verbosityFlag,
		logFormatFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		ntpHostFlag,
		disableNTPFlag,
	}
	soloFlags = []cli.Flag{
		configFlag,
		dataDirFlag,
		cacheFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		pprofFlag,
		verbosityFlag,
		logFormatFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		persistFlag,
		manualClockFlag,
	}
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
		Version:   fullVersion(),
		Name:      "DeviceShare",
		Usage:     "Ledger service of the DeviceShare rental marketplace",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags:     defaultFlags,
		Action:    defaultAction,
		Commands: []cli.Command{
			{
				Name:   "solo",
				Usage:  "in-memory marketplace with pre-funded dev accounts for test & dev",
				Flags:  soloFlags,
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitCtx := handleExitSignal()
	defer func() { logger.Info("exited") }()

	cfg, err := loadConfig(ctx, defaultFlags)
	if err != nil {
		return err
	}
	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx, cfg)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	l, err := openLedger(mainDB, stateCacheSize(ctx), gene, clock.System{})
	if err != nil {
		return err
	}
	h := health.New(l)

	srv, err := startServers(ctx, l, h, logLevel, nil)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping servers..."); srv.Close() }()

	goes := startBackground(exitCtx, h, ntpHost(ctx))
	defer goes.Stop()

	if err := printStartupMessage(gene, l, instanceDir, srv); err != nil {
		return err
	}

	<-exitCtx.Done()
	return nil
}

func soloAction(ctx *cli.Context) error {
	exitCtx := handleExitSignal()
	defer func() { logger.Info("exited") }()

	if _, err := loadConfig(ctx, soloFlags); err != nil {
		return err
	}
	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene := genesis.NewDevnet()

	var (
		store       kv.Store
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		mainDB, err := openMainDB(ctx, instanceDir)
		if err != nil {
			return err
		}
		defer func() { logger.Info("closing main database..."); mainDB.Close() }()
		store = mainDB
	} else {
		instanceDir = "Memory"
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return errors.Wrap(err, "open memory database")
		}
		defer mainDB.Close()
		store = mainDB
	}

	var (
		clk         clock.Clock = clock.System{}
		manualClock *clock.Manual
	)
	if ctx.Bool(manualClockFlag.Name) {
		manualClock = clock.NewManual(max(gene.LaunchTime(), uint64(time.Now().Unix())))
		clk = manualClock
	}

	l, err := openLedger(store, stateCacheSize(ctx), gene, clk)
	if err != nil {
		return err
	}
	h := health.New(l)

	srv, err := startServers(ctx, l, h, logLevel, manualClock)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping servers..."); srv.Close() }()

	// solo never checks NTP
	goes := startBackground(exitCtx, h, "")
	defer goes.Stop()

	printSoloStartupMessage(gene, instanceDir, srv, manualClock != nil)

	<-exitCtx.Done()
	return nil
}
