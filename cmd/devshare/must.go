// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/devshare/api"
	"github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/co"
	"github.com/vechain/devshare/cmd/devshare/httpserver"
	"github.com/vechain/devshare/genesis"
	"github.com/vechain/devshare/health"
	"github.com/vechain/devshare/kv"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/log"
	"github.com/vechain/devshare/lvldb"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

const (
	ntpCheckInterval = 10 * time.Minute
	ntpTolerance     = 5 * time.Second
)

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl := ctx.Uint64(verbosityFlag.Name)
	if lvl > log.LegacyLevelTrace {
		return nil, errors.Errorf("invalid verbosity %v, must be between 0 and %v", lvl, log.LegacyLevelTrace)
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(int(lvl)))

	format, err := log.ParseFormat(ctx.String(logFormatFlag.Name))
	if err != nil {
		return nil, err
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewLogger(log.NewHandler(os.Stderr, format, logLevel, useColor)))
	return logLevel, nil
}

// loadConfig merges the config file, if any, into the flag set.
func loadConfig(ctx *cli.Context, flags []cli.Flag) (*configFile, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return &configFile{}, nil
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if err := applyConfig(ctx, flags, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func selectGenesis(ctx *cli.Context, cfg *configFile) (*genesis.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		gen, err := parseGenesisFile(path)
		if err != nil {
			return nil, err
		}
		return genesis.NewCustomNet(gen)
	}
	if cfg.Genesis != nil {
		return genesis.NewCustomNet(cfg.Genesis)
	}
	return nil, errors.Errorf("genesis not specified, use --%s or the config file", genesisFlag.Name)
}

func parseGenesisFile(path string) (*genesis.CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}

	var gen genesis.CustomGenesis
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&gen); err != nil {
			return nil, errors.Wrap(err, "decode genesis file")
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&gen); err != nil {
			return nil, errors.Wrap(err, "decode genesis file")
		}
	}
	return &gen, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use --%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return "", err
	}

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, instanceDir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	path := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		return 64
	}
	return sizeMB
}

// stateCacheSize converts the cache flag into a number of cached state entries.
func stateCacheSize(ctx *cli.Context) int {
	return normalizeCacheSize(ctx.Int(cacheFlag.Name)) * 256
}

func openLedger(store kv.Store, cacheSize int, gene *genesis.Genesis, clk clock.Clock) (*ledger.Ledger, error) {
	l, err := ledger.New(state.NewStater(store, cacheSize), gene, clk)
	if err != nil {
		return nil, errors.Wrap(err, "open ledger")
	}
	return l, nil
}

type servers struct {
	apiURL     string
	adminURL   string
	metricsURL string
	closers    []func()
}

func (s *servers) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// startServers brings up the API server plus the optional admin and metrics servers.
// Either all of them start or none stay open.
func startServers(ctx *cli.Context, l *ledger.Ledger, h *health.Health, logLevel *slog.LevelVar, manualClock *clock.Manual) (*servers, error) {
	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler := api.New(l, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})

	var (
		s                                  servers
		apiClose, adminClose, metricsClose func()
		g                                  errgroup.Group
	)
	g.Go(func() (err error) {
		s.apiURL, apiClose, err = httpserver.StartAPIServer(
			ctx.String(apiAddrFlag.Name),
			handler,
			time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
		)
		return
	})
	if ctx.Bool(enableAdminFlag.Name) {
		g.Go(func() (err error) {
			s.adminURL, adminClose, err = httpserver.StartAdminServer(
				ctx.String(adminAddrFlag.Name),
				logLevel,
				h,
				apiLogs,
				manualClock,
			)
			return
		})
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		g.Go(func() (err error) {
			s.metricsURL, metricsClose, err = httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
			return
		})
	}
	err := g.Wait()

	for _, c := range []func(){apiClose, adminClose, metricsClose} {
		if c != nil {
			s.closers = append(s.closers, c)
		}
	}
	if err != nil {
		s.Close()
		return nil, err
	}
	return &s, nil
}

// startBackground runs the health tracker and, when ntpHost is not empty, the NTP watcher.
func startBackground(exitCtx context.Context, h *health.Health, ntpHost string) *co.Goes {
	goes := co.NewGoes(exitCtx)
	goes.Go(h.Run)
	if ntpHost != "" {
		goes.Go(func(ctx context.Context) {
			clock.WatchOffset(ctx, ntpHost, ntpCheckInterval, ntpTolerance)
		})
	}
	return goes
}

func ntpHost(ctx *cli.Context) string {
	if ctx.Bool(disableNTPFlag.Name) {
		return ""
	}
	return ctx.String(ntpHostFlag.Name)
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

func printStartupMessage(gene *genesis.Genesis, l *ledger.Ledger, instanceDir string, srv *servers) error {
	var (
		stateRoot share.Bytes32
		calls     uint64
		lastTime  uint64
	)
	if err := l.View(func(s *ledger.Snapshot) (err error) {
		stateRoot = s.Root
		if calls, err = s.CallCount(); err != nil {
			return
		}
		lastTime, err = s.LastTime()
		return
	}); err != nil {
		return err
	}

	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    State root   [ %v ]
    Calls        [ %v @%v ]
    Admin        [ %v ]
    Fixed stake  [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Admin portal [ %v ]
    Metrics      [ %v ]
`,
		versionName("DeviceShare"),
		gene.ID(), gene.Name(),
		stateRoot,
		calls, time.Unix(int64(lastTime), 0),
		gene.Params().Admin,
		gene.Params().FixedStake,
		instanceDir,
		srv.apiURL,
		orDisabled(srv.adminURL),
		orDisabled(srv.metricsURL),
	)
	return nil
}

func printSoloStartupMessage(gene *genesis.Genesis, instanceDir string, srv *servers, manualClock bool) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	clockMode := "system"
	if manualClock {
		clockMode = "manual"
	}

	info := fmt.Sprintf(`Starting %v
    Network      [ %v %v ]
    Clock        [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Admin portal [ %v ]`,
		versionName("DeviceShare solo"),
		gene.ID(), gene.Name(),
		clockMode,
		instanceDir,
		srv.apiURL,
		orDisabled(srv.adminURL),
	)

	info += tableHead
	for _, a := range genesis.DevAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Address,
			share.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}

// versionName renders name/version/os-arch/go-version.
func versionName(name string) string {
	return fmt.Sprintf("%s/%s/%s-%s/%s", name, fullVersion(), runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func orDisabled(url string) string {
	if url == "" {
		return "disabled"
	}
	return url
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.devshare")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.devshare")
		default:
			return filepath.Join(home, ".org.vechain.devshare")
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
