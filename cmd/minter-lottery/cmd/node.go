package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/MinterTeam/minter-lottery/api"
	"github.com/MinterTeam/minter-lottery/cmd/utils"
	"github.com/MinterTeam/minter-lottery/config"
	eventsdb "github.com/MinterTeam/minter-lottery/core/events"
	"github.com/MinterTeam/minter-lottery/core/lottery"
	"github.com/MinterTeam/minter-lottery/core/state"
	"github.com/MinterTeam/minter-lottery/core/statistics"
	"github.com/MinterTeam/minter-lottery/core/token"
	"github.com/MinterTeam/minter-lottery/genesis"
	"github.com/MinterTeam/minter-lottery/log"
	"github.com/MinterTeam/minter-lottery/version"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	tmLog "github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

// RunNode is the command that allows the CLI to start a node.
var RunNode = &cobra.Command{
	Use:   "node",
	Short: "Run the lottery token node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runNode(cmd.Context())
	},
}

func runNode(ctx context.Context) error {
	logger := log.NewLogger(cfg)
	logger.Info("Starting node", "version", version.Version, "commit", version.GitCommit, "home", cfg.RootDir)

	storage := utils.NewStorage(cfg.DBDir(), cfg.DBBackend)
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Error("Failed to close storage", "err", err)
		}
	}()

	tk, statistic, err := newToken(storage, logger)
	if err != nil {
		return err
	}

	if tk.Status().Height == 0 {
		appState, err := genesis.Load(cfg.GenesisFile())
		if err != nil {
			return errors.Wrap(err, "load genesis")
		}
		if err := tk.InitChain(appState); err != nil {
			return errors.Wrap(err, "init chain")
		}
	}

	committer := cron.New(cron.WithLogger(cronLogger{logger.With("module", "cron")}))
	if _, err := committer.AddFunc(cfg.CommitSchedule, func() {
		if _, _, err := tk.Commit(); err != nil {
			logger.Error("Failed to commit state", "err", err)
		}
	}); err != nil {
		return errors.Wrapf(err, "wrong commit_schedule %q", cfg.CommitSchedule)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return api.NewServer(tk, logger.With("module", "api"), statistic).Run(ctx, cfg.APIListenAddress)
	})

	if cfg.Instrumentation.Prometheus {
		g.Go(func() error {
			return runMetrics(ctx, cfg.Instrumentation.PrometheusListenAddr, logger)
		})
	}

	committer.Start()
	logger.Info("Node started", "height", tk.Status().Height, "api", cfg.APIListenAddress)

	<-ctx.Done()

	<-committer.Stop().Done()
	if _, height, err := tk.Commit(); err != nil {
		logger.Error("Failed to commit state", "err", err)
	} else {
		logger.Info("Node stopped", "height", height)
	}

	return g.Wait()
}

func newToken(storage *utils.Storage, logger tmLog.Logger) (*token.Token, *statistics.Data, error) {
	params, err := cfg.Lottery.Params()
	if err != nil {
		return nil, nil, err
	}

	stateDB, err := storage.InitStateDB()
	if err != nil {
		return nil, nil, err
	}

	eventsDB, err := storage.InitEventsDB()
	if err != nil {
		return nil, nil, err
	}

	st, err := state.NewState(0, stateDB, eventsdb.NewEventsStore(eventsDB), cfg.StateCacheSize, cfg.KeepLastStates, params)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load state")
	}

	opts := []token.Option{token.WithLogger(logger.With("module", "token"))}

	var statistic *statistics.Data
	if cfg.Instrumentation.Prometheus {
		statistic = statistics.New(prometheus.DefaultRegisterer)
		opts = append(opts, token.WithStatistics(statistic))
	}

	if cfg.Lottery.SeedSource == config.SeedSourceRandom {
		opts = append(opts, token.WithSeedSource(lottery.RandomSeed{}))
	}

	return token.NewToken(st, opts...), statistic, nil
}

func runMetrics(ctx context.Context, addr string, logger tmLog.Logger) error {
	if err := prometheus.Register(collectors.NewBuildInfoCollector()); err != nil {
		logger.Error("Failed to register build info collector", "err", err)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting metrics server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

type cronLogger struct {
	logger tmLog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}
