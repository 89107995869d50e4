package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	_ "time/tzdata"

	"github.com/alexanderramin/attend/internal/billing"
	"github.com/alexanderramin/attend/internal/cli"
	"github.com/alexanderramin/attend/internal/cli/formatter"
	"github.com/alexanderramin/attend/internal/config"
	"github.com/alexanderramin/attend/internal/db"
	"github.com/alexanderramin/attend/internal/logging"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/alexanderramin/attend/internal/repository/redis"
	"github.com/alexanderramin/attend/internal/service"
	"github.com/alexanderramin/attend/internal/timeutil"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		formatter.Error(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPathFromArgs(os.Args[1:]))
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging)

	cal, err := timeutil.NewCalendar(cfg.Timezone, cfg.Locale)
	if err != nil {
		return err
	}

	backend, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing storage")
		}
	}()

	clock := timeutil.SystemClock{}
	observers := []service.UseCaseObserver{
		service.NewLogUseCaseObserver(logger),
		service.NewMetricsUseCaseObserver(),
	}

	policies := billing.NewRepoPolicySource(backend.Schedules, backend.Breaks, logger)
	aggregator := billing.NewAggregator(backend.Sessions, policies, cal, clock, logger)

	app := &cli.App{
		Presence: service.NewPresenceService(backend.Sessions, backend.Switcher, clock, observers...),
		Config:   service.NewConfigService(backend.Schedules, backend.Breaks, observers...),
		Viewers:  service.NewViewerService(backend.Viewers, observers...),
		Reports:  service.NewReportService(aggregator, backend.Schedules, backend.Breaks, backend.Viewers, cal, clock, logger, observers...),

		Calendar: cal,
		Directory: formatter.MapDirectory{
			Users:    cfg.Names.Users,
			Roles:    cfg.Names.Roles,
			Channels: cfg.Names.Channels,
		},
		Logger:      logger,
		Group:       cfg.Group,
		User:        cfg.User,
		MetricsAddr: cfg.Metrics.Addr,
	}

	// Detect interactive terminal for huh forms.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	err = cli.NewRootCmd(app).ExecuteContext(context.Background())
	if err != nil && !isUserError(err) {
		logger.Error().Err(err).Msg("command failed")
	}
	return err
}

// configPathFromArgs picks --config out of the command line ahead of cobra.
func configPathFromArgs(args []string) string {
	fs := pflag.NewFlagSet("attend", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func openBackend(cfg *config.Config, logger zerolog.Logger) (repository.Backend, error) {
	switch cfg.Storage.Type {
	case config.StorageRedis:
		store, err := redis.Open(cfg.Redis)
		if err != nil {
			return repository.Backend{}, err
		}
		logger.Debug().Str("addr", cfg.Redis.Addr).Msg("using redis storage")
		return store.Backend(), nil
	case config.StorageSQLite:
		conn, err := db.OpenDB(cfg.Storage.Path)
		if err != nil {
			return repository.Backend{}, err
		}
		logger.Debug().Str("path", cfg.Storage.Path).Msg("using sqlite storage")
		return repository.NewSQLiteBackend(conn), nil
	}
	return repository.Backend{}, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
}

func isUserError(err error) bool {
	return errors.Is(err, service.ErrInvalidInput) ||
		errors.Is(err, timeutil.ErrInvalidRange) ||
		errors.Is(err, repository.ErrNotFound)
}
