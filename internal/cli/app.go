// Package cli is the employee command line for the timesheet API.
package cli

import (
	"errors"
	"fmt"
	"os"

	"go-timesheet/internal/apiclient"
	"go-timesheet/internal/localstore"
	"go-timesheet/internal/tracker"
	"go-timesheet/internal/workday"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "dev"

const envNoColor = "NO_COLOR"

// reported wraps an error the tracker already showed to the user.
type reported struct{ err error }

func (r reported) Error() string { return r.err.Error() }
func (r reported) Unwrap() error { return r.err }

// runtime holds what the commands share for one invocation.
type runtime struct {
	cfg     Config
	paths   Paths
	logger  *zap.Logger
	store   *localstore.Store
	client  *apiclient.Client
	clock   workday.Clock
	cleanup []func()
}

func (rt *runtime) close() {
	for i := len(rt.cleanup) - 1; i >= 0; i-- {
		rt.cleanup[i]()
	}
	rt.cleanup = nil
}

// newTracker wires a tracker that mirrors into the local store. A ticker is
// only attached for watch.
func (rt *runtime) newTracker(ticker *workday.Ticker) *tracker.Tracker {
	return tracker.New(rt.client, tracker.Options{
		Provider:   rt.cfg.Location.Provider(),
		GeoTimeout: rt.cfg.Location.Timeout,
		Clock:      rt.clock,
		Ticker:     ticker,
		Notifier:   ptermNotifier{},
		Mirror:     rt.store,
		Logger:     rt.logger,
	})
}

func (rt *runtime) requireSession() error {
	if !rt.client.Session().Authenticated() {
		return errors.New("not logged in: run `clock login` first")
	}
	return nil
}

// New returns the clock app.
func New() *cli.App {
	rt := &runtime{clock: workday.SystemClock}

	return &cli.App{
		Name:                 "clock",
		Usage:                "Track your workday against the timesheet server",
		UsageText:            "clock [GLOBAL OPTIONS] COMMAND [OPTIONS]",
		Version:              Version,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to the config file", EnvVars: []string{"CLOCK_CONFIG"}},
			&cli.StringFlag{Name: "data-dir", Usage: "Directory for the local database and log", EnvVars: []string{"CLOCK_DATA_DIR"}},
			&cli.StringFlag{Name: "server", Usage: "Override server_url from the config"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Before: func(ctx *cli.Context) error { return rt.before(ctx) },
		// Errors are printed by Run; never exit from inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
		After: func(*cli.Context) error {
			if rt.logger != nil {
				rt.logger.Debug("exiting clock")
			}
			rt.close()
			return nil
		},
		Commands: []*cli.Command{
			loginCommand(rt),
			logoutCommand(rt),
			statusCommand(rt),
			startCommand(rt),
			pauseCommand(rt),
			resumeCommand(rt),
			endCommand(rt),
			signCommand(rt),
			watchCommand(rt),
			reportCommand(rt),
		},
	}
}

func (rt *runtime) before(ctx *cli.Context) error {
	if _, ok := os.LookupEnv(envNoColor); ok || ctx.Bool("no-color") {
		disableStyling()
	}

	paths, err := resolvePaths(ctx)
	if err != nil {
		return err
	}
	rt.paths = paths

	cfg, err := LoadConfig(paths.Config)
	if err != nil {
		return err
	}
	if s := ctx.String("server"); s != "" {
		cfg.ServerURL = s
	}
	rt.cfg = cfg

	logger, closeLog, err := newFileLogger(paths.Log, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	rt.logger = logger
	rt.cleanup = append(rt.cleanup, closeLog)

	store, err := localstore.Open(paths.Database)
	if err != nil {
		return err
	}
	rt.store = store
	rt.cleanup = append(rt.cleanup, func() { _ = store.Close() })

	session, _, err := store.Session()
	if err != nil {
		return err
	}
	rt.client = apiclient.New(cfg.ServerURL, session,
		apiclient.WithLogger(logger),
		apiclient.WithUserAgent("clock/"+Version),
		apiclient.OnSessionChange(func(s apiclient.Session) {
			if err := store.SaveSession(s); err != nil {
				logger.Warn("save session failed", zap.Error(err))
			}
		}),
	)

	logger.Debug("clock ready",
		zap.String("server_url", cfg.ServerURL),
		zap.String("command", ctx.Args().First()),
	)
	return nil
}

func resolvePaths(ctx *cli.Context) (Paths, error) {
	configPath, dataDir := ctx.String("config"), ctx.String("data-dir")
	if configPath != "" && dataDir != "" {
		return PathsIn(configPath, dataDir), nil
	}

	def, err := DefaultPaths()
	if err != nil {
		return Paths{}, err
	}
	if configPath != "" {
		def.Config = configPath
	}
	if dataDir != "" {
		p := PathsIn(def.Config, dataDir)
		def.Database, def.Log = p.Database, p.Log
	}
	return def, nil
}

// Run executes the app and prints any error the way the other commands
// print output.
func Run(args []string) int {
	if err := New().Run(args); err != nil {
		var r reported
		if !errors.As(err, &r) {
			pterm.Error.Println(err)
		}
		return 1
	}
	return 0
}
