package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/chat"
	"github.com/roach88/artisha/internal/config"
	"github.com/roach88/artisha/internal/genai"
	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/seed"
	"github.com/roach88/artisha/internal/store"
)

// app is one command's view of the storefront: an opened database, a
// bootstrapped state store, and the restored session.
type app struct {
	cfg    config.Config
	db     *store.Store
	state  *appstate.Store
	sess   *appstate.Session
	out    *OutputFormatter
	logger *slog.Logger
	opts   *RootOptions
}

// openApp loads configuration, opens the database, and bootstraps state.
// Callers must defer close.
func openApp(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	logger := opts.logger
	if logger == nil {
		logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	sd, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load seed", err)
	}

	storeOpts := []store.Option{store.WithLogger(logger)}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock.Now))
	}
	logger.Debug("opening database", "path", cfg.Database)
	db, err := store.Open(cfg.Database, storeOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	if cfg.Session.IdleTimeout > 0 {
		n, err := db.ExpireSession(cmd.Context(), cfg.Session.IdleTimeout)
		if err != nil {
			db.Close()
			return nil, WrapExitError(ExitCommandError, "failed to expire session data", err)
		}
		if n > 0 {
			logger.Debug("expired idle session data", "keys", n)
		}
	}

	stateOpts := []appstate.Option{
		appstate.WithLogger(logger),
		appstate.WithAlertCapacity(cfg.Alerts.Capacity),
	}
	if opts.Clock != nil {
		stateOpts = append(stateOpts, appstate.WithClock(opts.Clock))
	}
	if opts.IDs != nil {
		stateOpts = append(stateOpts, appstate.WithIDGenerator(opts.IDs))
	}
	state := appstate.New(db, sd, stateOpts...)

	sess, err := state.Bootstrap(cmd.Context())
	if err != nil {
		state.Close()
		db.Close()
		return nil, WrapExitError(ExitCommandError, "failed to bootstrap state", err)
	}

	return &app{
		cfg:    cfg,
		db:     db,
		state:  state,
		sess:   sess,
		logger: logger,
		opts:   opts,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}, nil
}

func (a *app) close() {
	a.state.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

// notes returns the notifications raised so far by this command.
func (a *app) notes() []model.Notification {
	return a.state.Notifier().All()
}

// ok prints a successful result along with the raised notifications.
func (a *app) ok(data any, lines ...string) error {
	return a.out.Success(data, a.notes(), lines...)
}

// authorize gates a read-only command on op.
func (a *app) authorize(op appstate.Operation) error {
	if err := appstate.Authorize(op, a.sess); err != nil {
		return a.out.Rejected(string(op), err)
	}
	return nil
}

// ai returns the generative-content client.
func (a *app) ai() genai.Client {
	if a.opts.AI != nil {
		return a.opts.AI
	}
	return genai.NewGemini(genai.Config{
		Endpoint:   a.cfg.GenAI.Endpoint,
		ChatModel:  a.cfg.GenAI.ChatModel,
		ImageModel: a.cfg.GenAI.ImageModel,
		APIKey:     a.cfg.APIKey(),
		Logger:     a.logger,
	})
}

// chatOptions configures a chat widget whose typewriter frames are drawn
// on the command's output in text mode.
func (a *app) chatOptions(delay time.Duration) chat.Options {
	opts := chat.Options{
		Delay:  delay,
		Clock:  a.opts.Clock,
		IDs:    a.opts.IDs,
		Logger: a.logger,
	}
	if a.out.Format == "text" {
		var shown int
		opts.OnFrame = func(partial string) {
			fmt.Fprint(a.out.Writer, partial[shown:])
			shown = len(partial)
		}
	}
	return opts
}

// requireArgs is cobra.ExactArgs with a command-error exit code.
func requireArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return NewExitError(ExitCommandError,
				fmt.Sprintf("%s expects %d argument(s), got %d", cmd.CommandPath(), n, len(args)))
		}
		return nil
	}
}
