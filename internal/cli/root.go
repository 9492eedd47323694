package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/genai"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string // overrides the config file's database

	// Clock, IDs and AI allow overriding collaborators (for testing).
	// Nil selects the system clock, UUIDv7 ids, and the Gemini client.
	Clock appstate.Clock
	IDs   appstate.IDGenerator
	AI    genai.Client

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the Artisha CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artisha",
		Short: "Artisha - art marketplace storefront",
		Long: `Artisha is an art marketplace storefront: catalog, cart and checkout,
accounts, an admin back-office, a support bot, and an AI creative studio.

State lives in a local SQLite file. The logged-in account is remembered
between commands until "artisha logout".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "artisha.yaml", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	cmd.AddCommand(
		NewInitCommand(opts),
		NewServeCommand(opts),
		NewLoginCommand(opts),
		NewLogoutCommand(opts),
		NewWhoamiCommand(opts),
		NewRegisterCommand(opts),
		NewAccountCommand(opts),
		NewUsersCommand(opts),
		NewProductsCommand(opts),
		NewOrderCommand(opts),
		NewOrdersCommand(opts),
		NewWishlistCommand(opts),
		NewReviewCommand(opts),
		NewMessageCommand(opts),
		NewAnalyticsCommand(opts),
		NewSupportCommand(opts),
		NewStudioCommand(opts),
		NewStateCommand(opts),
		NewScenarioCommand(opts),
	)

	return cmd
}

// newLogger writes text logs to w at Info, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
