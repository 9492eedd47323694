package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/artisha/internal/model"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Interval time.Duration
	Duration time.Duration
}

// NewInitCommand creates the init command.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed the catalog",
		Long: `Create the database if needed and seed any collection that has never
been written. Existing data is left untouched, so init is safe to re-run.`,
		Args: requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			counts := map[string]int{
				"users":    len(a.state.Users()),
				"products": len(a.state.Products()),
				"orders":   len(a.state.Orders()),
				"reviews":  len(a.state.Reviews()),
				"messages": len(a.state.Messages()),
			}
			return a.ok(map[string]any{"database": a.cfg.Database, "counts": counts},
				fmt.Sprintf("Database ready: %s", a.cfg.Database),
				fmt.Sprintf("  %d users, %d products, %d orders, %d reviews, %d messages",
					counts["users"], counts["products"], counts["orders"], counts["reviews"], counts["messages"]))
		},
	}
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront's background jobs",
		Long: `Bootstrap the storefront and run the analytics ticker until interrupted.

Each tick appends a synthetic traffic sample to the analytics log, which
keeps the 20 most recent samples.

Example:
  artisha serve
  artisha serve --interval 1s --for 30s`,
		Args: requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "analytics tick interval (default from config)")
	cmd.Flags().DurationVar(&opts.Duration, "for", 0, "stop after this long (0 runs until interrupted)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	a, err := openApp(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close()

	interval := opts.Interval
	if interval <= 0 {
		interval = a.cfg.Analytics.Interval
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	task := a.state.StartAnalytics(gctx, interval)

	g.Go(func() error {
		<-gctx.Done()
		task.Stop()
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last int64
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				samples := a.state.Analytics()
				if len(samples) == 0 || samples[len(samples)-1].Timestamp == last {
					continue
				}
				latest := samples[len(samples)-1]
				last = latest.Timestamp
				a.logger.Info("traffic", "active_users", latest.ActiveUsers,
					"page_views", latest.PageViews, "action", latest.RecentAction)
			}
		}
	})

	a.logger.Info("storefront started", "db", a.cfg.Database, "interval", interval)
	a.out.VerboseLog("Press Ctrl-C to stop.")

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "serve error", err)
	}

	a.logger.Info("storefront stopped gracefully")
	return a.ok(analyticsSummary(a.state.Analytics()), analyticsLines(a.state.Analytics())...)
}

// analyticsSummary aggregates the retained samples.
func analyticsSummary(samples []model.AnalyticsMetric) map[string]any {
	var views, peak int
	for _, s := range samples {
		views += s.PageViews
		peak = max(peak, s.ActiveUsers)
	}
	return map[string]any{
		"samples":         samples,
		"pageViews":       views,
		"peakActiveUsers": peak,
	}
}

func analyticsLines(samples []model.AnalyticsMetric) []string {
	lines := make([]string, 0, len(samples)+1)
	summary := analyticsSummary(samples)
	lines = append(lines, fmt.Sprintf("%d samples, %d page views, peak %d active users",
		len(samples), summary["pageViews"], summary["peakActiveUsers"]))
	for _, s := range samples {
		lines = append(lines, fmt.Sprintf("  %s  users %2d  views %d  %s",
			time.UnixMilli(s.Timestamp).UTC().Format(time.RFC3339), s.ActiveUsers, s.PageViews, s.RecentAction))
	}
	return lines
}

// NewAnalyticsCommand creates the analytics command.
func NewAnalyticsCommand(opts *RootOptions) *cobra.Command {
	var ticks int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show the retained traffic samples",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			for range ticks {
				if _, err := a.state.TickAnalytics(cmd.Context()); err != nil {
					return WrapExitError(ExitCommandError, "analytics tick failed", err)
				}
			}
			samples := a.state.Analytics()
			return a.ok(analyticsSummary(samples), analyticsLines(samples)...)
		},
	}

	cmd.Flags().IntVar(&ticks, "tick", 0, "record this many samples first")
	return cmd
}
