package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/chat"
	"github.com/roach88/artisha/internal/model"
)

// NewSupportCommand creates the support bot command.
func NewSupportCommand(opts *RootOptions) *cobra.Command {
	var quick int

	cmd := &cobra.Command{
		Use:   "support [question]",
		Short: "Ask the support bot",
		Long: fmt.Sprintf(`Ask the support bot a question. It knows the logged-in account and its
most recent orders.

Quick actions (--quick N):
  1. %s
  2. %s
  3. %s`, chat.QuickActions[0], chat.QuickActions[1], chat.QuickActions[2]),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if quick > 0 {
				if quick > len(chat.QuickActions) {
					return NewExitError(ExitCommandError, fmt.Sprintf("--quick must be between 1 and %d", len(chat.QuickActions)))
				}
				question = chat.QuickActions[quick-1]
			}
			if strings.TrimSpace(question) == "" {
				return NewExitError(ExitCommandError, "a question or --quick is required")
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			bot := chat.NewSupport(a.ai(), a.state, a.sess, a.chatOptions(a.cfg.Chat.SupportTypingDelay))
			a.printLine(chat.Greeting(a.sess))
			a.printLine("> " + question)

			if _, err := bot.Send(cmd.Context(), question); err != nil {
				return WrapExitError(ExitFailure, "support bot", err)
			}
			a.printLine("")
			return a.ok(bot.Transcript())
		},
	}

	cmd.Flags().IntVarP(&quick, "quick", "q", 0, "ask quick action N instead")
	return cmd
}

// NewStudioCommand creates the creative studio commands.
func NewStudioCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Design a commission with the AI art consultant",
		Long: `Design a commission with the AI art consultant.

The conversation is kept until "artisha studio reset" or
"artisha logout --end-session". Once a visualization has been generated it
can be commissioned as a one-off product.`,
	}

	cmd.AddCommand(
		newStudioSendCommand(opts),
		newStudioShowCommand(opts),
		newStudioResetCommand(opts),
		newStudioQuoteCommand(opts),
		newStudioCommissionCommand(opts),
	)
	return cmd
}

func (a *app) openStudio(cmd *cobra.Command) *chat.Studio {
	return chat.OpenStudio(cmd.Context(), a.ai(), a.db, a.state, a.chatOptions(a.cfg.Chat.StudioTypingDelay))
}

// printLine writes to the command output in text mode only.
func (a *app) printLine(s string) {
	if a.out.Format == "text" {
		fmt.Fprintln(a.out.Writer, s)
	}
}

func transcriptLines(msgs []model.ChatMessage) []string {
	return lo.FlatMap(msgs, func(m model.ChatMessage, _ int) []string {
		lines := []string{fmt.Sprintf("[%s] %s", m.Role, m.Text)}
		if m.Image != "" {
			lines = append(lines, fmt.Sprintf("[%s] (image, %d bytes)", m.Role, len(m.Image)))
		}
		return lines
	})
}

func newStudioSendCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "send <message>",
		Short:   "Describe the artwork you imagine",
		Example: `  artisha studio send "A misty tea estate at dawn in soft greens"`,
		Args:    requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			studio := a.openStudio(cmd)
			reply, err := studio.Send(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "studio", err)
			}
			a.printLine("")
			lines := []string{}
			if reply.Image != "" {
				lines = append(lines, fmt.Sprintf("Visualization ready. Estimated commission: %s",
					model.FormatPrice(studio.EstimatedPrice())))
			}
			return a.ok(reply, lines...)
		},
	}
}

func newStudioShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the conversation so far",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			transcript := a.openStudio(cmd).Transcript()
			return a.ok(transcript, transcriptLines(transcript)...)
		},
	}
}

func newStudioResetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Start a new conversation",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			studio := a.openStudio(cmd)
			if err := studio.Reset(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "studio reset", err)
			}
			return a.ok(studio.Transcript(), "Studio conversation cleared.")
		},
	}
}

// commissionFlags binds --medium and --size.
func commissionFlags(cmd *cobra.Command, cfg *chat.CommissionConfig) {
	mediums := lo.Map(chat.Mediums, func(m chat.Medium, _ int) string { return m.Name })
	sizes := lo.Map(chat.Sizes, func(s chat.Size, _ int) string { return s.Name })
	cmd.Flags().StringVar(&cfg.Medium, "medium", chat.DefaultCommission.Medium, "medium: "+strings.Join(mediums, ", "))
	cmd.Flags().StringVar(&cfg.Size, "size", chat.DefaultCommission.Size, "size in inches: "+strings.Join(sizes, ", "))
}

func newStudioQuoteCommand(opts *RootOptions) *cobra.Command {
	var cfg chat.CommissionConfig

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a commission",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			price := chat.EstimatePrice(cfg)
			return out.Success(map[string]any{"medium": cfg.Medium, "size": cfg.Size, "price": price}, nil,
				fmt.Sprintf("%s, %s: %s", cfg.Medium, cfg.Size, model.FormatPrice(price)))
		},
	}
	commissionFlags(cmd, &cfg)
	return cmd
}

func newStudioCommissionCommand(opts *RootOptions) *cobra.Command {
	var cfg chat.CommissionConfig

	cmd := &cobra.Command{
		Use:   "commission",
		Short: "Commission the latest visualization and check out",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			studio := a.openStudio(cmd)
			if err := studio.Configure(cfg); err != nil {
				return WrapExitError(ExitCommandError, "invalid commission", err)
			}

			product, err := studio.Commission(a.sess)
			if errors.Is(err, chat.ErrNoVisualization) {
				_ = a.out.Error("NO_VISUALIZATION", "Generate a visualization with \"studio send\" first.", nil)
				return WrapExitError(ExitFailure, "commission", err)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "commission", err)
			}

			order, err := a.state.PlaceOrder(cmd.Context(), a.sess)
			if err != nil {
				return a.out.Rejected("place order", err)
			}
			return a.ok(map[string]any{"product": product, "order": order}, orderLines(order)...)
		},
	}
	commissionFlags(cmd, &cfg)
	return cmd
}
