package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/model"
)

// NewStateCommand creates the state command.
func NewStateCommand(opts *RootOptions) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Summarize the store as the logged-in session sees it",
		Long: `Summarize the store as the logged-in session sees it.

With --dump the full snapshot is printed with Go type information,
which is useful when debugging stored data.`,
		Args: requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			snap := a.state.Snapshot(a.sess)
			if snap.User != nil {
				u := publicUser(*snap.User)
				snap.User = &u
			}
			for i := range snap.Users {
				snap.Users[i] = publicUser(snap.Users[i])
			}

			if dump && a.out.Format == "text" {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
				cfg.Fdump(a.out.Writer, snap)
				return nil
			}

			who := "guest"
			if snap.User != nil {
				who = fmt.Sprintf("%s (%s)", snap.User.Email, snap.User.Role)
			}
			return a.ok(snap,
				"session:   "+who,
				fmt.Sprintf("users:     %d", len(snap.Users)),
				fmt.Sprintf("products:  %d", len(snap.Products)),
				fmt.Sprintf("orders:    %d (yours: %d)", len(snap.Orders), len(snap.UserOrders)),
				fmt.Sprintf("reviews:   %d", len(snap.Reviews)),
				fmt.Sprintf("messages:  %d (%d unread)", len(snap.Messages), countUnread(snap.Messages)),
				fmt.Sprintf("wishlist:  %d", len(snap.Wishlist)),
				fmt.Sprintf("analytics: %d samples", len(snap.Analytics)))
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump the full snapshot")
	return cmd
}

func countUnread(msgs []model.Message) int {
	n := 0
	for _, m := range msgs {
		if !m.Read {
			n++
		}
	}
	return n
}
