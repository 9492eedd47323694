package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/model"
)

// NewWishlistCommand creates the wishlist commands.
func NewWishlistCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show or edit your wishlist",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.authorize(appstate.OpUseWishlist); err != nil {
				return err
			}
			products := lo.FilterMap(a.sess.Wishlist(), func(id string, _ int) (model.Product, bool) {
				return a.state.Product(id)
			})
			return a.ok(products, lo.Map(products, func(p model.Product, _ int) string { return productLine(p) })...)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <product-id>",
		Short: "Add or remove a product",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			added, err := a.state.ToggleWishlist(cmd.Context(), a.sess, args[0])
			if err != nil {
				return a.out.Rejected("toggle wishlist", err)
			}
			return a.ok(map[string]any{"productId": args[0], "added": added})
		},
	})

	return cmd
}

// NewReviewCommand creates the review command.
func NewReviewCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review products",
	}

	var rating int
	add := &cobra.Command{
		Use:     "add <product-id> <comment>",
		Short:   "Rate a product from 1 to 5",
		Example: `  artisha review add p2 "Beautiful colours" --rating 5`,
		Args:    requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			review, err := a.state.AddReview(cmd.Context(), a.sess, model.Review{
				ProductID: args[0],
				Rating:    rating,
				Comment:   args[1],
			})
			if err != nil {
				return a.out.Rejected("add review", err)
			}
			return a.ok(review)
		},
	}
	add.Flags().IntVarP(&rating, "rating", "r", 5, "rating from 1 to 5")

	cmd.AddCommand(add)
	return cmd
}

// NewMessageCommand creates the contact-form and inbox commands.
func NewMessageCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "message",
		Aliases: []string{"messages"},
		Short:   "Contact the shop, or manage the inbox (admin)",
	}

	var subject string
	send := &cobra.Command{
		Use:     "send <name> <email> <message>",
		Short:   "Send a contact-form message",
		Example: `  artisha message send "Ann Lee" ann@example.com "Do you ship abroad?" --subject Shipping`,
		Args:    requireArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			msg, err := a.state.SendMessage(cmd.Context(), model.Message{
				Name:    args[0],
				Email:   args[1],
				Subject: subject,
				Message: args[2],
			})
			if err != nil {
				return a.out.Rejected("send message", err)
			}
			return a.ok(msg)
		},
	}
	send.Flags().StringVarP(&subject, "subject", "s", "", "subject line")

	list := &cobra.Command{
		Use:   "list",
		Short: "List inbox messages, newest first",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.authorize(appstate.OpManageMessages); err != nil {
				return err
			}
			msgs := a.state.Messages()
			return a.ok(msgs, lo.Map(msgs, func(m model.Message, _ int) string {
				return fmt.Sprintf("%s %-8s %s <%s> %q: %s",
					lo.Ternary(m.Read, " ", "*"), m.ID, m.Name, m.Email, m.Subject, m.Message)
			})...)
		},
	}

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a message as read",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.MarkMessageRead(cmd.Context(), a.sess, args[0]); err != nil {
				return a.out.Rejected("mark message read", err)
			}
			return a.ok(map[string]string{"read": args[0]})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a message",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.DeleteMessage(cmd.Context(), a.sess, args[0]); err != nil {
				return a.out.Rejected("delete message", err)
			}
			return a.ok(map[string]string{"deleted": args[0]})
		},
	}

	cmd.AddCommand(send, list, read, del)
	return cmd
}
