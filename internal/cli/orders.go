package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/model"
)

// cartLine is one parsed --item flag.
type cartLine struct {
	ProductID string
	Quantity  int
}

// parseItem parses "id" or "id:qty".
func parseItem(s string) (cartLine, error) {
	id, qty, hasQty := strings.Cut(s, ":")
	if id == "" {
		return cartLine{}, fmt.Errorf("item %q: missing product id", s)
	}
	if !hasQty {
		return cartLine{ProductID: id, Quantity: 1}, nil
	}
	n, err := strconv.Atoi(qty)
	if err != nil || n < 1 {
		return cartLine{}, fmt.Errorf("item %q: quantity must be a positive integer", s)
	}
	return cartLine{ProductID: id, Quantity: n}, nil
}

// NewOrderCommand creates the checkout command.
func NewOrderCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Check out a cart",
	}

	var items []string
	place := &cobra.Command{
		Use:     "place",
		Short:   "Fill a cart and place the order",
		Example: `  artisha order place --item p1 --item p4:2`,
		Args:    requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := make([]cartLine, 0, len(items))
			for _, raw := range items {
				line, err := parseItem(raw)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --item", err)
				}
				lines = append(lines, line)
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			for _, line := range lines {
				p, ok := a.state.Product(line.ProductID)
				if !ok {
					_ = a.out.Error("NOT_FOUND", fmt.Sprintf("Product %s not found.", line.ProductID), nil)
					return NewExitError(ExitFailure, "product not found")
				}
				for range line.Quantity {
					a.state.AddToCart(a.sess, p)
				}
			}

			order, err := a.state.PlaceOrder(cmd.Context(), a.sess)
			if err != nil {
				return a.out.Rejected("place order", err)
			}
			return a.ok(order, orderLines(order)...)
		},
	}
	place.Flags().StringArrayVar(&items, "item", nil, "product id with optional quantity, id[:qty] (repeatable)")

	cmd.AddCommand(place)
	return cmd
}

func orderLines(o model.Order) []string {
	lines := []string{fmt.Sprintf("Order #%s  %s  %s  %s", o.ID, o.Status, model.FormatPrice(o.Total), o.Date)}
	for _, item := range o.Items {
		lines = append(lines, fmt.Sprintf("  %d x %-32s %14s", item.Quantity, item.Title, model.FormatPrice(item.LineTotal())))
	}
	return lines
}

// NewOrdersCommand creates the order history and fulfilment commands.
func NewOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders or update their status",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders (or every order with --all, admin)",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			orders := a.state.UserOrders(a.sess)
			if all {
				if err := a.authorize(appstate.OpManageOrders); err != nil {
					return err
				}
				orders = a.state.Orders()
			}
			return a.ok(orders, lo.FlatMap(orders, func(o model.Order, _ int) []string { return orderLines(o) })...)
		},
	}
	list.Flags().BoolVar(&all, "all", false, "list every customer's orders")

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an order to pending|processing|shipped|delivered (admin)",
		Args:  requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			order, err := a.state.UpdateOrderStatus(cmd.Context(), a.sess, args[0], model.OrderStatus(strings.ToLower(args[1])))
			if err != nil {
				return a.out.Rejected("update order status", err)
			}
			return a.ok(order, orderLines(order)...)
		},
	}

	cmd.AddCommand(list, status)
	return cmd
}
