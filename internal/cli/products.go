package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

// NewProductsCommand creates the catalog command group.
func NewProductsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse and manage the catalog",
	}
	cmd.AddCommand(
		newProductsListCommand(opts),
		newProductsShowCommand(opts),
		newProductsAddCommand(opts),
		newProductsUpdateCommand(opts),
		newProductsRemoveCommand(opts),
		newProductsDescribeCommand(opts),
	)
	return cmd
}

func productLine(p model.Product) string {
	return fmt.Sprintf("%-8s %-32s %-10s %14s  stock %d", p.ID, p.Title, p.Category, model.FormatPrice(p.Price), p.Stock)
}

func newProductsListCommand(opts *RootOptions) *cobra.Command {
	var category, tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			products := lo.Filter(a.state.Products(), func(p model.Product, _ int) bool {
				return (category == "" || strings.EqualFold(p.Category, category)) &&
					(tag == "" || lo.Contains(p.Tags, tag))
			})
			return a.ok(products, lo.Map(products, func(p model.Product, _ int) string { return productLine(p) })...)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only products in this category")
	cmd.Flags().StringVar(&tag, "tag", "", "only products with this tag")
	return cmd
}

func newProductsShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product and its reviews",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			p, ok := a.state.Product(args[0])
			if !ok {
				_ = a.out.Error("NOT_FOUND", "Product not found.", nil)
				return NewExitError(ExitFailure, "product not found")
			}
			reviews := a.state.ProductReviews(p.ID)

			lines := []string{
				productLine(p),
				"",
				p.Description,
				"tags: " + strings.Join(p.Tags, ", "),
				fmt.Sprintf("reviews: %d", len(reviews)),
			}
			for _, r := range reviews {
				lines = append(lines, fmt.Sprintf("  %s %s: %s", strings.Repeat("*", r.Rating), r.UserName, r.Comment))
			}
			return a.ok(map[string]any{"product": p, "reviews": reviews}, lines...)
		},
	}
}

// productFlags binds the editable product fields.
type productFlags struct {
	id, title, description, category, image string
	price                                   int64
	stock                                   int
	tags                                    []string
}

func (f *productFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "product id (generated when empty)")
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL")
	cmd.Flags().Int64Var(&f.price, "price", 0, "price in whole "+model.CurrencyCode)
	cmd.Flags().IntVar(&f.stock, "stock", 0, "units in stock")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag (repeatable)")
}

// patch collects the flags that were set. A flag given as zero or empty
// still overwrites.
func (f *productFlags) patch(cmd *cobra.Command) store.ProductPatch {
	return store.ProductPatch{
		Title:       changedFlag(cmd, "title", f.title),
		Description: changedFlag(cmd, "description", f.description),
		Category:    changedFlag(cmd, "category", f.category),
		ImageURL:    changedFlag(cmd, "image", f.image),
		Price:       changedFlag(cmd, "price", f.price),
		Stock:       changedFlag(cmd, "stock", f.stock),
		Tags:        changedFlag(cmd, "tag", f.tags),
	}
}

// apply overlays the flags that were set on p.
func (f *productFlags) apply(cmd *cobra.Command, p model.Product) model.Product {
	return f.patch(cmd).Apply(p)
}

func newProductsAddCommand(opts *RootOptions) *cobra.Command {
	flags := &productFlags{}

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a product (admin)",
		Example: `  artisha products add --title "Lotus Pond" --price 32000 --category Painting --tag lotus`,
		Args:    requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.state.AddProduct(cmd.Context(), a.sess, flags.apply(cmd, model.Product{ID: flags.id, Tags: []string{}}))
			if err != nil {
				return a.out.Rejected("add product", err)
			}
			return a.ok(p, productLine(p))
		},
	}
	flags.bind(cmd)
	return cmd
}

func newProductsUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &productFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a product (admin)",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			current, ok := a.state.Product(args[0])
			if !ok {
				current = model.Product{ID: args[0]}
			}
			p := flags.apply(cmd, current)
			if err := a.state.UpdateProduct(cmd.Context(), a.sess, p); err != nil {
				return a.out.Rejected("update product", err)
			}
			return a.ok(p, productLine(p))
		},
	}
	flags.bind(cmd)
	_ = cmd.Flags().MarkHidden("id")
	return cmd
}

func newProductsRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a product (admin)",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.RemoveProduct(cmd.Context(), a.sess, args[0]); err != nil {
				return a.out.Rejected("remove product", err)
			}
			return a.ok(map[string]string{"removed": args[0]})
		},
	}
}

func newProductsDescribeCommand(opts *RootOptions) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "describe <id>",
		Short: "Generate a marketing description with the AI client",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			p, ok := a.state.Product(args[0])
			if !ok {
				_ = a.out.Error("NOT_FOUND", "Product not found.", nil)
				return NewExitError(ExitFailure, "product not found")
			}

			text := a.ai().ProductDescription(cmd.Context(), p.Title, p.Category)
			if text == "" {
				_ = a.out.Error("E002", "No description was generated.", nil)
				return NewExitError(ExitFailure, "no description generated")
			}

			if save {
				p.Description = text
				if err := a.state.UpdateProduct(cmd.Context(), a.sess, p); err != nil {
					return a.out.Rejected("save description", err)
				}
			}
			return a.ok(map[string]any{"id": p.ID, "description": text, "saved": save}, text)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the description on the product (admin)")
	return cmd
}
