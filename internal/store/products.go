package store

import (
	"context"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/roach88/artisha/internal/model"
)

// Products is the catalog collection. Every mutation rewrites the whole list.
type Products struct {
	c collection[model.Product]
}

// Products returns the catalog collection.
func (s *Store) Products() Products {
	return Products{c: collection[model.Product]{kv: s.local, key: KeyProducts}}
}

// GetAll returns the catalog in stored order.
func (p Products) GetAll(ctx context.Context) []model.Product {
	return p.c.load(ctx)
}

// Save replaces the whole catalog.
func (p Products) Save(ctx context.Context, products []model.Product) error {
	return p.c.save(ctx, products)
}

// Add appends a product.
func (p Products) Add(ctx context.Context, product model.Product) error {
	return p.c.save(ctx, append(p.c.load(ctx), product))
}

// ProductPatch lists the fields an Update writes. Absent fields keep the
// stored value; present fields overwrite it, zero values included.
type ProductPatch struct {
	Title            mo.Option[string]
	Description      mo.Option[string]
	Price            mo.Option[int64]
	Category         mo.Option[string]
	ImageURL         mo.Option[string]
	Stock            mo.Option[int]
	Tags             mo.Option[[]string]
	AIPricingDetails mo.Option[string]
}

// Apply returns product with the present fields of the patch written over it.
func (pp ProductPatch) Apply(product model.Product) model.Product {
	product.Title = pp.Title.OrElse(product.Title)
	product.Description = pp.Description.OrElse(product.Description)
	product.Price = pp.Price.OrElse(product.Price)
	product.Category = pp.Category.OrElse(product.Category)
	product.ImageURL = pp.ImageURL.OrElse(product.ImageURL)
	product.Stock = pp.Stock.OrElse(product.Stock)
	product.Tags = pp.Tags.OrElse(product.Tags)
	product.AIPricingDetails = pp.AIPricingDetails.OrElse(product.AIPricingDetails)
	return product
}

// Update shallow-merges patch onto the stored entry with the given ID.
// Unknown IDs are ignored.
func (p Products) Update(ctx context.Context, id string, patch ProductPatch) error {
	products := p.c.load(ctx)
	_, idx, ok := lo.FindIndexOf(products, func(existing model.Product) bool {
		return existing.ID == id
	})
	if !ok {
		return nil
	}
	products[idx] = patch.Apply(products[idx])
	return p.c.save(ctx, products)
}

// Delete removes the product with the given ID.
func (p Products) Delete(ctx context.Context, id string) error {
	products := lo.Reject(p.c.load(ctx), func(product model.Product, _ int) bool {
		return product.ID == id
	})
	return p.c.save(ctx, products)
}

// Find returns the product with the given ID.
func (p Products) Find(ctx context.Context, id string) (model.Product, bool) {
	return lo.Find(p.c.load(ctx), func(product model.Product) bool {
		return product.ID == id
	})
}
