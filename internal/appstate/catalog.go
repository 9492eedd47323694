package appstate

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// AddProduct appends p to the catalog and rewrites the product collection.
// A product without an id is assigned one. Admin only.
func (s *Store) AddProduct(ctx context.Context, sess *Session, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpManageCatalog, sess); err != nil {
		return model.Product{}, s.deny(err)
	}
	if err := s.checkProduct(p); err != nil {
		return model.Product{}, err
	}
	if p.ID == "" {
		p.ID = s.ids.NewID("p")
	}
	if lo.ContainsBy(s.products, func(existing model.Product) bool { return existing.ID == p.ID }) {
		return model.Product{}, s.fail(model.NotifyError, ErrCodeInvalidInput, "A product with that id already exists.")
	}

	products := append(slices.Clone(s.products), p)
	if err := s.db.Products().Save(ctx, products); err != nil {
		return model.Product{}, s.persistFailed("add product", err)
	}
	s.products = products

	s.notifier.Notify(model.NotifySuccess, "Product added successfully.")
	return p, nil
}

// UpdateProduct replaces the catalog entry with p.ID. Admin only.
func (s *Store) UpdateProduct(ctx context.Context, sess *Session, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpManageCatalog, sess); err != nil {
		return s.deny(err)
	}
	if err := s.checkProduct(p); err != nil {
		return err
	}
	_, idx, found := lo.FindIndexOf(s.products, func(existing model.Product) bool { return existing.ID == p.ID })
	if !found {
		return s.fail(model.NotifyError, ErrCodeNotFound, "Product not found.")
	}

	products := slices.Clone(s.products)
	products[idx] = p
	if err := s.db.Products().Save(ctx, products); err != nil {
		return s.persistFailed("update product", err)
	}
	s.products = products

	s.notifier.Notify(model.NotifySuccess, "Product updated successfully.")
	return nil
}

// RemoveProduct drops the catalog entry with id. Admin only.
// Existing orders keep their snapshot of the product.
func (s *Store) RemoveProduct(ctx context.Context, sess *Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpManageCatalog, sess); err != nil {
		return s.deny(err)
	}
	if !lo.ContainsBy(s.products, func(p model.Product) bool { return p.ID == id }) {
		return s.fail(model.NotifyError, ErrCodeNotFound, "Product not found.")
	}

	products := lo.Reject(s.products, func(p model.Product, _ int) bool { return p.ID == id })
	if err := s.db.Products().Save(ctx, products); err != nil {
		return s.persistFailed("remove product", err)
	}
	s.products = products

	s.notifier.Notify(model.NotifySuccess, "Product removed.")
	return nil
}

func (s *Store) checkProduct(p model.Product) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return s.fail(model.NotifyError, ErrCodeInvalidInput, "Product title is required.")
	case p.Price < 0:
		return s.fail(model.NotifyError, ErrCodeInvalidInput, "Price cannot be negative.")
	}
	return nil
}
