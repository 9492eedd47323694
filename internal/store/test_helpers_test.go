package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/artisha/internal/model"
)

// testNow is the fixed time used by test stores.
var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithClock(func() time.Time { return testNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testProduct creates a product with minimal required fields.
func testProduct(id string, price int64) model.Product {
	return model.Product{
		ID:       id,
		Title:    "Product " + id,
		Price:    price,
		Category: "Painting",
		Stock:    1,
		Tags:     []string{"test"},
	}
}
