package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/artisha/internal/model"
)

func TestDefault_ContainsBuiltInCatalog(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	require.Len(t, s.Users, 2)
	require.Len(t, s.Products, 4)

	admin := s.Users[0]
	assert.Equal(t, "admin1", admin.ID)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, "password123", admin.Password)

	p1 := s.Products[0]
	assert.Equal(t, "Serenity in Blue", p1.Title)
	assert.Equal(t, int64(25000), p1.Price)
	assert.Equal(t, []string{"abstract", "blue", "ocean", "oil"}, p1.Tags)

	admins := Admins(s)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@artisha.com", admins[0].Email)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Len(t, s.Products, 4)
}

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeSeed(t, "seed.json", `{
		"users": [{"id": "u1", "name": "Jane", "email": "jane@x.com", "role": "CUSTOMER"}],
		"products": [{"id": "p9", "title": "Mask", "description": "", "price": 1000,
		              "category": "Craft", "imageUrl": "", "stock": 3, "tags": []}]
	}`)

	s, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, s.Users, 1)
	assert.Equal(t, model.RoleCustomer, s.Users[0].Role)
	require.Len(t, s.Products, 1)
	assert.Equal(t, int64(1000), s.Products[0].Price)
}

func TestLoadFile_MissingSectionsAreEmpty(t *testing.T) {
	path := writeSeed(t, "seed.cue", `users: []`)

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.NotNil(t, s.Products)
	assert.Empty(t, s.Products)
}

func TestLoadFile_RejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative price", `products: [{id: "p1", title: "x", description: "", price: -5, category: "c", imageUrl: "", stock: 1, tags: []}]`},
		{"fractional price", `products: [{id: "p1", title: "x", description: "", price: 9.5, category: "c", imageUrl: "", stock: 1, tags: []}]`},
		{"unknown role", `users: [{id: "u1", name: "n", email: "a@b.co", role: "GUEST"}]`},
		{"bad email", `users: [{id: "u1", name: "n", email: "not-an-email", role: "ADMIN"}]`},
		{"unknown field", `users: [{id: "u1", name: "n", email: "a@b.co", role: "ADMIN", nickname: "x"}]`},
		{"missing field", `products: [{id: "p1", title: "x", price: 1, category: "c", imageUrl: "", stock: 1, tags: []}]`},
		{"syntax error", `users: [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSeed(t, "seed.cue", tt.content)
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_RejectsDuplicates(t *testing.T) {
	path := writeSeed(t, "seed.cue", `users: [
		{id: "u1", name: "a", email: "a@b.co", role: "ADMIN"},
		{id: "u2", name: "b", email: "a@b.co", role: "CUSTOMER"},
	]`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate user email")
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}
