// Package seed loads the storefront's initial users and catalog.
//
// Seed data is written in CUE and checked against an embedded schema
// before it reaches the store: ids must be non-empty, emails well formed,
// roles known, and prices and stock non-negative integers. JSON files are
// accepted too, since JSON is valid CUE.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

//go:embed schema.cue
var schemaSrc string

//go:embed seed.cue
var defaultSrc string

// Default returns the built-in seed data.
func Default() (store.Seed, error) {
	return parse("seed.cue", defaultSrc)
}

// LoadFile reads seed data from a CUE or JSON file.
func LoadFile(path string) (store.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.Seed{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return parse(path, string(data))
}

// Load returns the seed from path, or the built-in seed when path is empty.
func Load(path string) (store.Seed, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// parse compiles src, unifies it with the schema, and decodes the result.
func parse(filename, src string) (store.Seed, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return store.Seed{}, fmt.Errorf("compile seed schema: %s", errors.Details(err, nil))
	}

	data := ctx.CompileString(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return store.Seed{}, fmt.Errorf("compile %s: %s", filename, errors.Details(err, nil))
	}

	v := schema.Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return store.Seed{}, fmt.Errorf("invalid seed %s: %s", filename, errors.Details(err, nil))
	}

	var seed store.Seed
	if err := decodeList(v, "users", &seed.Users); err != nil {
		return store.Seed{}, err
	}
	if err := decodeList(v, "products", &seed.Products); err != nil {
		return store.Seed{}, err
	}
	if err := checkUniqueIDs(seed); err != nil {
		return store.Seed{}, fmt.Errorf("invalid seed %s: %w", filename, err)
	}
	return seed, nil
}

func decodeList[T any](v cue.Value, field string, out *[]T) error {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		*out = []T{}
		return nil
	}
	if err := fv.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", field, err)
	}
	if *out == nil {
		*out = []T{}
	}
	return nil
}

// checkUniqueIDs rejects duplicate user ids, emails, or product ids.
// The store does not enforce uniqueness.
func checkUniqueIDs(seed store.Seed) error {
	users := map[string]bool{}
	emails := map[string]bool{}
	for _, u := range seed.Users {
		if users[u.ID] {
			return fmt.Errorf("duplicate user id %q", u.ID)
		}
		if emails[u.Email] {
			return fmt.Errorf("duplicate user email %q", u.Email)
		}
		users[u.ID] = true
		emails[u.Email] = true
	}

	products := map[string]bool{}
	for _, p := range seed.Products {
		if products[p.ID] {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		products[p.ID] = true
	}
	return nil
}

// Admins returns the seeded users with the admin role.
func Admins(seed store.Seed) []model.User {
	var admins []model.User
	for _, u := range seed.Users {
		if u.Role == model.RoleAdmin {
			admins = append(admins, u)
		}
	}
	return admins
}
