package store

import (
	"context"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/roach88/artisha/internal/model"
)

// Users is the user-account collection.
type Users struct {
	c collection[model.User]
}

// Users returns the user-account collection.
func (s *Store) Users() Users {
	return Users{c: collection[model.User]{kv: s.local, key: KeyUsers}}
}

// GetAll returns every account.
func (u Users) GetAll(ctx context.Context) []model.User {
	return u.c.load(ctx)
}

// Add appends an account. Email uniqueness is the caller's concern.
func (u Users) Add(ctx context.Context, user model.User) error {
	users := u.c.load(ctx)
	users = append(users, user)
	return u.c.save(ctx, users)
}

// UserPatch lists the account fields an Update writes. Absent fields keep
// the stored value; present fields overwrite it, empty strings included.
// Identity and role are not patchable.
type UserPatch struct {
	Name     mo.Option[string]
	Email    mo.Option[string]
	Avatar   mo.Option[string]
	Bio      mo.Option[string]
	Password mo.Option[string]
}

// Apply returns user with the present fields of the patch written over it.
func (up UserPatch) Apply(user model.User) model.User {
	user.Name = up.Name.OrElse(user.Name)
	user.Email = up.Email.OrElse(user.Email)
	user.Avatar = up.Avatar.OrElse(user.Avatar)
	user.Bio = up.Bio.OrElse(user.Bio)
	user.Password = up.Password.OrElse(user.Password)
	return user
}

// Update shallow-merges patch onto the stored record with the given ID.
// Unknown IDs are ignored.
func (u Users) Update(ctx context.Context, id string, patch UserPatch) error {
	users := u.c.load(ctx)
	_, idx, ok := lo.FindIndexOf(users, func(existing model.User) bool {
		return existing.ID == id
	})
	if !ok {
		return nil
	}
	users[idx] = patch.Apply(users[idx])
	return u.c.save(ctx, users)
}

// Delete removes the account with the given ID.
func (u Users) Delete(ctx context.Context, id string) error {
	users := lo.Reject(u.c.load(ctx), func(user model.User, _ int) bool {
		return user.ID == id
	})
	return u.c.save(ctx, users)
}

// FindByEmail returns the first account with an exactly matching email.
func (u Users) FindByEmail(ctx context.Context, email string) (model.User, bool) {
	return lo.Find(u.c.load(ctx), func(user model.User) bool {
		return user.Email == email
	})
}
