package appstate

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

// DefaultPassword is assigned to accounts registered without a password.
const DefaultPassword = "password123"

const defaultBio = "New member of the Artisha community."

// Login looks up email and, on success, activates sess with that user and
// their wishlist and records the session marker.
//
// When a non-empty password is supplied and the account has one, they must
// match exactly. Accounts without a password accept any supplied password.
// role is the role the login form was submitted under; the account's stored
// role always wins.
func (s *Store) Login(ctx context.Context, sess *Session, email string, role model.Role, password mo.Option[string]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, found := s.db.Users().FindByEmail(ctx, email)
	if !found {
		return s.fail(model.NotifyError, ErrCodeUserNotFound, "User not found. Please register.")
	}

	if supplied, ok := password.Get(); ok && supplied != "" && user.HasPassword() && supplied != user.Password {
		return s.fail(model.NotifyError, ErrCodeAuthFailed, "Invalid password.")
	}

	if role != "" && role != user.Role {
		s.logger.Debug("login role differs from account role", "requested", role, "account", user.Role)
	}

	if err := s.db.SetActiveSession(ctx, user); err != nil {
		return s.persistFailed("login", err)
	}
	sess.activate(user, s.db.Wishlist().GetUserWishlist(ctx, user.ID))

	s.notifier.Notify(model.NotifySuccess, fmt.Sprintf("Welcome back, %s!", user.Name))
	s.logger.Info("user logged in", "user", user.ID)
	return nil
}

// Register creates a new account and makes it the active session.
// An empty role registers a customer; an absent or empty password selects
// DefaultPassword.
func (s *Store) Register(ctx context.Context, sess *Session, name, email string, role model.Role, password mo.Option[string]) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return model.User{}, s.fail(model.NotifyError, ErrCodeInvalidInput, "Please enter your name.")
	}
	if !validEmail(email) {
		return model.User{}, s.fail(model.NotifyError, ErrCodeInvalidEmail, "Please enter a valid email address.")
	}
	if role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() {
		return model.User{}, s.fail(model.NotifyError, ErrCodeInvalidInput, fmt.Sprintf("Unknown role %q.", role))
	}
	if _, taken := s.db.Users().FindByEmail(ctx, email); taken {
		return model.User{}, s.fail(model.NotifyError, ErrCodeEmailTaken, "Email already registered.")
	}

	user := model.User{
		ID:       s.ids.NewID("u"),
		Name:     name,
		Email:    email,
		Role:     role,
		Password: lo.CoalesceOrEmpty(password.OrEmpty(), DefaultPassword),
		Avatar:   avatarURL(name),
		Bio:      defaultBio,
		JoinDate: s.timestamp(),
	}

	if err := s.db.Users().Add(ctx, user); err != nil {
		return model.User{}, s.persistFailed("register", err)
	}
	s.users = s.db.Users().GetAll(ctx)

	if err := s.db.SetActiveSession(ctx, user); err != nil {
		return model.User{}, s.persistFailed("register", err)
	}
	sess.activate(user, s.db.Wishlist().GetUserWishlist(ctx, user.ID))

	s.notifier.Notify(model.NotifySuccess, fmt.Sprintf("Account created successfully! Welcome, %s.", name))
	s.logger.Info("user registered", "user", user.ID, "role", role)
	return user, nil
}

// Logout ends the session and clears the marker. The cart is left as is.
func (s *Store) Logout(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.ClearActiveSession(ctx); err != nil {
		return s.persistFailed("logout", err)
	}
	sess.deactivate()
	s.notifier.Notify(model.NotifyInfo, "You have been logged out.")
	return nil
}

// UpdateProfile writes the present fields of patch onto the active user's
// account. A present field overwrites even when empty. Passwords change only
// through ChangePassword.
func (s *Store) UpdateProfile(ctx context.Context, sess *Session, patch store.UserPatch) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpEditAccount, sess); err != nil {
		return model.User{}, s.deny(err)
	}
	current, _ := sess.User()
	patch.Password = mo.None[string]()

	if name, ok := patch.Name.Get(); ok && strings.TrimSpace(name) == "" {
		return model.User{}, s.fail(model.NotifyError, ErrCodeInvalidInput, "Please enter your name.")
	}
	if email, ok := patch.Email.Get(); ok && email != current.Email {
		if !validEmail(email) {
			return model.User{}, s.fail(model.NotifyError, ErrCodeInvalidEmail, "Please enter a valid email address.")
		}
		if other, taken := s.db.Users().FindByEmail(ctx, email); taken && other.ID != current.ID {
			return model.User{}, s.fail(model.NotifyError, ErrCodeEmailTaken, "Email already registered.")
		}
	}

	if err := s.db.Users().Update(ctx, current.ID, patch); err != nil {
		return model.User{}, s.persistFailed("update profile", err)
	}
	s.users = s.db.Users().GetAll(ctx)

	merged, ok := lo.Find(s.users, func(u model.User) bool { return u.ID == current.ID })
	if !ok {
		// The account was deleted underneath the session; keep the edit local.
		merged = patch.Apply(current)
	}
	if err := s.db.SetActiveSession(ctx, merged); err != nil {
		return model.User{}, s.persistFailed("update profile", err)
	}
	sess.setUser(merged)

	s.notifier.Notify(model.NotifySuccess, "Profile updated successfully.")
	return merged, nil
}

// ChangePassword replaces the active user's password. When the account has
// a password, current must match it.
func (s *Store) ChangePassword(ctx context.Context, sess *Session, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpEditAccount, sess); err != nil {
		return s.deny(err)
	}
	user, _ := sess.User()

	if user.HasPassword() && user.Password != current {
		return s.fail(model.NotifyError, ErrCodeAuthFailed, "Current password incorrect.")
	}
	if next == "" {
		return s.fail(model.NotifyError, ErrCodeInvalidInput, "New password cannot be empty.")
	}

	user.Password = next
	if err := s.db.Users().Update(ctx, user.ID, store.UserPatch{Password: mo.Some(next)}); err != nil {
		return s.persistFailed("change password", err)
	}
	s.users = s.db.Users().GetAll(ctx)

	if err := s.db.SetActiveSession(ctx, user); err != nil {
		return s.persistFailed("change password", err)
	}
	sess.setUser(user)

	s.notifier.Notify(model.NotifySuccess, "Password changed successfully.")
	return nil
}

// ResetPassword reports the same message whether or not email is registered.
func (s *Store) ResetPassword(ctx context.Context, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.db.Users().FindByEmail(ctx, email)
	s.logger.Debug("password reset requested", "found", found)
	s.notifier.Notify(model.NotifyInfo, "If an account exists for that email, a reset link has been sent.")
}

// DeleteUser removes the account with id. Admin only.
func (s *Store) DeleteUser(ctx context.Context, sess *Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpManageUsers, sess); err != nil {
		return s.deny(err)
	}
	if !lo.ContainsBy(s.users, func(u model.User) bool { return u.ID == id }) {
		return s.fail(model.NotifyError, ErrCodeNotFound, "User not found.")
	}

	if err := s.db.Users().Delete(ctx, id); err != nil {
		return s.persistFailed("delete user", err)
	}
	s.users = s.db.Users().GetAll(ctx)

	s.notifier.Notify(model.NotifyInfo, "User deleted.")
	s.logger.Info("user deleted", "user", id, "by", sess.UserID())
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.PathEscape(name) + "&background=random"
}
