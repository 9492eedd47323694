package appstate

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

func some(v string) mo.Option[string] { return mo.Some(v) }
func none() mo.Option[string]         { return mo.None[string]() }

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)

	err := f.state.Login(f.ctx, f.sess, customerEmail, model.RoleCustomer, some(seedPassword))
	require.NoError(t, err)

	user, ok := f.sess.User()
	require.True(t, ok)
	assert.Equal(t, "cust1", user.ID)
	assert.Equal(t, "Welcome back, John Doe!", f.lastNotification(t).Message)

	marker, ok := f.db.ActiveSession(f.ctx)
	require.True(t, ok)
	assert.Equal(t, "cust1", marker.ID)
}

func TestLogin_WrongPasswordLeavesMarkerUntouched(t *testing.T) {
	f := newFixture(t)

	err := f.state.Login(f.ctx, f.sess, customerEmail, model.RoleCustomer, some("wrong"))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeAuthFailed))
	assert.False(t, f.sess.Active())

	_, ok := f.db.ActiveSession(f.ctx)
	assert.False(t, ok, "marker must not be written on failed login")

	note := f.lastNotification(t)
	assert.Equal(t, model.NotifyError, note.Type)
	assert.Equal(t, "Invalid password.", note.Message)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.state.Login(f.ctx, f.sess, "nobody@example.com", model.RoleCustomer, none())
	assert.True(t, IsCode(err, ErrCodeUserNotFound))
	assert.Equal(t, "User not found. Please register.", f.lastNotification(t).Message)
}

func TestLogin_AccountWithoutPasswordAcceptsAnything(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Users().Add(f.ctx, model.User{
		ID: "u-legacy", Name: "Legacy", Email: "legacy@example.com", Role: model.RoleCustomer,
	}))

	err := f.state.Login(f.ctx, f.sess, "legacy@example.com", model.RoleCustomer, some("anything"))
	require.NoError(t, err)
	assert.Equal(t, "u-legacy", f.sess.UserID())
}

func TestLogin_NoPasswordSuppliedSkipsCheck(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.state.Login(f.ctx, f.sess, customerEmail, model.RoleCustomer, none()))
	require.NoError(t, f.state.Logout(f.ctx, f.sess))
	require.NoError(t, f.state.Login(f.ctx, f.sess, customerEmail, model.RoleCustomer, some("")))
}

func TestLogin_LoadsWishlist(t *testing.T) {
	f := newFixture(t)
	_, err := f.db.Wishlist().Toggle(f.ctx, "cust1", "p2")
	require.NoError(t, err)

	f.loginCustomer(t)
	assert.Equal(t, []string{"p2"}, f.sess.Wishlist())
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)

	user, err := f.state.Register(f.ctx, f.sess, "Jane", "jane@x.com", model.RoleCustomer, some("pw1"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "pw1", user.Password)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Jane&background=random", user.Avatar)
	assert.Equal(t, "New member of the Artisha community.", user.Bio)
	assert.NotEmpty(t, user.JoinDate)
	assert.Equal(t, "Account created successfully! Welcome, Jane.", f.lastNotification(t).Message)
	assert.Equal(t, user.ID, f.sess.UserID(), "registration activates the session")
	assert.Len(t, f.state.Users(), 3)

	require.NoError(t, f.state.Logout(f.ctx, f.sess))

	require.NoError(t, f.state.Login(f.ctx, f.sess, "jane@x.com", model.RoleCustomer, some("pw1")))
	require.NoError(t, f.state.Logout(f.ctx, f.sess))

	err = f.state.Login(f.ctx, f.sess, "jane@x.com", model.RoleCustomer, some("wrong"))
	assert.True(t, IsCode(err, ErrCodeAuthFailed))
	assert.False(t, f.sess.Active())
	_, ok := f.db.ActiveSession(f.ctx)
	assert.False(t, ok)
}

func TestRegister_Defaults(t *testing.T) {
	f := newFixture(t)

	user, err := f.state.Register(f.ctx, f.sess, "Ann Lee", "ann@x.com", "", none())
	require.NoError(t, err)
	assert.Equal(t, DefaultPassword, user.Password)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Ann%20Lee&background=random", user.Avatar)
}

func TestRegister_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		uname string
		email string
		role  model.Role
		code  ErrorCode
	}{
		{"duplicate email", "John", customerEmail, model.RoleCustomer, ErrCodeEmailTaken},
		{"malformed email", "John", "not-an-email", model.RoleCustomer, ErrCodeInvalidEmail},
		{"display-name email", "John", "John <j@x.com>", model.RoleCustomer, ErrCodeInvalidEmail},
		{"empty name", "  ", "new@x.com", model.RoleCustomer, ErrCodeInvalidInput},
		{"unknown role", "John", "new@x.com", "OWNER", ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.state.Register(f.ctx, f.sess, tt.uname, tt.email, tt.role, none())
			assert.Equal(t, tt.code, CodeOf(err))
			assert.Len(t, f.state.Users(), 2, "no partial mutation")
			assert.False(t, f.sess.Active())
		})
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.state.AddToCart(f.sess, testProduct("p1", 100))

	require.NoError(t, f.state.Logout(f.ctx, f.sess))

	assert.False(t, f.sess.Active())
	assert.Empty(t, f.sess.Wishlist())
	assert.Len(t, f.sess.Cart(), 1, "logout keeps the cart")
	_, ok := f.db.ActiveSession(f.ctx)
	assert.False(t, ok)
	assert.Equal(t, "You have been logged out.", f.lastNotification(t).Message)
}

func TestBootstrap_RestoresSession(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	_, err := f.state.ToggleWishlist(f.ctx, f.sess, "p3")
	require.NoError(t, err)

	sess, err := f.state.Bootstrap(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "cust1", sess.UserID())
	assert.Equal(t, []string{"p3"}, sess.Wishlist())
	assert.Empty(t, sess.Cart())
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)

	merged, err := f.state.UpdateProfile(f.ctx, f.sess, store.UserPatch{
		Bio:      some("Collector of batik."),
		Password: some("sneaky"),
	})
	require.NoError(t, err)

	assert.Equal(t, "cust1", merged.ID)
	assert.Equal(t, model.RoleCustomer, merged.Role)
	assert.Equal(t, "Collector of batik.", merged.Bio)
	assert.Equal(t, "John Doe", merged.Name, "absent fields keep the stored value")
	assert.Equal(t, seedPassword, merged.Password, "passwords change only through ChangePassword")

	marker, _ := f.db.ActiveSession(f.ctx)
	assert.Equal(t, "Collector of batik.", marker.Bio)
	assert.Equal(t, "Profile updated successfully.", f.lastNotification(t).Message)
}

func TestUpdateProfile_ClearsFields(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)

	_, err := f.state.UpdateProfile(f.ctx, f.sess, store.UserPatch{Bio: some("Collector of batik.")})
	require.NoError(t, err)

	merged, err := f.state.UpdateProfile(f.ctx, f.sess, store.UserPatch{Bio: some(""), Avatar: some("")})
	require.NoError(t, err)
	assert.Empty(t, merged.Bio)
	assert.Empty(t, merged.Avatar)

	stored, ok := f.db.Users().FindByEmail(f.ctx, customerEmail)
	require.True(t, ok)
	assert.Empty(t, stored.Bio)
	assert.Empty(t, stored.Avatar)

	user, _ := f.sess.User()
	assert.Empty(t, user.Avatar)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)

	_, err := f.state.UpdateProfile(f.ctx, f.sess, store.UserPatch{Email: some(adminEmail)})
	assert.True(t, IsCode(err, ErrCodeEmailTaken))
}

func TestUpdateProfile_Rejections(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)

	_, err := f.state.UpdateProfile(f.ctx, f.sess, store.UserPatch{Name: some("  ")})
	assert.True(t, IsCode(err, ErrCodeInvalidInput))

	_, err = f.state.UpdateProfile(f.ctx, f.sess, store.UserPatch{Email: some("")})
	assert.True(t, IsCode(err, ErrCodeInvalidEmail))

	user, _ := f.sess.User()
	assert.Equal(t, "John Doe", user.Name)
	assert.Equal(t, customerEmail, user.Email)
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.state.UpdateProfile(f.ctx, f.sess, store.UserPatch{Bio: some("x")})
	assert.True(t, IsCode(err, ErrCodeNotLoggedIn))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)

	err := f.state.ChangePassword(f.ctx, f.sess, "wrong", "newpw")
	assert.True(t, IsCode(err, ErrCodeAuthFailed))
	assert.Equal(t, "Current password incorrect.", f.lastNotification(t).Message)

	require.NoError(t, f.state.ChangePassword(f.ctx, f.sess, seedPassword, "newpw"))
	assert.Equal(t, "Password changed successfully.", f.lastNotification(t).Message)

	require.NoError(t, f.state.Logout(f.ctx, f.sess))
	assert.Error(t, f.state.Login(f.ctx, f.sess, customerEmail, "", some(seedPassword)))
	assert.NoError(t, f.state.Login(f.ctx, f.sess, customerEmail, "", some("newpw")))
}

func TestResetPassword_UniformMessage(t *testing.T) {
	f := newFixture(t)

	f.state.ResetPassword(f.ctx, customerEmail)
	known := f.lastNotification(t)
	f.state.ResetPassword(f.ctx, "ghost@example.com")
	unknown := f.lastNotification(t)

	assert.Equal(t, known.Type, unknown.Type)
	assert.Equal(t, known.Message, unknown.Message)
}

func TestDeleteUser(t *testing.T) {
	t.Run("customer is forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.loginCustomer(t)
		err := f.state.DeleteUser(f.ctx, f.sess, "admin1")
		assert.True(t, IsCode(err, ErrCodeForbidden))
		assert.Len(t, f.state.Users(), 2)
	})

	t.Run("admin deletes", func(t *testing.T) {
		f := newFixture(t)
		f.loginAdmin(t)
		require.NoError(t, f.state.DeleteUser(f.ctx, f.sess, "cust1"))
		assert.Len(t, f.state.Users(), 1)
		assert.Len(t, f.db.Users().GetAll(f.ctx), 1)
		assert.Equal(t, "User deleted.", f.lastNotification(t).Message)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		f.loginAdmin(t)
		err := f.state.DeleteUser(f.ctx, f.sess, "ghost")
		assert.True(t, IsCode(err, ErrCodeNotFound))
	})
}
