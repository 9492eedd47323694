package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

// changedFlag returns value only when the named flag was given.
func changedFlag[T any](cmd *cobra.Command, name string, value T) mo.Option[T] {
	if cmd.Flags().Changed(name) {
		return mo.Some(value)
	}
	return mo.None[T]()
}

// NewLoginCommand creates the login command.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var password, role string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and remember the account for later commands",
		Example: `  artisha login admin@artisha.com --password password123
  artisha login john@example.com`,
		Args: requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.Login(cmd.Context(), a.sess, args[0], model.Role(role), changedFlag(cmd, "password", password)); err != nil {
				return a.out.Rejected("login", err)
			}
			user, _ := a.sess.User()
			return a.ok(publicUser(user), fmt.Sprintf("Logged in as %s <%s> (%s)", user.Name, user.Email, user.Role))
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&role, "role", "", "role the login form is submitted under (CUSTOMER|ADMIN)")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	var endSession bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the logged-in account",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.Logout(cmd.Context(), a.sess); err != nil {
				return a.out.Rejected("logout", err)
			}
			if endSession {
				if err := a.db.ClearSession(cmd.Context()); err != nil {
					return WrapExitError(ExitCommandError, "failed to clear session storage", err)
				}
			}
			return a.ok(map[string]bool{"loggedOut": true, "sessionCleared": endSession}, "Logged out.")
		},
	}

	cmd.Flags().BoolVar(&endSession, "end-session", false, "also clear session storage (studio conversation)")
	return cmd
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			user, ok := a.sess.User()
			if !ok {
				return a.ok(nil, "Not logged in.")
			}
			return a.ok(publicUser(user),
				fmt.Sprintf("%s <%s>", user.Name, user.Email),
				fmt.Sprintf("  id:     %s", user.ID),
				fmt.Sprintf("  role:   %s", user.Role),
				fmt.Sprintf("  joined: %s", lo.CoalesceOrEmpty(user.JoinDate, "-")),
				fmt.Sprintf("  bio:    %s", lo.CoalesceOrEmpty(user.Bio, "-")))
		},
	}
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	var password, role string

	cmd := &cobra.Command{
		Use:     "register <name> <email>",
		Short:   "Create an account and log in",
		Example: `  artisha register "Ann Lee" ann@example.com --password s3cret`,
		Args:    requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.state.Register(cmd.Context(), a.sess, args[0], args[1], model.Role(role), changedFlag(cmd, "password", password))
			if err != nil {
				return a.out.Rejected("register", err)
			}
			return a.ok(publicUser(user), fmt.Sprintf("Registered %s (%s)", user.Email, user.ID))
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (default password123)")
	cmd.Flags().StringVar(&role, "role", "", "account role (CUSTOMER|ADMIN, default CUSTOMER)")
	return cmd
}

// NewAccountCommand groups profile and password management.
func NewAccountCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the logged-in account",
	}
	cmd.AddCommand(newAccountUpdateCommand(opts), newAccountPasswordCommand(opts), newAccountResetCommand(opts))
	return cmd
}

func newAccountUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, email, avatar, bio string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			patch := store.UserPatch{
				Name:   changedFlag(cmd, "name", name),
				Email:  changedFlag(cmd, "email", email),
				Avatar: changedFlag(cmd, "avatar", avatar),
				Bio:    changedFlag(cmd, "bio", bio),
			}

			user, err := a.state.UpdateProfile(cmd.Context(), a.sess, patch)
			if err != nil {
				return a.out.Rejected("update profile", err)
			}
			return a.ok(publicUser(user), fmt.Sprintf("Profile updated for %s.", user.Email))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	cmd.Flags().StringVar(&bio, "bio", "", "short biography")
	return cmd
}

func newAccountPasswordCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "password <current> <new>",
		Short: "Change the password",
		Args:  requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.ChangePassword(cmd.Context(), a.sess, args[0], args[1]); err != nil {
				return a.out.Rejected("change password", err)
			}
			return a.ok(map[string]bool{"changed": true})
		},
	}
}

func newAccountResetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <email>",
		Short: "Request a password reset link",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			a.state.ResetPassword(cmd.Context(), args[0])
			return a.ok(map[string]bool{"requested": true})
		},
	}
}

// NewUsersCommand creates the admin user-management command.
func NewUsersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List or delete accounts (admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			users := lo.Map(a.state.Users(), func(u model.User, _ int) model.User { return publicUser(u) })
			lines := lo.Map(users, func(u model.User, _ int) string {
				return fmt.Sprintf("%-10s %-8s %-24s %s", u.ID, u.Role, u.Email, u.Name)
			})
			return a.ok(users, lines...)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.DeleteUser(cmd.Context(), a.sess, args[0]); err != nil {
				return a.out.Rejected("delete user", err)
			}
			return a.ok(map[string]string{"deleted": args[0]})
		},
	})

	return cmd
}

// publicUser drops the password before a user is printed.
func publicUser(u model.User) model.User {
	u.Password = ""
	return u
}
