package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobdesk/internal/account"
	"github.com/mesh-intelligence/jobdesk/internal/auth"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// accounts opens the store and builds the account service with the
// configured bcrypt cost and pepper.
func (a *app) accounts(cmd *cobra.Command) (*account.Service, error) {
	s, err := a.open(cmd)
	if err != nil {
		return nil, err
	}
	hasher, err := auth.NewPasswordConfig(a.cfg.BcryptCost, a.v.GetString(cfgKeyPasswordPepper))
	if err != nil {
		return nil, userError(fmt.Errorf("%w: %v", types.ErrInvalidConfig, err))
	}
	return account.NewService(s, hasher), nil
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register, sign in and inspect users",
	}
	cmd.AddCommand(newUserRegisterCmd(a))
	cmd.AddCommand(newUserLoginCmd(a))
	cmd.AddCommand(newUserGoogleCmd(a))
	cmd.AddCommand(newUserShowCmd(a))
	cmd.AddCommand(newUserPasswdCmd(a))
	return cmd
}

func newUserRegisterCmd(a *app) *cobra.Command {
	var in account.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an email/password account",
		Long:  "Register creates an account and its default profile. The password is\nprompted for when --password is omitted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.accounts(cmd)
			if err != nil {
				return err
			}
			if in.Password, err = a.passwordFlag(cmd, "password", "Password: "); err != nil {
				return err
			}
			user, err := svc.Register(in)
			if err != nil {
				return classify(err)
			}
			return printJSON(cmd.OutOrStdout(), user.Public())
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&in.FullName, "name", "", "full name (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newUserLoginCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check an email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.accounts(cmd)
			if err != nil {
				return err
			}
			password, err := a.passwordFlag(cmd, "password", "Password: ")
			if err != nil {
				return err
			}
			user, err := svc.Login(email, password)
			if err != nil {
				return classify(err)
			}
			return printJSON(cmd.OutOrStdout(), user.Public())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().String("password", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}

type googleResult struct {
	User    types.User `json:"user"`
	Created bool       `json:"created"`
}

func newUserGoogleCmd(a *app) *cobra.Command {
	var in account.GoogleInput
	cmd := &cobra.Command{
		Use:   "google",
		Short: "Sign in with a verified Google identity",
		Long: "Google finds the account by Google ID, links an existing email account,\n" +
			"or creates a Google account. The identity must already be verified.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.accounts(cmd)
			if err != nil {
				return err
			}
			user, created, err := svc.GoogleSignIn(in)
			if err != nil {
				return classify(err)
			}
			return printJSON(cmd.OutOrStdout(), googleResult{User: user.Public(), Created: created})
		},
	}
	cmd.Flags().StringVar(&in.GoogleID, "google-id", "", "Google subject ID (required)")
	cmd.Flags().StringVar(&in.Email, "email", "", "verified email address (required)")
	cmd.Flags().StringVar(&in.FullName, "name", "", "display name")
	cmd.MarkFlagRequired("google-id")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newUserShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|email>",
		Short: "Show a user without the password hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			user := s.Users().FindByID(args[0])
			if user == nil {
				user = s.Users().FindByEmail(args[0])
			}
			if user == nil {
				return userError(fmt.Errorf("user %q: %w", args[0], types.ErrNotFound))
			}
			return printJSON(cmd.OutOrStdout(), user.Public())
		},
	}
}

func newUserPasswdCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd <userId>",
		Short: "Change a user's password",
		Long: "Passwd checks the current password and stores a new one. Google-only\n" +
			"accounts have no current password and set one directly.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.accounts(cmd)
			if err != nil {
				return err
			}
			user := a.store.Users().FindByID(args[0])
			if user == nil {
				return userError(fmt.Errorf("user %q: %w", args[0], types.ErrNotFound))
			}
			var current string
			if user.HasPassword() {
				if current, err = a.passwordFlag(cmd, "current", "Current password: "); err != nil {
					return err
				}
			}
			next, err := a.passwordFlag(cmd, "new", "New password: ")
			if err != nil {
				return err
			}
			if err := svc.ChangePassword(user.ID, current, next); err != nil {
				if errors.Is(err, types.ErrInvalidCredentials) {
					return userError(errors.New("current password is incorrect"))
				}
				return classify(err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"success": true, "userId": user.ID})
		},
	}
	cmd.Flags().String("current", "", "current password (prompted when omitted)")
	cmd.Flags().String("new", "", "new password (prompted when omitted)")
	return cmd
}
