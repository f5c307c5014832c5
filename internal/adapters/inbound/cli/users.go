package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abdidvp/hexagonal/internal/adapters/outbound/tui"
	"github.com/abdidvp/hexagonal/internal/domain"
)

func newCreateUserCmd(opts *rootOptions) *cobra.Command {
	var (
		emailAddr  string
		name       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(a *app) error {
				user, err := a.svc.Register(cmd.Context(), emailAddr, name)
				if err != nil {
					return fmt.Errorf("creating user: %w", err)
				}
				return renderUser(cmd.OutOrStdout(), user, jsonOutput)
			})
		},
	}

	cmd.Flags().StringVar(&emailAddr, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGetUserCmd(opts *rootOptions) *cobra.Command {
	var (
		id         string
		emailAddr  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get-user",
		Short: "Show a user by id or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(a *app) error {
				var (
					user domain.User
					err  error
				)
				if id != "" {
					uid, perr := domain.ParseUserID(id)
					if perr != nil {
						return perr
					}
					user, err = a.svc.GetByID(cmd.Context(), uid)
				} else {
					user, err = a.svc.GetByEmail(cmd.Context(), emailAddr)
				}
				if err != nil {
					return fmt.Errorf("getting user: %w", err)
				}
				return renderUser(cmd.OutOrStdout(), user, jsonOutput)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User id")
	cmd.Flags().StringVar(&emailAddr, "email", "", "Email address")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.MarkFlagsOneRequired("id", "email")
	cmd.MarkFlagsMutuallyExclusive("id", "email")

	return cmd
}

func newListUsersCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(a *app) error {
				users, err := a.svc.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing users: %w", err)
				}
				if jsonOutput {
					return renderJSON(cmd.OutOrStdout(), users)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderUserList(users))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newUpdateUserCmd(opts *rootOptions) *cobra.Command {
	var (
		id         string
		name       string
		emailAddr  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "update-user",
		Short: "Change a user's name or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			nameSet := cmd.Flags().Changed("name")
			emailSet := cmd.Flags().Changed("email")
			if !nameSet && !emailSet {
				return errors.New("at least one of --name or --email is required")
			}
			uid, err := domain.ParseUserID(id)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(a *app) error {
				var user domain.User
				if emailSet {
					if user, err = a.svc.UpdateEmail(cmd.Context(), uid, emailAddr); err != nil {
						return fmt.Errorf("updating email: %w", err)
					}
				}
				if nameSet {
					if user, err = a.svc.UpdateName(cmd.Context(), uid, name); err != nil {
						return fmt.Errorf("updating name: %w", err)
					}
				}
				return renderUser(cmd.OutOrStdout(), user, jsonOutput)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User id")
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&emailAddr, "email", "", "New email address")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newDeleteUserCmd(opts *rootOptions) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete-user",
		Short: "Delete a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := domain.ParseUserID(id)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(a *app) error {
				if err := a.svc.Delete(cmd.Context(), uid); err != nil {
					return fmt.Errorf("deleting user: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderDeleted(uid))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func renderUser(w io.Writer, user domain.User, jsonOutput bool) error {
	if jsonOutput {
		return renderJSON(w, user)
	}
	fmt.Fprint(w, tui.RenderUser(user))
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
