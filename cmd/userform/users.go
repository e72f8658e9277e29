package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/renderers/tui"
	"github.com/goliatone/go-userform/pkg/store"
	"github.com/goliatone/go-userform/pkg/submission"
)

func newListCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Long: `List every registered user.

Examples:
  userform list
  userform list -o json | jq '.[].email'
  userform list -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			o, closeFn, err := a.orchestrator(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeFn()) }()

			out, err := o.RenderUsers(cmd.Context(), output)
			if err != nil {
				if errors.Is(err, submission.ErrPersistence) {
					return a.fail("API Connection Failed", err)
				}
				return err
			}
			_, err = a.out.Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Register a new user interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			o, closeFn, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeFn()) }()

			session, err := a.session(o)
			if err != nil {
				return err
			}
			state, err := o.NewForm(ctx, "")
			if err != nil {
				return err
			}
			_, err = session.Run(ctx, state)
			return interactiveErr(err)
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a user interactively",
		Long: `Edit a user interactively. Without an id the registered users are
listed to choose from. Current values are offered as defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			o, closeFn, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeFn()) }()

			session, err := a.session(o)
			if err != nil {
				return err
			}

			var state *form.State
			if len(args) == 1 {
				state, err = o.NewForm(ctx, model.ID(args[0]))
				if errors.Is(err, store.ErrNotFound) {
					return a.fail("User not found", err)
				}
				if err != nil {
					return err
				}
			} else {
				users, err := o.Coordinator().List(ctx)
				if err != nil {
					return a.fail("API Connection Failed", err)
				}
				picked, err := session.PickUser(ctx, o.Fields(), users)
				if err != nil {
					return interactiveErr(err)
				}
				state = form.New(o.Fields(), form.WithSeed(&picked))
			}

			_, err = session.Run(ctx, state)
			return interactiveErr(err)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			o, closeFn, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeFn()) }()

			id := model.ID(args[0])
			user, err := store.Find(ctx, o.Store(), id)
			if errors.Is(err, store.ErrNotFound) {
				return a.fail("User not found", fmt.Errorf("user %s: %w", id, err))
			}
			if err != nil {
				return a.fail("API Connection Failed", err)
			}

			if !yes {
				session, err := a.session(o)
				if err != nil {
					return err
				}
				confirmed, err := session.ConfirmDelete(ctx, o.Fields(), user)
				if err != nil {
					return interactiveErr(err)
				}
				if !confirmed {
					return nil
				}
			}

			if _, err := o.Coordinator().Delete(ctx, id); err != nil {
				return a.fail("Failed to delete user.", err)
			}
			a.printf("%sUser deleted successfully\n", tui.DefaultTheme.InfoPrefix)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// interactiveErr treats an aborted prompt as a clean exit.
func interactiveErr(err error) error {
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}
