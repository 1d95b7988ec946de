package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/password"
)

func newAccountService(b *backend) (*account.Service, error) {
	return account.NewService(b.users, b.hasher, nil, logger)
}

func newSeedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the default administrator if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig()
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), fc, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			svc, err := newAccountService(b)
			if err != nil {
				return err
			}
			u, created, err := svc.SeedAdmin(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (password %s); change it after the first login\n", u.Username, account.SeedPassword)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists with role %s\n", u.Username, u.Role)
			}
			return nil
		},
	}
}

func newMakeAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make-admin <username>",
		Short: "Promote an existing user to ADMIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig()
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), fc, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			svc, err := newAccountService(b)
			if err != nil {
				return err
			}
			u, err := svc.MakeAdmin(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("make admin %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Username, u.Role)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := password.NewHasher(cost)
			if err != nil {
				return err
			}
			hash, err := h.Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", password.DefaultCost, "bcrypt cost")
	return cmd
}
