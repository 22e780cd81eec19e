package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var seedFlags struct {
	username string
	email    string
}

var seedCmd = &cobra.Command{
	Use:   "seed-superadmin",
	Short: "Creates the first superadmin if none exists",
	Long: `Creates the first superadmin account. Does nothing when a superadmin
already exists. The password is read from SUPERADMIN_PASSWORD or prompted for.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSeed(cmd)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFlags.username, "username", "", "superadmin username")
	seedCmd.Flags().StringVar(&seedFlags.email, "email", "", "superadmin email")
	_ = seedCmd.MarkFlagRequired("username")
	_ = seedCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.close(closeCtx)
	}()

	password := a.cfg.SuperAdmin.Password
	if password == "" {
		if password, err = promptPassword(cmd); err != nil {
			return err
		}
	}

	created, err := a.userSvc.SeedSuperAdmin(ctx, seedFlags.username, seedFlags.email, password)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "superadmin %s created\n", seedFlags.email)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "a superadmin already exists, nothing to do")
	}
	return nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("SUPERADMIN_PASSWORD is not set and stdin is not a terminal")
	}
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(first), nil
}
