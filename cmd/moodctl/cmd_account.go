package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashureev/study-companion/internal/identity"
	"github.com/ashureev/study-companion/internal/probe"
	"github.com/ashureev/study-companion/internal/store"
	"github.com/spf13/cobra"
)

const defaultHealthTimeout = 5 * time.Second

var (
	signupPassword string
	healthAddr     string
	healthTimeout  time.Duration
)

// signupCmd creates an account directly in the database.
var signupCmd = &cobra.Command{
	Use:   "signup <username>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := store.NewSQLite(dbPath)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := identity.NewAccounts(repo).Signup(cmd.Context(), args[0], signupPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created account %s\n", strings.TrimSpace(args[0]))
		return nil
	},
}

// healthCmd asks a running server's gRPC health service for its status.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Query the server's gRPC health service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()

		status, err := probe.Check(ctx, healthAddr, probe.ServiceName)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), status.String())
		return nil
	},
}
