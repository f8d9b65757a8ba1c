// moodctl inspects and seeds the study companion database from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "moodctl",
	Short: "Study companion admin tool",
	Long: `Classify text and inspect mood history without running the server.

Available commands:
  classify - Classify text and print the emotion, glyph and suggestion
  history  - Print a user's overall and weekly mood distributions
  signup   - Create an account
  health   - Query the server's gRPC health service`,
	SilenceUsage: true,
}

func init() {
	defaultDB := os.Getenv("DB_PATH")
	if defaultDB == "" {
		defaultDB = "./data/companion.db"
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to the SQLite database")

	historyCmd.Flags().StringVar(&historyAsOf, "as-of", "", "end of the weekly window (YYYY-MM-DD, default today)")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "password for the new account")
	_ = signupCmd.MarkFlagRequired("password")
	healthCmd.Flags().StringVar(&healthAddr, "addr", "localhost:9090", "gRPC health service address")
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", defaultHealthTimeout, "how long to wait for an answer")

	rootCmd.AddCommand(classifyCmd, historyCmd, signupCmd, healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
