package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "medform",
	Short: "MedBot medical intake - submit your medical details from the terminal",
	Long: `medform signs you in to a MedBot backend and submits the medical intake form.

Examples:
  medform login --email jane@example.com
  medform submit --age 42 --gender Female --allergies "penicillin"
  medform status
  medform logout`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statusCmd)

	rootCmd.PersistentFlags().String("server", "", "Backend base URL (default: saved session server or http://localhost:5000)")
	rootCmd.PersistentFlags().String("session", "", "Session file (default: <user config dir>/medbot/session.json)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP timeout (default 15s)")
}
