package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/mvillanueva/dentaladmin_backend/cmd/http"
	systemcmd "github.com/mvillanueva/dentaladmin_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "dentaladmin",
	Short: "Administrative backend for a dental-clinic scheduling platform.",
	Long: `Dentaladmin is the administrative backend of a dental-clinic scheduling
platform. It manages dentists, secretaries, patients, consultations and dentist
availability, and serves the dashboard and per-dentist reports.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
