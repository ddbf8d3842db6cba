package commands

import (
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-analyzer/internal/api"
	"github.com/insightdelivered/statement-analyzer/internal/config"
)

// Version will be set via ldflags during build.
var Version = api.Version

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "statement-analyzer",
		Short: "Bank statement PDF analyzer",
		Long: `Extracts the transaction table from a bank statement PDF, classifies
each debit and credit by its remarks, and totals them per category.`,
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	loadConfig := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(newAnalyzeCommand(loadConfig))
	rootCmd.AddCommand(newServeCommand(loadConfig))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
