package main

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	envFile     string
	provider    string
	logLevel    string
	model       string
	maxTokens   int
	temperature float64
	system      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "modelservice",
		Short:         "Send prompts to LLM providers through one interface",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv(opts.envFile)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "path to configuration file (default: "+defaultConfigFile+" if present, else environment)")
	f.StringVar(&opts.envFile, "env", ".env", "path to .env file (ignored if missing)")
	f.StringVar(&opts.provider, "provider", "", "provider key (default: default_provider from config)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&opts.model, "model", "", "model name (overrides config defaults)")
	f.IntVar(&opts.maxTokens, "max-tokens", 0, "maximum tokens to generate (overrides config defaults)")
	f.Float64Var(&opts.temperature, "temperature", 0, "sampling temperature in [0,1] (overrides config defaults)")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newStreamCmd(opts),
		newValidateKeyCmd(opts),
		newModelsCmd(opts),
		newProvidersCmd(opts),
	)

	return cmd
}
