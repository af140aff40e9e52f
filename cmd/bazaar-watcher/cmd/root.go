// Package cmd implements the CLI commands for bazaar-watcher.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/bazaar-watcher/internal/config"
)

// NewRootCmd builds the command tree. Flags may also be given as BAZAAR_*
// environment variables, e.g. BAZAAR_CONFIG.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BAZAAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "bazaar-watcher",
		Short: "Alert when a Hypixel Bazaar price crosses a target",
		Long: "bazaar-watcher polls the Hypixel SkyBlock Bazaar for one product's\n" +
			"sell price and posts a Discord webhook message once each time the\n" +
			"price rises to or above the configured target.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "optional YAML config file")
	root.PersistentFlags().String("env-file", ".env", "dotenv file to load if present")

	cobra.CheckErr(v.BindPFlag("config", root.PersistentFlags().Lookup("config")))
	cobra.CheckErr(v.BindPFlag("env-file", root.PersistentFlags().Lookup("env-file")))

	load := func() (*config.Config, error) {
		return config.LoadWithEnvFile(v.GetString("config"), v.GetString("env-file"))
	}

	root.AddCommand(
		runCommand(load),
		checkCommand(load),
		versionCommand(),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

type configLoader func() (*config.Config, error)
