/*
Copyright © 2026 BioLogIn001
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spellweavers",
	Short: "Rules engine for simultaneous-turn gesture duels",
	Long: `spellweavers resolves Warlocks-style duels: every participant shows a
gesture with each hand per turn, completed gesture sequences cast spells,
and the engine settles the turn deterministically.

Matches are played from scripts, journaled as JSONL and can be replayed
and checked for determinism.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.spellweavers.yaml)")
	rootCmd.PersistentFlags().String("ruleset", "warlocks", "ruleset name (warlocks, spellbinder or a file in data_dir)")
	rootCmd.PersistentFlags().String("data_dir", "", "directory searched for ruleset YAML before the built-in ones")
	rootCmd.PersistentFlags().String("log_level", "warn", "diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("journal_dir", "./journals", "directory where match journals are written")

	for _, key := range []string{"ruleset", "data_dir", "log_level", "journal_dir"} {
		cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".spellweavers")
	}

	viper.SetEnvPrefix("SPELLWEAVERS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func dataDirs() []string {
	if dir := viper.GetString("data_dir"); dir != "" {
		return []string{dir}
	}
	return nil
}

func newLogger() *zap.Logger {
	level := viper.GetString("log_level")
	logger, err := logging.New(level, level == "debug")
	if err != nil {
		fmt.Printf("Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	return logger
}
