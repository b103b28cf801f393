package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "prlocal",
	Short: "prlocal is a local pull request review workflow for git repositories.",
	Long: `A single-user code review tool for local git repositories.

prlocal records pull requests against branches of a local repository, captures
diff revisions, anchors review comments to file lines, and walks each PR
through an approval lifecycle ending in a merge. No forge account or network
access is required; everything lives in a local SQLite database.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("PRLOCAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
