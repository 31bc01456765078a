// Package cmd is for command line interactions with the intein_finder application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "intein_finder",
	Short: `Find and remove inteins from protein sequences.
Putative intein regions come from homology searches and are kept if an intein
aligned to them has the expected residues at its splice junctions`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	RootCmd.PersistentFlags().StringP("settings", "s", "", "YAML settings file")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "whether to log progress to stderr")
	RootCmd.PersistentFlags().IntP("cpus", "c", 1, "number of alignment workers and rpsblast splits")

	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("cpus", RootCmd.PersistentFlags().Lookup("cpus"))
}
