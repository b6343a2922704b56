package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"shortreel/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "shortreel",
	Short: "Turn a short text brief into a finished vertical video",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// local dev convenience; deployment passes real env
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(libraryCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
}
