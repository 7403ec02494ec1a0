package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fliq",
	Short: "Search movies and see where to watch them",
	Long: `Fliq looks up a movie in the TMDB catalog and shows a single card with
critic ratings from OMDb, US streaming availability, the trailer and similar
titles. Responses are cached locally per source.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, else $HOME/.fliq.yaml)")
	rootCmd.PersistentFlags().String("data-dir", ".", "directory for the local cache database")
	rootCmd.PersistentFlags().String("cache-driver", "sqlite", "cache storage: 'sqlite', 'bolt', 'redis' or 'memory'")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format: 'text', 'json' or 'yaml'")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn or error")

	// Bind flags to viper
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("cache_driver", rootCmd.PersistentFlags().Lookup("cache-driver"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile == "" {
		home, _ := os.UserHomeDir()
		cfgFile = findConfig(".", home)
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	// Environment variables
	viper.SetEnvPrefix("FLIQ")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if cfgFile == "" {
		return
	}
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", cfgFile, err)
	}
}

// findConfig returns dir/config.yaml, else home/.fliq.yaml, else "" when
// neither exists.
func findConfig(dir, home string) string {
	candidates := []string{filepath.Join(dir, "config.yaml")}
	if home != "" {
		candidates = append(candidates, filepath.Join(home, ".fliq.yaml"))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
