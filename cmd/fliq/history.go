package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/varoOP/fliq/internal/app"
	"github.com/varoOP/fliq/internal/render"
)

var historyCmd = &cobra.Command{
	Use:   "history [filter]",
	Short: "List recent searches",
	Long: `History lists the last 5 movies opened from search, newest first.
An optional filter fuzzy-matches titles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		clearAll, _ := cmd.Flags().GetBool("clear")

		return withApp(func(a *app.App) error {
			if clearAll {
				if err := a.ClearHistory(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared")
				return nil
			}

			entries, err := a.History(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return write(cmd, entries, func() string { return render.History(entries) })
		})
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the local response cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired and unreadable cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			n, err := a.PruneCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries\n", n)
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry (search history is kept)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			n, err := a.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries\n", n)
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().Bool("clear", false, "clear the search history")
	rootCmd.AddCommand(historyCmd)

	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
