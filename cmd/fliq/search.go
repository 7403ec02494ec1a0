package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/varoOP/fliq/internal/app"
	"github.com/varoOP/fliq/internal/render"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog for a movie",
	Long: `Search lists up to 8 catalog matches for the query.

Use --pick N to open the Nth result. Picking a result records it in the
search history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		pick, _ := cmd.Flags().GetInt("pick")

		return withApp(func(a *app.App) error {
			results, err := a.Search(cmd.Context(), query)
			if err != nil {
				return err
			}

			if pick == 0 {
				return write(cmd, results, func() string { return render.Results(results) })
			}

			if pick < 0 || pick > len(results) {
				return fmt.Errorf("--pick %d is out of range (got %d results)", pick, len(results))
			}

			view, err := a.Select(cmd.Context(), results[pick-1])
			if err != nil {
				return err
			}
			return presentView(cmd, a, view)
		})
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List this week's trending movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			results, err := a.Trending(cmd.Context())
			if err != nil {
				return err
			}
			return write(cmd, results, func() string { return render.Results(results) })
		})
	},
}

func init() {
	searchCmd.Flags().Int("pick", 0, "open the Nth result (1-based)")
	addViewFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trendingCmd)
}
