package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/spf13/cobra"
	"github.com/varoOP/fliq/internal/app"
	"github.com/varoOP/fliq/internal/countup"
	"github.com/varoOP/fliq/internal/domain"
	"github.com/varoOP/fliq/internal/render"
)

var showCmd = &cobra.Command{
	Use:   "show [tmdb-id]",
	Short: "Show the detail card for a movie",
	Long: `Show loads a movie by its TMDB id and prints the aggregated card:
catalog details, critic ratings, US streaming offers, the trailer and
similar titles. Only a catalog failure is reported as an error; any other
missing source just leaves its section out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")

		id := 0
		if from == "" {
			if len(args) != 1 {
				return fmt.Errorf("show needs a movie id or --from")
			}

			var err error
			if id, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid movie id %q", args[0])
			}
		}

		return withApp(func(a *app.App) error {
			var (
				view *domain.MovieView
				err  error
			)

			if from != "" {
				view, err = a.Import(cmd.Context(), from)
			} else {
				view, err = a.Show(cmd.Context(), id)
			}
			if err != nil {
				return err
			}

			return presentView(cmd, a, view)
		})
	},
}

// presentView prints the card and runs the --export and --share options
func presentView(cmd *cobra.Command, a *app.App, view *domain.MovieView) error {
	ctx := cmd.Context()

	format, err := outputFormat()
	if err != nil {
		return err
	}

	noAnimate, _ := cmd.Flags().GetBool("no-animate")
	if format == render.FormatText && !noAnimate && isTerminal(cmd.OutOrStdout()) {
		animateCard(ctx, cmd.OutOrStdout(), view)
	} else if err := write(cmd, view, func() string { return render.Card(view) }); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := a.Export(ctx, path, view); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", path)
	}

	if share, _ := cmd.Flags().GetBool("share"); share {
		if err := a.Share(ctx, view); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), render.ShareText(view.Details))
	}

	return nil
}

// animateCard prints the card with the ratings row counting up in place
func animateCard(ctx context.Context, w io.Writer, view *domain.MovieView) {
	fmt.Fprintln(w, render.Header(view))

	ratings := render.Ratings(view.Details)
	values := make([]float64, len(ratings))

	var mu sync.Mutex
	redraw := func() {
		line := render.RatingsRow(ratings, func(r render.Rating) string {
			for i := range ratings {
				if ratings[i] == r {
					return countup.Format(r.Value, values[i])
				}
			}
			return r.Value
		})
		fmt.Fprintf(w, "\r\033[K%s", line)
	}

	var handles []*countup.Handle
	for i, r := range ratings {
		target, ok := countup.Target(r.Value)
		if !ok {
			continue
		}

		h := countup.Animate(countup.TickerClock{}, target, countup.DefaultDuration, func(v float64) {
			mu.Lock()
			defer mu.Unlock()
			values[i] = v
			redraw()
		})
		handles = append(handles, h)
	}

	for _, h := range handles {
		select {
		case <-h.Done():
		case <-ctx.Done():
			h.Cancel()
		}
	}

	// Settle on the exact values whatever the animation reached
	mu.Lock()
	fmt.Fprintf(w, "\r\033[K%s\n", render.RatingsRow(ratings, nil))
	mu.Unlock()

	fmt.Fprintln(w, render.Body(view))
}

func init() {
	showCmd.Flags().String("from", "", "render a card previously saved with --export instead of fetching")
	addViewFlags(showCmd)
	rootCmd.AddCommand(showCmd)
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().String("export", "", "also write the card to this file (.json or .yaml)")
	cmd.Flags().Bool("share", false, "post the card to the configured Discord webhook")
	cmd.Flags().Bool("no-animate", false, "print ratings without the count-up animation")
}
