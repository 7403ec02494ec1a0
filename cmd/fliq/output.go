package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/fliq/internal/app"
	"github.com/varoOP/fliq/internal/render"
	"golang.org/x/term"
)

func outputFormat() (render.Format, error) {
	return render.ParseFormat(viper.GetString("output"))
}

// write prints text for the text format and encodes v otherwise
func write(cmd *cobra.Command, v any, text func() string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == render.FormatText {
		_, err := fmt.Fprintln(out, text())
		return err
	}
	return render.Encode(out, format, v)
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// withApp initializes the application for the duration of fn
func withApp(fn func(a *app.App) error) error {
	a, err := app.NewApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	return fn(a)
}
