package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:8080"

// app carries the global flags into every subcommand.
type app struct {
	baseURL   string
	tokenPath string
	prefsPath string
	client    *http.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{client: &http.Client{Timeout: 15 * time.Second}}

	root := &cobra.Command{
		Use:          "pokedex",
		Short:        "Browse the Pokédex from the terminal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.baseURL, "api", envOr("POKEDEX_API", defaultBaseURL), "API base URL")
	root.PersistentFlags().StringVar(&a.tokenPath, "token", defaultTokenPath(), "token file path")
	root.PersistentFlags().StringVar(&a.prefsPath, "prefs", "", "local preferences file (default ~/.pokedex/prefs.json)")

	root.AddCommand(
		a.pokemonCmd(),
		a.spriteCmd(),
		a.stylesCmd(),
		a.authCmd(),
		a.prefsCmd(),
		a.eventsCmd(),
		a.exportCmd(),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (a *app) printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
