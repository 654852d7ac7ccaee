package main

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pokedex/internal/prefs"
	"pokedex/pkg/models"
)

// prefsCmd edits the local prefs file, or the account's with --remote.
func (a *app) prefsCmd() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show and change viewer preferences",
	}
	cmd.PersistentFlags().BoolVar(&remote, "remote", false, "use the logged in account instead of the local file")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show every preference",
		RunE: func(c *cobra.Command, _ []string) error {
			all, err := a.loadPrefs(c, remote)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, k := range models.PrefKeys {
				fmt.Fprintf(w, "%s\t%s\n", k, all[k])
			}
			return w.Flush()
		},
	}

	get := &cobra.Command{
		Use:       "get <key>",
		Short:     "Show one preference",
		Args:      cobra.ExactArgs(1),
		ValidArgs: models.PrefKeys,
		RunE: func(c *cobra.Command, args []string) error {
			if _, ok := models.PrefDefaults[args[0]]; !ok {
				return fmt.Errorf("%w: %q", prefs.ErrUnknownKey, args[0])
			}
			all, err := a.loadPrefs(c, remote)
			if err != nil {
				return err
			}
			a.printf(c, "%s\n", all[args[0]])
			return nil
		},
	}

	set := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one preference",
		Args:      cobra.ExactArgs(2),
		ValidArgs: models.PrefKeys,
		RunE: func(c *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !remote {
				v, err := prefs.SetValid(c.Context(), a.localPrefs(), key, value)
				if err != nil {
					return err
				}
				a.printf(c, "%s = %s\n", key, v)
				return nil
			}

			token, err := readToken(a.tokenPath)
			if err != nil {
				return err
			}
			var resp struct {
				Value string `json:"value"`
			}
			if err := a.call(c.Context(), http.MethodPut, "/users/prefs/"+key, token, map[string]string{"value": value}, &resp); err != nil {
				return err
			}
			a.printf(c, "%s = %s\n", key, resp.Value)
			return nil
		},
	}

	cmd.AddCommand(list, get, set)
	return cmd
}

func (a *app) localPrefs() *prefs.FileStore {
	path := a.prefsPath
	if path == "" {
		path = prefs.DefaultFilePath()
	}
	return prefs.NewFileStore(path)
}

func (a *app) loadPrefs(c *cobra.Command, remote bool) (map[string]string, error) {
	if !remote {
		return prefs.Load(c.Context(), a.localPrefs())
	}
	token, err := readToken(a.tokenPath)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Prefs map[string]string `json:"prefs"`
	}
	if err := a.call(c.Context(), http.MethodGet, "/users/prefs", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Prefs, nil
}
