package main

import (
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pokedex/internal/pokemon"
	"pokedex/internal/search"
	"pokedex/internal/sprite"
)

type listResponse struct {
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
	Items  []pokemon.EntryView `json:"items"`
}

func (a *app) pokemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pokemon",
		Aliases: []string{"p"},
		Short:   "List, search and show entries",
	}

	var gen, limit, offset int
	var lang string
	list := &cobra.Command{
		Use:   "list",
		Short: "List one generation",
		RunE: func(c *cobra.Command, _ []string) error {
			q := url.Values{}
			q.Set("gen", strconv.Itoa(gen))
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			var resp listResponse
			if err := a.get(c.Context(), "/pokemon", q, &resp); err != nil {
				return err
			}
			a.printList(c, resp, lang)
			return nil
		},
	}
	list.Flags().IntVarP(&gen, "gen", "g", 1, "generation")

	find := &cobra.Command{
		Use:   "search <query>",
		Short: "Search by name (English, kana or romaji-free kana) or number",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if !search.IsSearchable(args[0]) {
				return fmt.Errorf("query must be at least %d characters", search.MinQueryLength)
			}
			q := url.Values{}
			q.Set("q", args[0])
			if gen > 0 {
				q.Set("gen", strconv.Itoa(gen))
			}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			var resp listResponse
			if err := a.get(c.Context(), "/pokemon", q, &resp); err != nil {
				return err
			}
			a.printList(c, resp, lang)
			return nil
		},
	}
	find.Flags().IntVarP(&gen, "gen", "g", 0, "limit to one generation (0 searches every cached one)")

	for _, sub := range []*cobra.Command{list, find} {
		sub.Flags().IntVar(&limit, "limit", 50, "page size")
		sub.Flags().IntVar(&offset, "offset", 0, "offset")
		sub.Flags().StringVar(&lang, "lang", "en", "name language: en or ja")
	}

	var style string
	var shiny bool
	var version int
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry with its sprite and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 1 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			q := url.Values{}
			if style != "" {
				q.Set("style", style)
			}
			q.Set("shiny", strconv.FormatBool(shiny))

			var e pokemon.EntryView
			if err := a.get(c.Context(), "/pokemon/"+args[0], q, &e); err != nil {
				return err
			}
			d := e.Entry.Description(version)

			a.printf(c, "No.%s %s", e.Number, e.Name)
			if e.JapaneseName != "" {
				a.printf(c, " (%s)", e.JapaneseName)
			}
			a.printf(c, "\ngeneration: %d\ntypes: %v\n", e.Generation, e.Types)
			if e.Sprite != nil {
				a.printf(c, "sprite: %s\n", e.Sprite.URL)
			}
			if text := d.In(lang); text != "" {
				a.printf(c, "\n%s\n", text)
			}
			return nil
		},
	}
	show.Flags().StringVar(&style, "style", "", "sprite style")
	show.Flags().BoolVar(&shiny, "shiny", false, "shiny sprite")
	show.Flags().IntVar(&version, "version", 0, "description generation (0 = newest)")
	show.Flags().StringVar(&lang, "lang", "en", "description language: en or ja")

	cmd.AddCommand(list, find, show)
	return cmd
}

func (a *app) printList(c *cobra.Command, resp listResponse, lang string) {
	w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, e := range resp.Items {
		fmt.Fprintf(w, "%s\t%s\t%v\n", e.Number, e.DisplayName(lang), e.Types)
	}
	w.Flush()
	a.printf(c, "%d of %d\n", len(resp.Items), resp.Total)
}

// spriteCmd resolves locally; no server needed.
func (a *app) spriteCmd() *cobra.Command {
	var style, form string
	var shiny bool
	cmd := &cobra.Command{
		Use:   "sprite <id>",
		Short: "Print the sprite URL of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			s := sprite.Default().Sprite(id, style, shiny, form)
			a.printf(c, "%s\n", s.URL)
			if s.FellBack && style != "" {
				a.printf(c, "(style %q cannot show #%d, used %q)\n", style, id, s.Style)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "sprite style (default: the generation's)")
	cmd.Flags().StringVar(&form, "form", "", "form suffix, e.g. alola")
	cmd.Flags().BoolVar(&shiny, "shiny", false, "shiny sprite")
	return cmd
}

func (a *app) stylesCmd() *cobra.Command {
	var gen int
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List sprite styles",
		RunE: func(c *cobra.Command, _ []string) error {
			r := sprite.Default()
			styles := r.Styles()
			if gen != 0 {
				styles = r.StylesFor(gen)
				if len(styles) == 0 {
					return fmt.Errorf("invalid generation %d", gen)
				}
			}
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range styles {
				mark := ""
				if gen != 0 && r.DefaultStyleFor(gen) == s.Key {
					mark = "*"
				}
				fmt.Fprintf(w, "%s%s\t%s\t%v\n", s.Key, mark, s.Label.En, s.Gens)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&gen, "gen", "g", 0, "only styles for this generation")
	return cmd
}
