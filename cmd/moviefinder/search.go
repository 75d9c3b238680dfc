package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/varoOP/moviefinder/internal/domain"
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search movies by title",
	Long: `Search lists movies whose title contains the keyword. Matches from the
local cache come first, then results from the remote catalog, without
listing any movie twice.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetInt("pages")
		return listPages(cmd, strings.Join(args, " "), pages)
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the cached movies",
	Long:  `Browse lists every movie in the local cache in insertion order. It never contacts the remote catalog.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetInt("pages")
		return listPages(cmd, "", pages)
	},
}

func listPages(cmd *cobra.Command, keyword string, pages int) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	n := 0
	err = application.Pages(cmd.Context(), keyword, pages, func(page domain.Page) error {
		n++
		return printPage(w, n, page)
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return nil
}

func printPage(w *tabwriter.Writer, n int, page domain.Page) error {
	if len(page.Items) == 0 {
		return nil
	}

	fmt.Fprintf(w, "# page %d (%s)\n", n, page.Source)
	for _, m := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Year, m.Title)
	}
	return w.Flush()
}

func init() {
	searchCmd.Flags().Int("pages", 1, "number of pages to list (0 lists until the results end)")
	browseCmd.Flags().Int("pages", 0, "number of pages to list (0 lists the whole cache)")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(browseCmd)
}
