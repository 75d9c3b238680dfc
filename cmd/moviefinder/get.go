package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/moviefinder/internal/domain"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show the details of a movie",
	Long: `Get prints the cached details of a movie right away, then the current
details from the remote catalog, which are saved to the cache.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		out := cmd.OutOrStdout()
		var last domain.Resource
		for res := range application.Fetch(cmd.Context(), args[0]) {
			last = res
			switch res.Status {
			case domain.StatusLoading:
				fmt.Fprintln(out, "Loading...")
			case domain.StatusSuccess:
				printMovie(cmd, res.Data)
			case domain.StatusError:
				fmt.Fprintf(out, "Error: %s\n", res.Message)
			}
		}

		if last.Status == domain.StatusError {
			return fmt.Errorf("movie %s not available", args[0])
		}
		return nil
	},
}

func printMovie(cmd *cobra.Command, m *domain.Movie) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s (%s) [%s]\n", m.Title, m.Year, m.ID)
	fmt.Fprintf(out, "  Released: %s\n", m.Released)
	fmt.Fprintf(out, "  Runtime:  %s\n", m.Runtime)
	fmt.Fprintf(out, "  Genre:    %s\n", m.Genre)
	fmt.Fprintf(out, "  Director: %s\n", m.Director)
	fmt.Fprintf(out, "  Actors:   %s\n", m.Actors)
	fmt.Fprintf(out, "  Rating:   %s\n", m.Rating)
	fmt.Fprintf(out, "  Poster:   %s\n", m.Poster)
	fmt.Fprintf(out, "  Plot:     %s\n", m.Plot)
}

func init() {
	rootCmd.AddCommand(getCmd)
}
