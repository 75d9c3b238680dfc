package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local movie cache",
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the cache to a YAML or JSON snapshot",
	Long:  `Export writes every cached movie to a file. Files ending in .yaml or .yml are written as YAML, others as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		n, err := application.Export(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d movies to %s\n", n, args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a YAML or JSON snapshot into the cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		n, err := application.Import(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d movies from %s\n", n, args[0])
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh every cached movie from the remote catalog",
	Long: `Refresh fetches the current details of every cached movie and updates the
cache. A summary is sent to Discord when discord_webhook_url is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		stats, err := application.Refresh(cmd.Context())
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d of %d movies (%d from cache only, %d failed)\n",
			stats.Refreshed, stats.TotalCached, stats.CacheOnly, stats.Failed)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of cached movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		n, err := application.CacheSize(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d movies cached\n", n)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <imdb-id>",
	Short: "Remove a movie from the cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Forget(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the cache\n", args[0])
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(exportCmd, importCmd, refreshCmd, statsCmd, deleteCmd)
	rootCmd.AddCommand(cacheCmd)
}
