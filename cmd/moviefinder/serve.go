package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search and detail API over HTTP",
	Long: `Serve exposes the engines over HTTP:
  GET /search?q=<keyword>&cursor=<next>&session=<id>  one page of results
  GET /movies/<id>                                    detail stream (NDJSON)
  GET /metrics                                        Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return application.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("listen-addr", "127.0.0.1:7474", "address the HTTP server listens on")
	viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("listen-addr"))
	rootCmd.AddCommand(serveCmd)
}
