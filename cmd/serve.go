package cmd

import (
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jsphweid/keyquest/constants"
	"github.com/jsphweid/keyquest/server"
	"github.com/jsphweid/keyquest/store"
)

var (
	servePort    string
	serveBackend string
)

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", constants.GetPort(), "address to listen on")
	serveCmd.Flags().StringVar(&serveBackend, "store", constants.GetStoreBackend(), "progression store: memory or dynamodb")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the HTTP API",
	Long:  `Serves chord identification, progression parsing, exercises and saved progressions over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger("serve")
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		ctx = log.WithContext(ctx, logger)

		st, err := store.Open(serveBackend)
		if err != nil {
			return err
		}
		logger.Info("store ready", "backend", serveBackend)
		return server.New(st, logger).ListenAndServe(ctx, servePort)
	},
}
