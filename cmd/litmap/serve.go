package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/litmap/internal/locations"
	"github.com/ShayCichocki/litmap/internal/mcpserver"
	"github.com/ShayCichocki/litmap/internal/server"
	"github.com/ShayCichocki/litmap/internal/version"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the orchestrator, the specialist tools and location extraction
over HTTP. The listen address defaults to server.addr from config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			Conductor: a.conductor,
			Archivist: a.archivist,
			Linguist:  a.linguist,
			Stylist:   a.stylist,
			Librarian: a.librarian,
			Locations: a.locations,
			Source:    locations.PlainText{},
			Logger:    logger,
			Version:   version.Get(),
		})
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		ctx, stop := signalContext()
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the specialists as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		s, err := mcpserver.New(mcpserver.Config{
			Conductor: a.conductor,
			Catalog:   a.catalog,
			Archivist: a.archivist,
			Linguist:  a.linguist,
			Stylist:   a.stylist,
			Librarian: a.librarian,
			Locations: a.locations,
			Version:   version.Get(),
			Logger:    logger,
		})
		if err != nil {
			return err
		}
		return s.ServeStdio()
	},
}

// signalContext is canceled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}
