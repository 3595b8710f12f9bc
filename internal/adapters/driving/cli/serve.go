package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pidash/internal/adapters/driving/mcp"
	"github.com/custodia-labs/pidash/internal/adapters/driving/web"
	"github.com/custodia-labs/pidash/internal/logger"
)

var (
	serveAddr    string
	serveNoWatch bool
	serveNoMCP   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboards and assistant over HTTP",
	Long: `Start the HTTP JSON API:

  GET  /api/projects        project dashboard
  GET  /api/invoices        invoice dashboard
  GET  /api/crm             unpaid invoices
  POST /api/ask             streamed answer (text/plain or text/event-stream)
  POST /api/ask/context     ranked context only
  GET  /api/history         recent answers
  POST /api/records/project append a project row
  POST /api/records/invoice append an invoice row
  /mcp                      MCP streamable HTTP transport

The workbook and knowledge document are watched and reloaded on change.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "127.0.0.1:8080", "listen address")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not watch data files for changes")
	serveCmd.Flags().BoolVar(&serveNoMCP, "no-mcp", false, "do not mount the MCP endpoint at /mcp")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if dashboardService == nil || assistantService == nil {
		return errors.New("services not configured")
	}

	ports := &web.Ports{
		Dashboard:    dashboardService,
		Assistant:    assistantService,
		Records:      recordService,
		QuickPrompts: quickPrompts,
	}
	if !serveNoMCP {
		tools, err := mcp.NewServer(&mcp.Ports{
			Assistant:    assistantService,
			Dashboard:    dashboardService,
			QuickPrompts: quickPrompts,
			Version:      version,
		})
		if err != nil {
			return err
		}
		ports.MCP = tools.Handler()
	}

	server, err := web.NewServer(ports)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	if watchFiles != nil && !serveNoWatch {
		g.Go(func() error {
			if err := watchFiles(ctx); err != nil {
				// Serving continues without reloads.
				logger.Warn("file watcher stopped: %v", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		return server.Run(ctx, serveAddr)
	})

	fmt.Fprintf(cmd.OutOrStdout(), "pidash listening on http://%s\n", serveAddr)
	return g.Wait()
}
