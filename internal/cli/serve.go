package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktree/internal/inspect"
)

// shutdownTimeout bounds the graceful shutdown of the serve command.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, which exposes a session over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		foldStr string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a document session over HTTP for inspection",
		Long: `Serve a document session over HTTP for inspection.

The document is laid out once and kept in memory. GET /layout, /text, /dot
and /scene.svg render the current state; POST /blocks/{handle}/fold,
/select, /caret and /keys/{key} mutate it.

Example:
  blocktree serve main.c &
  curl -X POST localhost:7878/blocks/1.0/fold
  curl localhost:7878/text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fold, err := parseLines(foldStr)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			return c.runServe(cmd.Context(), ln, args[0], fold)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&foldStr, "fold", "", "fold the blocks starting on these lines (comma-separated)")

	return cmd
}

// runServe serves the session of input on ln until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, ln net.Listener, input string, fold []int) error {
	opts, err := c.pipelineOptions(input, fold)
	if err != nil {
		ln.Close()
		return err
	}
	s, err := c.newSessionRunner().Session(ctx, opts)
	if err != nil {
		ln.Close()
		return fmt.Errorf("load %s: %w", input, err)
	}

	srv := &http.Server{
		Handler:           inspect.New(s, loggerFromContext(ctx)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	printSuccess("Serving %s", input)
	printKeyValue("Address", "http://"+ln.Addr().String())
	printKeyValue("Session", s.ID().String())
	printNewline()
	printNextStep("Inspect", "curl http://"+ln.Addr().String()+"/text")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
