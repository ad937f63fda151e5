package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowcanvas/pkg/httpapi"
	"github.com/matzehuels/flowcanvas/pkg/observability"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts flowOpts
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve node assembly and validation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := loadStyle(opts.stylePath)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := observability.NewPrometheus(reg)
			observability.SetAssemblyHooks(metrics)
			observability.SetPipelineHooks(metrics)
			observability.SetHTTPHooks(metrics)
			defer observability.Reset()

			handler := httpapi.NewHandler(httpapi.Config{
				Style:         style,
				AbsolutePorts: opts.absolute,
				Metrics:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				Logger:        c.subsystem("http"),
			})

			base := "http://" + displayAddr(addr)
			printKeyValue("API", StyleLink.Render(base+"/v1"))
			printKeyValue("Metrics", StyleLink.Render(base+"/metrics"))
			printKeyValue("Style", fmt.Sprintf("%gpx wide, %gpx rows", style.Width, style.RowHeight))
			return c.serve(cmd.Context(), addr, handler)
		},
	}

	cmd.Flags().StringVar(&opts.stylePath, "style", "", "style file (TOML)")
	cmd.Flags().BoolVar(&opts.absolute, "absolute", false, "emit output ports as absolute {x, y} positions")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// displayAddr turns a listen address into a host:port a browser can open.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func (c *CLI) serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
