package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	debugctx "github.com/crmarques/soldo/debugctx"
	"github.com/crmarques/soldo/faults"
	"github.com/crmarques/soldo/internal/cli/common"
	webhookdomain "github.com/crmarques/soldo/webhook"
)

const (
	defaultListenAddress   = ":8080"
	defaultWebhookPath     = "/webhooks/soldo"
	defaultShutdownTimeout = 10 * time.Second
)

type serveFlags struct {
	listen          string
	path            string
	maxBodyBytes    int64
	shutdownTimeout time.Duration
}

func newServeCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	flags := serveFlags{}

	command := &cobra.Command{
		Use:   "serve",
		Short: "Receive webhook deliveries over HTTP",
		Long: "Serve the webhook endpoint, /healthz and Prometheus /metrics. " +
			"Every verified event is written to stdout, one per line.",
		Example: "  soldo webhook serve --listen :9000 --path /hooks/soldo -o json",
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			verifier, err := resolveVerifier(command, deps, globalFlags)
			if err != nil {
				return err
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			router := newRouter(
				verifier,
				newEventPrinter(command.OutOrStdout(), globalFlags.Output),
				registry,
				debugctx.Logger(command.Context()),
				flags,
			)

			listener, err := net.Listen("tcp", flags.listen)
			if err != nil {
				return faults.NewTypedError(faults.TransportError, fmt.Sprintf("failed to listen on %s", flags.listen), err)
			}

			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			debugctx.Infof(ctx, "webhook endpoint listening on %s%s", listener.Addr(), flags.path)
			server := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
			return runServer(ctx, server, listener, flags.shutdownTimeout)
		},
	}

	command.Flags().StringVar(&flags.listen, "listen", defaultListenAddress, "listen address")
	command.Flags().StringVar(&flags.path, "path", defaultWebhookPath, "webhook endpoint path")
	command.Flags().Int64Var(&flags.maxBodyBytes, "max-body-bytes", 1<<20, "largest accepted delivery body")
	command.Flags().DurationVar(&flags.shutdownTimeout, "shutdown-timeout", defaultShutdownTimeout, "graceful shutdown timeout")
	return command
}

func newRouter(
	verifier webhookdomain.Verifier,
	consume webhookdomain.Consumer,
	registry *prometheus.Registry,
	logger logr.Logger,
	flags serveFlags,
) http.Handler {
	handler := webhookdomain.NewHandler(
		verifier,
		consume,
		webhookdomain.WithMetrics(webhookdomain.NewMetrics(registry)),
		webhookdomain.WithLogger(logger),
		webhookdomain.WithMaxBodyBytes(flags.maxBodyBytes),
	)
	return webhookdomain.NewRouter(flags.path, handler, registry)
}

// runServer serves until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, server *http.Server, listener net.Listener, shutdownTimeout time.Duration) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return faults.NewTypedError(faults.TransportError, "webhook server failed", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return faults.NewTypedError(faults.TransportError, "webhook server shutdown failed", err)
		}
		return nil
	})
	return group.Wait()
}

// newEventPrinter writes each consumed event to w. json output is one
// compact document per line.
func newEventPrinter(w io.Writer, format string) webhookdomain.Consumer {
	var mu sync.Mutex
	return func(_ context.Context, event *webhookdomain.Event) error {
		mu.Lock()
		defer mu.Unlock()

		if format == common.OutputJSON {
			encoded, err := json.Marshal(event)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(encoded))
			return err
		}
		return renderEventText(w, event)
	}
}
