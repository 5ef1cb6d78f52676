package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Mohsinsiddi/nftmint/internal/provider"
	"github.com/Mohsinsiddi/nftmint/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var consoleMetricsAddr string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive page: connect, read and mint",
	Long: `Open a full-screen page. While no account is connected it offers only
"connect"; afterwards every read and write method of the contract can be
invoked from the list. Wallet approval requests appear inline.

With --metrics-addr the session counters are served in Prometheus format
at http://<addr>/metrics while the console runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if consoleMetricsAddr != "" {
			stop := serveMetrics(consoleMetricsAddr)
			defer stop()
		}

		var (
			approver  provider.Approver = provider.AutoApprove(true)
			approvals *ui.ChannelApprover
		)
		if !assumeYes {
			approvals = ui.NewChannelApprover()
			approver = approvals
		}

		mgr := newSession(ctx, approver)
		return ui.RunConsole(ctx, ui.NewConsole(ctx, mgr, approvals))
	},
}

// serveMetrics exposes the metrics registry until the returned func is
// called.
func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", met.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", fmt.Sprintf("http://%s/metrics", addr)))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func init() {
	consoleCmd.Flags().StringVar(&consoleMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")
}
