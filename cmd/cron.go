package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"storefront.GO/cron"
)

var (
	jobName     string
	metricsAddr string
)

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		out := cmd.OutOrStdout()

		if jobName != "" {
			name := strings.ToLower(jobName)
			jobs := cron.Jobs()
			j, ok := jobs[name]
			if !ok {
				names := make([]string, 0, len(jobs))
				for n := range jobs {
					names = append(names, n)
				}
				sort.Strings(names)
				return fmt.Errorf("unknown job %q (known: %s)", jobName, strings.Join(names, ", "))
			}
			fmt.Fprintf(out, "Running cron job: %s\n", name)
			return j.Run(ctx, args...)
		}

		if metricsAddr != "" {
			stopMetrics := serveMetrics(metricsAddr)
			defer stopMetrics()
			fmt.Fprintf(out, "Fetch metrics at http://%s/metrics\n", metricsAddr)
		}

		fmt.Fprintln(out, "Starting cron scheduler...")
		c, err := cron.StartCron(ctx, slog.Default())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Cron scheduler started. Press Ctrl+C to exit.")
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	},
}

// serveMetrics exposes MetricsRegistry on addr until the returned func is called.
func serveMetrics(addr string) func() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(MetricsRegistry(), promhttp.HandlerOpts{})))
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(ctx)
	}
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	cronStartCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve catalog fetch metrics on this address (e.g. :9091)")
	rootCmd.AddCommand(cronStartCmd)
}
