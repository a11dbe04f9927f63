package cmdutil

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type metricsConfig struct {
	listenAddr string
}

var metricsCfg = metricsConfig{
	listenAddr: "127.0.0.1:4545",
}

func RegisterMetricsFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&metricsCfg.listenAddr,
		"metrics-listen-addr",
		metricsCfg.listenAddr,
		"address to serve run metrics and the health check on",
	)
}

// MetricsServer serves the pipeline's prometheus counters plus a health
// check, so long-running sifts can be watched from outside.
func MetricsServer(logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprint(w, "OK"); err != nil {
			logger.Err(err).Msgf("error writing healthz response")
		}
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func RunMetricsServer(logger zerolog.Logger) {
	go func() {
		if err := http.ListenAndServe(metricsCfg.listenAddr, MetricsServer(logger)); err != nil {
			logger.Err(err).Msgf("error serving metrics on %s", metricsCfg.listenAddr)
		}
	}()
}
