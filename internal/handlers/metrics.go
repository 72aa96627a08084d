package handlers

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"media-catalog/internal/logging"
)

// gatherLogger routes promhttp gathering errors into the service log.
type gatherLogger struct{}

func (gatherLogger) Println(v ...interface{}) {
	logging.Error("Metrics gathering: %s", fmt.Sprint(v...))
}

// MetricsHandler serves the default registry. A collector that fails to
// gather is logged and skipped instead of failing the whole scrape.
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			ErrorLog:          gatherLogger{},
			ErrorHandling:     promhttp.ContinueOnError,
			EnableOpenMetrics: true,
		}),
	)
}
