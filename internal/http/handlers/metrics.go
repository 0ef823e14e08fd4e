package handlers

import (
	"bytes"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/valyala/fasthttp"
)

var (
	requestsTotal          *prometheus.CounterVec
	requestDurationBuckets *prometheus.HistogramVec
)

func InitPrometheusMetrics() {
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aethellocker",
			Name:      "requests_total",
			Help:      "Total number of handled HTTP requests.",
		},
		[]string{"path", "method", "status"},
	)
	requestDurationBuckets = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aethellocker",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request durations in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"path", "method"},
	)
	prometheus.MustRegister(requestsTotal, requestDurationBuckets)
}

// RequestLogger logs every request and feeds the prometheus vectors.
func RequestLogger(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		elapsed := time.Since(start)

		path := string(ctx.Path())
		method := string(ctx.Method())
		status := ctx.Response.StatusCode()

		if requestsTotal != nil {
			requestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
			requestDurationBuckets.WithLabelValues(path, method).Observe(elapsed.Seconds())
		}
		log.Printf("%s %s -> %d (%s) ip=%s", method, path, status, elapsed, ctx.RemoteAddr())
	}
}

// MetricsHandler exposes gathered metric families in prometheus text
// format. With ?scope=app only the service's own families are encoded;
// runtime and client families are filtered out.
func MetricsHandler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("failed to gather metrics")
			return
		}

		if string(ctx.QueryArgs().Peek("scope")) == "app" {
			filtered := make([]*dto.MetricFamily, 0, len(metricFamilies))
			for _, mf := range metricFamilies {
				if strings.HasPrefix(mf.GetName(), "aethellocker_") {
					filtered = append(filtered, mf)
				}
			}
			metricFamilies = filtered
		}

		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
		for _, mf := range metricFamilies {
			if err := encoder.Encode(mf); err != nil {
				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				ctx.SetBodyString("failed to encode metrics")
				return
			}
		}

		ctx.SetContentType(string(expfmt.FmtText))
		ctx.Response.Header.Set("Cache-Control", "no-store")
		ctx.SetBody(buf.Bytes())
	}
}
