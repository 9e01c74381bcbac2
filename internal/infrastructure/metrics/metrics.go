package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LLM
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emailcomposer_llm_requests_total",
			Help: "Number of completion requests by model",
		},
		[]string{"model"},
	)
	LLMDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emailcomposer_llm_request_duration_seconds",
			Help:    "Duration of completion requests",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s..32s
		},
		[]string{"model"},
	)

	// Mail relay
	MailSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emailcomposer_mail_sends_total",
			Help: "Messages submitted to the mail relay by result",
		},
		[]string{"result"}, // result: sent|failed|late
	)
	MailRecipients = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emailcomposer_mail_recipients_total",
			Help: "Total number of recipient addresses submitted",
		},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emailcomposer_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		// LLM
		LLMRequests,
		LLMDurationSeconds,
		// Mail
		MailSends,
		MailRecipients,
		// Errors
		Errors,
	)
}

// NewServer returns the standalone metrics listener. The caller owns
// ListenAndServe and Shutdown.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// LLM
func IncLLMRequest(model string) {
	LLMRequests.WithLabelValues(model).Inc()
}

func ObserveLLMDuration(model string, d time.Duration) {
	LLMDurationSeconds.WithLabelValues(model).Observe(d.Seconds())
}

// Mail
func IncMailSend(result string) {
	MailSends.WithLabelValues(result).Inc()
}

func AddMailRecipients(n int) {
	MailRecipients.Add(float64(n))
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
