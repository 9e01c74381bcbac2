package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"emailcomposer/app/usecase"
	"emailcomposer/internal/domain/entity"
)

const (
	livenessText       = "AI Email Sender Backend is running."
	testSentText       = "Test email sent to "
	testFailedText     = "Failed to send test email"
	msgInvalidBody     = "Invalid request body"
	msgPromptRequired  = "Prompt is required"
	msgMissingFields   = "Missing required fields"
	msgGenerateFailed  = "Failed to generate email"
	msgSendFailed      = "Failed to send email"
	msgSendSucceeded   = "Email sent successfully"
	maxRequestBodySize = 1 << 20
)

type EmailHandler struct {
	emailService usecase.EmailUsecase
	logger       *slog.Logger

	reqDuration *prometheus.HistogramVec
	reqCount    *prometheus.CounterVec
	errCount    *prometheus.CounterVec
}

// NewEmailHandler registers the HTTP metrics on reg, so each handler needs
// its own registry (prometheus.DefaultRegisterer in the server).
func NewEmailHandler(
	emailService usecase.EmailUsecase,
	logger *slog.Logger,
	reg prometheus.Registerer,
) *EmailHandler {

	reqDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	reqCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path"},
	)

	errCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP request errors.",
		},
		[]string{"method", "path", "status"},
	)

	reg.MustRegister(reqDuration, reqCount, errCount)

	return &EmailHandler{
		emailService: emailService,
		logger:       logger,
		reqDuration:  reqDuration,
		reqCount:     reqCount,
		errCount:     errCount,
	}
}

func (h *EmailHandler) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		method := r.Method

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		duration := time.Since(start).Seconds()
		statusStr := strconv.Itoa(rw.status)

		h.reqCount.WithLabelValues(method, path).Inc()
		h.reqDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		if rw.status >= 400 {
			h.errCount.WithLabelValues(method, path, statusStr).Inc()
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *EmailHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.withMetrics(h.handleLiveness)).Methods(http.MethodGet)
	r.HandleFunc("/test-send", h.withMetrics(h.handleTestSend)).Methods(http.MethodGet)
	r.HandleFunc("/generate-email", h.withMetrics(h.handleGenerate)).Methods(http.MethodPost)
	r.HandleFunc("/send-email", h.withMetrics(h.handleSend)).Methods(http.MethodPost)

	// Prometheus
	r.Handle("/metrics", promhttp.Handler())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, entity.ErrorResponse{Error: msg})
}

func writeText(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(text))
}

// decodeJSON treats an empty body as an empty object so that missing fields
// are reported by validation rather than as a malformed request.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// GET /
func (h *EmailHandler) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, livenessText)
}

// GET /test-send
func (h *EmailHandler) handleTestSend(w http.ResponseWriter, r *http.Request) {
	to, err := h.emailService.SendTest(r.Context())
	if err != nil {
		h.logger.Error("send test email failed", "err", err)
		writeText(w, http.StatusInternalServerError, testFailedText)
		return
	}
	writeText(w, http.StatusOK, testSentText+to)
}

// POST /generate-email
func (h *EmailHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req entity.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("bad generate request body", "err", err)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	content, err := h.emailService.Generate(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, usecase.ErrPromptRequired) {
			writeError(w, http.StatusBadRequest, msgPromptRequired)
			return
		}
		h.logger.Error("generate email failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgGenerateFailed)
		return
	}

	writeJSON(w, http.StatusOK, entity.GenerateResponse{EmailContent: content})
}

// POST /send-email
func (h *EmailHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req entity.SendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("bad send request body", "err", err)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.emailService.Send(r.Context(), req); err != nil {
		if errors.Is(err, usecase.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		h.logger.Error("send email failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgSendFailed)
		return
	}

	writeJSON(w, http.StatusOK, entity.SendResponse{Message: msgSendSucceeded})
}
