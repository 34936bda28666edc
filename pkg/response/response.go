package response

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	customError "github.com/crediario/credit-ledger/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	Success    bool                    `json:"success"`
	Code       string                  `json:"code,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Message    string                  `json:"message,omitempty"`
	Violations []customError.Violation `json:"violations,omitempty"`
	Timestamp  time.Time               `json:"timestamp"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// Success sends a successful JSON response
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a created JSON response
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, statusCode int, message string, err error) {
	response := ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now(),
	}

	if err != nil {
		response.Error = err.Error()
	}

	writeError(w, statusCode, response)
}

// BusinessError maps a business error to an HTTP status and renders it with
// its code and any field violations.
func BusinessError(w http.ResponseWriter, bizErr *customError.BusinessError) {
	response := ErrorResponse{
		Success:    false,
		Code:       bizErr.Code,
		Message:    bizErr.Message,
		Violations: bizErr.Violations,
		Timestamp:  time.Now(),
	}

	writeError(w, statusForCode(bizErr.Code), response)
}

func writeError(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func statusForCode(code string) int {
	switch code {
	case customError.ErrCodeSaleNotFound, customError.ErrCodeInstallmentNotFound:
		return http.StatusNotFound
	case customError.ErrCodeInstallmentAlreadyPaid,
		customError.ErrCodeConcurrentPaymentConflict,
		customError.ErrCodeSaleAlreadyVoided:
		return http.StatusConflict
	case customError.ErrCodeInvalidPlanInput,
		customError.ErrCodePlanValidationFailed,
		customError.ErrCodeInvalidPaymentAmount,
		customError.ErrCodeUnknownPaymentMethod:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest sends a 400 bad request response
func BadRequest(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusBadRequest, message, err)
}

// NotFound sends a 404 not found response
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message, nil)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusInternalServerError, message, err)
}

// ValidationError sends a 400 response carrying field violations from
// request DTO validation.
func ValidationError(w http.ResponseWriter, violations []customError.Violation) {
	response := ErrorResponse{
		Success:    false,
		Message:    "request validation failed",
		Violations: violations,
		Timestamp:  time.Now(),
	}

	writeError(w, http.StatusBadRequest, response)
}

// LoggingMiddleware logs HTTP requests with method, path, status and latency.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.statusCode),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}
