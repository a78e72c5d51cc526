package middleware

import (
	"net/http"
	"stayledger/pkg/logger"
	"sync"
	"time"
)

type CustomerExtractor func(r *http.Request) string

// CustomerRateLimiter limits booking requests per customer over a sliding
// window.
type CustomerRateLimiter struct {
	mu        sync.RWMutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor CustomerExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewCustomerRateLimiter(limit int, window time.Duration, extractor CustomerExtractor, log *logger.Logger) *CustomerRateLimiter {
	limiter := &CustomerRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *CustomerRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for customer, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, customer)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *CustomerRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *CustomerRateLimiter) Allow(customerID string) bool {
	if customerID == "" {
		return true
	}

	now := time.Now()

	rl.mu.RLock()
	timestamps := rl.requests[customerID]
	rl.mu.RUnlock()

	validTimestamps := make([]time.Time, 0)
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	if len(validTimestamps) >= rl.limit {
		return false
	}

	validTimestamps = append(validTimestamps, now)

	rl.mu.Lock()
	rl.requests[customerID] = validTimestamps
	rl.mu.Unlock()

	return true
}

func CustomerRateLimit(limiter *CustomerRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			customerID := extractCustomerID(r, limiter.extractor)

			if customerID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(customerID) {
				rejectRateLimited(w, limiter.log, r, customerID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractCustomerID(r *http.Request, extractor CustomerExtractor) string {
	if extractor == nil {
		return r.Header.Get("X-Customer-ID")
	}
	return extractor(r)
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, customerID string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		requestID = rid.(string)
	}

	log.Warn("Rate limit exceeded",
		"request_id", requestID,
		"customer_id", customerID,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}

func DefaultCustomerExtractor(r *http.Request) string {
	return r.Header.Get("X-Customer-ID")
}
