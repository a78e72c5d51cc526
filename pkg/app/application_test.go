package app

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stayledger/pkg/logger"
	"stayledger/pkg/middleware"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func TestIsGatewayCallbackPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/v1/payments/webhook", true},
		{"/api/v1/bookings/ref/HB-654321-WXYZ/confirm", true},
		{"/api/v1/bookings", false},
		{"/api/v1/bookings/ref/HB-654321-WXYZ", false},
		{"/api/v1/bookings/ref/HB-654321-WXYZ/cancel", false},
		{"/api/v1/payments", false},
	}

	for _, tt := range tests {
		if got := isGatewayCallbackPath(tt.path); got != tt.want {
			t.Errorf("isGatewayCallbackPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestConfirmRouteRequiresSignature(t *testing.T) {
	const secret = "webhook-secret"
	body := `{"transaction_id":"tx-1","amount":300,"succeeded":true}`

	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.WebhookSignatureVerification(secret, isGatewayCallbackPath, testLogger())(next)

	confirmPath := "/api/v1/bookings/ref/HB-654321-WXYZ/confirm"

	// Unsigned confirm is rejected before it can flip the booking.
	req := httptest.NewRequest(http.MethodPost, confirmPath, strings.NewReader(body))
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unsigned confirm, got %d", w.Code)
	}
	if handlerCalled {
		t.Error("expected unsigned confirm never to reach the handler")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	signature := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	req = httptest.NewRequest(http.MethodPost, confirmPath, strings.NewReader(body))
	req.Header.Set("X-Webhook-Signature", signature)
	w = httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for signed confirm, got %d", w.Code)
	}

	// Customer-facing booking routes stay open.
	handlerCalled = false
	req = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w = httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !handlerCalled {
		t.Errorf("expected unsigned booking create to pass through, got %d (called=%v)", w.Code, handlerCalled)
	}
}
