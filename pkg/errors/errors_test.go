package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := Internal("Failed to reach database", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if appErr.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", appErr.StatusCode())
	}
}

func TestConflictWithRef(t *testing.T) {
	appErr := ConflictWithRef("room no longer available for these dates", "HB-123456-ABCD")

	if appErr.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, appErr.Code)
	}
	if appErr.StatusCode() != http.StatusConflict {
		t.Errorf("expected status 409, got %d", appErr.StatusCode())
	}
	if ref, ok := appErr.Details["existing_booking_ref"]; !ok || ref != "HB-123456-ABCD" {
		t.Errorf("expected existing_booking_ref detail, got %v", appErr.Details)
	}
}

func TestConcurrentModificationStatus(t *testing.T) {
	appErr := ConcurrentModification("booking was modified concurrently, retry")

	if appErr.StatusCode() != http.StatusConflict {
		t.Errorf("expected status 409, got %d", appErr.StatusCode())
	}
	if appErr.Code != CodeConcurrentModification {
		t.Errorf("unexpected code %s", appErr.Code)
	}
}

func TestLifecycleErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"already cancelled", AlreadyCancelled("HB-123456-ABCD"), CodeAlreadyCancelled, http.StatusConflict},
		{"already completed", AlreadyCompleted("HB-123456-ABCD"), CodeAlreadyCompleted, http.StatusConflict},
		{"capacity exceeded", CapacityExceeded("too many guests", nil), CodeCapacityExceeded, http.StatusUnprocessableEntity},
		{"invalid date range", InvalidDateRange("check-out before check-in", nil), CodeInvalidDateRange, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestInvalidDateRangeKeepsCause(t *testing.T) {
	cause := errors.New("check-out date must be after check-in date")
	appErr := InvalidDateRange("check-out 2026-09-10 is before check-in 2026-09-13", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected the sentinel cause to be reachable via errors.Is")
	}
}

func TestToJSONOmitsInternalFields(t *testing.T) {
	appErr := AmountMismatch("paid amount does not equal total price", map[string]any{
		"expected": 300.0,
		"paid":     250.0,
	})

	var decoded map[string]any
	if err := json.Unmarshal(appErr.ToJSON(), &decoded); err != nil {
		t.Fatalf("unexpected error decoding JSON: %v", err)
	}

	if decoded["code"] != CodeAmountMismatch {
		t.Errorf("expected code %s, got %v", CodeAmountMismatch, decoded["code"])
	}
	if _, leaked := decoded["HTTPStatus"]; leaked {
		t.Error("HTTP status must not be serialized")
	}
}

func TestAsAppErrorPassthrough(t *testing.T) {
	original := NotFoundWithID("Booking", "abc")
	if got := AsAppError(original); got != original {
		t.Error("expected the same AppError instance back")
	}

	wrapped := AsAppError(errors.New("boom"))
	if wrapped.Code != CodeInternal {
		t.Errorf("expected internal code for plain errors, got %s", wrapped.Code)
	}
}
