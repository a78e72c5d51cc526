package repository

import (
	"testing"

	"stayledger/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestApplyStatusFilter(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantKeys []string
	}{
		{"all adds no clauses", model.FilterStatusAll, nil},
		{"upcoming restricts to active future stays", model.FilterStatusUpcoming, []string{"status", "check_out"}},
		{"past matches completed or checked-out", model.FilterStatusPast, []string{"$or"}},
		{"cancelled matches the terminal status", model.FilterStatusCancelled, []string{"status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := bson.M{"customer_id": "cust-1"}
			applyStatusFilter(filter, model.BookingFilter{Status: tt.status})

			if len(filter) != 1+len(tt.wantKeys) {
				t.Fatalf("expected %d clauses beyond customer_id, got filter %v", len(tt.wantKeys), filter)
			}
			for _, key := range tt.wantKeys {
				if _, ok := filter[key]; !ok {
					t.Errorf("expected clause %q in filter %v", key, filter)
				}
			}
		})
	}
}

func TestApplyStatusFilter_CancelledValue(t *testing.T) {
	filter := bson.M{}
	applyStatusFilter(filter, model.BookingFilter{Status: model.FilterStatusCancelled})

	if filter["status"] != model.StatusCancelled {
		t.Errorf("expected cancelled status clause, got %v", filter["status"])
	}
}

func TestSortDirection(t *testing.T) {
	if got := sortDirection(model.BookingFilter{Sort: model.SortCheckInAsc}); got != 1 {
		t.Errorf("expected ascending sort 1, got %d", got)
	}
	if got := sortDirection(model.BookingFilter{Sort: model.SortCheckInDesc}); got != -1 {
		t.Errorf("expected descending sort -1, got %d", got)
	}
	if got := sortDirection(model.BookingFilter{}); got != 1 {
		t.Errorf("expected default ascending sort, got %d", got)
	}
}
