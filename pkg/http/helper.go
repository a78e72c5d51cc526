package http

import (
	"net/http"
	"stayledger/pkg/config"
	apperrors "stayledger/pkg/errors"
	"stayledger/pkg/model"
	"strconv"
	"time"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDateParam reads a required YYYY-MM-DD query parameter.
func ExtractDateParam(r *http.Request, name string) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, apperrors.InvalidInput("'" + name + "' query parameter is required")
	}

	t, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " parameter, must be YYYY-MM-DD")
	}
	return t, nil
}

// ExtractBookingFilter reads the optional status/sort listing parameters,
// falling back to "all" and check-in ascending.
func ExtractBookingFilter(r *http.Request) (model.BookingFilter, error) {
	query := r.URL.Query()

	filter := model.BookingFilter{
		Status: model.FilterStatusAll,
		Sort:   model.SortCheckInAsc,
	}

	if s := query.Get("status"); s != "" {
		switch s {
		case model.FilterStatusAll, model.FilterStatusUpcoming, model.FilterStatusPast, model.FilterStatusCancelled:
			filter.Status = s
		default:
			return filter, apperrors.InvalidInput("invalid status parameter: " + s)
		}
	}

	if s := query.Get("sort"); s != "" {
		switch s {
		case model.SortCheckInAsc, model.SortCheckInDesc:
			filter.Sort = s
		default:
			return filter, apperrors.InvalidInput("invalid sort parameter: " + s)
		}
	}

	return filter, nil
}
