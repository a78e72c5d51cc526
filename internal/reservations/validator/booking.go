package validator

import (
	"errors"
	"fmt"
	reserrors "stayledger/internal/reservations/errors"
	"stayledger/pkg/logger"
	"stayledger/pkg/model"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate      *validator.Validate
	logger        *logger.Logger
	maxStayNights int
}

func NewBookingValidator(log *logger.Logger, maxStayNights int) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate:      v,
		logger:        log,
		maxStayNights: maxStayNights,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.ValidateDateRange(booking.CheckIn, booking.CheckOut)
}

// ValidateDateRange enforces the half-open [checkIn, checkOut) constraints:
// strictly increasing, not in the past, and within the maximum stay length.
func (v *BookingValidator) ValidateDateRange(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return fmt.Errorf("%w: check-in %s, check-out %s", reserrors.ErrInvalidDateRange,
			checkIn.Format(model.DateLayout), checkOut.Format(model.DateLayout))
	}

	if checkIn.Before(model.Today()) {
		return fmt.Errorf("%w: check-in %s is in the past", reserrors.ErrInvalidDateRange,
			checkIn.Format(model.DateLayout))
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights > v.maxStayNights {
		return fmt.Errorf("%w: stay of %d nights exceeds maximum of %d", reserrors.ErrInvalidDateRange,
			nights, v.maxStayNights)
	}

	return nil
}

func (v *BookingValidator) ValidateFilter(filter *model.BookingFilter) error {
	if err := v.validate.Struct(filter); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) ValidateActor(actor *model.Actor) error {
	if err := v.validate.Struct(actor); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
