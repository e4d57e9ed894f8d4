package validator

import (
	"errors"
	"fmt"
	"strings"

	"roomly/pkg/logger"
	"roomly/pkg/model"

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
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("wallclock", validateWallClock); err != nil {
		log.Fatal("Failed to register 'wallclock' validator", "error", err)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateWallClock(fl validator.FieldLevel) bool {
	_, err := model.ParseWallClock(fl.Field().String())
	return err == nil
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	// Strictly after: zero-length and inverted intervals never reach the
	// overlap predicate.
	if !booking.EndTime.After(booking.StartTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	// Moving a booking requires the full new interval; a lone start, end or
	// room is rejected rather than guessed at.
	if update.ChangesTime() {
		if update.StartTime == nil || update.EndTime == nil {
			return ValidationErrors{
				ValidationError{
					Field:   "StartTime",
					Message: "start_time and end_time must be supplied together when changing time or room",
				},
			}
		}
		if !update.EndTime.After(*update.StartTime) {
			return ValidationErrors{
				ValidationError{
					Field:   "EndTime",
					Message: "end_time must be after start_time",
				},
			}
		}
	}

	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "wallclock":
			message = fmt.Sprintf("%s must be a wall-clock timestamp in the form %s", err.Field(), model.WallClockLayout)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
