package validator

import (
	"errors"
	"fmt"
	"regexp"
	"skyfare/pkg/logger"
	"skyfare/pkg/model"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	flightCodeRegex = regexp.MustCompile(`^[A-Z]{2}[0-9]{3}$`)
	pnrRegex        = regexp.MustCompile(`^[A-Z][A-Z0-9]{5}$`)
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

type InventoryValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewInventoryValidator(log *logger.Logger) *InventoryValidator {
	v := validator.New()

	if err := v.RegisterValidation("flight_code", validateFlightCode); err != nil {
		log.Fatal("Failed to register 'flight_code' validator",
			"error", err,
		)
	}

	if err := v.RegisterValidation("pnr", validatePNR); err != nil {
		log.Fatal("Failed to register 'pnr' validator",
			"error", err,
		)
	}

	log.Info("Inventory validator initialized successfully")

	return &InventoryValidator{
		validate: v,
		logger:   log,
	}
}

func validateFlightCode(fl validator.FieldLevel) bool {
	return IsFlightCode(fl.Field().String())
}

func validatePNR(fl validator.FieldLevel) bool {
	return IsPNR(fl.Field().String())
}

// IsPNR reports whether s is a well-formed record locator.
func IsPNR(s string) bool {
	return pnrRegex.MatchString(s)
}

// IsFlightCode reports whether s is a well-formed flight code such as "SK001".
func IsFlightCode(s string) bool {
	return flightCodeRegex.MatchString(s)
}

func (v *InventoryValidator) ValidateReserve(req *model.ReserveRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *InventoryValidator) ValidateBooking(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	seen := make(map[string]struct{}, len(req.Reservations))
	for _, ref := range req.Reservations {
		if _, dup := seen[ref.ID]; dup {
			return ValidationErrors{
				ValidationError{
					Field:   "Reservations",
					Message: fmt.Sprintf("reservation %s is referenced more than once", ref.ID),
				},
			}
		}
		seen[ref.ID] = struct{}{}
	}

	return nil
}

func (v *InventoryValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "numeric":
			message = fmt.Sprintf("%s must contain only digits", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "flight_code":
			message = fmt.Sprintf("%s must be a carrier code followed by three digits (e.g., SK001)", err.Field())
		case "pnr":
			message = fmt.Sprintf("%s must be six characters starting with a letter (e.g., A1B2C3)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
