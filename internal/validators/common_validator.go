package validators

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation functions
	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("booking_type", validateBookingType)
	validate.RegisterValidation("booking_mode", validateBookingMode)
	validate.RegisterValidation("urgency_level", validateUrgencyLevel)
	validate.RegisterValidation("vehicle_type", validateVehicleType)
	validate.RegisterValidation("recurrence_frequency", validateRecurrenceFrequency)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Details flattens the errors into a field -> message map for the API
// response envelope.
func (v ValidationErrors) Details() map[string]string {
	details := make(map[string]string, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(err.Field()),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: messageForTag(err),
			})
		}
	}

	return validationErrors
}

func messageForTag(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "booking_type":
		return "bookingType must be one of: Agri, Cargo"
	case "booking_mode":
		return "bookingMode must be one of: instant, booking"
	case "urgency_level":
		return "urgencyLevel must be one of: Low, Medium, High"
	case "vehicle_type":
		return "unknown vehicle type"
	case "recurrence_frequency":
		return "frequency must be one of: daily, weekly, monthly"
	case "object_id":
		return fmt.Sprintf("%s must be a valid object id", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s failed validation on %s", err.Field(), err.Tag())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

func validateBookingType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "Agri" || value == "Cargo"
}

func validateBookingMode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "instant" || value == "booking"
}

func validateUrgencyLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || value == "Low" || value == "Medium" || value == "High"
}

func validateVehicleType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "truck", "pickup", "trailer", "container":
		return true
	}
	return false
}

func validateRecurrenceFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "daily", "weekly", "monthly":
		return true
	}
	return false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
