package validation

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"

	"vitals-server/entities"
	"vitals-server/repositories"

	"github.com/go-playground/validator/v10"
)

var bloodPressurePattern = regexp.MustCompile(`^\d{2,3}/\d{2,3}$`)

// ReadingPayload is the inbound body of an add or update.
type ReadingPayload struct {
	UserID          string   `json:"userId"`
	HeartRate       *int     `json:"heartRate" validate:"required,min=20,max=220"`
	BloodPressure   string   `json:"bloodPressure" validate:"required,bloodpressure"`
	StressLevel     string   `json:"stressLevel" validate:"required,oneof=Low Moderate High"`
	SleepHours      *float64 `json:"sleepHours" validate:"required,min=0,max=24"`
	ExerciseMinutes *int     `json:"exerciseMinutes" validate:"required,min=0,max=1440"`
}

// readingFields lists the validated fields in report order.
var readingFields = []string{"heartRate", "bloodPressure", "stressLevel", "sleepHours", "exerciseMinutes"}

var readingMessages = map[string]string{
	"heartRate":       "heartRate must be an integer between 20 and 220",
	"bloodPressure":   `bloodPressure must be in format "120/80"`,
	"stressLevel":     "stressLevel must be Low, Moderate, or High",
	"sleepHours":      "sleepHours must be between 0 and 24",
	"exerciseMinutes": "exerciseMinutes must be between 0 and 1440",
}

// DecodeReading reads a reading body and applies the field rules.
// A non-nil error means the body is not JSON at all; field failures are
// returned as Errors alongside the partially decoded payload.
func DecodeReading(body io.Reader) (*ReadingPayload, Errors, error) {
	var payload ReadingPayload
	failed := map[string]bool{}

	err := json.NewDecoder(body).Decode(&payload)
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil, errors.Is(err, io.EOF):
	case errors.As(err, &typeErr):
		// the decoder keeps filling the other fields after a type mismatch
		failed[typeErr.Field] = true
	default:
		return nil, nil, err
	}

	return &payload, ValidateReading(&payload, failed), nil
}

// ValidateReading runs the reading rules. Fields already known to be bad
// (from decoding) are reported once, in field order.
func ValidateReading(payload *ReadingPayload, failed map[string]bool) Errors {
	if failed == nil {
		failed = map[string]bool{}
	}
	if err := validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				failed[fe.Field()] = true
			}
		}
	}

	var out Errors
	for _, field := range readingFields {
		if failed[field] {
			out = append(out, FieldError{Field: field, Location: LocationBody, Message: readingMessages[field]})
		}
	}
	return out
}

// Fields converts a validated payload into repository columns.
func (p *ReadingPayload) Fields() repositories.ReadingFields {
	return repositories.ReadingFields{
		HeartRate:       deref(p.HeartRate),
		BloodPressure:   p.BloodPressure,
		StressLevel:     p.StressLevel,
		SleepHours:      derefFloat(p.SleepHours),
		ExerciseMinutes: deref(p.ExerciseMinutes),
	}
}

// Reading builds a new reading owned by the payload's userId.
func (p *ReadingPayload) Reading() *entities.Reading {
	f := p.Fields()
	return &entities.Reading{
		UserID:          p.UserID,
		HeartRate:       f.HeartRate,
		BloodPressure:   f.BloodPressure,
		StressLevel:     f.StressLevel,
		SleepHours:      f.SleepHours,
		ExerciseMinutes: f.ExerciseMinutes,
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
