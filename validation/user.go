package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"vitals-server/entities"
)

// userPatchFields are the profile keys a client may change, in report order.
// Anything else in the body (clerkId, _id, timestamps) is ignored.
var userPatchFields = []string{"name", "email", "age", "weight", "height", "gender", "goal"}

var userMessages = map[string]string{
	"name":   "name must be a string",
	"email":  "email must be a non-empty string",
	"age":    "age must be a number",
	"weight": "weight must be a number",
	"height": "height must be a number",
	"gender": "gender must be Male, Female, or Other",
	"goal":   "goal must be a string",
}

// DecodeUserPatch reads a partial profile update and returns the column
// updates it describes. JSON null clears optional fields.
func DecodeUserPatch(body io.Reader) (map[string]interface{}, Errors, error) {
	raw := map[string]json.RawMessage{}
	if err := json.NewDecoder(body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}

	updates := map[string]interface{}{}
	var errs Errors
	for _, field := range userPatchFields {
		value, ok := raw[field]
		if !ok {
			continue
		}
		v, valid := decodeUserField(field, value)
		if !valid {
			errs = append(errs, FieldError{Field: field, Location: LocationBody, Message: userMessages[field]})
			continue
		}
		updates[field] = v
	}
	return updates, errs, nil
}

func decodeUserField(field string, value json.RawMessage) (interface{}, bool) {
	isNull := bytes.Equal(bytes.TrimSpace(value), []byte("null"))

	switch field {
	case "name", "goal":
		if isNull {
			return "", true
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, false
		}
		return s, true
	case "email":
		var s string
		if isNull || json.Unmarshal(value, &s) != nil || strings.TrimSpace(s) == "" {
			return nil, false
		}
		return s, true
	case "age", "weight", "height":
		if isNull {
			return nil, true
		}
		var n float64
		if err := json.Unmarshal(value, &n); err != nil {
			return nil, false
		}
		return n, true
	case "gender":
		if isNull {
			return nil, true
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil || !entities.IsValidGender(s) {
			return nil, false
		}
		return s, true
	}
	return nil, false
}
