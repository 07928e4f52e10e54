package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"squash-courts/backend/internal/validate"
)

// maxBodyBytes bounds request bodies; payloads here are small forms.
const maxBodyBytes = 64 << 10

var ErrInvalidBody = errors.New("invalid json")

type APIError struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, APIError{Message: msg})
}

// Read decodes a JSON body into dst, rejecting unknown fields, and then runs
// its validate tags.
func Read(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return validate.Struct(dst)
}

// ReadMap decodes a JSON object for partial updates. No validation is run;
// the caller checks the keys.
func ReadMap(r *http.Request) (map[string]any, error) {
	var m map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidBody)
	}
	return m, nil
}

// IsBadInput reports whether err came from Read or ReadMap.
func IsBadInput(err error) bool {
	return errors.Is(err, ErrInvalidBody) || validate.IsErrInvalid(err)
}
