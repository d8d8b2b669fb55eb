package main

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/farxc/sigecon/internal/response"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &response.ErrorResponse{Error: message})
}

func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(data)
}

// writeData wraps data in the success envelope.
func writeData[T any](w http.ResponseWriter, status int, message string, data T) {
	if err := writeJSON(w, status, response.OK(message, data)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// decode reads and validates a JSON body. It writes the 400 itself and
// reports whether the handler should continue.
func (app *application) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(w, r, dst); err != nil {
		app.badRequest(w, "invalid request payload: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		app.badRequest(w, validationError(err))
		return false
	}
	return true
}
