package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/farxc/sigecon/internal/auth"
	"github.com/farxc/sigecon/internal/store"
	"github.com/go-playground/validator/v10"
)

// errorResponse maps err onto a status code. Unexpected errors are logged and
// reported as 500.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, store.ErrInUse):
		writeJSONError(w, http.StatusConflict, "resource is referenced by other records")
	case errors.Is(err, store.ErrConflict):
		writeJSONError(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, store.ErrInvalidKind):
		writeJSONError(w, http.StatusBadRequest, "invalid entry kind: expected reinforce or annul")
	case errors.Is(err, store.ErrNoParent):
		writeJSONError(w, http.StatusUnprocessableEntity, "referenced parent record does not exist")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, auth.ErrExpiredToken):
		writeJSONError(w, http.StatusUnauthorized, "session expired")
	case errors.Is(err, auth.ErrInvalidToken):
		writeJSONError(w, http.StatusUnauthorized, "invalid session")
	default:
		app.logger.Error("API", "Internal error: method=%s path=%s requestID=%s error=%v",
			r.Method, r.URL.Path, requestID(r), err)
		writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
	}
}

func (app *application) badRequest(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusBadRequest, message)
}

// validationError describes the first failing field of a validator error.
func validationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}
