package main

import (
	"net/http"

	"github.com/farxc/sigecon/internal/auth"
	"github.com/farxc/sigecon/internal/response"
)

type LoginResponse = response.APIResponse[*auth.Session]
type SessionResponse = response.APIResponse[auth.Identity]

type loginPayload struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

// @Summary		Log in
// @Description	Exchanges a username and password for a session token.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Param			credentials	body		loginPayload			true	"Credentials"
// @Success		200			{object}	LoginResponse			"Session created"
// @Failure		400			{object}	response.ErrorResponse	"Invalid request payload"
// @Failure		401			{object}	response.ErrorResponse	"Invalid username or password"
// @Failure		503			{object}	response.ErrorResponse	"Login is disabled"
// @Router			/auth/login [post]
func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	if app.login == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "login is disabled on this server")
		return
	}

	var input loginPayload
	if !app.decode(w, r, &input) {
		return
	}

	session, err := app.login.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.logger.Info("Auth", "User logged in: username=%s role=%s", session.User.Username, session.User.Role)
	writeData(w, http.StatusOK, "Session created", session)
}

// @Summary		Current session
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	SessionResponse
// @Failure		401	{object}	response.ErrorResponse
// @Router			/auth/session [get]
func (app *application) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	writeData(w, http.StatusOK, "", id)
}
