package main

import (
	"net/http"
	"strings"

	"github.com/farxc/sigecon/internal/balance"
	"github.com/farxc/sigecon/internal/currency"
	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/response"
	"github.com/farxc/sigecon/internal/store"
)

type EntryResponse = response.APIResponse[*balance.EntryProjection]
type EntriesResponse = response.APIResponse[[]balance.EntryProjection]

type entryPayload struct {
	CommitmentID int64           `json:"ne_id" validate:"required,gt=0"`
	Kind         string          `json:"tipo" validate:"required"`
	Value        currency.Amount `json:"valor"`
	Description  string          `json:"descricao"`
}

// storedKind accepts both the stored and the display spelling of a kind.
func storedKind(kind string) string {
	return balance.StoredKind(strings.TrimSpace(kind))
}

func projectEntry(e *store.Entry) *balance.EntryProjection {
	p := balance.ProjectEntries([]store.Entry{*e})[0]
	return &p
}

// @Summary		List entries
// @Tags			Entries
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Success		200			{object}	EntriesResponse
// @Router			/workspaces/{workspace}/entries [get]
func (app *application) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := app.store.Entries.List(r.Context(), workspaceFrom(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", balance.ProjectEntries(entries))
}

// @Summary		Get entry
// @Tags			Entries
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Entry ID"
// @Success		200			{object}	EntryResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/entries/{id} [get]
func (app *application) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	e, err := app.store.Entries.Get(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", projectEntry(e))
}

// @Summary		Create entry
// @Description	Records a reinforcement or annulment next to a commitment. The commitment's own value is not changed.
// @Tags			Entries
// @Accept			json
// @Produce		json
// @Param			workspace	path		string			true	"Workspace"
// @Param			entry		body		entryPayload	true	"Entry; tipo is reinforce or annul"
// @Success		201			{object}	EntryResponse
// @Failure		400			{object}	response.ErrorResponse	"Invalid kind"
// @Failure		422			{object}	response.ErrorResponse	"Commitment does not exist"
// @Router			/workspaces/{workspace}/entries [post]
func (app *application) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var input entryPayload
	if !app.decode(w, r, &input) {
		return
	}

	e := &store.Entry{
		Workspace:    workspaceFrom(r),
		CommitmentID: input.CommitmentID,
		Kind:         storedKind(input.Kind),
		Value:        input.Value,
		Description:  input.Description,
	}
	if err := app.store.Entries.Create(r.Context(), e); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceEntry, events.Created, e.ID)
	writeData(w, http.StatusCreated, "Entry created", projectEntry(e))
}

// @Summary		Update entry
// @Tags			Entries
// @Accept			json
// @Produce		json
// @Param			workspace	path		string			true	"Workspace"
// @Param			id			path		int				true	"Entry ID"
// @Param			entry		body		entryPayload	true	"Entry"
// @Success		200			{object}	EntryResponse
// @Failure		400			{object}	response.ErrorResponse	"Invalid kind or ne_id differs from the stored one"
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/entries/{id} [put]
func (app *application) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input entryPayload
	if !app.decode(w, r, &input) {
		return
	}

	stored, err := app.store.Entries.Get(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	// An entry stays attached to the commitment it was recorded against.
	if stored.CommitmentID != input.CommitmentID {
		app.badRequest(w, "ne_id cannot change")
		return
	}

	e := &store.Entry{
		ID:           id,
		Workspace:    workspaceFrom(r),
		CommitmentID: stored.CommitmentID,
		Kind:         storedKind(input.Kind),
		Value:        input.Value,
		Description:  input.Description,
	}
	if err := app.store.Entries.Update(r.Context(), e); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceEntry, events.Updated, id)
	writeData(w, http.StatusOK, "Entry updated", projectEntry(e))
}

// @Summary		Delete entry
// @Tags			Entries
// @Param			workspace	path	string	true	"Workspace"
// @Param			id			path	int		true	"Entry ID"
// @Success		204
// @Failure		404	{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/entries/{id} [delete]
func (app *application) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	if err := app.store.Entries.Delete(r.Context(), workspaceFrom(r), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceEntry, events.Deleted, id)
	w.WriteHeader(http.StatusNoContent)
}
