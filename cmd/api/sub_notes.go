package main

import (
	"net/http"

	"github.com/farxc/sigecon/internal/currency"
	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/response"
	"github.com/farxc/sigecon/internal/store"
)

type SubNoteResponse = response.APIResponse[*store.SubNote]
type SubNotesResponse = response.APIResponse[[]store.SubNote]

type subNotePayload struct {
	Number      string          `json:"nc" validate:"max=64"`
	Date        store.Date      `json:"data"`
	Description string          `json:"descricao"`
	Value       currency.Amount `json:"valor"`
}

// @Summary		List sub notes
// @Tags			SubNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Success		200			{object}	SubNotesResponse
// @Router			/workspaces/{workspace}/sub-notes [get]
func (app *application) handleListSubNotes(w http.ResponseWriter, r *http.Request) {
	subs, err := app.store.SubNotes.List(r.Context(), workspaceFrom(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", subs)
}

// @Summary		Get sub note
// @Tags			SubNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Sub note ID"
// @Success		200			{object}	SubNoteResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/sub-notes/{id} [get]
func (app *application) handleGetSubNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	sub, err := app.store.SubNotes.Get(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", sub)
}

// @Summary		List sub notes of a credit note
// @Tags			SubNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Credit note ID"
// @Success		200			{object}	SubNotesResponse
// @Router			/workspaces/{workspace}/credit-notes/{id}/sub-notes [get]
func (app *application) handleListSubNotesByCreditNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	subs, err := app.store.SubNotes.ListByCreditNote(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", subs)
}

// @Summary		Create sub note
// @Description	Adds a reinforcement to the credit note; it raises the note's balance.
// @Tags			SubNotes
// @Accept			json
// @Produce		json
// @Param			workspace	path		string			true	"Workspace"
// @Param			id			path		int				true	"Credit note ID"
// @Param			sub			body		subNotePayload	true	"Sub note"
// @Success		201			{object}	SubNoteResponse
// @Failure		422			{object}	response.ErrorResponse	"Credit note does not exist"
// @Router			/workspaces/{workspace}/credit-notes/{id}/sub-notes [post]
func (app *application) handleCreateSubNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input subNotePayload
	if !app.decode(w, r, &input) {
		return
	}

	sub := &store.SubNote{
		Workspace:    workspaceFrom(r),
		CreditNoteID: noteID,
		Number:       input.Number,
		Date:         input.Date,
		Description:  input.Description,
		Value:        input.Value,
	}
	if err := app.store.SubNotes.Create(r.Context(), sub); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceSubNote, events.Created, sub.ID)
	writeData(w, http.StatusCreated, "Sub note created", sub)
}

// @Summary		Update sub note
// @Tags			SubNotes
// @Accept			json
// @Produce		json
// @Param			workspace	path		string			true	"Workspace"
// @Param			id			path		int				true	"Credit note ID"
// @Param			subID		path		int				true	"Sub note ID"
// @Param			sub			body		subNotePayload	true	"Sub note"
// @Success		200			{object}	SubNoteResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/credit-notes/{id}/sub-notes/{subID} [put]
func (app *application) handleUpdateSubNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}
	subID, err := parseIDParam(r, "subID")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input subNotePayload
	if !app.decode(w, r, &input) {
		return
	}

	sub := &store.SubNote{
		ID:           subID,
		Workspace:    workspaceFrom(r),
		CreditNoteID: noteID,
		Number:       input.Number,
		Date:         input.Date,
		Description:  input.Description,
		Value:        input.Value,
	}
	if err := app.store.SubNotes.Update(r.Context(), sub); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceSubNote, events.Updated, subID)
	writeData(w, http.StatusOK, "Sub note updated", sub)
}

// @Summary		Delete sub note
// @Tags			SubNotes
// @Param			workspace	path	string	true	"Workspace"
// @Param			id			path	int		true	"Credit note ID"
// @Param			subID		path	int		true	"Sub note ID"
// @Success		204
// @Failure		404	{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/credit-notes/{id}/sub-notes/{subID} [delete]
func (app *application) handleDeleteSubNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}
	subID, err := parseIDParam(r, "subID")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	if err := app.store.SubNotes.Delete(r.Context(), workspaceFrom(r), noteID, subID); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceSubNote, events.Deleted, subID)
	w.WriteHeader(http.StatusNoContent)
}
