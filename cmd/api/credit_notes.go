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

type CreditNoteResponse = response.APIResponse[*store.CreditNote]
type CreditNotesResponse = response.APIResponse[[]store.CreditNote]
type CreditNoteProjectionResponse = response.APIResponse[*balance.CreditNoteProjection]
type CreditNoteProjectionsResponse = response.APIResponse[[]balance.CreditNoteProjection]

type creditNotePayload struct {
	ManagingUnitID int64           `json:"ug_id" validate:"required,gt=0"`
	Number         string          `json:"numero" validate:"required,max=64"`
	IssueDate      store.Date      `json:"data_emissao"`
	Description    string          `json:"descricao"`
	Deadline       store.Date      `json:"prazo"`
	ND             string          `json:"nd" validate:"max=32"`
	Sphere         string          `json:"esfera" validate:"max=32"`
	PTRES          string          `json:"ptres" validate:"max=32"`
	Source         string          `json:"fonte" validate:"max=32"`
	PI             string          `json:"pi" validate:"max=64"`
	Responsible    string          `json:"responsavel"`
	Value          currency.Amount `json:"valor"`
}

func (p creditNotePayload) toModel(workspace string) *store.CreditNote {
	return &store.CreditNote{
		Workspace:      workspace,
		ManagingUnitID: p.ManagingUnitID,
		Number:         strings.TrimSpace(p.Number),
		IssueDate:      p.IssueDate,
		Description:    p.Description,
		Deadline:       p.Deadline,
		ND:             p.ND,
		Sphere:         p.Sphere,
		PTRES:          p.PTRES,
		Source:         p.Source,
		PI:             p.PI,
		Responsible:    p.Responsible,
		Value:          p.Value,
	}
}

type linkPayload struct {
	Link      *string `json:"link_dropnotes"`
	SubNoteID *int64  `json:"subnc_id"`
}

// @Summary		List credit notes
// @Tags			CreditNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Success		200			{object}	CreditNotesResponse
// @Router			/workspaces/{workspace}/credit-notes [get]
func (app *application) handleListCreditNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := app.store.CreditNotes.List(r.Context(), workspaceFrom(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", notes)
}

// @Summary		List credit notes with balances
// @Description	Every credit note with its sub notes, commitments (and their entries), recoveries and current balance.
// @Tags			CreditNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Success		200			{object}	CreditNoteProjectionsResponse
// @Failure		500			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/credit-notes/aggregated [get]
func (app *application) handleListCreditNoteProjections(w http.ResponseWriter, r *http.Request) {
	projections, err := app.ledger.ProjectAll(r.Context(), workspaceFrom(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", projections)
}

// @Summary		Get credit note
// @Tags			CreditNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Credit note ID"
// @Success		200			{object}	CreditNoteResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/credit-notes/{id} [get]
func (app *application) handleGetCreditNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	note, err := app.store.CreditNotes.Get(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", note)
}

// @Summary		Get credit note with balance
// @Tags			CreditNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Credit note ID"
// @Success		200			{object}	CreditNoteProjectionResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/credit-notes/{id}/projection [get]
func (app *application) handleGetCreditNoteProjection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	projection, err := app.ledger.Project(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", projection)
}

// @Summary		Create credit note
// @Tags			CreditNotes
// @Accept			json
// @Produce		json
// @Param			workspace	path		string				true	"Workspace"
// @Param			note		body		creditNotePayload	true	"Credit note; valor accepts 1234.56 or \"1.234,56\""
// @Success		201			{object}	CreditNoteResponse
// @Failure		400			{object}	response.ErrorResponse
// @Failure		422			{object}	response.ErrorResponse	"Managing unit does not exist"
// @Router			/workspaces/{workspace}/credit-notes [post]
func (app *application) handleCreateCreditNote(w http.ResponseWriter, r *http.Request) {
	var input creditNotePayload
	if !app.decode(w, r, &input) {
		return
	}

	note := input.toModel(workspaceFrom(r))
	if err := app.store.CreditNotes.Create(r.Context(), note); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceCreditNote, events.Created, note.ID)
	writeData(w, http.StatusCreated, "Credit note created", note)
}

// @Summary		Update credit note
// @Tags			CreditNotes
// @Accept			json
// @Produce		json
// @Param			workspace	path		string				true	"Workspace"
// @Param			id			path		int					true	"Credit note ID"
// @Param			note		body		creditNotePayload	true	"Credit note"
// @Success		200			{object}	CreditNoteResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/credit-notes/{id} [put]
func (app *application) handleUpdateCreditNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input creditNotePayload
	if !app.decode(w, r, &input) {
		return
	}

	note := input.toModel(workspaceFrom(r))
	note.ID = id
	if err := app.store.CreditNotes.Update(r.Context(), note); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceCreditNote, events.Updated, id)
	writeData(w, http.StatusOK, "Credit note updated", note)
}

// @Summary		Delete credit note
// @Description	Fails with 409 while sub notes, commitments or recoveries reference it.
// @Tags			CreditNotes
// @Param			workspace	path	string	true	"Workspace"
// @Param			id			path	int		true	"Credit note ID"
// @Success		204
// @Failure		404	{object}	response.ErrorResponse
// @Failure		409	{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/credit-notes/{id} [delete]
func (app *application) handleDeleteCreditNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	if err := app.store.CreditNotes.Delete(r.Context(), workspaceFrom(r), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceCreditNote, events.Deleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// @Summary		Set document link
// @Description	Sets link_dropnotes on the credit note, or on one of its sub notes when subnc_id is given. A null link clears it.
// @Tags			CreditNotes
// @Accept			json
// @Produce		json
// @Param			workspace	path		string		true	"Workspace"
// @Param			id			path		int			true	"Credit note ID"
// @Param			link		body		linkPayload	true	"Link"
// @Success		200			{object}	response.APIResponse[any]
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/credit-notes/{id}/link [put]
func (app *application) handleSetCreditNoteLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input linkPayload
	if !app.decode(w, r, &input) {
		return
	}

	ws := workspaceFrom(r)
	if input.SubNoteID != nil {
		err = app.store.SubNotes.SetLink(r.Context(), ws, id, *input.SubNoteID, input.Link)
	} else {
		err = app.store.CreditNotes.SetLink(r.Context(), ws, id, input.Link)
	}
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if input.SubNoteID != nil {
		app.publish(r, resourceSubNote, events.Updated, *input.SubNoteID)
	} else {
		app.publish(r, resourceCreditNote, events.Updated, id)
	}
	writeData[any](w, http.StatusOK, "Link updated", nil)
}

// @Summary		List commitments of a credit note
// @Tags			CreditNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Credit note ID"
// @Success		200			{object}	CommitmentsResponse
// @Router			/workspaces/{workspace}/credit-notes/{id}/commitments [get]
func (app *application) handleListCommitmentsByCreditNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	commitments, err := app.store.Commitments.ListByCreditNote(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", commitments)
}

// @Summary		List recoveries of a credit note
// @Tags			CreditNotes
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Credit note ID"
// @Success		200			{object}	RecoveriesResponse
// @Router			/workspaces/{workspace}/credit-notes/{id}/recoveries [get]
func (app *application) handleListRecoveriesByCreditNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	recoveries, err := app.store.Recoveries.ListByCreditNote(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", recoveries)
}
