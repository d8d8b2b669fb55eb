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

type CommitmentResponse = response.APIResponse[*store.Commitment]
type CommitmentsResponse = response.APIResponse[[]store.Commitment]
type EntryProjectionsResponse = response.APIResponse[[]balance.EntryProjection]

type commitmentPayload struct {
	CreditNoteID int64           `json:"nc_id" validate:"required,gt=0"`
	Number       string          `json:"numero" validate:"required,max=64"`
	CNPJ         string          `json:"cnpj" validate:"max=32"`
	Value        currency.Amount `json:"valor"`
	Requisition  string          `json:"req" validate:"max=64"`
	Process      string          `json:"nup" validate:"max=64"`
}

func (p commitmentPayload) toModel(workspace string) *store.Commitment {
	return &store.Commitment{
		Workspace:    workspace,
		CreditNoteID: p.CreditNoteID,
		Number:       strings.TrimSpace(p.Number),
		CNPJ:         p.CNPJ,
		Value:        p.Value,
		Requisition:  p.Requisition,
		Process:      p.Process,
	}
}

// @Summary		List commitments
// @Tags			Commitments
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Success		200			{object}	CommitmentsResponse
// @Router			/workspaces/{workspace}/commitments [get]
func (app *application) handleListCommitments(w http.ResponseWriter, r *http.Request) {
	commitments, err := app.store.Commitments.List(r.Context(), workspaceFrom(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", commitments)
}

// @Summary		Get commitment
// @Tags			Commitments
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Commitment ID"
// @Success		200			{object}	CommitmentResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/commitments/{id} [get]
func (app *application) handleGetCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	c, err := app.store.Commitments.Get(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", c)
}

// @Summary		Create commitment
// @Description	Commits part of a credit note; it lowers the note's balance.
// @Tags			Commitments
// @Accept			json
// @Produce		json
// @Param			workspace	path		string				true	"Workspace"
// @Param			commitment	body		commitmentPayload	true	"Commitment"
// @Success		201			{object}	CommitmentResponse
// @Failure		422			{object}	response.ErrorResponse	"Credit note does not exist"
// @Router			/workspaces/{workspace}/commitments [post]
func (app *application) handleCreateCommitment(w http.ResponseWriter, r *http.Request) {
	var input commitmentPayload
	if !app.decode(w, r, &input) {
		return
	}

	c := input.toModel(workspaceFrom(r))
	if err := app.store.Commitments.Create(r.Context(), c); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceCommitment, events.Created, c.ID)
	writeData(w, http.StatusCreated, "Commitment created", c)
}

// @Summary		Update commitment
// @Tags			Commitments
// @Accept			json
// @Produce		json
// @Param			workspace	path		string				true	"Workspace"
// @Param			id			path		int					true	"Commitment ID"
// @Param			commitment	body		commitmentPayload	true	"Commitment"
// @Success		200			{object}	CommitmentResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/commitments/{id} [put]
func (app *application) handleUpdateCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input commitmentPayload
	if !app.decode(w, r, &input) {
		return
	}

	c := input.toModel(workspaceFrom(r))
	c.ID = id
	if err := app.store.Commitments.Update(r.Context(), c); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceCommitment, events.Updated, id)
	writeData(w, http.StatusOK, "Commitment updated", c)
}

// @Summary		Delete commitment
// @Tags			Commitments
// @Param			workspace	path	string	true	"Workspace"
// @Param			id			path	int		true	"Commitment ID"
// @Success		204
// @Failure		404	{object}	response.ErrorResponse
// @Failure		409	{object}	response.ErrorResponse	"Entries still reference the commitment"
// @Router			/workspaces/{workspace}/commitments/{id} [delete]
func (app *application) handleDeleteCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	if err := app.store.Commitments.Delete(r.Context(), workspaceFrom(r), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceCommitment, events.Deleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// @Summary		Set commitment document link
// @Tags			Commitments
// @Accept			json
// @Produce		json
// @Param			workspace	path		string		true	"Workspace"
// @Param			id			path		int			true	"Commitment ID"
// @Param			link		body		linkPayload	true	"Link"
// @Success		200			{object}	response.APIResponse[any]
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/commitments/{id}/link [put]
func (app *application) handleSetCommitmentLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input linkPayload
	if !app.decode(w, r, &input) {
		return
	}
	if input.SubNoteID != nil {
		app.badRequest(w, "subnc_id is not accepted for commitments")
		return
	}

	if err := app.store.Commitments.SetLink(r.Context(), workspaceFrom(r), id, input.Link); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceCommitment, events.Updated, id)
	writeData[any](w, http.StatusOK, "Link updated", nil)
}

// @Summary		List entries of a commitment
// @Description	Entries carry display kinds (entry-reinforce / entry-annul).
// @Tags			Commitments
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Commitment ID"
// @Success		200			{object}	EntryProjectionsResponse
// @Router			/workspaces/{workspace}/commitments/{id}/entries [get]
func (app *application) handleListEntriesByCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	entries, err := app.store.Entries.ListByCommitment(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", balance.ProjectEntries(entries))
}
