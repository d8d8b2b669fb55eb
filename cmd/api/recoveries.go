package main

import (
	"net/http"

	"github.com/farxc/sigecon/internal/currency"
	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/response"
	"github.com/farxc/sigecon/internal/store"
)

type RecoveryResponse = response.APIResponse[*store.Recovery]
type RecoveriesResponse = response.APIResponse[[]store.Recovery]

type recoveryPayload struct {
	CreditNoteID int64           `json:"nc_id" validate:"required,gt=0"`
	Number       string          `json:"numero" validate:"max=64"`
	Description  string          `json:"descricao"`
	Value        currency.Amount `json:"valor"`
	Date         store.Date      `json:"data"`
}

// @Summary		List recoveries
// @Tags			Recoveries
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Success		200			{object}	RecoveriesResponse
// @Router			/workspaces/{workspace}/recoveries [get]
func (app *application) handleListRecoveries(w http.ResponseWriter, r *http.Request) {
	recoveries, err := app.store.Recoveries.List(r.Context(), workspaceFrom(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", recoveries)
}

// @Summary		Get recovery
// @Tags			Recoveries
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Recovery ID"
// @Success		200			{object}	RecoveryResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/recoveries/{id} [get]
func (app *application) handleGetRecovery(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	rec, err := app.store.Recoveries.Get(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", rec)
}

// @Summary		Create recovery
// @Description	Returns funds from a credit note; it lowers the note's balance. data defaults to today.
// @Tags			Recoveries
// @Accept			json
// @Produce		json
// @Param			workspace	path		string			true	"Workspace"
// @Param			recovery	body		recoveryPayload	true	"Recovery"
// @Success		201			{object}	RecoveryResponse
// @Failure		422			{object}	response.ErrorResponse	"Credit note does not exist"
// @Router			/workspaces/{workspace}/recoveries [post]
func (app *application) handleCreateRecovery(w http.ResponseWriter, r *http.Request) {
	var input recoveryPayload
	if !app.decode(w, r, &input) {
		return
	}

	rec := &store.Recovery{
		Workspace:    workspaceFrom(r),
		CreditNoteID: input.CreditNoteID,
		Number:       input.Number,
		Description:  input.Description,
		Value:        input.Value,
		Date:         input.Date,
	}
	if err := app.store.Recoveries.Create(r.Context(), rec); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceRecovery, events.Created, rec.ID)
	writeData(w, http.StatusCreated, "Recovery created", rec)
}

// @Summary		Update recovery
// @Description	Changes numero, descricao and valor. The date and credit note are kept.
// @Tags			Recoveries
// @Accept			json
// @Produce		json
// @Param			workspace	path		string			true	"Workspace"
// @Param			id			path		int				true	"Recovery ID"
// @Param			recovery	body		recoveryPayload	true	"Recovery"
// @Success		200			{object}	RecoveryResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/recoveries/{id} [put]
func (app *application) handleUpdateRecovery(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input recoveryPayload
	if !app.decode(w, r, &input) {
		return
	}

	rec := &store.Recovery{
		ID:           id,
		Workspace:    workspaceFrom(r),
		CreditNoteID: input.CreditNoteID,
		Number:       input.Number,
		Description:  input.Description,
		Value:        input.Value,
	}
	if err := app.store.Recoveries.Update(r.Context(), rec); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceRecovery, events.Updated, id)
	writeData(w, http.StatusOK, "Recovery updated", rec)
}

// @Summary		Delete recovery
// @Tags			Recoveries
// @Param			workspace	path	string	true	"Workspace"
// @Param			id			path	int		true	"Recovery ID"
// @Success		204
// @Failure		404	{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/recoveries/{id} [delete]
func (app *application) handleDeleteRecovery(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	if err := app.store.Recoveries.Delete(r.Context(), workspaceFrom(r), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceRecovery, events.Deleted, id)
	w.WriteHeader(http.StatusNoContent)
}
