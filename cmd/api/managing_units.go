package main

import (
	"net/http"
	"strings"

	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/response"
	"github.com/farxc/sigecon/internal/store"
)

type ManagingUnitResponse = response.APIResponse[*store.ManagingUnit]
type ManagingUnitsResponse = response.APIResponse[[]store.ManagingUnit]

type managingUnitPayload struct {
	Name string `json:"nome" validate:"required,max=255"`
}

// @Summary		List managing units
// @Tags			ManagingUnits
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Success		200			{object}	ManagingUnitsResponse
// @Failure		500			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/managing-units [get]
func (app *application) handleListManagingUnits(w http.ResponseWriter, r *http.Request) {
	units, err := app.store.ManagingUnits.List(r.Context(), workspaceFrom(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", units)
}

// @Summary		Get managing unit
// @Tags			ManagingUnits
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Managing unit ID"
// @Success		200			{object}	ManagingUnitResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/managing-units/{id} [get]
func (app *application) handleGetManagingUnit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	unit, err := app.store.ManagingUnits.Get(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", unit)
}

// @Summary		Create managing unit
// @Tags			ManagingUnits
// @Accept			json
// @Produce		json
// @Param			workspace	path		string				true	"Workspace"
// @Param			unit		body		managingUnitPayload	true	"Managing unit"
// @Success		201			{object}	ManagingUnitResponse
// @Failure		400			{object}	response.ErrorResponse
// @Failure		409			{object}	response.ErrorResponse	"A unit with this name already exists"
// @Router			/workspaces/{workspace}/managing-units [post]
func (app *application) handleCreateManagingUnit(w http.ResponseWriter, r *http.Request) {
	var input managingUnitPayload
	if !app.decode(w, r, &input) {
		return
	}

	unit := &store.ManagingUnit{Workspace: workspaceFrom(r), Name: strings.TrimSpace(input.Name)}
	if err := app.store.ManagingUnits.Create(r.Context(), unit); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceManagingUnit, events.Created, unit.ID)
	writeData(w, http.StatusCreated, "Managing unit created", unit)
}

// @Summary		Update managing unit
// @Tags			ManagingUnits
// @Accept			json
// @Produce		json
// @Param			workspace	path		string				true	"Workspace"
// @Param			id			path		int					true	"Managing unit ID"
// @Param			unit		body		managingUnitPayload	true	"Managing unit"
// @Success		200			{object}	ManagingUnitResponse
// @Failure		404			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/managing-units/{id} [put]
func (app *application) handleUpdateManagingUnit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	var input managingUnitPayload
	if !app.decode(w, r, &input) {
		return
	}

	unit := &store.ManagingUnit{ID: id, Workspace: workspaceFrom(r), Name: strings.TrimSpace(input.Name)}
	if err := app.store.ManagingUnits.Update(r.Context(), unit); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceManagingUnit, events.Updated, unit.ID)
	writeData(w, http.StatusOK, "Managing unit updated", unit)
}

// @Summary		Delete managing unit
// @Description	Fails with 409 while credit notes still reference the unit.
// @Tags			ManagingUnits
// @Param			workspace	path	string	true	"Workspace"
// @Param			id			path	int		true	"Managing unit ID"
// @Success		204
// @Failure		404	{object}	response.ErrorResponse
// @Failure		409	{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/managing-units/{id} [delete]
func (app *application) handleDeleteManagingUnit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	if err := app.store.ManagingUnits.Delete(r.Context(), workspaceFrom(r), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceManagingUnit, events.Deleted, id)
	w.WriteHeader(http.StatusNoContent)
}
