package main

import (
	"net/http"

	"github.com/farxc/sigecon/internal/response"
	"github.com/farxc/sigecon/internal/store"
)

type ManagingUnitTotalsResponse = response.APIResponse[[]store.ManagingUnitTotal]
type ManagingUnitTotalResponse = response.APIResponse[store.ManagingUnitTotal]

// @Summary		Credit totals by managing unit
// @Description	Sum of credit note values per managing unit, used to reconcile against SIAFI.
// @Tags			Reports
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Success		200			{object}	ManagingUnitTotalsResponse
// @Router			/workspaces/{workspace}/reports/by-managing-unit [get]
func (app *application) handleGetTotalsByManagingUnit(w http.ResponseWriter, r *http.Request) {
	totals, err := app.store.Reports.TotalsByManagingUnit(r.Context(), workspaceFrom(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", totals)
}

// @Summary		Credit total of one managing unit
// @Tags			Reports
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id			path		int		true	"Managing unit ID"
// @Success		200			{object}	ManagingUnitTotalResponse
// @Router			/workspaces/{workspace}/reports/managing-units/{id}/total [get]
func (app *application) handleGetManagingUnitTotal(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	total, err := app.store.Reports.ManagingUnitTotal(r.Context(), workspaceFrom(r), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", total)
}
