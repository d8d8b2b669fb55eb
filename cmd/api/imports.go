package main

import (
	"errors"
	"net/http"

	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/objectstore"
	"github.com/farxc/sigecon/internal/response"
	"github.com/farxc/sigecon/internal/store"
)

type GetImportHistoryResponse = response.APIResponse[[]store.ImportRun]
type CreateImportResponse = response.APIResponse[*store.ImportRun]

// @Summary		Get import history
// @Description	Get a list of the latest SIAFI import runs.
// @Tags			Imports
// @Produce		json
// @Param			workspace	path		string						true	"Workspace"
// @Param			limit		query		int							false	"Limit the number of results"	default(10)
// @Success		200			{object}	GetImportHistoryResponse	"Successfully retrieved latest import runs"
// @Failure		500			{object}	response.ErrorResponse		"Failed to get import history"
// @Router			/workspaces/{workspace}/imports [get]
func (app *application) handleGetImportHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10, 100)

	runs, err := app.store.ImportHistory.Latest(r.Context(), workspaceFrom(r), limit)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Successfully retrieved latest import runs", runs)
}

// @Summary		Import a SIAFI export
// @Description	Loads credit notes from an uploaded SIAFI CSV (Windows-1252, semicolon separated). Admin only.
// @Tags			Imports
// @Accept			multipart/form-data
// @Produce		json
// @Param			workspace	path		string					true	"Workspace"
// @Param			arquivo		formData	file					true	"SIAFI export"
// @Success		201			{object}	CreateImportResponse	"Run finished; status may be partial"
// @Failure		400			{object}	response.ErrorResponse
// @Failure		422			{object}	CreateImportResponse	"Run failed"
// @Router			/workspaces/{workspace}/imports [post]
func (app *application) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.config.maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		app.badRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		app.badRequest(w, "arquivo is required")
		return
	}
	defer file.Close()

	run, err := app.importer.Import(r.Context(), workspaceFrom(r), objectstore.CleanName(header.Filename), file)
	if run == nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceImport, events.Created, run.ID)

	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, response.Failed(err.Error(), run))
		return
	}
	writeData(w, http.StatusCreated, "Import finished with status "+run.Status, run)
}
