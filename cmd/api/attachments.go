package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/farxc/sigecon/internal/auth"
	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/objectstore"
	"github.com/farxc/sigecon/internal/response"
	"github.com/farxc/sigecon/internal/store"
)

type AttachmentResponse = response.APIResponse[*store.Attachment]
type AttachmentsResponse = response.APIResponse[[]store.Attachment]

type AttachmentPage = response.Page[store.Attachment]
type AttachmentPageResponse = response.APIResponse[AttachmentPage]

const (
	defaultAttachmentLimit = 20
	maxAttachmentLimit     = 100
)

func normalizeKind(kind string) string {
	return strings.ToUpper(strings.TrimSpace(kind))
}

// refreshURLs replaces stored links with fresh ones, since presigned links
// expire. A failure keeps the stored link.
func (app *application) refreshURLs(ctx context.Context, attachments []store.Attachment) {
	for i := range attachments {
		if attachments[i].ObjectKey == "" {
			continue
		}
		link, err := app.objects.URL(ctx, attachments[i].ObjectKey)
		if err != nil {
			app.logger.Warn("Attachments", "Failed to refresh url: id=%d error=%v", attachments[i].ID, err)
			continue
		}
		attachments[i].URL = link
	}
}

// @Summary		List attachments
// @Description	Pages through the workspace's active attachments, newest first.
// @Tags			Attachments
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			tipo		query		string	false	"NC or NE"
// @Param			limit		query		int		false	"Page size"	default(20)
// @Param			offset		query		int		false	"Offset"	default(0)
// @Success		200			{object}	AttachmentPageResponse
// @Failure		400			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/attachments [get]
func (app *application) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	kind := normalizeKind(r.URL.Query().Get("tipo"))
	if kind != "" && !store.ValidNoteKind(kind) {
		app.badRequest(w, "tipo must be NC or NE")
		return
	}

	filter := store.AttachmentFilter{
		NoteKind: kind,
		Limit:    queryInt(r, "limit", defaultAttachmentLimit, maxAttachmentLimit),
		Offset:   queryInt(r, "offset", 0, 0),
	}
	if filter.Limit == 0 {
		filter.Limit = defaultAttachmentLimit
	}

	ctx := r.Context()
	ws := workspaceFrom(r)

	items, err := app.store.Attachments.List(ctx, ws, filter)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	total, err := app.store.Attachments.Count(ctx, ws, kind)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.refreshURLs(ctx, items)
	writeData(w, http.StatusOK, "", AttachmentPage{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset})
}

// @Summary		List attachments of a note
// @Tags			Attachments
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			kind		path		string	true	"NC or NE"
// @Param			noteID		path		int		true	"Note ID"
// @Success		200			{object}	AttachmentsResponse
// @Failure		400			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/attachments/{kind}/{noteID} [get]
func (app *application) handleListNoteAttachments(w http.ResponseWriter, r *http.Request) {
	kind := normalizeKind(chiParam(r, "kind"))
	if !store.ValidNoteKind(kind) {
		app.badRequest(w, "tipo must be NC or NE")
		return
	}
	noteID, err := parseIDParam(r, "noteID")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	items, err := app.store.Attachments.ListByNote(r.Context(), workspaceFrom(r), kind, noteID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.refreshURLs(r.Context(), items)
	writeData(w, http.StatusOK, "", items)
}

// @Summary		Upload attachment
// @Description	Stores a file for a credit note (NC) or commitment (NE). Admin only.
// @Tags			Attachments
// @Accept			multipart/form-data
// @Produce		json
// @Param			workspace	path		string	true	"Workspace"
// @Param			id_nota		formData	int		true	"Note ID"
// @Param			tipo		formData	string	true	"NC or NE"
// @Param			arquivo		formData	file	true	"File"
// @Success		201			{object}	AttachmentResponse
// @Failure		400			{object}	response.ErrorResponse
// @Failure		403			{object}	response.ErrorResponse
// @Failure		404			{object}	response.ErrorResponse	"Note does not exist"
// @Failure		409			{object}	response.ErrorResponse	"A file with this name is already attached"
// @Failure		413			{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/attachments [post]
func (app *application) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	const component = "Attachments"

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

	kind := normalizeKind(r.FormValue("tipo"))
	noteID, err := strconv.ParseInt(r.FormValue("id_nota"), 10, 64)
	if err != nil || noteID < 1 || !store.ValidNoteKind(kind) {
		app.badRequest(w, "id_nota and tipo (NC or NE) are required")
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		app.badRequest(w, "arquivo is required")
		return
	}
	defer file.Close()

	ctx := r.Context()
	ws := workspaceFrom(r)

	exists, err := app.store.Attachments.NoteExists(ctx, ws, kind, noteID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if !exists {
		writeJSONError(w, http.StatusNotFound, "note not found")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := objectstore.CleanName(header.Filename)
	key := objectstore.Key(ws, kind, noteID, name)

	if err := app.objects.Upload(ctx, key, file, header.Size, contentType); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	link, err := app.objects.URL(ctx, key)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	id, _ := auth.FromContext(ctx)
	a := &store.Attachment{
		Workspace:   ws,
		NoteID:      noteID,
		NoteKind:    kind,
		FileName:    name,
		ObjectKey:   key,
		URL:         link,
		ContentType: contentType,
		Size:        header.Size,
		UploadedBy:  id.Username,
	}
	if err := app.store.Attachments.Create(ctx, a); err != nil {
		if derr := app.objects.Delete(context.WithoutCancel(ctx), key); derr != nil {
			app.logger.Warn(component, "Failed to remove orphan object: key=%s error=%v", key, derr)
		}
		app.errorResponse(w, r, err)
		return
	}

	app.logger.Info(component, "Attachment stored: id=%d kind=%s note=%d size=%d by=%s", a.ID, kind, noteID, a.Size, a.UploadedBy)
	app.publish(r, resourceAttachment, events.Created, a.ID)
	writeData(w, http.StatusCreated, "Attachment uploaded", a)
}

// @Summary		Delete attachment
// @Description	Hides the attachment. The stored file is kept. Admin only.
// @Tags			Attachments
// @Param			workspace	path	string	true	"Workspace"
// @Param			id			path	int		true	"Attachment ID"
// @Success		204
// @Failure		403	{object}	response.ErrorResponse
// @Failure		404	{object}	response.ErrorResponse
// @Router			/workspaces/{workspace}/attachments/{id} [delete]
func (app *application) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequest(w, err.Error())
		return
	}

	if err := app.store.Attachments.SoftDelete(r.Context(), workspaceFrom(r), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.publish(r, resourceAttachment, events.Deleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// handleServeMemoryObject serves files kept by the in-memory object store
// when no bucket is configured.
func (app *application) handleServeMemoryObject(w http.ResponseWriter, r *http.Request) {
	mem, ok := app.objects.(*objectstore.MemoryStore)
	if !ok {
		http.NotFound(w, r)
		return
	}

	key, err := url.PathUnescape(chiParam(r, "*"))
	if err != nil {
		app.badRequest(w, "invalid file path")
		return
	}

	obj, ok := mem.Get(key)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.Write(obj.Data)
}
