package main

import (
	"context"
	"net/http"

	"github.com/farxc/sigecon/internal/events"
)

const (
	resourceManagingUnit = "managing_unit"
	resourceCreditNote   = "credit_note"
	resourceSubNote      = "sub_note"
	resourceCommitment   = "commitment"
	resourceEntry        = "entry"
	resourceRecovery     = "recovery"
	resourceAttachment   = "attachment"
	resourceImport       = "import"
)

// publish announces a change. Failures are logged and never reach the caller.
func (app *application) publish(r *http.Request, resource, action string, id int64) {
	ev := events.New(resource, action, workspaceFrom(r), id)

	// The request may be finishing; the event should still go out.
	ctx := context.WithoutCancel(r.Context())
	if err := app.events.Publish(ctx, ev); err != nil {
		app.logger.Warn("Events", "Failed to publish %s: id=%d error=%v", ev.Type, id, err)
	}
}
