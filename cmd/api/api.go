package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farxc/sigecon/internal/auth"
	"github.com/farxc/sigecon/internal/db"
	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/ledger"
	"github.com/farxc/sigecon/internal/logger"
	"github.com/farxc/sigecon/internal/objectstore"
	"github.com/farxc/sigecon/internal/siafi"
	"github.com/farxc/sigecon/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type application struct {
	config   config
	store    store.Storage
	ledger   *ledger.Service
	identity auth.IdentityLookup
	login    *auth.Authenticator
	objects  objectstore.Store
	events   events.Publisher
	importer *siafi.Importer
	logger   *logger.Logger
}

type config struct {
	addr                  string
	env                   string
	db                    db.Config
	log                   logger.Config
	auth                  authConfig
	s3                    objectstore.Config
	amqp                  amqpConfig
	projectionConcurrency int
	maxUploadBytes        int64
}

type authConfig struct {
	mode   string // "jwt" or "disabled"
	secret string
	ttl    time.Duration
}

type amqpConfig struct {
	url      string
	exchange string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.requestLogger)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	if _, ok := app.objects.(*objectstore.MemoryStore); ok {
		r.Get("/files/*", app.handleServeMemoryObject)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", app.handleLogin)
			r.With(app.requireAuth).Get("/session", app.handleGetSession)
		})

		r.Route("/workspaces/{workspace}", func(r chi.Router) {
			r.Use(app.requireAuth)
			r.Use(app.workspaceCtx)

			r.Route("/managing-units", func(r chi.Router) {
				r.Get("/", app.handleListManagingUnits)
				r.Post("/", app.handleCreateManagingUnit)
				r.Get("/{id}", app.handleGetManagingUnit)
				r.Put("/{id}", app.handleUpdateManagingUnit)
				r.Delete("/{id}", app.handleDeleteManagingUnit)
			})

			r.Route("/credit-notes", func(r chi.Router) {
				r.Get("/", app.handleListCreditNotes)
				r.Post("/", app.handleCreateCreditNote)
				r.Get("/aggregated", app.handleListCreditNoteProjections)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", app.handleGetCreditNote)
					r.Put("/", app.handleUpdateCreditNote)
					r.Delete("/", app.handleDeleteCreditNote)
					r.Get("/projection", app.handleGetCreditNoteProjection)
					r.Put("/link", app.handleSetCreditNoteLink)
					r.Get("/sub-notes", app.handleListSubNotesByCreditNote)
					r.Post("/sub-notes", app.handleCreateSubNote)
					r.Put("/sub-notes/{subID}", app.handleUpdateSubNote)
					r.Delete("/sub-notes/{subID}", app.handleDeleteSubNote)
					r.Get("/commitments", app.handleListCommitmentsByCreditNote)
					r.Get("/recoveries", app.handleListRecoveriesByCreditNote)
				})
			})

			r.Route("/sub-notes", func(r chi.Router) {
				r.Get("/", app.handleListSubNotes)
				r.Get("/{id}", app.handleGetSubNote)
			})

			r.Route("/commitments", func(r chi.Router) {
				r.Get("/", app.handleListCommitments)
				r.Post("/", app.handleCreateCommitment)
				r.Get("/{id}", app.handleGetCommitment)
				r.Put("/{id}", app.handleUpdateCommitment)
				r.Delete("/{id}", app.handleDeleteCommitment)
				r.Put("/{id}/link", app.handleSetCommitmentLink)
				r.Get("/{id}/entries", app.handleListEntriesByCommitment)
			})

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", app.handleListEntries)
				r.Post("/", app.handleCreateEntry)
				r.Get("/{id}", app.handleGetEntry)
				r.Put("/{id}", app.handleUpdateEntry)
				r.Delete("/{id}", app.handleDeleteEntry)
			})

			r.Route("/recoveries", func(r chi.Router) {
				r.Get("/", app.handleListRecoveries)
				r.Post("/", app.handleCreateRecovery)
				r.Get("/{id}", app.handleGetRecovery)
				r.Put("/{id}", app.handleUpdateRecovery)
				r.Delete("/{id}", app.handleDeleteRecovery)
			})

			r.Route("/attachments", func(r chi.Router) {
				r.Get("/", app.handleListAttachments)
				r.Get("/{kind}/{noteID}", app.handleListNoteAttachments)
				r.With(app.requireAdmin).Post("/", app.handleUploadAttachment)
				r.With(app.requireAdmin).Delete("/{id}", app.handleDeleteAttachment)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/by-managing-unit", app.handleGetTotalsByManagingUnit)
				r.Get("/managing-units/{id}/total", app.handleGetManagingUnitTotal)
			})

			r.Route("/imports", func(r chi.Router) {
				r.Get("/", app.handleGetImportHistory)
				r.With(app.requireAdmin).Post("/", app.handleCreateImport)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	const component = "Server"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info(component, "Shutting down server: signal=%s", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(component, "Server started: addr=%s env=%s", app.config.addr, app.config.env)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}

	app.logger.Info(component, "Server stopped: addr=%s", app.config.addr)
	return nil
}
