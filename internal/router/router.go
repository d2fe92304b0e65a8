// Package router wires the HTTP boundary: route layout, request decoding and
// validation, and the mapping from domain error kinds to response statuses.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"

	"github.com/patric-chuzhbe/notes/internal/auth"
	"github.com/patric-chuzhbe/notes/internal/gzippedhttp"
	"github.com/patric-chuzhbe/notes/internal/logger"
	"github.com/patric-chuzhbe/notes/internal/models"
)

type noteService interface {
	Register(ctx context.Context, email, password string) (*models.AuthResponse, error)

	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)

	ListNotes(ctx context.Context, userID string) (*models.NotesListResponse, error)

	GetNote(ctx context.Context, userID string, noteID int64) (*models.NoteEnvelope, error)

	CreateNote(
		ctx context.Context,
		userID string,
		request models.NoteCreateRequest,
	) (*models.NoteEnvelope, error)

	UpdateNote(
		ctx context.Context,
		userID string,
		noteID int64,
		request models.NoteUpdateRequest,
	) (*models.NoteEnvelope, error)

	DeleteNote(ctx context.Context, userID string, noteID int64) error

	Ping(ctx context.Context) error
}

type authenticator interface {
	Authenticate(h http.Handler) http.Handler
}

// Handlers bundles the HTTP handlers with the service they call and the
// request validator.
type Handlers struct {
	svc      noteService
	validate *validator.Validate
}

// New assembles the chi router with logging, gzip, and CORS middleware, the
// public auth endpoints, and the token-guarded note endpoints.
func New(svc noteService, authMiddleware authenticator, corsAllowedOrigins string) *chi.Mux {
	handlers := &Handlers{
		svc:      svc,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: parseAllowedOrigins(corsAllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	router.Use(gzippedhttp.UngzipRequest)
	router.Use(gzippedhttp.GzipResponse)

	router.Get(`/health`, handlers.GetHealth)

	router.Route(`/api/auth`, func(r chi.Router) {
		r.Post(`/register`, handlers.PostRegister)
		r.Post(`/login`, handlers.PostLogin)
	})

	router.Route(`/api/notes`, func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get(`/`, handlers.GetNotes)
		r.Post(`/`, handlers.PostNote)
		r.Get(`/{noteID}`, handlers.GetNote)
		r.Patch(`/{noteID}`, handlers.PatchNote)
		r.Delete(`/{noteID}`, handlers.DeleteNote)
	})

	return router
}

// GetHealth reports storage connectivity as {"ok":true|false}.
// It never fails the request itself.
func (h *Handlers) GetHealth(res http.ResponseWriter, req *http.Request) {
	err := h.svc.Ping(req.Context())
	if err != nil {
		logger.Log.Debugln("Error calling the `h.svc.Ping()`: ", err)
	}

	writeJSON(res, http.StatusOK, models.HealthResponse{OK: err == nil})
}

// PostRegister handles POST /api/auth/register.
func (h *Handlers) PostRegister(res http.ResponseWriter, req *http.Request) {
	var request models.RegisterRequest
	if !h.decodeAndValidate(res, req, &request) {
		return
	}

	authResponse, err := h.svc.Register(req.Context(), request.Email, request.Password)
	if err != nil {
		writeError(res, err)
		return
	}

	writeJSON(res, http.StatusCreated, authResponse)
}

// PostLogin handles POST /api/auth/login.
func (h *Handlers) PostLogin(res http.ResponseWriter, req *http.Request) {
	var request models.LoginRequest
	if !h.decodeAndValidate(res, req, &request) {
		return
	}

	authResponse, err := h.svc.Login(req.Context(), request.Email, request.Password)
	if err != nil {
		writeError(res, err)
		return
	}

	writeJSON(res, http.StatusOK, authResponse)
}

// GetNotes handles GET /api/notes.
func (h *Handlers) GetNotes(res http.ResponseWriter, req *http.Request) {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		writeError(res, models.ErrInvalidToken)
		return
	}

	notes, err := h.svc.ListNotes(req.Context(), userID)
	if err != nil {
		writeError(res, err)
		return
	}

	writeJSON(res, http.StatusOK, notes)
}

// GetNote handles GET /api/notes/{noteID}.
func (h *Handlers) GetNote(res http.ResponseWriter, req *http.Request) {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		writeError(res, models.ErrInvalidToken)
		return
	}

	noteID, ok := getNoteID(res, req)
	if !ok {
		return
	}

	envelope, err := h.svc.GetNote(req.Context(), userID, noteID)
	if err != nil {
		writeError(res, err)
		return
	}

	writeJSON(res, http.StatusOK, envelope)
}

// PostNote handles POST /api/notes.
func (h *Handlers) PostNote(res http.ResponseWriter, req *http.Request) {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		writeError(res, models.ErrInvalidToken)
		return
	}

	var request models.NoteCreateRequest
	if !h.decodeAndValidate(res, req, &request) {
		return
	}

	envelope, err := h.svc.CreateNote(req.Context(), userID, request)
	if err != nil {
		writeError(res, err)
		return
	}

	writeJSON(res, http.StatusCreated, envelope)
}

// PatchNote handles PATCH /api/notes/{noteID}.
func (h *Handlers) PatchNote(res http.ResponseWriter, req *http.Request) {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		writeError(res, models.ErrInvalidToken)
		return
	}

	noteID, ok := getNoteID(res, req)
	if !ok {
		return
	}

	var request models.NoteUpdateRequest
	if !h.decodeAndValidate(res, req, &request) {
		return
	}

	envelope, err := h.svc.UpdateNote(req.Context(), userID, noteID, request)
	if err != nil {
		writeError(res, err)
		return
	}

	writeJSON(res, http.StatusOK, envelope)
}

// DeleteNote handles DELETE /api/notes/{noteID}.
func (h *Handlers) DeleteNote(res http.ResponseWriter, req *http.Request) {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		writeError(res, models.ErrInvalidToken)
		return
	}

	noteID, ok := getNoteID(res, req)
	if !ok {
		return
	}

	if err := h.svc.DeleteNote(req.Context(), userID, noteID); err != nil {
		writeError(res, err)
		return
	}

	res.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) decodeAndValidate(res http.ResponseWriter, req *http.Request, target any) bool {
	if err := json.NewDecoder(req.Body).Decode(target); err != nil {
		writeJSON(res, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input"})
		return false
	}

	if err := h.validate.Struct(target); err != nil {
		writeJSON(res, http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid input",
			Details: validationDetails(err),
		})
		return false
	}

	return true
}

func getNoteID(res http.ResponseWriter, req *http.Request) (int64, bool) {
	noteID, err := strconv.ParseInt(chi.URLParam(req, "noteID"), 10, 64)
	if err != nil {
		writeJSON(res, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid id"})
		return 0, false
	}

	return noteID, true
}

func writeJSON(res http.ResponseWriter, statusCode int, body any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	if err := json.NewEncoder(res).Encode(body); err != nil {
		logger.Log.Debugln("Error encoding the response body: ", err)
	}
}

func writeError(res http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNothingToUpdate):
		writeJSON(res, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})

	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrInvalidToken):
		writeJSON(res, http.StatusUnauthorized, models.ErrorResponse{Error: err.Error()})

	case errors.Is(err, models.ErrNoteNotFound):
		writeJSON(res, http.StatusNotFound, models.ErrorResponse{Error: "Not found"})

	case errors.Is(err, models.ErrEmailAlreadyTaken):
		writeJSON(res, http.StatusConflict, models.ErrorResponse{Error: err.Error()})

	default:
		logger.Log.Debugln("Unexpected error from the service layer: ", err)
		writeJSON(res, http.StatusInternalServerError, models.ErrorResponse{Error: "Server error"})
	}
}

func validationDetails(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		details = append(
			details,
			fmt.Sprintf("%s: failed on the '%s' rule", strings.ToLower(fieldError.Field()), fieldError.Tag()),
		)
	}

	return details
}

func parseAllowedOrigins(corsAllowedOrigins string) []string {
	if corsAllowedOrigins == "" {
		return []string{"*"}
	}

	origins := strings.Split(corsAllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return origins
}
