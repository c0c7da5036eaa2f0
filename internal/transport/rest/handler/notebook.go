package handler

import (
	"net/http"
	"studyhub/internal/model"
	"studyhub/internal/service"
	"studyhub/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// NotebookHandler handles notebook CRUD and answering sessions
type NotebookHandler struct {
	notebookSvc *service.NotebookService
}

// NewNotebookHandler creates a new notebook handler
func NewNotebookHandler(notebookSvc *service.NotebookService) *NotebookHandler {
	return &NotebookHandler{notebookSvc: notebookSvc}
}

func ids(r *http.Request) (userID, notebookID string) {
	return middleware.GetUserID(r.Context()), mux.Vars(r)["id"]
}

// Create handles POST /v1/notebooks
func (h *NotebookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateNotebookRequest
	if !decode(w, r, &req) {
		return
	}
	nb, err := h.notebookSvc.CreateNotebook(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nb)
}

// List handles GET /v1/notebooks
func (h *NotebookHandler) List(w http.ResponseWriter, r *http.Request) {
	notebooks, err := h.notebookSvc.ListNotebooks(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notebooks": notebooks})
}

// Update handles PUT /v1/notebooks/{id}
func (h *NotebookHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	var req model.UpdateNotebookRequest
	if !decode(w, r, &req) {
		return
	}
	nb, err := h.notebookSvc.UpdateNotebook(r.Context(), userID, notebookID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// Delete handles DELETE /v1/notebooks/{id}
func (h *NotebookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	if err := h.notebookSvc.DeleteNotebook(r.Context(), userID, notebookID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Open handles POST /v1/notebooks/{id}/session
func (h *NotebookHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	h.respond(w)(h.notebookSvc.Open(r.Context(), userID, notebookID))
}

// Current handles GET /v1/notebooks/{id}/session
func (h *NotebookHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	h.respond(w)(h.notebookSvc.Current(r.Context(), userID, notebookID))
}

// Answer handles POST /v1/notebooks/{id}/session/answer. A failed write
// still answers 200 with a notice in the body.
func (h *NotebookHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	var req model.SubmitAnswerRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w)(h.notebookSvc.Submit(r.Context(), userID, notebookID, req.Option))
}

// Next handles POST /v1/notebooks/{id}/session/next
func (h *NotebookHandler) Next(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	h.respond(w)(h.notebookSvc.Navigate(r.Context(), userID, notebookID, service.DirectionNext))
}

// Previous handles POST /v1/notebooks/{id}/session/previous
func (h *NotebookHandler) Previous(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	h.respond(w)(h.notebookSvc.Navigate(r.Context(), userID, notebookID, service.DirectionPrevious))
}

// NextUnanswered handles POST /v1/notebooks/{id}/session/next-unanswered
func (h *NotebookHandler) NextUnanswered(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	h.respond(w)(h.notebookSvc.NextUnanswered(r.Context(), userID, notebookID))
}

// Jump handles POST /v1/notebooks/{id}/session/jump
func (h *NotebookHandler) Jump(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	var req model.JumpRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w)(h.notebookSvc.Jump(r.Context(), userID, notebookID, req.Index))
}

// Stats handles GET /v1/notebooks/{id}/stats
func (h *NotebookHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	stats, err := h.notebookSvc.Stats(r.Context(), userID, notebookID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// QuestionStats handles GET /v1/questions/{id}/stats
func (h *NotebookHandler) QuestionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.notebookSvc.QuestionStats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Reset handles DELETE /v1/notebooks/{id}/answers
func (h *NotebookHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, notebookID := ids(r)
	deleted, err := h.notebookSvc.Reset(r.Context(), userID, notebookID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": deleted})
}

func (h *NotebookHandler) respond(w http.ResponseWriter) func(*model.SessionView, error) {
	return func(view *model.SessionView, err error) {
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
