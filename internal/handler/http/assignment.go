package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/handler/http/response"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
)

type AssignmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListTeam(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
}

type assignmentHandlerImpl struct {
	assignmentService assignment.AssignmentService
}

func NewAssignmentHandler(assignmentService assignment.AssignmentService) AssignmentHandler {
	return &assignmentHandlerImpl{
		assignmentService: assignmentService,
	}
}

// Create implements AssignmentHandler.
func (h *assignmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req assignment.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.assignmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Assignment created", result)
}

// ListMine implements AssignmentHandler.
func (h *assignmentHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.assignmentService.ListMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListTeam implements AssignmentHandler.
func (h *assignmentHandlerImpl) ListTeam(w http.ResponseWriter, r *http.Request) {
	result, err := h.assignmentService.ListTeam(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Complete implements AssignmentHandler.
func (h *assignmentHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Assignment ID must be a valid UUID", nil)
		return
	}

	result, err := h.assignmentService.MarkComplete(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment completed", result)
}
