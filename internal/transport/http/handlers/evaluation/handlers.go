package evaluationhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/evaluation"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

// createEndpoint scopes idempotency keys for the create route.
const createEndpoint = "evaluations.create"

type Handler struct {
	Service     *evaluation.Service
	Perms       middleware.PermissionStore
	Idempotency middleware.IdempotencyKeeper
}

func NewHandler(service *evaluation.Service, perms middleware.PermissionStore, idempotency middleware.IdempotencyKeeper) *Handler {
	return &Handler{Service: service, Perms: perms, Idempotency: idempotency}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)
	write := middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)
	transition := middleware.RequirePermission(auth.PermEvaluationsTransition, h.Perms)

	r.With(read).Get("/reviewers", h.handleListReviewers)
	r.With(read).Get("/employees/{employeeID}/evaluations", h.handleList)
	r.With(write).Post("/employees/{employeeID}/evaluations", h.handleCreate)
	r.With(read).Get("/evaluations", h.handleQuery)

	r.Route("/evaluations/{evaluationID}", func(r chi.Router) {
		r.With(read).Get("/", h.handleGet)
		r.With(write).Put("/", h.handleUpdate)
		r.With(write).Delete("/", h.handleDelete)
		r.With(transition).Post("/status", h.handleUpdateStatus)
		r.With(read).Get("/report.pdf", h.handleReport)

		r.With(write).Post("/objectives", h.handleAddObjective)
		r.With(write).Put("/objectives/{objectiveID}", h.handleUpdateObjective)
		r.With(write).Delete("/objectives/{objectiveID}", h.handleDeleteObjective)

		r.With(write).Post("/competencies", h.handleAddCompetency)
		r.With(write).Put("/competencies/{competencyID}", h.handleUpdateCompetency)
		r.With(write).Delete("/competencies/{competencyID}", h.handleDeleteCompetency)
	})
}

type createRequest struct {
	Type       string `json:"type"`
	Year       int    `json:"year"`
	Quarter    *int   `json:"quarter"`
	ReviewerID string `json:"reviewer_id"`
	Date       string `json:"date"`
}

type statusRequest struct {
	Status   string `json:"status"`
	Revision *int   `json:"revision"`
}

type editRequest struct {
	Type       string   `json:"type"`
	Period     string   `json:"period"`
	ReviewerID string   `json:"reviewer_id"`
	Date       string   `json:"date"`
	Status     string   `json:"status"`
	Score      *float64 `json:"score"`
	Revision   *int     `json:"revision"`
}

type objectiveRequest struct {
	evaluation.ObjectiveDraft
	Revision *int `json:"revision"`
}

type competencyRequest struct {
	evaluation.CompetencyDraft
	Revision *int `json:"revision"`
}

func (h *Handler) handleListReviewers(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.ListReviewers(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []evaluation.Evaluation{}
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	query := r.URL.Query()
	filter := evaluation.Filter{
		EmployeeID: strings.TrimSpace(query.Get("employeeId")),
		Type:       strings.TrimSpace(query.Get("type")),
		Period:     strings.TrimSpace(query.Get("period")),
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := evaluation.ParseStatus(raw)
		if err != nil {
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "status", Reason: "Status is not recognised"}})
			return
		}
		filter.Status = status
	}

	records, total, err := h.Service.Query(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []evaluation.Evaluation{}
	}
	api.Success(w, api.Page{Items: records, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	user, _ := middleware.GetUser(r.Context())
	var requestHash string
	if idempotencyKey != "" && h.Idempotency != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			slog.Warn("idempotency hash failed", "requestId", requestID, "err", err)
		}
		requestHash = middleware.RequestHash([]byte(employeeID), body)
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, createEndpoint, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "Idempotency-Key was already used with a different request", requestID)
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "requestId", requestID, "err", err)
		}
		if found {
			w.Header().Set("Idempotency-Replayed", "true")
			api.Created(w, stored, requestID)
			return
		}
	}

	req := evaluation.CreateRequest{
		Kind:       evaluation.ParseKind(payload.Type),
		Year:       payload.Year,
		Quarter:    payload.Quarter,
		ReviewerID: payload.ReviewerID,
	}
	v := shared.NewValidator()
	if strings.TrimSpace(payload.Date) != "" {
		req.Date, _ = v.Date("date", payload.Date)
	}

	records, err := h.Service.Create(r.Context(), employeeID, req)
	if err != nil {
		writeErrorWith(w, r, err, v)
		return
	}

	if requestHash != "" {
		response, err := json.Marshal(records)
		if err != nil {
			slog.Warn("idempotency response marshal failed", "requestId", requestID, "err", err)
		} else if err := h.Idempotency.Save(r.Context(), user.UserID, createEndpoint, idempotencyKey, requestHash, response); err != nil {
			slog.Warn("idempotency save failed", "requestId", requestID, "err", err)
		}
	}
	api.Created(w, records, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.Get(r.Context(), chi.URLParam(r, "evaluationID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	setETag(w, detail.Evaluation.Revision)
	api.Success(w, detail, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload editRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	expected, ok := expectedRevision(w, r, payload.Revision)
	if !ok {
		return
	}

	edit := evaluation.Edit{
		Type:       payload.Type,
		Period:     payload.Period,
		ReviewerID: payload.ReviewerID,
		Score:      payload.Score,
		Status:     parseStatus(payload.Status),
	}
	v := shared.NewValidator()
	if strings.TrimSpace(payload.Date) != "" {
		edit.Date, _ = v.Date("date", payload.Date)
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "evaluationID"), edit, expected)
	if err != nil {
		writeErrorWith(w, r, err, v)
		return
	}
	setETag(w, updated.Revision)
	api.Success(w, updated, requestID)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload statusRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "Status is required")
	if v.Reject(w, requestID) {
		return
	}
	expected, ok := expectedRevision(w, r, payload.Revision)
	if !ok {
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "evaluationID"), parseStatus(payload.Status), expected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setETag(w, updated.Revision)
	api.Success(w, updated, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	expected, ok := expectedRevision(w, r, nil)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "evaluationID"), expected); err != nil {
		writeError(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	evaluationID := chi.URLParam(r, "evaluationID")
	var buf bytes.Buffer
	if err := h.Service.Report(r.Context(), evaluationID, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=evaluation-%s.pdf", evaluationID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("write report failed", "evaluationId", evaluationID, "err", err)
	}
}

func (h *Handler) handleAddObjective(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload objectiveRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	expected, ok := expectedRevision(w, r, payload.Revision)
	if !ok {
		return
	}
	obj, err := h.Service.AddObjective(r.Context(), chi.URLParam(r, "evaluationID"), payload.ObjectiveDraft, expected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, obj, requestID)
}

func (h *Handler) handleUpdateObjective(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload objectiveRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	expected, ok := expectedRevision(w, r, payload.Revision)
	if !ok {
		return
	}
	obj, err := h.Service.UpdateObjective(r.Context(), chi.URLParam(r, "evaluationID"), chi.URLParam(r, "objectiveID"), payload.ObjectiveDraft, expected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, obj, requestID)
}

func (h *Handler) handleDeleteObjective(w http.ResponseWriter, r *http.Request) {
	expected, ok := expectedRevision(w, r, nil)
	if !ok {
		return
	}
	if err := h.Service.DeleteObjective(r.Context(), chi.URLParam(r, "evaluationID"), chi.URLParam(r, "objectiveID"), expected); err != nil {
		writeError(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleAddCompetency(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload competencyRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	expected, ok := expectedRevision(w, r, payload.Revision)
	if !ok {
		return
	}
	comp, err := h.Service.AddCompetency(r.Context(), chi.URLParam(r, "evaluationID"), payload.CompetencyDraft, expected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, comp, requestID)
}

func (h *Handler) handleUpdateCompetency(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload competencyRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	expected, ok := expectedRevision(w, r, payload.Revision)
	if !ok {
		return
	}
	comp, err := h.Service.UpdateCompetency(r.Context(), chi.URLParam(r, "evaluationID"), chi.URLParam(r, "competencyID"), payload.CompetencyDraft, expected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, comp, requestID)
}

func (h *Handler) handleDeleteCompetency(w http.ResponseWriter, r *http.Request) {
	expected, ok := expectedRevision(w, r, nil)
	if !ok {
		return
	}
	if err := h.Service.DeleteCompetency(r.Context(), chi.URLParam(r, "evaluationID"), chi.URLParam(r, "competencyID"), expected); err != nil {
		writeError(w, r, err)
		return
	}
	api.NoContent(w)
}

// parseStatus falls back to the raw value so the domain reports unknown
// statuses as field errors.
func parseStatus(raw string) evaluation.Status {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	status, err := evaluation.ParseStatus(raw)
	if err != nil {
		return evaluation.Status(raw)
	}
	return status
}

// expectedRevision reads the optimistic revision from If-Match, falling back
// to the body field. Neither present means last write wins.
func expectedRevision(w http.ResponseWriter, r *http.Request, fromBody *int) (*int, bool) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" || raw == "*" {
		return fromBody, true
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	revision, err := strconv.Atoi(raw)
	if err != nil || revision < 0 {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "If-Match", Reason: "must be a revision number"}})
		return nil, false
	}
	return &revision, true
}

func setETag(w http.ResponseWriter, revision int) {
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(revision)))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorWith(w, r, err, nil)
}

// writeErrorWith reports domain field errors together with the issues the
// request already collected. A collected reason wins for the same field.
func writeErrorWith(w http.ResponseWriter, r *http.Request, err error, v *shared.Validator) {
	requestID := middleware.GetRequestID(r.Context())

	var illegal *evaluation.IllegalTransitionError
	if errors.As(err, &illegal) {
		api.FailWithDetails(w, http.StatusBadRequest, "invalid_transition", illegal.Error(),
			map[string]string{"from": string(illegal.From), "to": string(illegal.To)}, requestID)
		return
	}
	var verr *evaluation.ValidationError
	if errors.As(err, &verr) {
		if v == nil {
			v = shared.NewValidator()
		}
		for _, field := range verr.FieldNames() {
			if !v.Has(field) {
				v.Add(field, verr.Fields[field])
			}
		}
		v.Reject(w, requestID)
		return
	}

	switch {
	case errors.Is(err, evaluation.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, evaluation.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "evaluation_not_found", "evaluation not found", requestID)
	case errors.Is(err, evaluation.ErrObjectiveNotFound):
		api.Fail(w, http.StatusNotFound, "objective_not_found", "objective not found", requestID)
	case errors.Is(err, evaluation.ErrCompetencyNotFound):
		api.Fail(w, http.StatusNotFound, "competency_not_found", "competency not found", requestID)
	case errors.Is(err, evaluation.ErrRevisionConflict):
		api.Fail(w, http.StatusConflict, "revision_conflict", err.Error(), requestID)
	default:
		slog.Error("evaluation request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "evaluation_error", "evaluation request failed", requestID)
	}
}
