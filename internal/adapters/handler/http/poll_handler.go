package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pollwise/api/internal/core/ports"
	"github.com/pollwise/api/internal/metrics"
)

type PollHandler struct {
	service ports.PollService
	metrics *metrics.Metrics
}

func NewPollHandler(service ports.PollService, m *metrics.Metrics) *PollHandler {
	return &PollHandler{service: service, metrics: m}
}

type pollRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	IsPublic           *bool    `json:"is_public"`
	AllowMultipleVotes bool     `json:"allow_multiple_votes"`
	Options            []string `json:"options"`
}

func (req pollRequest) toForm() ports.PollForm {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	return ports.PollForm{
		Title:              req.Title,
		Description:        req.Description,
		IsPublic:           isPublic,
		AllowMultipleVotes: req.AllowMultipleVotes,
		Options:            req.Options,
	}
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req pollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	poll, err := h.service.Create(r.Context(), req.toForm())
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.PollsCreated.Inc()
	h.metrics.ObserveMutation("create_poll", start)
	writeData(w, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.GetPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, poll)
}

func (h *PollHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.GetResults(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, results)
}

func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req pollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	poll, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toForm())
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.PollsUpdated.Inc()
	h.metrics.ObserveMutation("update_poll", start)
	writeData(w, http.StatusOK, poll)
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	h.metrics.PollsDeleted.Inc()
	h.metrics.ObserveMutation("delete_poll", start)
	writeData(w, http.StatusOK, nil)
}
