package http

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pollwise/api/internal/core/ports"
	"github.com/pollwise/api/internal/metrics"
)

type VoteHandler struct {
	service ports.VoteService
	metrics *metrics.Metrics
}

func NewVoteHandler(service ports.VoteService, m *metrics.Metrics) *VoteHandler {
	return &VoteHandler{service: service, metrics: m}
}

type voteRequest struct {
	OptionID string `json:"option_id"`
}

func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// The voter address is captured here, at the boundary; the core never
	// synthesizes one.
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	form := ports.VoteForm{
		PollID:   chi.URLParam(r, "id"),
		OptionID: req.OptionID,
		VoterIP:  ip,
	}
	if err := h.service.Submit(r.Context(), form); err != nil {
		writeError(w, err)
		return
	}

	h.metrics.VotesSubmitted.Inc()
	h.metrics.ObserveMutation("submit_vote", start)
	writeData(w, http.StatusCreated, nil)
}
