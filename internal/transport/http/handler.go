package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"gamebank/internal/engine"
	"gamebank/internal/model"
	"gamebank/internal/service"
)

// ArchiveReader serves the archive endpoint; implemented by repository.ArchiveRepo.
type ArchiveReader interface {
	History(ctx context.Context, sessionID string, limit int) ([]model.ArchivedTransaction, error)
}

// FeedReader serves the notification feed; implemented by repository.SnapshotCache.
type FeedReader interface {
	Notifications(ctx context.Context, sessionID string, limit int) ([]model.Notification, error)
}

type Handler struct {
	svc     service.WalletService
	archive ArchiveReader
	feed    FeedReader
}

// NewHandler builds the handler. archive and feed may be nil, in which case
// their endpoints answer 503.
func NewHandler(svc service.WalletService, archive ArchiveReader, feed FeedReader) *Handler {
	return &Handler{svc: svc, archive: archive, feed: feed}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /state", h.State)
	mux.HandleFunc("POST /transfer", h.Transfer)
	mux.HandleFunc("POST /topup", h.TopUp)
	mux.HandleFunc("POST /terminals", h.CreateTerminal)
	mux.HandleFunc("POST /terminals/{ref}/purchase", h.Purchase)
	mux.HandleFunc("GET /archive", h.Archive)
	mux.HandleFunc("GET /notifications", h.Notifications)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.svc.Snapshot(r.Context()))
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req model.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	res, err := h.svc.Transfer(r.Context(), req)
	if err != nil {
		h.respondOpError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		model.TopUpRequest
		Wait bool `json:"wait"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := h.svc.TopUp(r.Context(), req.TopUpRequest)
	if err != nil {
		h.respondOpError(w, err)
		return
	}
	h.respondPending(w, r, p, req.Wait)
}

func (h *Handler) CreateTerminal(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTerminalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	t, err := h.svc.CreateTerminal(r.Context(), req)
	if err != nil {
		h.respondOpError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, t)
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	// The body is optional; only "wait" is read from it.
	var body struct {
		Wait bool `json:"wait"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := h.svc.Purchase(r.Context(), model.PurchaseRequest{TerminalRef: r.PathValue("ref")})
	if err != nil {
		h.respondOpError(w, err)
		return
	}
	h.respondPending(w, r, p, body.Wait)
}

func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		h.respondError(w, http.StatusServiceUnavailable, "archive_disabled")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_limit")
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = h.svc.Snapshot(r.Context()).SessionID
	}
	rows, err := h.archive.History(r.Context(), sessionID, limit)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []model.ArchivedTransaction{}
	}
	h.respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		h.respondError(w, http.StatusServiceUnavailable, "feed_disabled")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_limit")
		return
	}
	feed, err := h.feed.Notifications(r.Context(), h.svc.Snapshot(r.Context()).SessionID, limit)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, feed)
}

// respondPending answers 202 with the handle, or blocks for the result when
// the client asked to wait.
func (h *Handler) respondPending(w http.ResponseWriter, r *http.Request, p *model.Pending, wait bool) {
	if !wait {
		h.respondJSON(w, http.StatusAccepted, p)
		return
	}
	tx, err := p.Wait(r.Context())
	if err != nil {
		h.respondError(w, http.StatusGatewayTimeout, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, tx)
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid limit")
	}
	return n, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownTerminal):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrClosed):
		return http.StatusServiceUnavailable
	case engine.Category(err) != "":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondOpError(w http.ResponseWriter, err error) {
	h.respondJSON(w, statusFor(err), map[string]string{
		"error":    err.Error(),
		"category": engine.Category(err),
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
