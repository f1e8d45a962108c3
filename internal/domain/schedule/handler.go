package schedule

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/middleware"
	"github.com/tnwnrrl/schedule/internal/pkg/response"
)

// Handler handles schedule HTTP requests
type Handler struct {
	service   *Service
	feed      FeedSource
	feedToken string
}

// NewHandler creates schedule handler
func NewHandler(service *Service, feed FeedSource, feedToken string) *Handler {
	return &Handler{service: service, feed: feed, feedToken: feedToken}
}

// MonthView handles GET /schedule/{month}
func (h *Handler) MonthView(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	view, err := h.service.MonthView(r.Context(), month, middleware.IsAdmin(r.Context()))
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) {
			response.BadRequest(w, "Month must be in YYYY-MM format")
			return
		}
		log.Error().Err(err).Str("month", month).Msg("failed to build month view")
		response.InternalError(w)
		return
	}

	response.OK(w, view)
}

// Performances handles GET /performances
func (h *Handler) Performances(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.Performances(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list performances")
		response.InternalError(w)
		return
	}
	response.OK(w, views)
}

// EnsureMonth handles POST /schedule/{month}/ensure
func (h *Handler) EnsureMonth(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	dates, err := h.service.EnsureMonth(r.Context(), month)
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) {
			response.BadRequest(w, "Month must be in YYYY-MM format")
			return
		}
		log.Error().Err(err).Str("month", month).Msg("failed to ensure month slots")
		response.InternalError(w)
		return
	}

	resp := make([]PerformanceDateResponse, 0, len(dates))
	for _, pd := range dates {
		resp = append(resp, PerformanceDateResponseFromEntity(pd))
	}
	response.OK(w, resp)
}

// Feed handles GET /schedule/feed.ics. The token travels in the URL
// because calendar subscribers cannot set headers.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	if h.feedToken == "" {
		response.Error(w, http.StatusInternalServerError, "NOT_CONFIGURED", "Feed token is not configured")
		return
	}
	token := r.URL.Query().Get("token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.feedToken)) != 1 {
		response.Unauthorized(w, "Invalid feed token")
		return
	}

	feed, err := BuildICSFeed(r.Context(), h.feed)
	if err != nil {
		log.Error().Err(err).Msg("failed to build ics feed")
		response.InternalError(w)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed))
}
