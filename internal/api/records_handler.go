package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/feedsieve/internal/domain"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
	"github.com/phrazzld/feedsieve/internal/store"
)

// defaultStatsDays is the stats window when no days parameter is given.
const defaultStatsDays = 7

// RecordsHandler serves the outcome ledger query API.
type RecordsHandler struct {
	outcomes store.OutcomeStore
	logger   *slog.Logger
}

// NewRecordsHandler creates a records handler.
func NewRecordsHandler(outcomes store.OutcomeStore, log *slog.Logger) *RecordsHandler {
	if outcomes == nil {
		panic("outcome store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &RecordsHandler{
		outcomes: outcomes,
		logger:   log.With(slog.String("component", "records_handler")),
	}
}

// List handles GET /api/records requests. Supported query parameters:
// disposition, search (title substring), page, page_size.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	query := r.URL.Query()

	filter := store.ListFilter{
		Search: query.Get("search"),
	}

	if raw := query.Get("disposition"); raw != "" {
		disposition := domain.Disposition(raw)
		switch disposition {
		case domain.DispositionUseful, domain.DispositionUseless,
			domain.DispositionFailed, domain.DispositionSkipped:
			filter.Disposition = disposition
		default:
			RespondWithError(w, http.StatusBadRequest, "unknown disposition: "+raw)
			return
		}
	}

	// Out-of-range values are normalized by the store.
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.PageSize, _ = strconv.Atoi(query.Get("page_size"))

	page, err := h.outcomes.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list outcome records", slog.String("error", err.Error()))
		RespondWithError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	RespondWithJSON(w, http.StatusOK, page)
}

// Stats handles GET /api/records/stats requests. The optional days
// query parameter sets the aggregation window.
func (h *RecordsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	days := defaultStatsDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondWithError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	stats, err := h.outcomes.Stats(r.Context(), since)
	if err != nil {
		log.Error("failed to aggregate outcome stats", slog.String("error", err.Error()))
		RespondWithError(w, http.StatusInternalServerError, "failed to aggregate stats")
		return
	}

	RespondWithJSON(w, http.StatusOK, stats)
}
