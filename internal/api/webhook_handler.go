package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/feedsieve/internal/domain"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
	"github.com/phrazzld/feedsieve/internal/store"
)

// maxPayloadBytes bounds the webhook request body.
const maxPayloadBytes = 1 << 20

// NotificationRequest is the webhook payload delivered by the feed
// reader when a new entry appears.
type NotificationRequest struct {
	Entry NotificationEntry `json:"entry" validate:"required"`
	Feed  NotificationFeed  `json:"feed" validate:"required"`
	View  string            `json:"view"`
}

// NotificationEntry carries the feed entry itself.
type NotificationEntry struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
	URL     string `json:"url" validate:"required,url"`
}

// NotificationFeed identifies the originating feed.
type NotificationFeed struct {
	URL string `json:"url" validate:"required"`
}

// queuedResponse acknowledges an accepted notification.
type queuedResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// WebhookHandler accepts feed notifications and enqueues them as work items.
type WebhookHandler struct {
	queue      store.WorkItemStore
	maxRetries int
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewWebhookHandler creates a webhook handler. maxRetries is stamped
// onto each enqueued item from the queue configuration.
func NewWebhookHandler(queue store.WorkItemStore, maxRetries int, log *slog.Logger) *WebhookHandler {
	if queue == nil {
		panic("queue store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &WebhookHandler{
		queue:      queue,
		maxRetries: maxRetries,
		validator:  validator.New(),
		logger:     log.With(slog.String("component", "webhook_handler")),
	}
}

// HandleNotification handles POST /api/webhook/{secret} requests.
// Any failure yields an empty 404; callers probing the endpoint learn
// nothing from the response.
func (h *WebhookHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req NotificationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		log.Warn("webhook payload not decodable", slog.String("error", err.Error()))
		RespondNotFound(w)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		log.Warn("webhook payload failed validation", slog.String("error", err.Error()))
		RespondNotFound(w)
		return
	}

	item, err := domain.NewWorkItem(req.Feed.URL, req.Entry.Title, req.Entry.Content, req.Entry.URL, h.maxRetries)
	if err != nil {
		log.Warn("webhook payload produced invalid work item", slog.String("error", err.Error()))
		RespondNotFound(w)
		return
	}

	if err := h.queue.Enqueue(r.Context(), item); err != nil {
		if store.IsDuplicateError(err) {
			log.Info("duplicate notification ignored",
				slog.String("article_url", item.ArticleURL))
		} else {
			log.Error("failed to enqueue work item",
				slog.String("error", err.Error()),
				slog.String("article_url", item.ArticleURL))
		}
		RespondNotFound(w)
		return
	}

	log.Info("notification queued",
		slog.String("item_id", item.ID.String()),
		slog.String("source_url", item.SourceURL),
		slog.String("title", item.Title))

	RespondWithJSON(w, http.StatusOK, queuedResponse{
		Status: "queued",
		ID:     item.ID.String(),
	})
}
