package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"

	"github.com/Thilas/plex-betaseries-webhook/internal/api/middleware"
	"github.com/Thilas/plex-betaseries-webhook/internal/config"
	"github.com/Thilas/plex-betaseries-webhook/internal/models"
	"github.com/Thilas/plex-betaseries-webhook/internal/services/betaseries"
	"github.com/sirupsen/logrus"
)

// Authenticator covers the BetaSeries OAuth operations the handlers need
type Authenticator interface {
	AuthenticationURL(client *config.ClientConfig) (string, error)
	GetUser(ctx context.Context, client *config.ClientConfig, code string) (*betaseries.User, error)
}

// Processor routes an inbound payload for an authenticated caller
type Processor interface {
	Process(ctx context.Context, client *config.ClientConfig, payload *models.Payload, user betaseries.User) error
}

// WebhookHandler serves the BetaSeries authentication flow and the Plex
// webhook endpoint
type WebhookHandler struct {
	cfg        *config.Config
	betaseries Authenticator
	processor  Processor
	logger     *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(cfg *config.Config, auth Authenticator, processor Processor, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		betaseries: auth,
		processor:  processor,
		logger:     logger,
	}
}

// Authorize handles GET /: it walks the caller through the BetaSeries OAuth
// flow and, once authenticated, displays the webhook URL to paste into Plex
func (h *WebhookHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	if principal.Client == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	if principal.User == nil {
		code := r.URL.Query().Get("code")
		if code == "" {
			authURL, err := h.betaseries.AuthenticationURL(principal.Client)
			if err != nil {
				h.serverError(w, r, err)
				return
			}
			http.Redirect(w, r, authURL, http.StatusFound)
			return
		}

		user, err := h.betaseries.GetUser(r.Context(), principal.Client, code)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		webhookURL, err := h.webhookURL(principal.Client, user)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		http.Redirect(w, r, webhookURL, http.StatusFound)
		return
	}

	h.displayUser(w, r, principal.Client, principal.User)
}

// Webhook handles POST /: the actual Plex webhook, a multipart form with
// the JSON payload in the "payload" field
func (h *WebhookHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	if !principal.Authenticated() {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	data := r.FormValue("payload")
	if data == "" {
		http.Error(w, "missing payload", http.StatusBadRequest)
		return
	}

	var payload models.Payload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		h.logger.WithError(err).Error("Failed to decode webhook payload")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.processor.Process(r.Context(), principal.Client, &payload, *principal.User); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"event":   payload.Event,
			"account": payload.AccountTitle(),
		}).Error("Failed to process webhook")
		http.Error(w, html.EscapeString(err.Error()), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// webhookURL builds the URL Plex should post webhooks to, carrying the
// account selector and access token
func (h *WebhookHandler) webhookURL(client *config.ClientConfig, user *betaseries.User) (string, error) {
	u, err := url.Parse(h.cfg.ServerURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse server URL: %w", err)
	}
	query := u.Query()
	query.Set("plexAccount", client.PlexAccount)
	query.Set("accessToken", user.AccessToken)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// displayUser renders the success page linking the webhook URL
func (h *WebhookHandler) displayUser(w http.ResponseWriter, r *http.Request, client *config.ClientConfig, user *betaseries.User) {
	webhookURL, err := h.webhookURL(client, user)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html>
<head>
<title>Plex Webhook for BetaSeries</title>
<link rel="icon" type="image/png" href="/favicon.ico">
</head>
<body>
Plex webhook for %s: <a href="%s">%s</a>
</body>
</html>`, html.EscapeString(user.Login), html.EscapeString(webhookURL), html.EscapeString(webhookURL))
}

// serverError logs an unhandled error with full request context and renders
// it HTML-escaped to the caller
func (h *WebhookHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	message := fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path)
	h.logger.WithError(err).Errorf("%s", message)
	h.logger.WithField("headers", r.Header).Debug("Request headers")
	http.Error(w, html.EscapeString(fmt.Sprintf("%s: %v", message, err)), http.StatusInternalServerError)
}
