package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naturburst/naturburst.com-sub000/internal/broker"
	"github.com/naturburst/naturburst.com-sub000/internal/models"
	"github.com/naturburst/naturburst.com-sub000/internal/util"
)

// ContactFormConfig names the third-party form-collection endpoint and its
// opaque field ids.
type ContactFormConfig struct {
	FormURL      string
	NameFieldID  string
	EmailFieldID string
	BodyFieldID  string
}

// ContactMessage is one contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// ContactService relays contact form submissions to the external form
// provider. Delivery is fire-and-forget: the provider surfaces no
// confirmation, so the relay reports only whether the request was sent.
type ContactService struct {
	cfg       ContactFormConfig
	client    *http.Client
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewContactService creates a new contact service
func NewContactService(cfg ContactFormConfig, publisher *broker.EventPublisher) *ContactService {
	return &ContactService{
		cfg:       cfg,
		client:    &http.Client{Timeout: 10 * time.Second},
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Relay posts the submission to the form provider. A relay failure is caught
// here and reported as a status; it is never propagated as a server error.
func (s *ContactService) Relay(ctx context.Context, sessionID string, msg ContactMessage) bool {
	ctx, span := util.StartSpan(ctx, "ContactService.Relay")
	defer span.End()

	delivered := s.post(ctx, msg)
	if delivered {
		util.ContactRelaysTotal.Inc()
	} else {
		util.ContactRelaysFailed.Inc()
	}

	if s.publisher != nil {
		event := &models.ContactSubmittedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeContactSubmitted,
				Timestamp: time.Now(),
			},
			SessionID: sessionID,
			Name:      msg.Name,
			Email:     msg.Email,
			Delivered: delivered,
		}
		if err := s.publisher.PublishContactSubmitted(ctx, event); err != nil {
			s.logger.Error("Failed to publish ContactSubmitted event", zap.Error(err))
		}
	}

	return delivered
}

func (s *ContactService) post(ctx context.Context, msg ContactMessage) bool {
	if s.cfg.FormURL == "" {
		s.logger.Warn("No contact form endpoint configured, dropping submission")
		return false
	}

	form := url.Values{}
	form.Set(s.cfg.NameFieldID, msg.Name)
	form.Set(s.cfg.EmailFieldID, msg.Email)
	form.Set(s.cfg.BodyFieldID, msg.Message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.FormURL, strings.NewReader(form.Encode()))
	if err != nil {
		s.logger.Error("Failed to build contact relay request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Contact relay request failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	// Form providers answer opaquely; anything but a server error counts as
	// sent, matching the provider's no-confirmation mode.
	return resp.StatusCode < http.StatusInternalServerError
}
