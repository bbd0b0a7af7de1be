// Package push delivers web-push payloads signed with the server's VAPID
// key pair.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	PublicKey  string
	PrivateKey string
	// Subject is the contact the push service may reach, usually mailto:.
	Subject string
	TTL     int
}

type Sender struct {
	cfg    Config
	client *http.Client
}

var _ ports.PushSender = (*Sender)(nil)

func NewSender(cfg Config, client *http.Client) *Sender {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Sender{cfg: cfg, client: client}
}

// Configured reports whether a VAPID key pair is available.
func (s *Sender) Configured() bool {
	return s.cfg.PublicKey != "" && s.cfg.PrivateKey != ""
}

func (s *Sender) Send(ctx context.Context, subscription domain.PushSubscription, message domain.PushMessage) error {
	if !s.Configured() {
		return fmt.Errorf("%w: vapid keys are not configured", domain.ErrPushDelivery)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	// webpush-go prepends the mailto: scheme itself.
	subscriber := strings.TrimPrefix(s.cfg.Subject, "mailto:")

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: subscription.Endpoint,
		Keys: webpush.Keys{
			Auth:   subscription.Auth,
			P256dh: subscription.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      subscriber,
		TTL:             s.cfg.TTL,
		Urgency:         webpush.UrgencyNormal,
		VAPIDPublicKey:  s.cfg.PublicKey,
		VAPIDPrivateKey: s.cfg.PrivateKey,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPushDelivery, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w: status %d", domain.ErrSubscriptionGone, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%w: status %d", domain.ErrPushDelivery, resp.StatusCode)
	}
	return nil
}

// GenerateKeys returns a fresh VAPID key pair, private key first.
func GenerateKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}
