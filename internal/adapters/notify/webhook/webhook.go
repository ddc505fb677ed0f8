// Package webhook publica las decisiones de adopción como POST JSON
// (Slack/Zapier/un mailer propio, lo que esté del otro lado).
package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/platform/httpclient"
)

var _ adoptions.Notifier = (*Notifier)(nil)

type Notifier struct {
	client *httpclient.Client
	url    string
	now    func() time.Time
}

func New(url string, client *httpclient.Client) (*Notifier, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("webhook: url required")
	}
	if client == nil {
		client = httpclient.New(5 * time.Second)
		client.Retries = 2
	}
	return &Notifier{client: client, url: url, now: time.Now}, nil
}

type payload struct {
	Event         string    `json:"event"`
	ApplicationID string    `json:"application_id"`
	PetID         string    `json:"pet_id"`
	PetName       string    `json:"pet_name"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	SentAt        time.Time `json:"sent_at"`
}

func (n *Notifier) Notify(ctx context.Context, d adoptions.Decision) error {
	return n.client.DoJSON(ctx, http.MethodPost, n.url, nil, payload{
		Event:         "adoption." + string(d.Status),
		ApplicationID: d.ApplicationID,
		PetID:         d.PetID,
		PetName:       d.PetName,
		UserID:        d.UserID,
		Status:        string(d.Status),
		Notes:         d.Notes,
		SentAt:        n.now().UTC(),
	}, nil)
}
