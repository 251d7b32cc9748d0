package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/planora/server/internal/config"
)

// ResendPublisher delivers digests directly to the owner's inbox through
// the Resend API, as an alternative to routing through a topic.
type ResendPublisher struct {
	client *resend.Client
	from   string
}

func NewResendPublisher(cfg config.NotifyConfig) (*ResendPublisher, error) {
	if cfg.ResendKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is required for the email notify backend")
	}
	return &ResendPublisher{
		client: resend.NewClient(cfg.ResendKey),
		from:   cfg.EmailFrom,
	}, nil
}

func (p *ResendPublisher) Publish(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    p.from,
		To:      []string{msg.Recipient},
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	_, err := p.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			return fmt.Errorf("email rate limit exceeded (limit: %s, resets in: %s seconds): %w",
				rateLimitErr.Limit, rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}
	return nil
}
