package email

import (
	"context"
	"log/slog"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// MockSMTPNotifier is a secondary adapter that mocks sending emails.
// It implements the ports.Notifier interface.
type MockSMTPNotifier struct {
	logger *slog.Logger
}

// NewMockSMTPNotifier creates a new mock notifier.
func NewMockSMTPNotifier(logger *slog.Logger) ports.Notifier {
	return &MockSMTPNotifier{
		logger: logger.With("component", "email_notifier"),
	}
}

// NotifyInvite logs the invitation to the console instead of sending an
// email. Callers treat delivery as fire-and-forget; a lost email is
// recoverable through the in-app invite inbox.
func (n *MockSMTPNotifier) NotifyInvite(ctx context.Context, invite *domain.Invite, league *domain.League) {
	n.logger.Info("mock invite email sent",
		"to_email", invite.Email,
		"league_id", invite.LeagueID,
		"league_name", league.Name,
		"invite_id", invite.ID.Hex(),
	)
}
