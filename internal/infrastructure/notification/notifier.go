package notification

import (
	"context"

	"github.com/agencia/backend/internal/domain/notification"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RepositoryNotifier delivers notifications by persisting them through the
// notification repository. Delivery is fire-and-forget: failures are logged
// and never surface to the caller, so a broken notification path cannot
// fail a financial operation.
type RepositoryNotifier struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewRepositoryNotifier creates a new RepositoryNotifier
func NewRepositoryNotifier(repo notification.Repository, logger *zap.Logger) *RepositoryNotifier {
	return &RepositoryNotifier{repo: repo, logger: logger}
}

// Notify persists a notification record for the user
func (n *RepositoryNotifier) Notify(ctx context.Context, userID uuid.UUID, kind notification.Kind, message string, saleID *uuid.UUID) {
	record, err := notification.NewRecord(userID, kind, message, saleID)
	if err != nil {
		n.logger.Warn("dropping invalid notification",
			zap.String("user_id", userID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return
	}

	if err := n.repo.Save(ctx, record); err != nil {
		n.logger.Error("failed to deliver notification",
			zap.String("user_id", userID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}
