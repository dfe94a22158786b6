package wallet

import (
	"context"

	"tuplepay/internal/models"
	"tuplepay/internal/services/notification"
)

type noopStatementCache struct{}

func (noopStatementCache) GetAccount(context.Context, string) (*models.Account, bool, error) {
	return nil, false, nil
}

func (noopStatementCache) CacheAccount(context.Context, *models.Account) error {
	return nil
}

func (noopStatementCache) InvalidateAccounts(context.Context, ...string) error {
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, notification.Message) error {
	return nil
}
