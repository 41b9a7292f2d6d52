package session

import (
	"context"

	"studyhub/backend/models"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("session: not found")

// Store keeps in-progress practice tests and their results for a limited time.
type Store interface {
	SaveSession(ctx context.Context, s *models.TestSession) error
	GetSession(ctx context.Context, id string) (*models.TestSession, error)
	DeleteSession(ctx context.Context, id string) error
	SaveResult(ctx context.Context, r *models.TestResult) error
	GetResult(ctx context.Context, id string) (*models.TestResult, error)
	// Lock blocks until the caller holds the session exclusively. The returned
	// func releases it.
	Lock(ctx context.Context, id string) (func(), error)
}
