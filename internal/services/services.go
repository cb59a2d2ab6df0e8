package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/platform/ctxutil"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 100
)

// requestUserID returns the authenticated caller or ErrUnauthorized.
func requestUserID(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("request data not set in context: %w", pkgerrors.ErrUnauthorized)
	}
	return rd.UserID, nil
}

// ClampLimit applies the default when limit is unset and caps it at max.
func ClampLimit(limit, def, max int) int {
	if def <= 0 {
		def = DefaultHistoryLimit
	}
	if max <= 0 {
		max = MaxHistoryLimit
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}
