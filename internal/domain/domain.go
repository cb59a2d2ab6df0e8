package domain

import (
	"github.com/yungbote/mindtrack-backend/internal/domain/auth"
	"github.com/yungbote/mindtrack-backend/internal/domain/checkin"
	"github.com/yungbote/mindtrack-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type CheckIn = checkin.CheckIn
type ReportExport = checkin.ReportExport

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&UserToken{},
		&CheckIn{},
		&ReportExport{},
	}
}
