package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/data/repos/auth"
	"github.com/yungbote/mindtrack-backend/internal/data/repos/checkin"
	"github.com/yungbote/mindtrack-backend/internal/data/repos/user"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo
type CheckInRepo = checkin.CheckInRepo
type ReportExportRepo = checkin.ReportExportRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewCheckInRepo(db *gorm.DB, baseLog *logger.Logger) CheckInRepo {
	return checkin.NewCheckInRepo(db, baseLog)
}

func NewReportExportRepo(db *gorm.DB, baseLog *logger.Logger) ReportExportRepo {
	return checkin.NewReportExportRepo(db, baseLog)
}
