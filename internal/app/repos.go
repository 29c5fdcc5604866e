package app

import (
	"gorm.io/gorm"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	UserToken     repos.UserTokenRepo
	Strategy      repos.StrategyRepo
	ClientProfile repos.ClientProfileRepo
	Report        repos.ReportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserToken:     repos.NewUserTokenRepo(db, log),
		Strategy:      repos.NewStrategyRepo(db, log),
		ClientProfile: repos.NewClientProfileRepo(db, log),
		Report:        repos.NewReportRepo(db, log),
	}
}
