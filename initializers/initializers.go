package initializers

import (
	"context"
	"sabbatical-backend/config"
	"sabbatical-backend/fiberlog"
	"sabbatical-backend/lib/application"
	applicationhistory "sabbatical-backend/lib/application-history"
	approvaltask "sabbatical-backend/lib/approval-task"
	datechange "sabbatical-backend/lib/date-change"
	xlsexport "sabbatical-backend/lib/export/xls"
	legacyimport "sabbatical-backend/lib/legacy-import"
	"sabbatical-backend/lib/notification"
	"sabbatical-backend/lib/rbac"
	connectionhub "sabbatical-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

// InitAllServices wires the handlers. Order matters: each NewHandler reads the instances above it.
func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	InitDirectory(ctx)
	connectionhub.Init()
	rbac.NewHandler()
	xlsexport.NewHandler()
	notification.NewHandler()
	application.NewHandler()
	approvaltask.NewHandler()
	applicationhistory.NewHandler()
	datechange.NewHandler()
	legacyimport.NewHandler()
}
