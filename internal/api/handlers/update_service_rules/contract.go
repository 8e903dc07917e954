package update_service_rules

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/servicerules/models"
)

type ServiceRulesService interface {
	Update(ctx context.Context, id int64, req *models.UpdateRulesRequest) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
