package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/response"
)

// Action names reported in operation envelopes and blocked-operation metrics
const (
	ActionCreateContract   = "criar_contrato"
	ActionUpdateContract   = "atualizar_contrato"
	ActionApproveContract  = "aprovar_contrato"
	ActionFinalizeContract = "finalizar_contrato"
	ActionDeleteContract   = "excluir_contrato"
	ActionUpdateProject    = "atualizar_projeto"
	ActionAdvanceStage     = "avancar_etapa"
	ActionFinalizeProject  = "finalizar_projeto"
	ActionCreateTask       = "criar_tarefa"
	ActionUpdateTask       = "atualizar_tarefa"
	ActionMoveTask         = "mover_tarefa"
	ActionDeleteTask       = "excluir_tarefa"
)

// lookupError maps a repository lookup failure to a NOT_FOUND or INTERNAL_ERROR AppError
func lookupError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError(entity+" not found", "")
	}
	return response.NewAppError(response.ErrCodeInternal, "Failed to load "+entity, err.Error())
}

func internalError(message string, err error) error {
	return response.NewAppError(response.ErrCodeInternal, message, err.Error())
}

// validatePeriod rejects a non-positive value or an end date not after the start date
func validatePeriod(value float64, start, end time.Time) error {
	if value <= 0 {
		return response.NewValidationError("Value must be greater than zero", "")
	}
	if !end.After(start) {
		return response.NewValidationError("End date must be after start date", "")
	}
	return nil
}

// block marks result as rejected by a business rule; blocked outcomes are expected
// and logged at Info
func block(result *dto.OperationResult, reason string, m *metrics.Metrics, logger *zap.Logger) *dto.OperationResult {
	m.RecordBlockedOperation(result.ActionName)
	logger.Info("Operation blocked",
		zap.String("action", result.ActionName),
		zap.String("reason", reason),
	)
	return result.Block(reason)
}
