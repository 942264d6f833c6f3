package handler

import (
	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
)

// SchemaDocumentation references types that only appear nested inside other
// responses so swag emits their definitions.
type SchemaDocumentation struct {
	LogEntry     dto.LogEntry        `json:"logEntry"`
	Alert        domain.Alert        `json:"alert"`
	Notification domain.Notification `json:"notification"`
	StageInfo    dto.StageInfo       `json:"stageInfo"`
}

// GetSchemaDocumentation is never routed
// @Summary      Schema Documentation (Not a real endpoint)
// @Description  Documents nested schemas only.
// @Tags         internal
// @Produce      json
// @Success      200 {object} SchemaDocumentation
// @Router       /internal/schemas [get]
func GetSchemaDocumentation() {}
