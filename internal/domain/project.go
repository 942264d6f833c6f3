package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RiskLevel is the risk tier computed for a project
type RiskLevel string

const (
	RiskLow    RiskLevel = "Baixo"
	RiskMedium RiskLevel = "Médio"
	RiskHigh   RiskLevel = "Alto"
)

// Default owners assigned to new projects
const (
	DefaultAccountManager = "Keyla Nascimento"
	DefaultDesigner       = "Marcos Letro"
)

// Project represents the production workflow attached to a contract
type Project struct {
	BaseModel
	ContractID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_projects_contract_id" json:"contract_id"`
	CurrentStage   Stage      `gorm:"type:varchar(100);not null;index:idx_projects_stage" json:"current_stage"`
	MacroStage     MacroStage `gorm:"type:varchar(50);not null;index:idx_projects_macro_stage" json:"macro_stage"`
	Progress       float64    `gorm:"not null;default:0" json:"progress"`
	Risk           RiskLevel  `gorm:"type:varchar(20);not null;default:'Baixo';index:idx_projects_risk" json:"risk"`
	DeliveryDate   time.Time  `gorm:"type:timestamp;not null" json:"delivery_date"`
	AccountManager string     `gorm:"type:varchar(255)" json:"account_manager"`
	Designer       string     `gorm:"type:varchar(255)" json:"designer"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// AfterFind keeps the macro-stage consistent with the stage for rows written
// before the column existed
func (p *Project) AfterFind(tx *gorm.DB) error {
	if p.MacroStage == "" {
		p.MacroStage = p.CurrentStage.Macro()
	}
	if p.Risk == "" {
		p.Risk = RiskLow
	}
	return nil
}

// MoveTo sets the stage and its derived macro-stage
func (p *Project) MoveTo(stage Stage) {
	p.CurrentStage = stage
	p.MacroStage = stage.Macro()
}
