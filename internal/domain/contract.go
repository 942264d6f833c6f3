package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContractStatus represents the lifecycle state of a contract
type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "Ativo"
	ContractStatusInProgress ContractStatus = "Em Andamento"
	ContractStatusFinalized  ContractStatus = "Finalizado"
	ContractStatusClosed     ContractStatus = "Encerrado"
)

// IsValid reports whether the status is known
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusInProgress, ContractStatusFinalized, ContractStatusClosed:
		return true
	}
	return false
}

// Contract represents a production contract signed with a client
type Contract struct {
	BaseModel
	Number      int            `gorm:"not null;index:idx_contracts_number" json:"number"`
	Client      string         `gorm:"type:varchar(255);not null" json:"client"`
	Institution string         `gorm:"type:varchar(255)" json:"institution"`
	Term        string         `gorm:"type:varchar(50)" json:"term"`
	Value       float64        `gorm:"not null" json:"value"`
	StartDate   time.Time      `gorm:"type:timestamp;not null" json:"start_date"`
	EndDate     time.Time      `gorm:"type:timestamp;not null" json:"end_date"`
	Status      ContractStatus `gorm:"type:varchar(50);not null;default:'Ativo';index:idx_contracts_status" json:"status"`
	ProjectID   *uuid.UUID     `gorm:"type:uuid;index:idx_contracts_project_id" json:"project_id,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}
