package domain

import (
	"gorm.io/datatypes"
)

// UserRole represents the team a user belongs to
type UserRole string

const (
	RoleAdmin         UserRole = "Administrador"
	RoleService       UserRole = "Atendimento"
	RoleCreation      UserRole = "Criação"
	RolePreProduction UserRole = "Pré-Produção"
	RoleProduction    UserRole = "Produção"
	RoleTextReview    UserRole = "Revisão de Texto"
	RoleClient        UserRole = "Cliente"
)

// IsValid reports whether the role is known
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleService, RoleCreation, RolePreProduction, RoleProduction, RoleTextReview, RoleClient:
		return true
	}
	return false
}

// Permission keys checked by the API layer
const (
	PermDashboard         = "dashboard"
	PermContractsView     = "contratos_visualizar"
	PermContractsCreate   = "contratos_criar"
	PermContractsEdit     = "contratos_editar"
	PermContractsDelete   = "contratos_excluir"
	PermContractsApprove  = "contratos_aprovar"
	PermContractsFinalize = "contratos_finalizar"
	PermProjectsView      = "projetos_visualizar"
	PermProjectsAdvance   = "projetos_avancar"
	PermTasksView         = "tarefas_visualizar"
	PermTasksCreate       = "tarefas_criar"
	PermTasksEdit         = "tarefas_editar"
	PermTasksComplete     = "tarefas_concluir"
	PermTasksMove         = "tarefas_mover"
	PermAdmin             = "admin"
)

var permissionKeys = []string{
	PermDashboard,
	PermContractsView,
	PermContractsCreate,
	PermContractsEdit,
	PermContractsDelete,
	PermContractsApprove,
	PermContractsFinalize,
	PermProjectsView,
	PermProjectsAdvance,
	PermTasksView,
	PermTasksCreate,
	PermTasksEdit,
	PermTasksComplete,
	PermTasksMove,
	PermAdmin,
}

var memberPermissions = map[string]bool{
	PermDashboard:     true,
	PermContractsView: true,
	PermProjectsView:  true,
	PermTasksView:     true,
	PermTasksComplete: true,
}

// Permissions maps permission keys to grants
type Permissions map[string]bool

// PermissionKeys returns every known permission key
func PermissionKeys() []string {
	out := make([]string, len(permissionKeys))
	copy(out, permissionKeys)
	return out
}

// DefaultPermissions returns the grants of a new user
func DefaultPermissions(admin bool) Permissions {
	p := make(Permissions, len(permissionKeys))
	for _, k := range permissionKeys {
		p[k] = admin || memberPermissions[k]
	}
	return p
}

// User represents an operator of the workflow
type User struct {
	BaseModel
	Name         string                          `gorm:"type:varchar(255);not null;index:idx_users_name" json:"name"`
	Email        string                          `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string                          `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole                        `gorm:"type:varchar(50);not null;index:idx_users_role" json:"role"`
	Active       bool                            `gorm:"not null" json:"active"`
	Permissions  datatypes.JSONType[Permissions] `gorm:"type:jsonb" json:"permissions"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPermission reports whether the user may perform the action guarded by key
func (u *User) HasPermission(key string) bool {
	if !u.Active {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.Permissions.Data()[key]
}
