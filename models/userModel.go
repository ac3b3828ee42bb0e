// backend/models/userModel.go
package models

import "gorm.io/gorm"

// Role identifica o nível de acesso de um utilizador.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleGestor Role = "gestor"
)

// Display devolve o nome do papel tal como é apresentado e registado nos logs.
func (r Role) Display() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleGestor:
		return "Gestor"
	default:
		return "Utilizador"
	}
}

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"not null;default:'gestor'" json:"role"` // Roles: admin, gestor
}
