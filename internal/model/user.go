package model

import "strings"

type Role string

const (
	RoleManager         Role = "Manager"
	RoleWarehouseKeeper Role = "WarehouseKeeper"
	RoleFabricCutter    Role = "FabricCutter"
	RoleColoringWorker  Role = "ColoringWorker"
	RoleMoldingWorker   Role = "MoldingWorker"
	RoleAssembler       Role = "Assembler"
)

type User struct {
	ID        string `db:"id" json:"id"`
	FirstName string `db:"firstname" json:"firstname"`
	LastName  string `db:"lastname" json:"lastname"`
	Username  string `db:"username" json:"username"`
	Roles     []Role `db:"-" json:"roles"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) HasRole(r Role) bool {
	for _, role := range u.Roles {
		if role == r {
			return true
		}
	}
	return false
}
