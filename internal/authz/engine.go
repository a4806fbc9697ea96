package authz

import (
	"strings"

	"autoshop-system/internal/entities"
	"autoshop-system/pkg/utils"
)

type Context struct {
	Actor             utils.Actor
	Permissions       map[string]bool
	Target            interface{}
	CurrentPermission string
}

// NewContext собирает контекст проверки для роли актора.
func NewContext(actor utils.Actor, target interface{}) Context {
	return Context{Actor: actor, Permissions: PermissionsFor(actor.Role), Target: target}
}

func (c *Context) HasPermission(permission string) bool {
	if c.Permissions == nil {
		return false
	}
	return c.Permissions[permission]
}

func getAction(permission string) string {
	parts := strings.Split(permission, ":")
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}

func sameID(a *uint64, b uint64) bool {
	return a != nil && *a == b
}

// canAccessRepair: клиент видит только ремонты своих машин,
// механик видит все, а меняет только назначенные ему.
func canAccessRepair(ctx Context, target *entities.RepairTicket) bool {
	actor := ctx.Actor
	if actor.CustomerID != nil {
		return getAction(ctx.CurrentPermission) == "view" && sameID(actor.CustomerID, target.CustomerID)
	}
	if getAction(ctx.CurrentPermission) == "view" || ctx.CurrentPermission == RepairsClaim {
		return true
	}
	return target.MechanicID != nil && sameID(actor.EmployeeID, *target.MechanicID)
}

func CanDo(permission string, ctx Context) bool {
	ctx.CurrentPermission = permission

	if ctx.HasPermission(Superuser) {
		return true
	}
	if !ctx.HasPermission(permission) {
		return false
	}
	if ctx.Target == nil || ctx.HasPermission(ScopeAll) {
		return true
	}

	// Дальше только ScopeOwn.
	switch target := ctx.Target.(type) {
	case *entities.RepairTicket:
		return canAccessRepair(ctx, target)
	case *entities.Appointment:
		return sameID(ctx.Actor.CustomerID, target.CustomerID)
	case *entities.Customer:
		return sameID(ctx.Actor.CustomerID, target.ID)
	case *entities.Vehicle:
		return sameID(ctx.Actor.CustomerID, target.CustomerID)
	}
	return false
}
