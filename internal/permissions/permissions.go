// Package permissions holds the static capability table that gates every
// protected operation. The table is defined at load time and never mutated;
// resolution is pure apart from a warning log on unknown resource/action pairs.
package permissions

import (
	"github.com/rs/zerolog"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleHelpdesk   Role = "helpdesk"
	RoleSupport    Role = "support"
	RoleUser       Role = "user"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleHelpdesk, RoleSupport, RoleUser:
		return true
	}
	return false
}

const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

const (
	ResourceSedes      = "sedes"
	ResourcePersonal   = "personal"
	ResourceInventario = "inventario"
	ResourceRemitos    = "remitos"
	ResourceVisitas    = "visitas"
	ResourceUsuarios   = "usuarios"
)

// Domain-specific actions outside the CRUD set.
const (
	ActionEnviarAviso = "enviar_aviso"
	ActionDevolver    = "devolver"
)

// Table maps resource -> action -> roles allowed. super_admin is deliberately
// absent: it bypasses the table entirely in Allowed.
var Table = map[string]map[string][]Role{
	ResourceSedes: {
		ActionCreate: {},
		ActionRead:   {RoleHelpdesk, RoleSupport, RoleUser},
		ActionUpdate: {RoleHelpdesk},
		ActionDelete: {},
	},
	ResourcePersonal: {
		ActionCreate: {RoleHelpdesk},
		ActionRead:   {RoleHelpdesk, RoleSupport, RoleUser},
		ActionUpdate: {RoleHelpdesk},
		ActionDelete: {},
	},
	ResourceInventario: {
		ActionCreate: {RoleHelpdesk, RoleSupport},
		ActionRead:   {RoleHelpdesk, RoleSupport, RoleUser},
		ActionUpdate: {RoleHelpdesk, RoleSupport},
		ActionDelete: {RoleHelpdesk},
	},
	ResourceRemitos: {
		ActionCreate:   {RoleHelpdesk, RoleSupport},
		ActionRead:     {RoleHelpdesk, RoleSupport, RoleUser},
		ActionUpdate:   {RoleHelpdesk, RoleSupport},
		ActionDelete:   {},
		ActionDevolver: {RoleHelpdesk, RoleSupport},
	},
	ResourceVisitas: {
		ActionCreate:      {RoleHelpdesk},
		ActionRead:        {RoleHelpdesk, RoleSupport, RoleUser},
		ActionUpdate:      {RoleHelpdesk},
		ActionDelete:      {RoleHelpdesk},
		ActionEnviarAviso: {RoleHelpdesk},
	},
	ResourceUsuarios: {
		ActionCreate: {},
		ActionRead:   {},
		ActionUpdate: {},
		ActionDelete: {},
	},
}

var warn zerolog.Logger = zerolog.Nop()

// SetLogger installs the logger used for unknown resource/action warnings.
func SetLogger(l zerolog.Logger) {
	warn = l
}

// Allowed resolves (role, resource, action). Unknown pairs deny by default.
func Allowed(role Role, resource, action string) bool {
	if role == "" {
		return false
	}
	if role == RoleSuperAdmin {
		return true
	}

	actions, ok := Table[resource]
	if !ok {
		warn.Warn().Str("resource", resource).Str("action", action).
			Msg("permission check against unknown resource")
		return false
	}
	roles, ok := actions[action]
	if !ok {
		warn.Warn().Str("resource", resource).Str("action", action).
			Msg("permission check against unknown action")
		return false
	}

	for _, allowed := range roles {
		if allowed == role {
			return true
		}
	}
	return false
}

func CanCreate(role Role, resource string) bool { return Allowed(role, resource, ActionCreate) }
func CanRead(role Role, resource string) bool   { return Allowed(role, resource, ActionRead) }
func CanUpdate(role Role, resource string) bool { return Allowed(role, resource, ActionUpdate) }
func CanDelete(role Role, resource string) bool { return Allowed(role, resource, ActionDelete) }

// For expands the table into the per-user permission map shipped to clients:
// resource -> action -> bool.
func For(role Role) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(Table))
	for resource, actions := range Table {
		out[resource] = make(map[string]bool, len(actions))
		for action := range actions {
			out[resource][action] = Allowed(role, resource, action)
		}
	}
	return out
}
