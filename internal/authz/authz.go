// AngelaMos | 2026
// authz.go

// Package authz centralizes permission decisions so handlers and
// services never compare role strings inline.
package authz

type Actor struct {
	UserID string
	Role   string
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Action string

const (
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionModerate Action = "moderate"
	ActionPromote  Action = "promote"
)

// Resource is anything with an owner. Ownerless resources pass an empty
// owner ID and are governed purely by role.
type Resource struct {
	OwnerID string
}

func (a Actor) IsAuthenticated() bool {
	return a.UserID != ""
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Allows is the single capability check. The rules mirror the product's
// asymmetries: poll updates are owner-only (admins get no bypass),
// deletes allow either the owner or an admin, and moderation/promotion
// are admin-only.
func Allows(actor Actor, resource Resource, action Action) bool {
	if !actor.IsAuthenticated() {
		return false
	}

	switch action {
	case ActionUpdate:
		return actor.UserID == resource.OwnerID
	case ActionDelete:
		return actor.UserID == resource.OwnerID || actor.IsAdmin()
	case ActionModerate, ActionPromote:
		return actor.IsAdmin()
	default:
		return false
	}
}
