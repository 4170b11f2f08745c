// AngelaMos | 2026
// authz_test.go

package authz

import (
	"testing"
)

func TestAllows(t *testing.T) {
	owner := Actor{UserID: "u1", Role: "user"}
	stranger := Actor{UserID: "u2", Role: "user"}
	admin := Actor{UserID: "root", Role: "admin"}
	resource := Resource{OwnerID: "u1"}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		want   bool
	}{
		{name: "owner updates", actor: owner, action: ActionUpdate, want: true},
		{name: "stranger cannot update", actor: stranger, action: ActionUpdate, want: false},
		// Updating stays owner-only even for admins.
		{name: "admin cannot update", actor: admin, action: ActionUpdate, want: false},

		{name: "owner deletes", actor: owner, action: ActionDelete, want: true},
		{name: "admin deletes", actor: admin, action: ActionDelete, want: true},
		{name: "stranger cannot delete", actor: stranger, action: ActionDelete, want: false},

		{name: "admin moderates", actor: admin, action: ActionModerate, want: true},
		{name: "owner cannot moderate", actor: owner, action: ActionModerate, want: false},

		{name: "admin promotes", actor: admin, action: ActionPromote, want: true},
		{name: "user cannot promote", actor: owner, action: ActionPromote, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allows(tt.actor, resource, tt.action); got != tt.want {
				t.Errorf("Allows(%s, %s) = %v, want %v", tt.actor.Role, tt.action, got, tt.want)
			}
		})
	}
}

func TestAllowsUnknownAction(t *testing.T) {
	admin := Actor{UserID: "root", Role: "admin"}
	if Allows(admin, Resource{}, Action("publish")) {
		t.Error("unknown actions must be denied")
	}
}
