// Package policy centralizes the ownership rules applied to cotisations,
// groups and transactions.
//
// Administrators (admin and super-admin) may act on any resource. Other
// users may only act on resources they own, where ownership is the
// reference returned by [Ownable.OwnerID]: the member of a cotisation, the
// owner of a group or the creator of a transaction.
package policy

import (
	"errors"

	"github.com/seguikro/cotisations/models"
)

// ErrForbidden is returned when the caller may not act on a resource.
var ErrForbidden = errors.New("not authorized to access this resource")

// Ownable is implemented by every resource subject to ownership checks.
type Ownable interface {
	OwnerID() string
}

// CanManage reports whether identity may modify or delete resource.
func CanManage(identity models.User, resource Ownable) bool {
	if identity.IsAdmin() {
		return true
	}
	if resource == nil || identity.ID == "" {
		return false
	}
	return resource.OwnerID() == identity.ID
}

// CanActFor reports whether identity may read or write data belonging to
// memberID, e.g. per-member listings.
func CanActFor(identity models.User, memberID string) bool {
	return identity.IsAdmin() || (identity.ID != "" && identity.ID == memberID)
}

// CanViewCotisation allows the member and administrators.
func CanViewCotisation(identity models.User, c models.Cotisation) bool {
	return CanManage(identity, c)
}

// CanViewGroup allows members, the owner and administrators.
func CanViewGroup(identity models.User, g models.Group) bool {
	return identity.IsAdmin() || g.HasMember(identity.ID)
}

// CanViewTransaction allows the creator, the member the entry concerns
// and administrators.
func CanViewTransaction(identity models.User, t models.Transaction) bool {
	return identity.IsAdmin() || t.Concerns(identity.ID)
}

// CanRemoveMember extends [CanManage] on the group: any member may remove
// themselves.
func CanRemoveMember(identity models.User, g models.Group, userID string) bool {
	return CanManage(identity, g) || (identity.ID != "" && identity.ID == userID)
}

// Authorize returns [ErrForbidden] unless allowed.
func Authorize(allowed bool) error {
	if !allowed {
		return ErrForbidden
	}
	return nil
}
