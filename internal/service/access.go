package service

import (
	"crypto/subtle"

	"github.com/roboticsleb/storefront/internal/domain"
)

// CanReadOrder decides whether a caller may view an order. Admins see
// everything; a registered owner must present a matching authenticated user;
// a guest order is readable only with its tracking token. The type switch is
// exhaustive over the owner variants so a new variant fails closed.
func CanReadOrder(order *domain.Order, principal *domain.User, guestToken string) bool {
	if principal != nil && principal.IsAdmin() {
		return true
	}

	switch owner := order.Owner.(type) {
	case domain.UserOwner:
		return principal != nil && principal.ID == owner.UserID
	case domain.GuestOwner:
		if guestToken == "" {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(owner.Token), []byte(guestToken)) == 1
	default:
		return false
	}
}

// CanMutateOrder decides whether a caller may run customer mutations
// (cancel, submit payment proof). Stricter than reads: the tracking token is
// a view credential only, so mutations require the owning authenticated user.
func CanMutateOrder(order *domain.Order, principal *domain.User) bool {
	if principal == nil {
		return false
	}
	if principal.IsAdmin() {
		return true
	}
	owner, ok := order.Owner.(domain.UserOwner)
	return ok && principal.ID == owner.UserID
}
