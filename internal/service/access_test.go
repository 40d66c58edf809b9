package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/roboticsleb/storefront/internal/domain"
)

func TestCanReadOrderUserOwned(t *testing.T) {
	ownerID := uuid.New()
	order := &domain.Order{ID: uuid.New(), Owner: domain.UserOwner{UserID: ownerID}}

	owner := &domain.User{ID: ownerID, Role: domain.RoleCustomer}
	other := &domain.User{ID: uuid.New(), Role: domain.RoleCustomer}
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	assert.True(t, CanReadOrder(order, owner, ""))
	assert.False(t, CanReadOrder(order, other, ""))
	assert.True(t, CanReadOrder(order, admin, ""))
	assert.False(t, CanReadOrder(order, nil, ""))
	// A token never grants access to a user-owned order
	assert.False(t, CanReadOrder(order, nil, "gt_sometoken"))
}

func TestCanReadOrderGuestOwned(t *testing.T) {
	order := &domain.Order{ID: uuid.New(), Owner: domain.GuestOwner{Token: "gt_abc123"}}

	assert.True(t, CanReadOrder(order, nil, "gt_abc123"))
	assert.False(t, CanReadOrder(order, nil, "gt_abc124"))
	assert.False(t, CanReadOrder(order, nil, ""))

	// A logged-in non-admin cannot read someone else's guest order
	user := &domain.User{ID: uuid.New(), Role: domain.RoleCustomer}
	assert.False(t, CanReadOrder(order, user, ""))

	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	assert.True(t, CanReadOrder(order, admin, ""))
}

func TestCanMutateOrder(t *testing.T) {
	ownerID := uuid.New()
	userOrder := &domain.Order{ID: uuid.New(), Owner: domain.UserOwner{UserID: ownerID}}
	guestOrder := &domain.Order{ID: uuid.New(), Owner: domain.GuestOwner{Token: "gt_abc123"}}

	owner := &domain.User{ID: ownerID, Role: domain.RoleCustomer}
	other := &domain.User{ID: uuid.New(), Role: domain.RoleCustomer}
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	assert.True(t, CanMutateOrder(userOrder, owner))
	assert.False(t, CanMutateOrder(userOrder, other))
	assert.True(t, CanMutateOrder(userOrder, admin))
	assert.False(t, CanMutateOrder(userOrder, nil))

	// Guest orders have no mutating principal besides admin
	assert.False(t, CanMutateOrder(guestOrder, other))
	assert.False(t, CanMutateOrder(guestOrder, nil))
	assert.True(t, CanMutateOrder(guestOrder, admin))
}
