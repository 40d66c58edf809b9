package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/pkg/errors"
)

func reviewInput(productID string) SubmitReviewInput {
	return SubmitReviewInput{
		ProductID: productID,
		Rating:    5,
		Body:      "Works great",
	}
}

func TestSubmitReviewRequiresLogin(t *testing.T) {
	env := newTestEnv()

	_, err := env.reviews.Submit(context.Background(), nil, reviewInput("p1"))
	var unauthorized *errors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, "Login required", err.Error())
}

func TestSubmitReviewRequiresPurchase(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("Rahim", "rahim@example.com", domain.RoleCustomer)

	_, err := env.reviews.Submit(context.Background(), user, reviewInput("p1"))
	var notPurchased *errors.ErrNotPurchased
	require.ErrorAs(t, err, &notPurchased)
}

func TestSubmitReviewAfterPurchase(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("Rahim", "rahim@example.com", domain.RoleCustomer)

	// A pending order already qualifies; the gate is deliberately lenient
	_, err := env.orders.Create(context.Background(), checkoutInput(user.ID))
	require.NoError(t, err)

	review, err := env.reviews.Submit(context.Background(), user, reviewInput("p1"))
	require.NoError(t, err)

	assert.Equal(t, domain.ReviewStatusPending, review.Status)
	require.NotNil(t, review.UserID)
	assert.Equal(t, user.ID, *review.UserID)
	require.NotNil(t, review.Name)
	assert.Equal(t, "Rahim", *review.Name)
}

func TestSubmitReviewCancelledOrderDoesNotQualify(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("Rahim", "rahim@example.com", domain.RoleCustomer)

	order, err := env.orders.Create(context.Background(), checkoutInput(user.ID))
	require.NoError(t, err)
	_, err = env.orders.Cancel(context.Background(), order.ID, user, nil)
	require.NoError(t, err)

	_, err = env.reviews.Submit(context.Background(), user, reviewInput("p1"))
	var notPurchased *errors.ErrNotPurchased
	require.ErrorAs(t, err, &notPurchased)
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("Rahim", "rahim@example.com", domain.RoleCustomer)
	_, err := env.orders.Create(context.Background(), checkoutInput(user.ID))
	require.NoError(t, err)

	for _, rating := range []int{0, 6, -1} {
		input := reviewInput("p1")
		input.Rating = rating
		_, err := env.reviews.Submit(context.Background(), user, input)
		var vErr *errors.ErrValidation
		require.ErrorAs(t, err, &vErr, "rating %d", rating)
	}
}

func TestCanReview(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("Rahim", "rahim@example.com", domain.RoleCustomer)

	ok, err := env.reviews.CanReview(context.Background(), nil, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.reviews.CanReview(context.Background(), user, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.orders.Create(context.Background(), checkoutInput(user.ID))
	require.NoError(t, err)

	ok, err = env.reviews.CanReview(context.Background(), user, "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.reviews.CanReview(context.Background(), user, "other-product")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModerateReviewNotifiesOwner(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("Rahim", "rahim@example.com", domain.RoleCustomer)
	_, err := env.orders.Create(context.Background(), checkoutInput(user.ID))
	require.NoError(t, err)

	review, err := env.reviews.Submit(context.Background(), user, reviewInput("p1"))
	require.NoError(t, err)

	moderated, err := env.reviews.Moderate(context.Background(), review.ID, domain.ReviewStatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusApproved, moderated.Status)

	notifs, err := env.notifRepo.ListByUser(context.Background(), user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, notifs)
	assert.Contains(t, notifs[len(notifs)-1].Title, "approved")
}

func TestModerateReviewInvalidStatus(t *testing.T) {
	env := newTestEnv()

	_, err := env.reviews.Moderate(context.Background(), uuid.New(), domain.ReviewStatus("deleted"), nil)
	var vErr *errors.ErrValidation
	require.ErrorAs(t, err, &vErr)
}

func TestOnlyApprovedReviewsArePublic(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("Rahim", "rahim@example.com", domain.RoleCustomer)
	_, err := env.orders.Create(context.Background(), checkoutInput(user.ID))
	require.NoError(t, err)

	review, err := env.reviews.Submit(context.Background(), user, reviewInput("p1"))
	require.NoError(t, err)

	public, err := env.reviews.ListForProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, public)

	_, err = env.reviews.Moderate(context.Background(), review.ID, domain.ReviewStatusApproved, nil)
	require.NoError(t, err)

	public, err = env.reviews.ListForProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, public, 1)
}
