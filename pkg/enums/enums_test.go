package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" owner ")
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, role)

	_, err = ParseRole("guest")
	assert.Error(t, err)
	assert.False(t, Role("cashier").IsValid(), "IsValid is case sensitive")
}

func TestHomeRoute(t *testing.T) {
	assert.Equal(t, RouteCashier, HomeRoute(RoleCashier))
	assert.Equal(t, RouteOwnerDashboard, HomeRoute(RoleOwner))
	assert.Equal(t, RouteAdminDashboard, HomeRoute(RoleAdmin))
	assert.Equal(t, RouteLogin, HomeRoute(Role("GUEST")))
}

func TestParsePaymentType(t *testing.T) {
	for _, raw := range []string{"cash", "QRIS", "Card", "ewallet"} {
		pt, err := ParsePaymentType(raw)
		require.NoError(t, err, raw)
		assert.True(t, pt.IsValid())
	}
	_, err := ParsePaymentType("cheque")
	assert.Error(t, err)
}

func TestParseMemberAndDiscountTypes(t *testing.T) {
	tier, err := ParseMemberType("GOLD")
	require.NoError(t, err)
	assert.Equal(t, MemberTypeGold, tier)
	_, err = ParseMemberType("BRONZE")
	assert.Error(t, err)

	dt, err := ParseDiscountType("FIXED")
	require.NoError(t, err)
	assert.Equal(t, DiscountTypeFixed, dt)
	_, err = ParseDiscountType("bogo")
	assert.Error(t, err)
}

func TestCheckoutStateBusy(t *testing.T) {
	assert.False(t, CheckoutStateIdle.Busy())
	assert.True(t, CheckoutStateProcessing.Busy())
	assert.True(t, CheckoutStateSuccess.Busy())
	assert.False(t, CheckoutState("paused").IsValid())
}

func TestPaymentOutcomeSucceeded(t *testing.T) {
	assert.True(t, PaymentOutcomeSucceeded.Succeeded())
	for _, o := range []PaymentOutcome{PaymentOutcomeDeclined, PaymentOutcomeTimedOut, PaymentOutcomeNetworkUnavailable} {
		assert.False(t, o.Succeeded(), o)
		assert.True(t, o.IsValid(), o)
	}
}
