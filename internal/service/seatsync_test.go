package service

import (
	"context"
	"errors"
	"testing"

	"seatwise/internal/billing"
	"seatwise/internal/model"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSeatPriceID = "price_seat"

func newSyncService(members *mockMemberRepo, invitations *mockInvitationRepo, subs *mockSubscriptionRepo, orgs *mockOrgRepo, gateway *mockGateway) *SeatSyncService {
	counter := NewSeatCounter(members, invitations)
	return NewSeatSyncService(counter, subs, orgs, gateway, testSeatPriceID)
}

func subsWith(sub *model.Subscription) *mockSubscriptionRepo {
	return &mockSubscriptionRepo{
		findByReferenceFn: func(ctx context.Context, orgID primitive.ObjectID) (*model.Subscription, error) {
			return sub, nil
		},
	}
}

func remoteWithSeats(quantity int64) *billing.RemoteSubscription {
	return &billing.RemoteSubscription{
		ID: "sub_123",
		Items: []billing.SeatItem{
			{ID: "si_base", PriceID: "price_base", Quantity: 1},
			{ID: "si_seats", PriceID: testSeatPriceID, Quantity: quantity},
		},
	}
}

func TestSyncSeats_NoSubscription(t *testing.T) {
	svc := newSyncService(memberFixtures(), invitationFixtures(), subsWith(nil), &mockOrgRepo{}, &mockGateway{})

	_, err := svc.SyncSeats(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, model.ErrNoSubscription)
}

func TestSyncSeats_NoDriftIsNoop(t *testing.T) {
	sub := activeSubscription(model.PlanPME)
	sub.SeatQuantity = 1

	writes := 0
	gateway := &mockGateway{
		getSubscriptionFn: func(ctx context.Context, id string) (*billing.RemoteSubscription, error) {
			return remoteWithSeats(1), nil
		},
		updateSeatItemFn: func(ctx context.Context, itemID string, quantity int64, idemKey string) error {
			writes++
			return nil
		},
		createSeatItemFn: func(ctx context.Context, subID, priceID string, quantity int64, idemKey string) error {
			writes++
			return nil
		},
	}

	svc := newSyncService(
		memberFixtures(activeMember(model.RoleOwner), activeMember(model.RoleMember)),
		invitationFixtures(),
		subsWith(sub),
		&mockOrgRepo{},
		gateway,
	)

	result, err := svc.SyncSeats(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.True(t, result.Success)
	require.False(t, result.Modified)
	require.Equal(t, 1, result.PreviousQuantity)
	require.Equal(t, 1, result.NewQuantity)
	require.Zero(t, writes)
}

func TestSyncSeats_DriftUpdatesRemoteAndMirror(t *testing.T) {
	sub := activeSubscription(model.PlanPME)
	sub.SeatQuantity = 1

	var updatedItem string
	var updatedQty int64
	var idemKey string
	gateway := &mockGateway{
		getSubscriptionFn: func(ctx context.Context, id string) (*billing.RemoteSubscription, error) {
			return remoteWithSeats(1), nil
		},
		updateSeatItemFn: func(ctx context.Context, itemID string, quantity int64, key string) error {
			updatedItem = itemID
			updatedQty = quantity
			idemKey = key
			return nil
		},
	}

	mirrorQty := -1
	subs := subsWith(sub)
	subs.updateSeatQuantityFn = func(ctx context.Context, id primitive.ObjectID, quantity int) error {
		mirrorQty = quantity
		return nil
	}
	reserved := -1
	orgs := &mockOrgRepo{
		setSeatsReservedFn: func(ctx context.Context, id primitive.ObjectID, n int) error {
			reserved = n
			return nil
		},
	}

	svc := newSyncService(
		memberFixtures(activeMember(model.RoleOwner), activeMember(model.RoleMember), activeMember(model.RoleAdmin)),
		invitationFixtures(),
		subs,
		orgs,
		gateway,
	)

	orgID := primitive.NewObjectID()
	result, err := svc.SyncSeats(context.Background(), orgID)
	require.NoError(t, err)
	require.True(t, result.Modified)
	require.Equal(t, 1, result.PreviousQuantity)
	require.Equal(t, 2, result.NewQuantity)

	require.Equal(t, "si_seats", updatedItem)
	require.EqualValues(t, 2, updatedQty)
	require.Contains(t, idemKey, orgID.Hex())
	require.Equal(t, 2, mirrorQty)
	// The reservation counter includes the owner; the billed quantity
	// does not.
	require.Equal(t, 3, reserved)
}

func TestSyncSeats_CreatesItemWhenMissing(t *testing.T) {
	sub := activeSubscription(model.PlanPME)

	created := false
	gateway := &mockGateway{
		getSubscriptionFn: func(ctx context.Context, id string) (*billing.RemoteSubscription, error) {
			return &billing.RemoteSubscription{
				ID:    "sub_123",
				Items: []billing.SeatItem{{ID: "si_base", PriceID: "price_base", Quantity: 1}},
			}, nil
		},
		createSeatItemFn: func(ctx context.Context, subID, priceID string, quantity int64, idemKey string) error {
			created = true
			require.Equal(t, testSeatPriceID, priceID)
			require.EqualValues(t, 1, quantity)
			return nil
		},
	}

	svc := newSyncService(
		memberFixtures(activeMember(model.RoleOwner), activeMember(model.RoleMember)),
		invitationFixtures(),
		subsWith(sub),
		&mockOrgRepo{},
		gateway,
	)

	result, err := svc.SyncSeats(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.True(t, result.Modified)
	require.True(t, created)
}

func TestSyncSeats_DeletesItemAtZero(t *testing.T) {
	sub := activeSubscription(model.PlanPME)
	sub.SeatQuantity = 2

	deleted := ""
	gateway := &mockGateway{
		getSubscriptionFn: func(ctx context.Context, id string) (*billing.RemoteSubscription, error) {
			return remoteWithSeats(2), nil
		},
		deleteSeatItemFn: func(ctx context.Context, itemID string) error {
			deleted = itemID
			return nil
		},
	}

	// Only accountants left: billable total is zero.
	svc := newSyncService(
		memberFixtures(activeMember(model.RoleAccountant)),
		invitationFixtures(),
		subsWith(sub),
		&mockOrgRepo{},
		gateway,
	)

	result, err := svc.SyncSeats(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.True(t, result.Modified)
	require.Equal(t, "si_seats", deleted)
	require.Zero(t, result.NewQuantity)
}

func TestSyncSeats_RemoteFailureLeavesLocalUntouched(t *testing.T) {
	sub := activeSubscription(model.PlanPME)
	sub.SeatQuantity = 1

	gateway := &mockGateway{
		getSubscriptionFn: func(ctx context.Context, id string) (*billing.RemoteSubscription, error) {
			return remoteWithSeats(1), nil
		},
		updateSeatItemFn: func(ctx context.Context, itemID string, quantity int64, idemKey string) error {
			return errors.New("stripe unavailable")
		},
	}

	subs := subsWith(sub)
	subs.updateSeatQuantityFn = func(ctx context.Context, id primitive.ObjectID, quantity int) error {
		t.Fatal("seat quantity mirror must not be written on remote failure")
		return nil
	}
	orgs := &mockOrgRepo{
		setSeatsReservedFn: func(ctx context.Context, id primitive.ObjectID, n int) error {
			t.Fatal("seatsReserved must not be written on remote failure")
			return nil
		},
	}

	svc := newSyncService(
		memberFixtures(activeMember(model.RoleOwner), activeMember(model.RoleMember), activeMember(model.RoleAdmin)),
		invitationFixtures(),
		subs,
		orgs,
		gateway,
	)

	_, err := svc.SyncSeats(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
}

func TestSyncSeats_OwnerSeatNotBilled(t *testing.T) {
	sub := activeSubscription(model.PlanPME)

	var pushed int64 = -1
	gateway := &mockGateway{
		getSubscriptionFn: func(ctx context.Context, id string) (*billing.RemoteSubscription, error) {
			return &billing.RemoteSubscription{
				ID:    "sub_123",
				Items: []billing.SeatItem{{ID: "si_base", PriceID: "price_base", Quantity: 1}},
			}, nil
		},
		createSeatItemFn: func(ctx context.Context, subID, priceID string, quantity int64, idemKey string) error {
			pushed = quantity
			return nil
		},
	}

	members := memberFixtures(
		activeMember(model.RoleOwner),
		activeMember(model.RoleMember),
		activeMember(model.RoleMember),
	)
	svc := newSyncService(members, invitationFixtures(), subsWith(sub), &mockOrgRepo{}, gateway)

	orgID := primitive.NewObjectID()
	result, err := svc.SyncSeats(context.Background(), orgID)
	require.NoError(t, err)
	require.Equal(t, 2, result.NewQuantity)
	require.EqualValues(t, 2, pushed)

	// The synced quantity and the displayed breakdown must describe the
	// same charge: base plan plus one line per non-owner seat.
	info, err := svc.GetBillingInfo(context.Background(), orgID)
	require.NoError(t, err)
	require.Equal(t, 2, info.AdditionalSeats)
	require.InDelta(t, 48.99+2*7.49, info.TotalCost, 0.001)
	require.EqualValues(t, info.AdditionalSeats, pushed)
}

func TestSyncSeats_OwnerOnlyDeletesSeatItem(t *testing.T) {
	sub := activeSubscription(model.PlanPME)
	sub.SeatQuantity = 1

	deleted := ""
	gateway := &mockGateway{
		getSubscriptionFn: func(ctx context.Context, id string) (*billing.RemoteSubscription, error) {
			return remoteWithSeats(1), nil
		},
		deleteSeatItemFn: func(ctx context.Context, itemID string) error {
			deleted = itemID
			return nil
		},
	}

	svc := newSyncService(
		memberFixtures(activeMember(model.RoleOwner)),
		invitationFixtures(),
		subsWith(sub),
		&mockOrgRepo{},
		gateway,
	)

	result, err := svc.SyncSeats(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.Equal(t, "si_seats", deleted)
	require.Zero(t, result.NewQuantity)
}
