package service

import (
	"context"
	"time"

	"seatwise/internal/billing"
	"seatwise/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockOrgRepo struct {
	findByIDFn              func(ctx context.Context, id primitive.ObjectID) (*model.Organization, error)
	updateSessionSettingsFn func(ctx context.Context, id primitive.ObjectID, settings model.SessionSettings) error
	reserveSeatFn           func(ctx context.Context, id primitive.ObjectID, limit int) (bool, error)
	releaseSeatFn           func(ctx context.Context, id primitive.ObjectID) error
	setSeatsReservedFn      func(ctx context.Context, id primitive.ObjectID, n int) error
}

func (m *mockOrgRepo) Create(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	return org, nil
}
func (m *mockOrgRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockOrgRepo) UpdateSessionSettings(ctx context.Context, id primitive.ObjectID, settings model.SessionSettings) error {
	if m.updateSessionSettingsFn != nil {
		return m.updateSessionSettingsFn(ctx, id, settings)
	}
	return nil
}
func (m *mockOrgRepo) ReserveSeat(ctx context.Context, id primitive.ObjectID, limit int) (bool, error) {
	if m.reserveSeatFn != nil {
		return m.reserveSeatFn(ctx, id, limit)
	}
	return true, nil
}
func (m *mockOrgRepo) ReleaseSeat(ctx context.Context, id primitive.ObjectID) error {
	if m.releaseSeatFn != nil {
		return m.releaseSeatFn(ctx, id)
	}
	return nil
}
func (m *mockOrgRepo) SetSeatsReserved(ctx context.Context, id primitive.ObjectID, n int) error {
	if m.setSeatsReservedFn != nil {
		return m.setSeatsReservedFn(ctx, id, n)
	}
	return nil
}

type mockMemberRepo struct {
	createFn           func(ctx context.Context, member *model.Member) (*model.Member, error)
	findByIDFn         func(ctx context.Context, id primitive.ObjectID) (*model.Member, error)
	findByOrgFn        func(ctx context.Context, orgID primitive.ObjectID) ([]*model.Member, error)
	findByOrgAndUserFn func(ctx context.Context, orgID, userID primitive.ObjectID) (*model.Member, error)
	findByUserFn       func(ctx context.Context, userID primitive.ObjectID) ([]*model.Member, error)
	updateRoleFn       func(ctx context.Context, id primitive.ObjectID, role string) error
	deleteFn           func(ctx context.Context, id primitive.ObjectID) error
	deleteByUserFn     func(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

func (m *mockMemberRepo) Create(ctx context.Context, member *model.Member) (*model.Member, error) {
	if m.createFn != nil {
		return m.createFn(ctx, member)
	}
	return member, nil
}
func (m *mockMemberRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Member, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockMemberRepo) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Member, error) {
	if m.findByOrgFn != nil {
		return m.findByOrgFn(ctx, orgID)
	}
	return nil, nil
}
func (m *mockMemberRepo) FindByOrgAndUser(ctx context.Context, orgID, userID primitive.ObjectID) (*model.Member, error) {
	if m.findByOrgAndUserFn != nil {
		return m.findByOrgAndUserFn(ctx, orgID, userID)
	}
	return nil, nil
}
func (m *mockMemberRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Member, error) {
	if m.findByUserFn != nil {
		return m.findByUserFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockMemberRepo) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, id, role)
	}
	return nil
}
func (m *mockMemberRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
func (m *mockMemberRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	if m.deleteByUserFn != nil {
		return m.deleteByUserFn(ctx, userID)
	}
	return 0, nil
}

type mockInvitationRepo struct {
	createFn                   func(ctx context.Context, inv *model.Invitation) (*model.Invitation, error)
	findByIDFn                 func(ctx context.Context, id primitive.ObjectID) (*model.Invitation, error)
	findPendingByOrgFn         func(ctx context.Context, orgID primitive.ObjectID) ([]*model.Invitation, error)
	findPendingByOrgAndEmailFn func(ctx context.Context, orgID primitive.ObjectID, email string) (*model.Invitation, error)
	updateStatusFn             func(ctx context.Context, id primitive.ObjectID, status string) error
}

func (m *mockInvitationRepo) Create(ctx context.Context, inv *model.Invitation) (*model.Invitation, error) {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	inv.ID = primitive.NewObjectID()
	return inv, nil
}
func (m *mockInvitationRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Invitation, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockInvitationRepo) FindPendingByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Invitation, error) {
	if m.findPendingByOrgFn != nil {
		return m.findPendingByOrgFn(ctx, orgID)
	}
	return nil, nil
}
func (m *mockInvitationRepo) FindPendingByOrgAndEmail(ctx context.Context, orgID primitive.ObjectID, email string) (*model.Invitation, error) {
	if m.findPendingByOrgAndEmailFn != nil {
		return m.findPendingByOrgAndEmailFn(ctx, orgID, email)
	}
	return nil, nil
}
func (m *mockInvitationRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

type mockSubscriptionRepo struct {
	createFn             func(ctx context.Context, sub *model.Subscription) (*model.Subscription, error)
	findByReferenceFn    func(ctx context.Context, orgID primitive.ObjectID) (*model.Subscription, error)
	findByStripeIDFn     func(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error)
	updateSeatQuantityFn func(ctx context.Context, id primitive.ObjectID, quantity int) error
	updatePlanFn         func(ctx context.Context, id primitive.ObjectID, plan string) error
	updateFromProviderFn func(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd time.Time) error
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	if m.createFn != nil {
		return m.createFn(ctx, sub)
	}
	return sub, nil
}
func (m *mockSubscriptionRepo) FindByReference(ctx context.Context, orgID primitive.ObjectID) (*model.Subscription, error) {
	if m.findByReferenceFn != nil {
		return m.findByReferenceFn(ctx, orgID)
	}
	return nil, nil
}
func (m *mockSubscriptionRepo) FindByStripeID(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error) {
	if m.findByStripeIDFn != nil {
		return m.findByStripeIDFn(ctx, stripeSubscriptionID)
	}
	return nil, nil
}
func (m *mockSubscriptionRepo) UpdateSeatQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error {
	if m.updateSeatQuantityFn != nil {
		return m.updateSeatQuantityFn(ctx, id, quantity)
	}
	return nil
}
func (m *mockSubscriptionRepo) UpdatePlan(ctx context.Context, id primitive.ObjectID, plan string) error {
	if m.updatePlanFn != nil {
		return m.updatePlanFn(ctx, id, plan)
	}
	return nil
}
func (m *mockSubscriptionRepo) UpdateFromProvider(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd time.Time) error {
	if m.updateFromProviderFn != nil {
		return m.updateFromProviderFn(ctx, stripeSubscriptionID, status, periodStart, periodEnd)
	}
	return nil
}

type mockSessionRepo struct {
	createFn           func(ctx context.Context, session *model.Session) (*model.Session, error)
	findByTokenFn      func(ctx context.Context, token string) (*model.Session, error)
	findActiveByUserFn func(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]*model.Session, error)
	deleteStaleFn      func(ctx context.Context, userID primitive.ObjectID, excludeToken string, cutoff time.Time) (int64, error)
	deleteByTokenFn    func(ctx context.Context, token string) error
	deleteByUserFn     func(ctx context.Context, userID primitive.ObjectID) (int64, error)
	touchFn            func(ctx context.Context, token string, at time.Time) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) (*model.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	session.ID = primitive.NewObjectID()
	return session, nil
}
func (m *mockSessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if m.findByTokenFn != nil {
		return m.findByTokenFn(ctx, token)
	}
	return nil, nil
}
func (m *mockSessionRepo) FindActiveByUser(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]*model.Session, error) {
	if m.findActiveByUserFn != nil {
		return m.findActiveByUserFn(ctx, userID, now)
	}
	return nil, nil
}
func (m *mockSessionRepo) DeleteStale(ctx context.Context, userID primitive.ObjectID, excludeToken string, cutoff time.Time) (int64, error) {
	if m.deleteStaleFn != nil {
		return m.deleteStaleFn(ctx, userID, excludeToken, cutoff)
	}
	return 0, nil
}
func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}
func (m *mockSessionRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	if m.deleteByUserFn != nil {
		return m.deleteByUserFn(ctx, userID)
	}
	return 0, nil
}
func (m *mockSessionRepo) Touch(ctx context.Context, token string, at time.Time) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, token, at)
	}
	return nil
}

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	deleteFn      func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = primitive.NewObjectID()
	return user, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockGateway struct {
	getSubscriptionFn func(ctx context.Context, subscriptionID string) (*billing.RemoteSubscription, error)
	createSeatItemFn  func(ctx context.Context, subscriptionID, priceID string, quantity int64, idempotencyKey string) error
	updateSeatItemFn  func(ctx context.Context, itemID string, quantity int64, idempotencyKey string) error
	deleteSeatItemFn  func(ctx context.Context, itemID string) error
	updateBasePriceFn func(ctx context.Context, subscriptionID, itemID, priceID string) error
}

func (m *mockGateway) GetSubscription(ctx context.Context, subscriptionID string) (*billing.RemoteSubscription, error) {
	if m.getSubscriptionFn != nil {
		return m.getSubscriptionFn(ctx, subscriptionID)
	}
	return &billing.RemoteSubscription{ID: subscriptionID}, nil
}
func (m *mockGateway) CreateSeatItem(ctx context.Context, subscriptionID, priceID string, quantity int64, idempotencyKey string) error {
	if m.createSeatItemFn != nil {
		return m.createSeatItemFn(ctx, subscriptionID, priceID, quantity, idempotencyKey)
	}
	return nil
}
func (m *mockGateway) UpdateSeatItem(ctx context.Context, itemID string, quantity int64, idempotencyKey string) error {
	if m.updateSeatItemFn != nil {
		return m.updateSeatItemFn(ctx, itemID, quantity, idempotencyKey)
	}
	return nil
}
func (m *mockGateway) DeleteSeatItem(ctx context.Context, itemID string) error {
	if m.deleteSeatItemFn != nil {
		return m.deleteSeatItemFn(ctx, itemID)
	}
	return nil
}
func (m *mockGateway) UpdateBasePrice(ctx context.Context, subscriptionID, itemID, priceID string) error {
	if m.updateBasePriceFn != nil {
		return m.updateBasePriceFn(ctx, subscriptionID, itemID, priceID)
	}
	return nil
}

// memberFixtures builds a member repo returning the given members for any
// organization lookup.
func memberFixtures(members ...*model.Member) *mockMemberRepo {
	return &mockMemberRepo{
		findByOrgFn: func(ctx context.Context, orgID primitive.ObjectID) ([]*model.Member, error) {
			return members, nil
		},
	}
}

// invitationFixtures builds an invitation repo returning the given pending
// invitations for any organization lookup.
func invitationFixtures(invitations ...*model.Invitation) *mockInvitationRepo {
	return &mockInvitationRepo{
		findPendingByOrgFn: func(ctx context.Context, orgID primitive.ObjectID) ([]*model.Invitation, error) {
			return invitations, nil
		},
	}
}

func activeMember(role string) *model.Member {
	return &model.Member{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Role:   role,
		Status: model.MemberStatusActive,
	}
}

func pendingInvitation(role string) *model.Invitation {
	return &model.Invitation{
		ID:     primitive.NewObjectID(),
		Role:   role,
		Status: model.InvitationStatusPending,
	}
}

func activeSubscription(plan string) *model.Subscription {
	return &model.Subscription{
		ID:                   primitive.NewObjectID(),
		Plan:                 plan,
		Status:               model.SubscriptionStatusActive,
		StripeSubscriptionID: "sub_123",
	}
}
