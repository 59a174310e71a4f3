package webhook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"holdmytime/internal/domain"
	"holdmytime/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubVerifier struct {
	event stripe.Event
	err   error
}

func (v stubVerifier) Verify(payload []byte, sigHeader string) (stripe.Event, error) {
	return v.event, v.err
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingStore) GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Booking, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingStore) MarkPaid(ctx context.Context, bookingID, paymentIntentID string) (bool, error) {
	args := m.Called(ctx, bookingID, paymentIntentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingStore) MarkExpired(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

type mockBusinessStore struct {
	mock.Mock
}

func (m *mockBusinessStore) GetByConnectedAccount(ctx context.Context, accountID string) (*domain.Business, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessStore) UpdateAccountCapabilities(ctx context.Context, businessID string, status domain.AccountStatus, onboardingComplete, chargesEnabled, payoutsEnabled bool) error {
	return m.Called(ctx, businessID, status, onboardingComplete, chargesEnabled, payoutsEnabled).Error(0)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.User, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) UpdateSubscription(ctx context.Context, userID string, status domain.SubscriptionStatus, subscriptionID string, currentPeriodEnd, trialEndsAt sql.NullTime) error {
	return m.Called(ctx, userID, status, subscriptionID, currentPeriodEnd, trialEndsAt).Error(0)
}

type fixture struct {
	bookings   *mockBookingStore
	businesses *mockBusinessStore
	users      *mockUserStore
}

func newFixture() *fixture {
	return &fixture{
		bookings:   new(mockBookingStore),
		businesses: new(mockBusinessStore),
		users:      new(mockUserStore),
	}
}

func (f *fixture) service(event stripe.Event) *Service {
	return NewService(stubVerifier{event: event}, f.bookings, f.businesses, f.users, zap.NewNop())
}

func event(eventType string, raw string) stripe.Event {
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func TestProcess_PaymentSessionCompleted(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_123","mode":"payment","metadata":{"booking_id":"bk-1"},"payment_intent":{"id":"pi_123"}}`))

	f.bookings.On("MarkPaid", mock.Anything, "bk-1", "pi_123").Return(true, nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.bookings.AssertExpectations(t)
}

func TestProcess_ReplayedCompletionIsAcknowledged(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_123","mode":"payment","metadata":{"booking_id":"bk-1"},"payment_intent":{"id":"pi_123"}}`))

	f.bookings.On("MarkPaid", mock.Anything, "bk-1", "pi_123").Return(false, nil)
	f.bookings.On("GetByID", mock.Anything, "bk-1").
		Return(&domain.Booking{ID: "bk-1", Status: domain.BookingPaid}, nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	assert.NoError(t, err)
}

func TestProcess_CompletionForUnknownBookingIDCountedMissing(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_123","mode":"payment","metadata":{"booking_id":"bk-ghost"}}`))

	f.bookings.On("MarkPaid", mock.Anything, "bk-ghost", "").Return(false, nil)
	f.bookings.On("GetByID", mock.Anything, "bk-ghost").Return(nil, gorm.ErrRecordNotFound)

	before := testutil.ToFloat64(metrics.WebhookEventsTotal.WithLabelValues("checkout.session.completed", "missing"))

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	after := testutil.ToFloat64(metrics.WebhookEventsTotal.WithLabelValues("checkout.session.completed", "missing"))
	assert.Equal(t, before+1, after)
}

func TestProcess_SessionWithoutMetadataFallsBackToLookup(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_123","mode":"payment","payment_intent":{"id":"pi_123"}}`))

	f.bookings.On("GetByCheckoutSession", mock.Anything, "cs_123").
		Return(&domain.Booking{ID: "bk-9"}, nil)
	f.bookings.On("MarkPaid", mock.Anything, "bk-9", "pi_123").Return(true, nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.bookings.AssertExpectations(t)
}

func TestProcess_UnknownSessionIsAcknowledgedNotRetried(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_ghost","mode":"payment"}`))

	f.bookings.On("GetByCheckoutSession", mock.Anything, "cs_ghost").
		Return(nil, gorm.ErrRecordNotFound)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	assert.NoError(t, err)
	f.bookings.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_SessionExpired(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.expired",
		`{"id":"cs_123","mode":"payment","metadata":{"booking_id":"bk-1"}}`))

	f.bookings.On("MarkExpired", mock.Anything, "bk-1").Return(true, nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.bookings.AssertExpectations(t)
}

func TestProcess_SessionExpiredWithoutMetadataFallsBackToLookup(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.expired",
		`{"id":"cs_456","mode":"payment"}`))

	f.bookings.On("GetByCheckoutSession", mock.Anything, "cs_456").
		Return(&domain.Booking{ID: "bk-2"}, nil)
	f.bookings.On("MarkExpired", mock.Anything, "bk-2").Return(true, nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.bookings.AssertExpectations(t)
}

func TestProcess_InvalidSignatureTouchesNothing(t *testing.T) {
	f := newFixture()
	svc := NewService(stubVerifier{err: errors.New("bad signature")}, f.bookings, f.businesses, f.users, zap.NewNop())

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	assert.ErrorIs(t, err, ErrInvalidSignature)
	f.bookings.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "UpdateSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_TransientErrorSurfacesForRetry(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_123","mode":"payment","metadata":{"booking_id":"bk-1"}}`))

	f.bookings.On("MarkPaid", mock.Anything, "bk-1", "").Return(false, errors.New("db down"))

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
}

func TestProcess_AccountUpdated(t *testing.T) {
	f := newFixture()
	svc := f.service(event("account.updated",
		`{"id":"acct_123","charges_enabled":true,"payouts_enabled":true,"details_submitted":true}`))

	f.businesses.On("GetByConnectedAccount", mock.Anything, "acct_123").
		Return(&domain.Business{ID: "biz-1"}, nil)
	f.businesses.On("UpdateAccountCapabilities", mock.Anything, "biz-1", domain.AccountActive, true, true, true).Return(nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.businesses.AssertExpectations(t)
}

func TestProcess_AccountUpdatedUnknownAccountAcknowledged(t *testing.T) {
	f := newFixture()
	svc := f.service(event("account.updated", `{"id":"acct_ghost"}`))

	f.businesses.On("GetByConnectedAccount", mock.Anything, "acct_ghost").
		Return(nil, gorm.ErrRecordNotFound)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	assert.NoError(t, err)
}

func TestProcess_SubscriptionCheckoutActivatesTrial(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_sub","mode":"subscription","metadata":{"user_id":"user-1"},"subscription":{"id":"sub_1"}}`))

	f.users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", SubscriptionStatus: domain.SubscriptionNone}, nil)
	f.users.On("UpdateSubscription", mock.Anything, "user-1", domain.SubscriptionTrial, "sub_1",
		sql.NullTime{}, sql.NullTime{}).Return(nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestProcess_LateSubscriptionCheckoutDoesNotDowngradeUser(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_sub","mode":"subscription","metadata":{"user_id":"user-1"},"subscription":{"id":"sub_1"}}`))

	f.users.On("GetByID", mock.Anything, "user-1").Return(&domain.User{
		ID:                 "user-1",
		SubscriptionStatus: domain.SubscriptionActive,
		SubscriptionID:     "sub_1",
		CurrentPeriodEnd:   sql.NullTime{Time: time.Unix(1700086400, 0), Valid: true},
	}, nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.users.AssertNotCalled(t, "UpdateSubscription",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_LateCheckoutWithoutSubscriptionIDDoesNotDowngradeUser(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_sub","mode":"subscription","metadata":{"user_id":"user-1"}}`))

	f.users.On("GetByID", mock.Anything, "user-1").Return(&domain.User{
		ID:                 "user-1",
		SubscriptionStatus: domain.SubscriptionActive,
		SubscriptionID:     "sub_1",
	}, nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.users.AssertNotCalled(t, "UpdateSubscription",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_SubscriptionCheckoutForUnknownUserAcknowledged(t *testing.T) {
	f := newFixture()
	svc := f.service(event("checkout.session.completed",
		`{"id":"cs_sub","mode":"subscription","metadata":{"user_id":"user-ghost"},"subscription":{"id":"sub_1"}}`))

	f.users.On("GetByID", mock.Anything, "user-ghost").Return(nil, gorm.ErrRecordNotFound)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	assert.NoError(t, err)
	f.users.AssertNotCalled(t, "UpdateSubscription",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_SubscriptionUpdatedMapsStatusAndTimestamps(t *testing.T) {
	f := newFixture()
	svc := f.service(event("customer.subscription.updated",
		`{"id":"sub_1","status":"trialing","trial_end":1700000000,"metadata":{"user_id":"user-1"},"items":{"data":[{"current_period_end":1700086400}]}}`))

	f.users.On("UpdateSubscription", mock.Anything, "user-1", domain.SubscriptionTrial, "sub_1",
		sql.NullTime{Time: time.Unix(1700086400, 0), Valid: true},
		sql.NullTime{Time: time.Unix(1700000000, 0), Valid: true}).Return(nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestProcess_SubscriptionDeletedForcesCanceled(t *testing.T) {
	f := newFixture()
	svc := f.service(event("customer.subscription.deleted",
		`{"id":"sub_1","status":"active"}`))

	f.users.On("GetBySubscriptionID", mock.Anything, "sub_1").
		Return(&domain.User{ID: "user-1"}, nil)
	f.users.On("UpdateSubscription", mock.Anything, "user-1", domain.SubscriptionCanceled, "sub_1",
		sql.NullTime{}, sql.NullTime{}).Return(nil)

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestProcess_UnhandledEventTypeIgnored(t *testing.T) {
	f := newFixture()
	svc := f.service(event("invoice.paid", `{}`))

	err := svc.Process(context.Background(), []byte("{}"), "sig")

	assert.NoError(t, err)
}

func TestMapSubscriptionStatus(t *testing.T) {
	tests := []struct {
		in   stripe.SubscriptionStatus
		want domain.SubscriptionStatus
	}{
		{stripe.SubscriptionStatusTrialing, domain.SubscriptionTrial},
		{stripe.SubscriptionStatusActive, domain.SubscriptionActive},
		{stripe.SubscriptionStatusPastDue, domain.SubscriptionPastDue},
		{stripe.SubscriptionStatusCanceled, domain.SubscriptionCanceled},
		{stripe.SubscriptionStatusUnpaid, domain.SubscriptionCanceled},
		{stripe.SubscriptionStatusIncompleteExpired, domain.SubscriptionCanceled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapSubscriptionStatus(tt.in), string(tt.in))
	}
}
