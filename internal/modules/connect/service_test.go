package connect

import (
	"context"
	"testing"

	"holdmytime/internal/domain"
	"holdmytime/internal/modules/checkout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

type mockBusinessStore struct {
	mock.Mock
}

func (m *mockBusinessStore) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessStore) SetConnectedAccount(ctx context.Context, businessID, accountID string) error {
	return m.Called(ctx, businessID, accountID).Error(0)
}

func (m *mockBusinessStore) UpdateAccountCapabilities(ctx context.Context, businessID string, status domain.AccountStatus, onboardingComplete, chargesEnabled, payoutsEnabled bool) error {
	return m.Called(ctx, businessID, status, onboardingComplete, chargesEnabled, payoutsEnabled).Error(0)
}

type mockAccountGateway struct {
	mock.Mock
}

func (m *mockAccountGateway) CreateAccount(ctx context.Context, params *stripe.AccountCreateParams) (*stripe.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func (m *mockAccountGateway) CreateAccountLink(ctx context.Context, params *stripe.AccountLinkCreateParams) (*stripe.AccountLink, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.AccountLink), args.Error(1)
}

func (m *mockAccountGateway) RetrieveAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func newTestService(store *mockBusinessStore, gateway *mockAccountGateway) *Service {
	builder := checkout.NewBuilder(checkout.Config{SiteURL: "https://www.holdmytime.io"})
	return NewService(store, gateway, builder, zap.NewNop())
}

func ownedBusiness() *domain.Business {
	return &domain.Business{
		ID:           "biz-1",
		OwnerID:      "user-1",
		ContactEmail: "owner@example.com",
	}
}

func TestCreateAccount_ProvisionsAndLinks(t *testing.T) {
	store := new(mockBusinessStore)
	gateway := new(mockAccountGateway)
	svc := newTestService(store, gateway)

	store.On("GetByID", mock.Anything, "biz-1").Return(ownedBusiness(), nil)
	gateway.On("CreateAccount", mock.Anything, mock.MatchedBy(func(p *stripe.AccountCreateParams) bool {
		return *p.Type == "express" && p.Metadata["business_id"] == "biz-1"
	})).Return(&stripe.Account{ID: "acct_123"}, nil)
	store.On("SetConnectedAccount", mock.Anything, "biz-1", "acct_123").Return(nil)
	gateway.On("CreateAccountLink", mock.Anything, mock.Anything).
		Return(&stripe.AccountLink{URL: "https://connect.example/onboard"}, nil)

	link, err := svc.CreateAccount(context.Background(), "user-1", "biz-1")

	require.NoError(t, err)
	assert.Equal(t, "acct_123", link.AccountID)
	assert.Equal(t, "https://connect.example/onboard", link.OnboardingURL)
	store.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestCreateAccount_ExistingAccountReused(t *testing.T) {
	store := new(mockBusinessStore)
	gateway := new(mockAccountGateway)
	svc := newTestService(store, gateway)

	b := ownedBusiness()
	b.ConnectedAccountID = "acct_existing"
	store.On("GetByID", mock.Anything, "biz-1").Return(b, nil)
	gateway.On("CreateAccountLink", mock.Anything, mock.Anything).
		Return(&stripe.AccountLink{URL: "https://connect.example/onboard"}, nil)

	link, err := svc.CreateAccount(context.Background(), "user-1", "biz-1")

	require.NoError(t, err)
	assert.Equal(t, "acct_existing", link.AccountID)
	gateway.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SetConnectedAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAccount_ForbiddenForNonOwner(t *testing.T) {
	store := new(mockBusinessStore)
	gateway := new(mockAccountGateway)
	svc := newTestService(store, gateway)

	store.On("GetByID", mock.Anything, "biz-1").Return(ownedBusiness(), nil)

	_, err := svc.CreateAccount(context.Background(), "intruder", "biz-1")

	assert.ErrorIs(t, err, ErrForbidden)
	gateway.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestRefreshLink_RequiresConnectedAccount(t *testing.T) {
	store := new(mockBusinessStore)
	gateway := new(mockAccountGateway)
	svc := newTestService(store, gateway)

	store.On("GetByID", mock.Anything, "biz-1").Return(ownedBusiness(), nil)

	_, err := svc.RefreshLink(context.Background(), "user-1", "biz-1")

	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestCheckStatus_PersistsDerivedState(t *testing.T) {
	store := new(mockBusinessStore)
	gateway := new(mockAccountGateway)
	svc := newTestService(store, gateway)

	b := ownedBusiness()
	b.ConnectedAccountID = "acct_123"
	store.On("GetByID", mock.Anything, "biz-1").Return(b, nil)
	gateway.On("RetrieveAccount", mock.Anything, "acct_123").Return(&stripe.Account{
		ID:               "acct_123",
		ChargesEnabled:   true,
		PayoutsEnabled:   true,
		DetailsSubmitted: true,
	}, nil)
	store.On("UpdateAccountCapabilities", mock.Anything, "biz-1", domain.AccountActive, true, true, true).Return(nil)

	status, err := svc.CheckStatus(context.Background(), "user-1", "biz-1")

	require.NoError(t, err)
	assert.Equal(t, domain.AccountActive, status.Status)
	assert.True(t, status.ChargesEnabled)
	store.AssertExpectations(t)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name string
		acct *stripe.Account
		want domain.AccountStatus
	}{
		{"fully enabled", &stripe.Account{ChargesEnabled: true, PayoutsEnabled: true}, domain.AccountActive},
		{"charges only", &stripe.Account{ChargesEnabled: true}, domain.AccountPending},
		{"disabled reason", &stripe.Account{
			Requirements: &stripe.AccountRequirements{DisabledReason: "requirements.past_due"},
		}, domain.AccountRestricted},
		{"nothing yet", &stripe.Account{}, domain.AccountPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.acct))
		})
	}
}
