package connect

import "holdmytime/internal/domain"

type BusinessRequest struct {
	BusinessID string `json:"business_id" binding:"required"`
}

type LinkResponse struct {
	AccountID     string `json:"account_id"`
	OnboardingURL string `json:"onboarding_url"`
}

type StatusResponse struct {
	Status             domain.AccountStatus `json:"status"`
	OnboardingComplete bool                 `json:"onboarding_complete"`
	ChargesEnabled     bool                 `json:"charges_enabled"`
	PayoutsEnabled     bool                 `json:"payouts_enabled"`
}
