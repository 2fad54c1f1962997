package billing

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"fitcoach/services/coach-api/internal/infrastructure/database/repository/usagerepo"
	"fitcoach/services/coach-api/internal/infrastructure/logger"
	"fitcoach/services/coach-api/internal/utils/platformerrors"
)

// Checker answers the single question the billing collaborator owns:
// does this user hold an active entitlement right now.
type Checker interface {
	HasActiveEntitlement(ctx context.Context, userID uint) (bool, error)
}

// HTTPChecker queries the billing service.
type HTTPChecker struct {
	client  *resty.Client
	baseURL string
}

var _ Checker = (*HTTPChecker)(nil)

func NewHTTPChecker(client *resty.Client, baseURL string) *HTTPChecker {
	return &HTTPChecker{client: client, baseURL: baseURL}
}

type entitlementResponse struct {
	Active bool `json:"active"`
}

func (c *HTTPChecker) HasActiveEntitlement(ctx context.Context, userID uint) (bool, error) {
	var body entitlementResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("%s/v1/entitlements/%d", c.baseURL, userID))
	if err != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "billing check failed", err, "")
	}
	if resp.IsError() {
		return false, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("billing check failed with status %d", resp.StatusCode()), nil, "")
	}
	return body.Active, nil
}

// AlwaysEntitled grants everyone access; used when no billing service is
// configured (development and self-hosted deployments).
type AlwaysEntitled struct{}

var _ Checker = (*AlwaysEntitled)(nil)

func (AlwaysEntitled) HasActiveEntitlement(context.Context, uint) (bool, error) {
	return true, nil
}

// EntitlementService applies the product access rule: the first interaction
// is always free; from the second one on, the billing Checker decides.
type EntitlementService struct {
	checker Checker
	usage   usagerepo.Repository
}

func NewEntitlementService(checker Checker, usage usagerepo.Repository) *EntitlementService {
	return &EntitlementService{checker: checker, usage: usage}
}

// Authorize returns nil when the user may run a chat request. It is checked
// exactly once per request, before any model call.
func (s *EntitlementService) Authorize(ctx context.Context, userID uint) error {
	count, err := s.usage.CountByUser(ctx, userID)
	if err != nil {
		// Usage lookup failures must not lock paying users out; fall
		// through to the billing check.
		log := logger.GetLogger()
		log.Warn().Err(err).Uint("user_id", userID).Msg("interaction count unavailable")
	} else if count == 0 {
		return nil
	}

	entitled, err := s.checker.HasActiveEntitlement(ctx, userID)
	if err != nil {
		return err
	}
	if !entitled {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeEntitlement,
			"an active subscription is required to keep chatting with the coach", nil, "")
	}
	return nil
}
