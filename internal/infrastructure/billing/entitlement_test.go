package billing

import (
	"context"
	"errors"
	"testing"

	"fitcoach/services/coach-api/internal/infrastructure/database/repository/usagerepo"
	"fitcoach/services/coach-api/internal/utils/platformerrors"
)

type fakeChecker struct {
	entitled bool
	err      error
	calls    int
}

func (f *fakeChecker) HasActiveEntitlement(context.Context, uint) (bool, error) {
	f.calls++
	return f.entitled, f.err
}

type fakeUsage struct {
	count int64
	err   error
}

func (f *fakeUsage) CountByUser(context.Context, uint) (int64, error) { return f.count, f.err }
func (f *fakeUsage) Record(context.Context, usagerepo.Interaction) error {
	return nil
}

func TestAuthorizeFirstUseIsFree(t *testing.T) {
	checker := &fakeChecker{entitled: false}
	svc := NewEntitlementService(checker, &fakeUsage{count: 0})

	if err := svc.Authorize(context.Background(), 1); err != nil {
		t.Fatalf("first use must be free: %v", err)
	}
	if checker.calls != 0 {
		t.Error("billing must not be consulted on first use")
	}
}

func TestAuthorizeRequiresEntitlementAfterFirstUse(t *testing.T) {
	tests := []struct {
		name     string
		entitled bool
		wantErr  bool
	}{
		{"entitled user passes", true, false},
		{"unentitled user rejected", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEntitlementService(&fakeChecker{entitled: tt.entitled}, &fakeUsage{count: 3})
			err := svc.Authorize(context.Background(), 1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeEntitlement) {
				t.Errorf("error type = %v", err)
			}
		})
	}
}

func TestAuthorizeFallsBackToBillingWhenUsageUnavailable(t *testing.T) {
	checker := &fakeChecker{entitled: true}
	svc := NewEntitlementService(checker, &fakeUsage{err: errors.New("db down")})

	if err := svc.Authorize(context.Background(), 1); err != nil {
		t.Fatalf("entitled user must pass despite usage failure: %v", err)
	}
	if checker.calls != 1 {
		t.Error("billing must be consulted when the usage count is unknown")
	}
}
