package services

import (
	"context"
	"testing"
	"time"

	"luckyspin/game"
	"luckyspin/models"
)

type fakeBonusLedger struct {
	last    *models.DailyBonusClaim
	applied []models.DailyBonusClaim
	balance int64
}

func (f *fakeBonusLedger) LastBonusClaim(ctx context.Context, userID string) (*models.DailyBonusClaim, error) {
	return f.last, nil
}

func (f *fakeBonusLedger) ApplyBonusClaim(ctx context.Context, claim models.DailyBonusClaim) (int64, error) {
	f.applied = append(f.applied, claim)
	if claim.Kind == models.BonusKindCoins {
		f.balance += claim.Amount
	}
	return f.balance, nil
}

func (f *fakeBonusLedger) BonusClaims(ctx context.Context, userID string, limit int) ([]models.DailyBonusClaim, error) {
	return f.applied, nil
}

func newBonusService(t *testing.T, ledger *fakeBonusLedger, now time.Time) *BonusService {
	t.Helper()
	svc := NewBonusService(ledger, newTestRuntime(t, singleSegmentWheel(0)))
	svc.now = func() time.Time { return now }
	return svc
}

func TestBonusClaimLadder(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		last       *models.DailyBonusClaim
		wantDay    int
		wantKind   string
		wantAmount int64
	}{
		{name: "first ever claim", last: nil, wantDay: 1, wantKind: models.BonusKindCoins, wantAmount: 50},
		{
			name:       "streak continues",
			last:       &models.DailyBonusClaim{ClaimedOn: "2026-03-09", BonusDay: 2},
			wantDay:    3,
			wantKind:   models.BonusKindCoins,
			wantAmount: 100,
		},
		{
			name:       "day four grants a free spin",
			last:       &models.DailyBonusClaim{ClaimedOn: "2026-03-09", BonusDay: 3},
			wantDay:    4,
			wantKind:   models.BonusKindFreeSpin,
			wantAmount: 1,
		},
		{
			name:       "ladder wraps after day seven",
			last:       &models.DailyBonusClaim{ClaimedOn: "2026-03-09", BonusDay: 7},
			wantDay:    1,
			wantKind:   models.BonusKindCoins,
			wantAmount: 50,
		},
		{
			name:       "missed day resets the streak",
			last:       &models.DailyBonusClaim{ClaimedOn: "2026-03-05", BonusDay: 6},
			wantDay:    1,
			wantKind:   models.BonusKindCoins,
			wantAmount: 50,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &fakeBonusLedger{last: tc.last}
			svc := newBonusService(t, ledger, now)

			res, err := svc.Claim(context.Background(), "u1")
			if err != nil {
				t.Fatalf("Claim: %v", err)
			}
			if res.BonusDay != tc.wantDay {
				t.Errorf("day = %d, want %d", res.BonusDay, tc.wantDay)
			}
			if res.Kind != tc.wantKind {
				t.Errorf("kind = %s, want %s", res.Kind, tc.wantKind)
			}
			if res.Amount != tc.wantAmount {
				t.Errorf("amount = %d, want %d", res.Amount, tc.wantAmount)
			}
			if len(ledger.applied) != 1 || ledger.applied[0].ClaimedOn != "2026-03-10" {
				t.Errorf("applied = %+v, want one claim on 2026-03-10", ledger.applied)
			}
		})
	}
}

func TestBonusClaimTwiceSameDayDenied(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ledger := &fakeBonusLedger{
		last: &models.DailyBonusClaim{ClaimedOn: "2026-03-10", BonusDay: 2},
	}
	svc := newBonusService(t, ledger, now)

	_, err := svc.Claim(context.Background(), "u1")
	denial, ok := game.AsDenial(err)
	if !ok {
		t.Fatalf("err = %v, want denial", err)
	}
	if denial.Reason != game.ReasonBonusAlreadyClaimed {
		t.Errorf("reason = %s, want BONUS_ALREADY_CLAIMED", denial.Reason)
	}
	if len(ledger.applied) != 0 {
		t.Errorf("applied %d claims, want 0", len(ledger.applied))
	}
}

func TestBonusClaimDisabled(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newBonusService(t, &fakeBonusLedger{}, now)

	settings := game.DefaultSettings()
	settings.DailyBonusEnabled = false
	svc.runtime.UpdateSettings(settings)

	_, err := svc.Claim(context.Background(), "u1")
	denial, ok := game.AsDenial(err)
	if !ok {
		t.Fatalf("err = %v, want denial", err)
	}
	if denial.Reason != game.ReasonBonusDisabled {
		t.Errorf("reason = %s, want BONUS_DISABLED", denial.Reason)
	}
}

func TestBonusStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ledger := &fakeBonusLedger{
		last: &models.DailyBonusClaim{ClaimedOn: "2026-03-10", BonusDay: 3},
	}
	svc := newBonusService(t, ledger, now)

	status, err := svc.Status(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.ClaimedToday {
		t.Error("ClaimedToday = false, want true")
	}
	if status.NextDay != 4 || status.NextKind != models.BonusKindFreeSpin {
		t.Errorf("next = day %d kind %s, want day 4 free_spin", status.NextDay, status.NextKind)
	}
	if status.Streak != 3 {
		t.Errorf("streak = %d, want 3", status.Streak)
	}
}
