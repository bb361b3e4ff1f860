package ledger

import (
	"context"
	"errors"
	"fmt"

	"luckyspin/game"
	"luckyspin/models"

	"gorm.io/gorm"
)

// LoadRules reads the persisted rules row, seeding defaults on first boot.
func (s *Store) LoadRules(ctx context.Context) (game.Settings, game.WithdrawalLimits, error) {
	var row models.Rules
	err := s.db.WithContext(ctx).Order("id ASC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings := game.DefaultSettings()
		limits := game.DefaultWithdrawalLimits()
		row = rulesRow(settings, limits)
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return settings, limits, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
		}
		return settings, limits, nil
	}
	if err != nil {
		return game.Settings{}, game.WithdrawalLimits{}, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}

	settings := game.Settings{
		MinStake:          row.MinStake,
		MaxStake:          row.MaxStake,
		FreeSpinStake:     row.FreeSpinStake,
		FreeSpinsPerUser:  row.FreeSpinsPerUser,
		ReferralBonus:     row.ReferralBonus,
		DailyBonusEnabled: row.DailyBonusEnabled,
	}
	limits := game.WithdrawalLimits{
		MinWithdrawal: row.MinWithdrawal,
		MaxWithdrawal: row.MaxWithdrawal,
		DailyLimit:    row.DailyLimit,
		MonthlyLimit:  row.MonthlyLimit,
		Enabled:       row.WithdrawalsEnabled,
	}
	return settings, limits, nil
}

func (s *Store) SaveRules(ctx context.Context, settings game.Settings, limits game.WithdrawalLimits) error {
	var row models.Rules
	err := s.db.WithContext(ctx).Order("id ASC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = rulesRow(settings, limits)
		return s.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	update := rulesRow(settings, limits)
	update.ID = row.ID
	return s.db.WithContext(ctx).Save(&update).Error
}

func rulesRow(settings game.Settings, limits game.WithdrawalLimits) models.Rules {
	return models.Rules{
		MinStake:           settings.MinStake,
		MaxStake:           settings.MaxStake,
		FreeSpinStake:      settings.FreeSpinStake,
		FreeSpinsPerUser:   settings.FreeSpinsPerUser,
		ReferralBonus:      settings.ReferralBonus,
		DailyBonusEnabled:  settings.DailyBonusEnabled,
		MinWithdrawal:      limits.MinWithdrawal,
		MaxWithdrawal:      limits.MaxWithdrawal,
		DailyLimit:         limits.DailyLimit,
		MonthlyLimit:       limits.MonthlyLimit,
		WithdrawalsEnabled: limits.Enabled,
	}
}

// LoadSegments returns the persisted wheel, falling back to (and seeding)
// the launch defaults when no rows exist. The returned wheel is validated;
// a corrupt stored configuration surfaces as ErrConfigurationInvalid rather
// than silently renormalizing.
func (s *Store) LoadSegments(ctx context.Context) ([]game.Segment, error) {
	var rows []models.WheelSegment
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	if len(rows) == 0 {
		defaults := game.DefaultSegments()
		if err := s.SaveSegments(ctx, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}

	segments := make([]game.Segment, len(rows))
	for i, row := range rows {
		segments[i] = game.Segment{
			Position:    row.Position,
			Multiplier:  row.Multiplier,
			Probability: row.Probability,
			Label:       row.Label,
			Color:       row.Color,
			Active:      row.Active,
		}
	}
	if err := game.ValidateSegments(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// SaveSegments validates and replaces the stored wheel in one transaction.
func (s *Store) SaveSegments(ctx context.Context, segments []game.Segment) error {
	if err := game.ValidateSegments(segments); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.WheelSegment{}).Error; err != nil {
			return err
		}
		for _, seg := range segments {
			row := models.WheelSegment{
				Position:    seg.Position,
				Multiplier:  seg.Multiplier,
				Probability: seg.Probability,
				Label:       seg.Label,
				Color:       seg.Color,
				Active:      seg.Active,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
