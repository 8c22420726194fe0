package storage

import (
	"skinglow-go/internal/constants"
	"skinglow-go/internal/models"
)

// GetUserUsage 当前用量快照：档位、当日扫描数与限额
func (s *Store) GetUserUsage(uid string) (*models.Usage, error) {
	user, err := s.GetUser(uid)
	if err != nil {
		return nil, err
	}

	tier := "free"
	if user != nil {
		tier = user.Tier
	}

	scansToday, err := s.DailyScanCount(uid)
	if err != nil {
		return nil, err
	}

	limits := constants.GetTierLimits(tier)
	return &models.Usage{
		Tier:        tier,
		ScansToday:  scansToday,
		ScansLimit:  limits.ScansPerDay,
		CanScan:     constants.CanScan(tier, scansToday),
		HistoryDays: limits.HistoryDays,
		Features:    limits.Features,
	}, nil
}

// HistoryDays 档位可见的历史天数，-1表示不限
func HistoryDays(tier string) int {
	return constants.GetTierLimits(tier).HistoryDays
}
