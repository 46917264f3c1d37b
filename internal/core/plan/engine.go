package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/secugard/secugard/internal/apiserver/database"
	"go.uber.org/zap"
)

// ErrInvalidTransition rejects confirm on a validated zone and reopen on a
// draft zone.
var ErrInvalidTransition = errors.New("invalid plan state transition")

// Engine drives the draft/validated lifecycle of zone plans and expands
// weekly plannings into dated patrol log occurrences.
type Engine struct {
	store  database.Store
	logger *zap.Logger
}

func NewEngine(store database.Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.Named("plan.engine"),
	}
}

// NextCheckDate returns the date of the next occurrence of dayIndex
// (Monday=0) counted from today. When today's weekday is past the index,
// the raw index is used as a day offset. That is how the scheduling has
// always worked and stored data depends on it, so it stays.
func NextCheckDate(today time.Time, dayIndex int) time.Time {
	weekday := (int(today.Weekday()) + 6) % 7 // Monday=0
	if weekday <= dayIndex {
		return today.AddDate(0, 0, dayIndex-weekday)
	}
	return today.AddDate(0, 0, dayIndex)
}

// Confirm transitions the zone from draft to validated. Purge, generation
// and the state flip run in one transaction; on any failure the zone stays
// draft and no occurrence is written.
func (e *Engine) Confirm(ctx context.Context, zoneID uint, now time.Time) (*database.Zone, error) {
	var zone *database.Zone
	err := e.store.Transaction(ctx, func(txCtx context.Context) error {
		z, err := e.store.GetZoneForUpdate(txCtx, zoneID)
		if err != nil {
			return err
		}
		if z.PlanState != database.PlanStateDraft {
			return ErrInvalidTransition
		}

		generated, err := e.generate(txCtx, z, now)
		if err != nil {
			return err
		}

		z.PlanState = database.PlanStateValidated
		if err := e.store.UpdateZone(txCtx, z); err != nil {
			return err
		}

		e.logger.Info("zone plan confirmed",
			zap.Uint("zone_id", z.ID),
			zap.Int("occurrences", generated))
		occurrencesGenerated.Add(float64(generated))
		zone = z
		return nil
	})
	observeTransition("confirm", err)
	if err != nil {
		return nil, err
	}
	return zone, nil
}

// Reopen transitions the zone from validated back to draft. Existing
// occurrences, past or future, are left untouched.
func (e *Engine) Reopen(ctx context.Context, zoneID uint) (*database.Zone, error) {
	var zone *database.Zone
	err := e.store.Transaction(ctx, func(txCtx context.Context) error {
		z, err := e.store.GetZoneForUpdate(txCtx, zoneID)
		if err != nil {
			return err
		}
		if z.PlanState != database.PlanStateValidated {
			return ErrInvalidTransition
		}

		z.PlanState = database.PlanStateDraft
		if err := e.store.UpdateZone(txCtx, z); err != nil {
			return err
		}

		e.logger.Info("zone plan reopened", zap.Uint("zone_id", z.ID))
		zone = z
		return nil
	})
	observeTransition("reopen", err)
	if err != nil {
		return nil, err
	}
	return zone, nil
}

// generate purges the zone's future un-checked occurrences and expands
// every non-holiday planning against every tag of the zone. It returns
// the number of rows inserted.
func (e *Engine) generate(ctx context.Context, zone *database.Zone, now time.Time) (int, error) {
	if err := e.store.DeleteFuturePatrolLogs(ctx, zone.ID, now); err != nil {
		return 0, fmt.Errorf("purge future occurrences: %w", err)
	}

	plannings, err := e.store.ListPlanningsByZone(ctx, zone.ID)
	if err != nil {
		return 0, err
	}
	tags, err := e.store.ListTagsByZone(ctx, zone.ID)
	if err != nil {
		return 0, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var logs []*database.PatrolLog
	for _, p := range plannings {
		if p.SelectedDayIndex == database.DayHoliday {
			// Holiday plannings are stored but not expanded. There is no
			// holiday calendar join yet.
			continue
		}
		checkTime, err := database.ParseCheckTime(p.CheckTime)
		if err != nil {
			return 0, fmt.Errorf("planning %d has invalid check time %q: %w", p.ID, p.CheckTime, err)
		}
		checkDate := NextCheckDate(today, p.SelectedDayIndex)
		checkDatetime := time.Date(
			checkDate.Year(), checkDate.Month(), checkDate.Day(),
			checkTime.Hour(), checkTime.Minute(), checkTime.Second(), 0,
			now.Location())

		for _, tag := range tags {
			planningID := p.ID
			logs = append(logs, &database.PatrolLog{
				TagID:          tag.ID,
				PlanningID:     &planningID,
				CheckDatetime:  checkDatetime,
				CheckTolerance: p.ToleratedTime,
				IsChecked:      false,
			})
		}
	}

	if err := e.store.CreatePatrolLogs(ctx, logs); err != nil {
		return 0, fmt.Errorf("insert occurrences: %w", err)
	}
	return len(logs), nil
}
