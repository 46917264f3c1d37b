package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/secugard/secugard/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *DBStore {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "test.db"),
	}
	store, err := NewDBStore(zap.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedZone creates enterprise, site and zone and returns the zone.
func seedZone(t *testing.T, store *DBStore) *Zone {
	t.Helper()
	ctx := context.Background()
	e := &Enterprise{Designation: "Acme Security"}
	require.NoError(t, store.CreateEnterprise(ctx, e))
	site := &Site{Designation: "HQ", EnterpriseID: e.ID}
	require.NoError(t, store.CreateSite(ctx, site))
	z := &Zone{Designation: "Warehouse", SiteID: site.ID}
	require.NoError(t, store.CreateZone(ctx, z))
	return z
}

func TestHierarchyCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	z := seedZone(t, store)
	assert.Equal(t, PlanStateDraft, z.PlanState, "new zone starts in draft")

	got, err := store.GetZone(ctx, z.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Site)
	assert.Equal(t, "HQ", got.Site.Designation)

	got.Designation = "Warehouse B"
	require.NoError(t, store.UpdateZone(ctx, got))

	zones, err := store.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Warehouse B", zones[0].Designation)

	require.NoError(t, store.DeleteZone(ctx, z.ID))
	_, err = store.GetZone(ctx, z.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateZoneInfoLeavesPlanState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	z.PlanState = PlanStateValidated
	require.NoError(t, store.UpdateZone(ctx, z))

	require.NoError(t, store.UpdateZoneInfo(ctx, z.ID, "Warehouse B", z.SiteID))

	got, err := store.GetZone(ctx, z.ID)
	require.NoError(t, err)
	assert.Equal(t, "Warehouse B", got.Designation)
	assert.Equal(t, PlanStateValidated, got.PlanState, "field update must not touch the plan state")

	assert.ErrorIs(t, store.UpdateZoneInfo(ctx, 99999, "X", z.SiteID), gorm.ErrRecordNotFound)
}

func TestTagsOrderedByDisplayOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	second, first := uint(2), uint(1)
	require.NoError(t, store.CreateTag(ctx, &Tag{ZoneID: z.ID, CodeNFC: "NFC-B", Designation: "Back door", Order: &second}))
	require.NoError(t, store.CreateTag(ctx, &Tag{ZoneID: z.ID, CodeNFC: "NFC-A", Designation: "Front door", Order: &first}))

	tags, err := store.ListTagsByZone(ctx, z.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Front door", tags[0].Designation)
	assert.Equal(t, "Back door", tags[1].Designation)
}

func TestGetEmployeeByPIN(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	emp := &Employee{Designation: "Diallo", CodePIN: "4821", SiteID: z.SiteID}
	require.NoError(t, store.CreateEmployee(ctx, emp))

	got, err := store.GetEmployeeByPIN(ctx, "4821")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)

	_, err = store.GetEmployeeByPIN(ctx, "0000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteEmployeeProtectedByPatrolLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	emp := &Employee{Designation: "Diallo", CodePIN: "4821", SiteID: z.SiteID}
	require.NoError(t, store.CreateEmployee(ctx, emp))
	tag := &Tag{ZoneID: z.ID, CodeNFC: "NFC-A", Designation: "Front door"}
	require.NoError(t, store.CreateTag(ctx, tag))

	now := time.Now()
	log := &PatrolLog{
		TagID:           tag.ID,
		IsChecked:       true,
		CheckDatetime:   now,
		CheckedDatetime: &now,
		CheckedByID:     &emp.ID,
	}
	require.NoError(t, store.CreatePatrolLog(ctx, log))

	err := store.DeleteEmployee(ctx, emp.ID)
	assert.ErrorIs(t, err, ErrEmployeeProtected)

	require.NoError(t, store.DeletePatrolLog(ctx, log.ID))
	assert.NoError(t, store.DeleteEmployee(ctx, emp.ID))
}

func TestPlanningDraftGuard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	p := &Planning{
		ZoneID:           z.ID,
		SelectedDayIndex: DayMonday,
		CheckTime:        "08:00",
		ToleratedTime:    15 * time.Minute,
	}
	require.NoError(t, store.CreatePlanning(ctx, p))

	z.PlanState = PlanStateValidated
	require.NoError(t, store.UpdateZone(ctx, z))

	err := store.CreatePlanning(ctx, &Planning{
		ZoneID:           z.ID,
		SelectedDayIndex: DayTuesday,
		CheckTime:        "09:00",
	})
	assert.ErrorIs(t, err, ErrPlanNotEditable)

	p.CheckTime = "10:00"
	assert.ErrorIs(t, store.UpdatePlanning(ctx, p), ErrPlanNotEditable)
	assert.ErrorIs(t, store.DeletePlanning(ctx, p.ID), ErrPlanNotEditable)

	z.PlanState = PlanStateDraft
	require.NoError(t, store.UpdateZone(ctx, z))
	require.NoError(t, store.UpdatePlanning(ctx, p))
	require.NoError(t, store.DeletePlanning(ctx, p.ID))
}

func TestCreatePlanningRejectsBadDayIndex(t *testing.T) {
	store := newTestStore(t)
	z := seedZone(t, store)

	err := store.CreatePlanning(context.Background(), &Planning{
		ZoneID:           z.ID,
		SelectedDayIndex: 7,
		CheckTime:        "08:00",
	})
	assert.ErrorIs(t, err, ErrInvalidDayIndex)
}

func TestPlanningRejectsBadCheckTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	for _, bad := range []string{"", "25:00", "8h30", "not-a-time"} {
		err := store.CreatePlanning(ctx, &Planning{
			ZoneID:           z.ID,
			SelectedDayIndex: DayMonday,
			CheckTime:        bad,
		})
		assert.ErrorIs(t, err, ErrInvalidCheckTime, "check time %q", bad)
	}

	p := &Planning{ZoneID: z.ID, SelectedDayIndex: DayMonday, CheckTime: "08:00"}
	require.NoError(t, store.CreatePlanning(ctx, p))
	require.NoError(t, store.CreatePlanning(ctx, &Planning{
		ZoneID: z.ID, SelectedDayIndex: DayTuesday, CheckTime: "08:00:30",
	}))

	p.CheckTime = "not-a-time"
	assert.ErrorIs(t, store.UpdatePlanning(ctx, p), ErrInvalidCheckTime)
}

func TestUpdatePlanningKeepsZoneAndDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	p := &Planning{ZoneID: z.ID, SelectedDayIndex: DayFriday, CheckTime: "22:00"}
	require.NoError(t, store.CreatePlanning(ctx, p))

	p.SelectedDayIndex = DayMonday
	p.CheckTime = "23:00"
	require.NoError(t, store.UpdatePlanning(ctx, p))

	got, err := store.GetPlanning(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, DayFriday, got.SelectedDayIndex, "day index is fixed at creation")
	assert.Equal(t, "23:00", got.CheckTime)
}

func TestDeleteFuturePatrolLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	other := &Zone{Designation: "Parking", SiteID: z.SiteID}
	require.NoError(t, store.CreateZone(ctx, other))

	tag := &Tag{ZoneID: z.ID, CodeNFC: "NFC-A", Designation: "Front door"}
	require.NoError(t, store.CreateTag(ctx, tag))
	otherTag := &Tag{ZoneID: other.ID, CodeNFC: "NFC-P", Designation: "Gate"}
	require.NoError(t, store.CreateTag(ctx, otherTag))

	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	logs := []*PatrolLog{
		{TagID: tag.ID, CheckDatetime: past},                      // past, kept
		{TagID: tag.ID, CheckDatetime: future},                    // future unchecked, purged
		{TagID: tag.ID, CheckDatetime: future, IsChecked: true},   // future but checked, kept
		{TagID: otherTag.ID, CheckDatetime: future},               // other zone, kept
	}
	require.NoError(t, store.CreatePatrolLogs(ctx, logs))

	require.NoError(t, store.DeleteFuturePatrolLogs(ctx, z.ID, now))

	zoneLogs, err := store.ListPatrolLogsByZone(ctx, z.ID)
	require.NoError(t, err)
	require.Len(t, zoneLogs, 2)
	assert.Equal(t, past, zoneLogs[0].CheckDatetime.UTC())
	assert.True(t, zoneLogs[1].IsChecked)

	otherLogs, err := store.ListPatrolLogsByZone(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherLogs, 1)
}

func TestTransactionRollback(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	z := seedZone(t, store)

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(txCtx context.Context) error {
		if err := store.CreateTag(txCtx, &Tag{ZoneID: z.ID, CodeNFC: "NFC-A", Designation: "Front door"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tags, err := store.ListTagsByZone(ctx, z.ID)
	require.NoError(t, err)
	assert.Empty(t, tags, "rolled back create must not persist")
}

func TestPermissionGrants(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &User{Username: "agent", Password: "x", Role: RoleNormal}
	require.NoError(t, store.CreateUser(ctx, user))

	ok, err := store.HasGrant(ctx, user.ID, "core.confirm_zone")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.GrantPermission(ctx, user.ID, "core.confirm_zone"))
	// Granting twice must not fail.
	require.NoError(t, store.GrantPermission(ctx, user.ID, "core.confirm_zone"))

	ok, err = store.HasGrant(ctx, user.ID, "core.confirm_zone")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.RevokePermission(ctx, user.ID, "core.confirm_zone"))
	ok, err = store.HasGrant(ctx, user.ID, "core.confirm_zone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInitSuperAdmin(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	cfg := &config.SuperAdminConfig{Username: "admin", Password: "changeme"}

	require.NoError(t, InitSuperAdmin(ctx, store, cfg, zap.NewNop()))

	user, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("changeme")))

	// Idempotent on restart.
	require.NoError(t, InitSuperAdmin(ctx, store, cfg, zap.NewNop()))
	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
