package database

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/secugard/secugard/internal/common/config"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore implements Store on top of gorm, with driver selection by
// configuration.
type DBStore struct {
	db     *gorm.DB
	dbType string
	logger *zap.Logger
}

// NewDBStore opens the configured database and migrates the schema.
func NewDBStore(logger *zap.Logger, cfg *config.DatabaseConfig) (*DBStore, error) {
	logger = logger.Named("store.db")

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "mysql":
		dialector = mysql.Open(cfg.GetDSN())
	case "sqlite":
		// Foreign keys are off by default in SQLite; cascade rules depend
		// on them.
		dialector = sqlite.Open(cfg.GetDSN() + "?_pragma=foreign_keys(1)")
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{}, &Permission{},
		&Enterprise{}, &Site{}, &Zone{}, &Employee{},
		&Tag{}, &Holiday{}, &Planning{}, &PatrolLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database ready", zap.String("type", cfg.Type))
	return &DBStore{db: db, dbType: cfg.Type, logger: logger}, nil
}

// Close closes the database connection
func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside a single transaction bound into the context.
func (s *DBStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTransaction(ctx, tx))
	})
}

// Users and permissions

func (s *DBStore) CreateUser(ctx context.Context, user *User) error {
	return getDBFromContext(ctx, s.db).Create(user).Error
}

func (s *DBStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := getDBFromContext(ctx, s.db).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DBStore) UpdateUser(ctx context.Context, user *User) error {
	return getDBFromContext(ctx, s.db).Save(user).Error
}

func (s *DBStore) ListUsers(ctx context.Context) ([]*User, error) {
	var users []*User
	err := getDBFromContext(ctx, s.db).Order("username asc").Find(&users).Error
	return users, err
}

func (s *DBStore) GrantPermission(ctx context.Context, userID uint, code string) error {
	perm := &Permission{UserID: userID, Code: code}
	return getDBFromContext(ctx, s.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(perm).Error
}

func (s *DBStore) RevokePermission(ctx context.Context, userID uint, code string) error {
	return getDBFromContext(ctx, s.db).
		Where("user_id = ? AND code = ?", userID, code).
		Delete(&Permission{}).Error
}

func (s *DBStore) HasGrant(ctx context.Context, userID uint, code string) (bool, error) {
	var count int64
	err := getDBFromContext(ctx, s.db).
		Model(&Permission{}).
		Where("user_id = ? AND code = ?", userID, code).
		Count(&count).Error
	return count > 0, err
}

// Enterprises

func (s *DBStore) CreateEnterprise(ctx context.Context, e *Enterprise) error {
	return getDBFromContext(ctx, s.db).Create(e).Error
}

func (s *DBStore) GetEnterprise(ctx context.Context, id uint) (*Enterprise, error) {
	var e Enterprise
	if err := getDBFromContext(ctx, s.db).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *DBStore) ListEnterprises(ctx context.Context) ([]*Enterprise, error) {
	var out []*Enterprise
	err := getDBFromContext(ctx, s.db).Order("designation asc").Find(&out).Error
	return out, err
}

func (s *DBStore) UpdateEnterprise(ctx context.Context, e *Enterprise) error {
	return getDBFromContext(ctx, s.db).Save(e).Error
}

func (s *DBStore) DeleteEnterprise(ctx context.Context, id uint) error {
	return getDBFromContext(ctx, s.db).Delete(&Enterprise{}, id).Error
}

// Sites

func (s *DBStore) CreateSite(ctx context.Context, site *Site) error {
	return getDBFromContext(ctx, s.db).Create(site).Error
}

func (s *DBStore) GetSite(ctx context.Context, id uint) (*Site, error) {
	var site Site
	if err := getDBFromContext(ctx, s.db).Preload("Enterprise").First(&site, id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *DBStore) ListSites(ctx context.Context) ([]*Site, error) {
	var out []*Site
	err := getDBFromContext(ctx, s.db).Preload("Enterprise").Order("designation asc").Find(&out).Error
	return out, err
}

func (s *DBStore) UpdateSite(ctx context.Context, site *Site) error {
	return getDBFromContext(ctx, s.db).Save(site).Error
}

func (s *DBStore) DeleteSite(ctx context.Context, id uint) error {
	return getDBFromContext(ctx, s.db).Delete(&Site{}, id).Error
}

// Zones

func (s *DBStore) CreateZone(ctx context.Context, z *Zone) error {
	if z.PlanState == 0 {
		z.PlanState = PlanStateDraft
	}
	return getDBFromContext(ctx, s.db).Create(z).Error
}

func (s *DBStore) GetZone(ctx context.Context, id uint) (*Zone, error) {
	var z Zone
	if err := getDBFromContext(ctx, s.db).Preload("Site").First(&z, id).Error; err != nil {
		return nil, err
	}
	return &z, nil
}

// GetZoneForUpdate reads the zone under FOR UPDATE so concurrent
// confirm/reopen transitions on the same zone serialize. SQLite has no
// row locks; its single-writer model covers the same guarantee.
func (s *DBStore) GetZoneForUpdate(ctx context.Context, id uint) (*Zone, error) {
	db := getDBFromContext(ctx, s.db)
	if s.dbType != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var z Zone
	if err := db.First(&z, id).Error; err != nil {
		return nil, err
	}
	return &z, nil
}

func (s *DBStore) ListZones(ctx context.Context) ([]*Zone, error) {
	var out []*Zone
	err := getDBFromContext(ctx, s.db).Preload("Site").Order("designation asc").Find(&out).Error
	return out, err
}

// UpdateZone persists the zone as-is, including its plan state. Reserved
// for the plan engine; everything else goes through UpdateZoneInfo.
func (s *DBStore) UpdateZone(ctx context.Context, z *Zone) error {
	return getDBFromContext(ctx, s.db).Save(z).Error
}

// UpdateZoneInfo writes only the user-editable columns. A concurrent
// plan state flip stays untouched.
func (s *DBStore) UpdateZoneInfo(ctx context.Context, id uint, designation string, siteID uint) error {
	res := getDBFromContext(ctx, s.db).
		Model(&Zone{}).
		Where("id = ?", id).
		Updates(map[string]any{"designation": designation, "site_id": siteID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *DBStore) DeleteZone(ctx context.Context, id uint) error {
	return getDBFromContext(ctx, s.db).Delete(&Zone{}, id).Error
}

// Employees

func (s *DBStore) CreateEmployee(ctx context.Context, e *Employee) error {
	return getDBFromContext(ctx, s.db).Create(e).Error
}

func (s *DBStore) GetEmployee(ctx context.Context, id uint) (*Employee, error) {
	var e Employee
	if err := getDBFromContext(ctx, s.db).Preload("Site").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *DBStore) GetEmployeeByPIN(ctx context.Context, pin string) (*Employee, error) {
	var e Employee
	if err := getDBFromContext(ctx, s.db).Where("code_pin = ?", pin).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *DBStore) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var out []*Employee
	err := getDBFromContext(ctx, s.db).Preload("Site").Order("designation asc").Find(&out).Error
	return out, err
}

func (s *DBStore) UpdateEmployee(ctx context.Context, e *Employee) error {
	return getDBFromContext(ctx, s.db).Save(e).Error
}

// DeleteEmployee refuses to remove an employee still referenced by patrol
// logs, mirroring the RESTRICT constraint for stores that cannot enforce it.
func (s *DBStore) DeleteEmployee(ctx context.Context, id uint) error {
	db := getDBFromContext(ctx, s.db)
	var count int64
	if err := db.Model(&PatrolLog{}).Where("checked_by_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmployeeProtected
	}
	return db.Delete(&Employee{}, id).Error
}

// Tags

func (s *DBStore) CreateTag(ctx context.Context, t *Tag) error {
	return getDBFromContext(ctx, s.db).Create(t).Error
}

func (s *DBStore) GetTag(ctx context.Context, id uint) (*Tag, error) {
	var t Tag
	if err := getDBFromContext(ctx, s.db).Preload("Zone").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *DBStore) ListTags(ctx context.Context) ([]*Tag, error) {
	var out []*Tag
	err := getDBFromContext(ctx, s.db).Preload("Zone").Order("display_order asc").Find(&out).Error
	return out, err
}

func (s *DBStore) ListTagsByZone(ctx context.Context, zoneID uint) ([]*Tag, error) {
	var out []*Tag
	err := getDBFromContext(ctx, s.db).
		Where("zone_id = ?", zoneID).
		Order("display_order asc").
		Find(&out).Error
	return out, err
}

func (s *DBStore) UpdateTag(ctx context.Context, t *Tag) error {
	return getDBFromContext(ctx, s.db).Save(t).Error
}

func (s *DBStore) DeleteTag(ctx context.Context, id uint) error {
	return getDBFromContext(ctx, s.db).Delete(&Tag{}, id).Error
}

// Holidays

func (s *DBStore) CreateHoliday(ctx context.Context, h *Holiday) error {
	return getDBFromContext(ctx, s.db).Create(h).Error
}

func (s *DBStore) GetHoliday(ctx context.Context, id uint) (*Holiday, error) {
	var h Holiday
	if err := getDBFromContext(ctx, s.db).First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *DBStore) ListHolidays(ctx context.Context) ([]*Holiday, error) {
	var out []*Holiday
	err := getDBFromContext(ctx, s.db).Order("date asc").Find(&out).Error
	return out, err
}

func (s *DBStore) UpdateHoliday(ctx context.Context, h *Holiday) error {
	return getDBFromContext(ctx, s.db).Save(h).Error
}

func (s *DBStore) DeleteHoliday(ctx context.Context, id uint) error {
	return getDBFromContext(ctx, s.db).Delete(&Holiday{}, id).Error
}

// Plannings

// guardPlanDraft fails with ErrPlanNotEditable unless the zone's plan is
// in draft. Enforced here so every mutation path is covered.
func (s *DBStore) guardPlanDraft(ctx context.Context, zoneID uint) error {
	var z Zone
	if err := getDBFromContext(ctx, s.db).First(&z, zoneID).Error; err != nil {
		return err
	}
	if z.PlanState != PlanStateDraft {
		return ErrPlanNotEditable
	}
	return nil
}

func (s *DBStore) CreatePlanning(ctx context.Context, p *Planning) error {
	if !ValidDayIndex(p.SelectedDayIndex) {
		return ErrInvalidDayIndex
	}
	if _, err := ParseCheckTime(p.CheckTime); err != nil {
		return ErrInvalidCheckTime
	}
	if err := s.guardPlanDraft(ctx, p.ZoneID); err != nil {
		return err
	}
	return getDBFromContext(ctx, s.db).Create(p).Error
}

func (s *DBStore) GetPlanning(ctx context.Context, id uint) (*Planning, error) {
	var p Planning
	if err := getDBFromContext(ctx, s.db).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *DBStore) ListPlanningsByZone(ctx context.Context, zoneID uint) ([]*Planning, error) {
	var out []*Planning
	err := getDBFromContext(ctx, s.db).
		Where("zone_id = ?", zoneID).
		Order("selected_day_index asc, check_time asc").
		Find(&out).Error
	return out, err
}

func (s *DBStore) ListPlanningsByZoneAndDay(ctx context.Context, zoneID uint, dayIndex int) ([]*Planning, error) {
	var out []*Planning
	err := getDBFromContext(ctx, s.db).
		Where("zone_id = ? AND selected_day_index = ?", zoneID, dayIndex).
		Order("check_time asc").
		Find(&out).Error
	return out, err
}

// UpdatePlanning writes the mutable planning fields. Zone and day index
// are fixed at creation and kept from the stored row.
func (s *DBStore) UpdatePlanning(ctx context.Context, p *Planning) error {
	if _, err := ParseCheckTime(p.CheckTime); err != nil {
		return ErrInvalidCheckTime
	}
	stored, err := s.GetPlanning(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := s.guardPlanDraft(ctx, stored.ZoneID); err != nil {
		return err
	}
	p.ZoneID = stored.ZoneID
	p.SelectedDayIndex = stored.SelectedDayIndex
	return getDBFromContext(ctx, s.db).Save(p).Error
}

func (s *DBStore) DeletePlanning(ctx context.Context, id uint) error {
	stored, err := s.GetPlanning(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardPlanDraft(ctx, stored.ZoneID); err != nil {
		return err
	}
	return getDBFromContext(ctx, s.db).Delete(&Planning{}, id).Error
}

// Patrol logs

func (s *DBStore) CreatePatrolLog(ctx context.Context, l *PatrolLog) error {
	return getDBFromContext(ctx, s.db).Create(l).Error
}

func (s *DBStore) CreatePatrolLogs(ctx context.Context, logs []*PatrolLog) error {
	if len(logs) == 0 {
		return nil
	}
	return getDBFromContext(ctx, s.db).Create(logs).Error
}

func (s *DBStore) GetPatrolLog(ctx context.Context, id uint) (*PatrolLog, error) {
	var l PatrolLog
	err := getDBFromContext(ctx, s.db).
		Preload("Tag").Preload("CheckedBy").Preload("Planning").
		First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *DBStore) ListPatrolLogs(ctx context.Context) ([]*PatrolLog, error) {
	var out []*PatrolLog
	err := getDBFromContext(ctx, s.db).
		Preload("Tag").
		Order("check_datetime asc").
		Find(&out).Error
	return out, err
}

func (s *DBStore) ListPatrolLogsByZone(ctx context.Context, zoneID uint) ([]*PatrolLog, error) {
	var out []*PatrolLog
	err := getDBFromContext(ctx, s.db).
		Preload("Tag").
		Joins("JOIN tags ON tags.id = patrol_logs.tag_id").
		Where("tags.zone_id = ?", zoneID).
		Order("check_datetime asc").
		Find(&out).Error
	return out, err
}

func (s *DBStore) UpdatePatrolLog(ctx context.Context, l *PatrolLog) error {
	return getDBFromContext(ctx, s.db).Save(l).Error
}

func (s *DBStore) DeletePatrolLog(ctx context.Context, id uint) error {
	return getDBFromContext(ctx, s.db).Delete(&PatrolLog{}, id).Error
}

// DeleteFuturePatrolLogs purges the zone's un-checked future occurrences,
// whichever planning generated them and including manual entries.
func (s *DBStore) DeleteFuturePatrolLogs(ctx context.Context, zoneID uint, now time.Time) error {
	db := getDBFromContext(ctx, s.db)
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&Tag{}).Select("id").Where("zone_id = ?", zoneID)
	return db.
		Where("check_datetime >= ? AND is_checked = ? AND tag_id IN (?)", now, false, sub).
		Delete(&PatrolLog{}).Error
}
