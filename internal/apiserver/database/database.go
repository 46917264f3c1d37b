package database

import (
	"context"
	"errors"
	"time"
)

// Guard errors enforced at the data-mutation boundary so every entry point
// (API handler, script, test) is covered.
var (
	// ErrPlanNotEditable rejects planning mutations while the owning zone's
	// plan is validated.
	ErrPlanNotEditable = errors.New("cannot modify a plan that has been validated")
	// ErrEmployeeProtected rejects deleting an employee referenced by
	// patrol logs.
	ErrEmployeeProtected = errors.New("employee is referenced by patrol logs")
	// ErrInvalidDayIndex rejects planning day indexes outside the eight
	// known buckets.
	ErrInvalidDayIndex = errors.New("invalid planning day index")
	// ErrInvalidCheckTime rejects planning check times that are not
	// "15:04" or "15:04:05" clock strings.
	ErrInvalidCheckTime = errors.New("invalid planning check time")
)

// Store defines persistence operations for the patrol back office.
type Store interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn inside a single database transaction. The
	// transaction is bound into the context passed to fn, so every Store
	// call made with it joins the same transaction.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Users and permissions
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context) ([]*User, error)
	GrantPermission(ctx context.Context, userID uint, code string) error
	RevokePermission(ctx context.Context, userID uint, code string) error
	HasGrant(ctx context.Context, userID uint, code string) (bool, error)

	// Enterprises
	CreateEnterprise(ctx context.Context, e *Enterprise) error
	GetEnterprise(ctx context.Context, id uint) (*Enterprise, error)
	ListEnterprises(ctx context.Context) ([]*Enterprise, error)
	UpdateEnterprise(ctx context.Context, e *Enterprise) error
	DeleteEnterprise(ctx context.Context, id uint) error

	// Sites
	CreateSite(ctx context.Context, s *Site) error
	GetSite(ctx context.Context, id uint) (*Site, error)
	ListSites(ctx context.Context) ([]*Site, error)
	UpdateSite(ctx context.Context, s *Site) error
	DeleteSite(ctx context.Context, id uint) error

	// Zones
	CreateZone(ctx context.Context, z *Zone) error
	GetZone(ctx context.Context, id uint) (*Zone, error)
	// GetZoneForUpdate reads a zone under a row-level lock. It must be
	// called inside a Transaction context.
	GetZoneForUpdate(ctx context.Context, id uint) (*Zone, error)
	ListZones(ctx context.Context) ([]*Zone, error)
	UpdateZone(ctx context.Context, z *Zone) error
	// UpdateZoneInfo updates the zone's own fields without reading or
	// writing the plan state, so it cannot race a confirm/reopen.
	UpdateZoneInfo(ctx context.Context, id uint, designation string, siteID uint) error
	DeleteZone(ctx context.Context, id uint) error

	// Employees
	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id uint) (*Employee, error)
	GetEmployeeByPIN(ctx context.Context, pin string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, e *Employee) error
	DeleteEmployee(ctx context.Context, id uint) error

	// Tags
	CreateTag(ctx context.Context, t *Tag) error
	GetTag(ctx context.Context, id uint) (*Tag, error)
	ListTags(ctx context.Context) ([]*Tag, error)
	ListTagsByZone(ctx context.Context, zoneID uint) ([]*Tag, error)
	UpdateTag(ctx context.Context, t *Tag) error
	DeleteTag(ctx context.Context, id uint) error

	// Holidays
	CreateHoliday(ctx context.Context, h *Holiday) error
	GetHoliday(ctx context.Context, id uint) (*Holiday, error)
	ListHolidays(ctx context.Context) ([]*Holiday, error)
	UpdateHoliday(ctx context.Context, h *Holiday) error
	DeleteHoliday(ctx context.Context, id uint) error

	// Plannings. Create, update and delete enforce the draft guard: they
	// fail with ErrPlanNotEditable unless the owning zone is in draft.
	CreatePlanning(ctx context.Context, p *Planning) error
	GetPlanning(ctx context.Context, id uint) (*Planning, error)
	ListPlanningsByZone(ctx context.Context, zoneID uint) ([]*Planning, error)
	ListPlanningsByZoneAndDay(ctx context.Context, zoneID uint, dayIndex int) ([]*Planning, error)
	UpdatePlanning(ctx context.Context, p *Planning) error
	DeletePlanning(ctx context.Context, id uint) error

	// Patrol logs
	CreatePatrolLog(ctx context.Context, l *PatrolLog) error
	CreatePatrolLogs(ctx context.Context, logs []*PatrolLog) error
	GetPatrolLog(ctx context.Context, id uint) (*PatrolLog, error)
	ListPatrolLogs(ctx context.Context) ([]*PatrolLog, error)
	ListPatrolLogsByZone(ctx context.Context, zoneID uint) ([]*PatrolLog, error)
	UpdatePatrolLog(ctx context.Context, l *PatrolLog) error
	DeletePatrolLog(ctx context.Context, id uint) error
	// DeleteFuturePatrolLogs removes every un-checked log for the zone's
	// tags whose expected check datetime is at or after now. Past and
	// already-checked occurrences are never touched.
	DeleteFuturePatrolLogs(ctx context.Context, zoneID uint, now time.Time) error
}
