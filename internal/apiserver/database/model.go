package database

import "time"

// PlanState tracks the lifecycle of a zone's weekly plan.
type PlanState int

const (
	PlanStateDraft     PlanState = 1
	PlanStateValidated PlanState = 2
)

func (s PlanState) String() string {
	switch s {
	case PlanStateDraft:
		return "draft"
	case PlanStateValidated:
		return "validated"
	default:
		return "unknown"
	}
}

// Day indexes for planning entries. Monday through Sunday follow the
// weekday numbering used by time.Weekday shifted to Monday=0; the holiday
// bucket sits apart at 8.
const (
	DayMonday    = 0
	DayTuesday   = 1
	DayWednesday = 2
	DayThursday  = 3
	DayFriday    = 4
	DaySaturday  = 5
	DaySunday    = 6
	DayHoliday   = 8
)

// ValidDayIndex reports whether idx is one of the eight planning buckets.
func ValidDayIndex(idx int) bool {
	return (idx >= DayMonday && idx <= DaySunday) || idx == DayHoliday
}

// ParseCheckTime parses a planning's time of day, with or without seconds.
func ParseCheckTime(s string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("15:04", s)
}

// UserRole represents the role of a back-office user
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleNormal UserRole = "normal"
)

// User represents a back-office account
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(50);uniqueIndex"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash, never exposed
	Role      UserRole  `json:"role" gorm:"not null;default:'normal'"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Permission is a per-user grant row, code in "core.<action>_<model>" form.
type Permission struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_user_perm"`
	Code      string    `json:"code" gorm:"type:varchar(100);not null;uniqueIndex:idx_user_perm"`
	CreatedAt time.Time `json:"createdAt"`
}

// Enterprise owns sites.
type Enterprise struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Designation string    `json:"designation" gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Site belongs to an enterprise and owns zones and employees.
type Site struct {
	ID           uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	Designation  string      `json:"designation" gorm:"type:varchar(255);not null"`
	EnterpriseID uint        `json:"enterpriseId" gorm:"not null;index"`
	Enterprise   *Enterprise `json:"enterprise,omitempty" gorm:"foreignKey:EnterpriseID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Zone carries the plan state. PlanState is only ever mutated by the
// confirm/reopen transitions, never through the update endpoint.
type Zone struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Designation string    `json:"designation" gorm:"type:varchar(255);not null"`
	SiteID      uint      `json:"siteId" gorm:"not null;index"`
	Site        *Site     `json:"site,omitempty" gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
	PlanState   PlanState `json:"planState" gorm:"not null;default:1"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Employee is a patrol guard attached to a site, identified on the field
// by a PIN code.
type Employee struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Designation string    `json:"designation" gorm:"type:varchar(255);not null"`
	CodePIN     string    `json:"codePin" gorm:"type:varchar(255)"`
	SiteID      uint      `json:"siteId" gorm:"not null;index"`
	Site        *Site     `json:"site,omitempty" gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Tag is a physical NFC checkpoint inside a zone.
type Tag struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ZoneID      uint      `json:"zoneId" gorm:"not null;index"`
	Zone        *Zone     `json:"zone,omitempty" gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE"`
	CodeNFC     string    `json:"codeNfc" gorm:"type:varchar(255);not null"`
	Designation string    `json:"designation" gorm:"type:varchar(255);not null"`
	Order       *uint     `json:"order,omitempty" gorm:"column:display_order"`
	Observation string    `json:"observation" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Holiday is a plain calendar lookup entry. It is not joined into
// occurrence generation.
type Holiday struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Designation string    `json:"designation" gorm:"type:varchar(100);not null"`
	Date        time.Time `json:"date" gorm:"type:date;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Planning is one weekly schedule entry: on day SelectedDayIndex, tags of
// the zone are expected to be visited around CheckTime, within
// ToleratedTime. Zone and day index are fixed at creation.
type Planning struct {
	ID               uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	ZoneID           uint          `json:"zoneId" gorm:"not null;index"`
	Zone             *Zone         `json:"zone,omitempty" gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE"`
	SelectedDayIndex int           `json:"selectedDayIndex" gorm:"not null"`
	CheckTime        string        `json:"checkTime" gorm:"type:varchar(8);not null"` // "15:04"
	ToleratedTime    time.Duration `json:"toleratedTime" gorm:"not null"`
	Observation      string        `json:"observation" gorm:"type:text"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// PatrolLog is one expected or completed checkpoint visit. Rows are either
// generated from a planning or created manually for unplanned visits.
type PatrolLog struct {
	ID                 uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	TagID              uint          `json:"tagId" gorm:"not null;index"`
	Tag                *Tag          `json:"tag,omitempty" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
	AudioPath          string        `json:"audioPath" gorm:"type:varchar(255)"`
	ImagePath          string        `json:"imagePath" gorm:"type:varchar(255)"`
	DescriptionAnomaly string        `json:"descriptionAnomaly" gorm:"type:text"`
	IsChecked          bool          `json:"isChecked" gorm:"not null;default:false"`
	CheckDatetime      time.Time     `json:"checkDatetime" gorm:"not null;index"`
	CheckTolerance     time.Duration `json:"checkTolerance" gorm:"not null"`
	CheckedDatetime    *time.Time    `json:"checkedDatetime,omitempty"`
	CheckedByID        *uint         `json:"checkedById,omitempty"`
	CheckedBy          *Employee     `json:"checkedBy,omitempty" gorm:"foreignKey:CheckedByID;constraint:OnDelete:RESTRICT"`
	PlanningID         *uint         `json:"planningId,omitempty"`
	Planning           *Planning     `json:"planning,omitempty" gorm:"foreignKey:PlanningID;constraint:OnDelete:SET NULL"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}
