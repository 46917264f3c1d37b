package dto

import "time"

// Auth

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Permission grants

type GrantRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

// Plain CRUD entities

type CreateEnterpriseRequest struct {
	Designation string `json:"designation" binding:"required"`
}

type UpdateEnterpriseRequest struct {
	Designation string `json:"designation" binding:"required"`
}

type CreateSiteRequest struct {
	Designation  string `json:"designation" binding:"required"`
	EnterpriseID uint   `json:"enterpriseId" binding:"required"`
}

type UpdateSiteRequest struct {
	Designation  string `json:"designation" binding:"required"`
	EnterpriseID uint   `json:"enterpriseId" binding:"required"`
}

// Zone create/update never carry the plan state. Transitions own it.

type CreateZoneRequest struct {
	Designation string `json:"designation" binding:"required"`
	SiteID      uint   `json:"siteId" binding:"required"`
}

type UpdateZoneRequest struct {
	Designation string `json:"designation" binding:"required"`
	SiteID      uint   `json:"siteId" binding:"required"`
}

type CreateEmployeeRequest struct {
	Designation string `json:"designation" binding:"required"`
	CodePIN     string `json:"codePin"`
	SiteID      uint   `json:"siteId" binding:"required"`
}

type UpdateEmployeeRequest struct {
	Designation string `json:"designation" binding:"required"`
	CodePIN     string `json:"codePin"`
	SiteID      uint   `json:"siteId" binding:"required"`
}

type CreateTagRequest struct {
	ZoneID      uint   `json:"zoneId" binding:"required"`
	CodeNFC     string `json:"codeNfc" binding:"required"`
	Designation string `json:"designation" binding:"required"`
	Order       *uint  `json:"order"`
	Observation string `json:"observation"`
}

type UpdateTagRequest struct {
	ZoneID      uint   `json:"zoneId" binding:"required"`
	CodeNFC     string `json:"codeNfc" binding:"required"`
	Designation string `json:"designation" binding:"required"`
	Order       *uint  `json:"order"`
	Observation string `json:"observation"`
}

type CreateHolidayRequest struct {
	Designation string `json:"designation" binding:"required"`
	Date        string `json:"date" binding:"required"` // "2006-01-02"
}

type UpdateHolidayRequest struct {
	Designation string `json:"designation" binding:"required"`
	Date        string `json:"date" binding:"required"`
}

// Plannings are always scoped under a zone and day index taken from the
// URL, never from the body.

type CreatePlanningRequest struct {
	CheckTime     string        `json:"checkTime" binding:"required"` // "15:04"
	ToleratedTime time.Duration `json:"toleratedTime" binding:"required"`
	Observation   string        `json:"observation"`
}

type UpdatePlanningRequest struct {
	CheckTime     string        `json:"checkTime" binding:"required"`
	ToleratedTime time.Duration `json:"toleratedTime" binding:"required"`
	Observation   string        `json:"observation"`
}

// Patrol logs

type CreatePatrolLogRequest struct {
	TagID              uint          `json:"tagId" binding:"required"`
	CheckDatetime      time.Time     `json:"checkDatetime" binding:"required"`
	CheckTolerance     time.Duration `json:"checkTolerance"`
	AudioPath          string        `json:"audioPath"`
	ImagePath          string        `json:"imagePath"`
	DescriptionAnomaly string        `json:"descriptionAnomaly"`
}

type UpdatePatrolLogRequest struct {
	AudioPath          string `json:"audioPath"`
	ImagePath          string `json:"imagePath"`
	DescriptionAnomaly string `json:"descriptionAnomaly"`
}

// CheckPatrolLogRequest records a guard's visit on an occurrence. The
// guard identifies with the PIN code of their badge.
type CheckPatrolLogRequest struct {
	CodePIN            string `json:"codePin" binding:"required"`
	AudioPath          string `json:"audioPath"`
	ImagePath          string `json:"imagePath"`
	DescriptionAnomaly string `json:"descriptionAnomaly"`
}
