package appversion

import "time"

// AppVersion describes the current and minimum supported driver app
// builds. The newest row wins; clients below VersionCodeMin must update.
type AppVersion struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	IsRunMode          bool   `gorm:"default:true" json:"is_run_mode"`
	Name               string `gorm:"type:varchar(100)" json:"name"`
	URICurrent         string `gorm:"type:text" json:"uri_current"`
	VersionCodeCurrent int    `gorm:"not null" json:"version_code_current"`
	VersionCodeMin     int    `gorm:"not null" json:"version_code_min"`
	UpdateInfo         string `gorm:"type:text" json:"update_info"`

	UpdateDate time.Time `gorm:"autoCreateTime" json:"update_date"`
}

// TableName sets the table name for the AppVersion model
func (AppVersion) TableName() string {
	return "app_versions"
}
