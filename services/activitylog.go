package services

import (
	"fmt"

	"maengelportal/model"

	"gorm.io/gorm"
)

// LogActivity writes an audit entry. Failures are logged and swallowed so
// the triggering request never fails because of the audit trail.
func LogActivity(db *gorm.DB, entry *model.ActivityLog) {
	if err := db.Create(entry).Error; err != nil {
		fmt.Printf("activity log write failed: %v\n", err)
	}
}
