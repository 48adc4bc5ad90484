package records

import "gorm.io/gorm"

// Init creates or updates the five entity tables.
func Init(db *gorm.DB) error {
	return db.AutoMigrate(&Patient{}, &Provider{}, &Visit{}, &EDVisit{}, &Discharge{})
}
