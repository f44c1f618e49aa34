package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Contest{},
		&Participant{},
		&Submission{},
		&Payment{},
	)
}

// dropAllTables is used by the integration tests to start from a clean schema.
func dropAllTables(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&Payment{},
		&Submission{},
		&Participant{},
		&Contest{},
		&User{},
	)
}
