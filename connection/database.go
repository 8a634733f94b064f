package connection

import (
	"fmt"
	"os"

	"maengelportal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func DBConnection() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("mysql connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates all tables. Tests laufen über dieselbe
// Funktion gegen sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Submission{},
		&model.UploadedFile{},
		&model.Bauleitung{},
		&model.Verantwortlicher{},
		&model.Gewerk{},
		&model.Firma{},
		&model.AdminUser{},
		&model.Customer{},
		&model.ActivityLog{},
	)
}
