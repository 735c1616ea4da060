package database

import (
	"fmt"
	"strings"
	"time"

	"cacc/config"
	"cacc/models"
	"cacc/utils"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to the configured database and migrates the schema
func ConnectDb() {
	dialector, err := Dialector(config.AppConfig)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to select database driver")
	}

	db, err := Open(dialector, config.AppConfig.Debug)
	if err != nil {
		utils.Logger.WithError(err).WithField("driver", config.AppConfig.DBDriver).Fatal("Failed to connect to database")
	}

	// Save database instance globally
	Database = DbInstance{Db: db}

	utils.Logger.WithField("driver", config.AppConfig.DBDriver).Info("Connected to database")
}

// Dialector builds the GORM dialector for cfg.DBDriver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.TimeZone.String(),
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(SQLiteDSN(cfg.DBName)), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}

// SQLiteDSN enables foreign keys so ON DELETE CASCADE is honoured
func SQLiteDSN(name string) string {
	if strings.Contains(name, "?") {
		return name + "&_foreign_keys=on"
	}
	return name + "?_foreign_keys=on"
}

// Open opens a connection, configures pooling and runs migrations
func Open(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// store timestamps in UTC
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)   // Maximum open connections
	sqlDB.SetMaxIdleConns(5)    // Maximum idle connections
	sqlDB.SetConnMaxLifetime(0) // No timeout

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	utils.Logger.Debug("Running migrations")

	err := db.AutoMigrate(
		&models.Reviewer{},
		&models.Company{},
		&models.CompanyReview{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	utils.Logger.Debug("Migrations completed successfully")
	return nil
}
