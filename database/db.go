package database

import (
	"fmt"
	"os"

	"driver-dispatch/logger"
	"driver-dispatch/models/appversion"
	"driver-dispatch/models/driver"
	"driver-dispatch/models/location"
	"driver-dispatch/models/log"
	"driver-dispatch/models/order"
	"driver-dispatch/models/resume"
	"driver-dispatch/models/survey"
	"driver-dispatch/models/tracking"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Handle foreign key constraints after migrations
	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate() error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&driver.Driver{},
		&order.Passenger{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&order.ServiceOrder{},
		&tracking.TrackingRecord{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Remaining models
	remainingModels := []interface{}{
		&location.PreArrivalPing{},
		&location.RidePing{},
		&resume.ServiceResumeSnapshot{},
		&survey.SurveyResponse{},
		&appversion.AppVersion{},
		// Logging
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// Service order indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_service_orders_reference ON service_orders(reference)").Error; err != nil {
		return fmt.Errorf("failed to create service_orders reference index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_service_orders_driver_date ON service_orders(driver_code, scheduled_date)").Error; err != nil {
		return fmt.Errorf("failed to create service_orders driver/date index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_service_orders_status ON service_orders(status)").Error; err != nil {
		return fmt.Errorf("failed to create service_orders status index: %w", err)
	}

	// Tracking indexes; the unique one backs the upsert conflict target
	if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_tracking_records_reference ON tracking_records(reference)").Error; err != nil {
		return fmt.Errorf("failed to create tracking_records reference index: %w", err)
	}

	// Ping stream indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_pre_arrival_pings_reference ON pre_arrival_pings(reference)").Error; err != nil {
		return fmt.Errorf("failed to create pre_arrival_pings reference index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_ride_pings_reference ON ride_pings(reference)").Error; err != nil {
		return fmt.Errorf("failed to create ride_pings reference index: %w", err)
	}

	// Snapshot and survey indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_service_resume_snapshots_reference ON service_resume_snapshots(reference)").Error; err != nil {
		return fmt.Errorf("failed to create snapshot reference index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_survey_responses_order_id ON survey_responses(order_id)").Error; err != nil {
		return fmt.Errorf("failed to create survey order_id index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)").Error; err != nil {
		return fmt.Errorf("failed to create log method index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_service_orders_passenger",
			sql: `ALTER TABLE service_orders ADD CONSTRAINT fk_service_orders_passenger
				  FOREIGN KEY (passenger_code) REFERENCES passengers(code)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_service_orders_driver",
			sql: `ALTER TABLE service_orders ADD CONSTRAINT fk_service_orders_driver
				  FOREIGN KEY (driver_code) REFERENCES drivers(code)
				  ON UPDATE CASCADE ON DELETE SET NULL`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		err := DB.Raw(`SELECT EXISTS (
			SELECT 1 FROM information_schema.table_constraints
			WHERE constraint_name = ?
		)`, constraint.name).Scan(&exists).Error
		if err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", constraint.name, err)
		}
		if exists {
			continue
		}
		if err := DB.Exec(constraint.sql).Error; err != nil {
			return fmt.Errorf("failed to create constraint %s: %w", constraint.name, err)
		}
	}

	return nil
}
