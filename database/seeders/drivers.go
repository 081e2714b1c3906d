package seeders

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"driver-dispatch/models/appversion"
	"driver-dispatch/models/driver"
)

// SeedDrivers creates the initial driver accounts used in staging.
// Existing codes are left untouched.
func SeedDrivers(db *gorm.DB) {
	log.Printf("🔍 Checking driver seed data...")

	drivers := []driver.Driver{
		{Code: "C001", Username: "jperez", Name: "Jorge", LastName: "Pérez", Email: "jperez@example.com", Phone: "3001234567", LicensePlate: "ABC123", Company: "Transportes Ejecutivos"},
		{Code: "C002", Username: "mgomez", Name: "Marta", LastName: "Gómez", Email: "mgomez@example.com", Phone: "3007654321", LicensePlate: "DEF456", Company: "Transportes Ejecutivos"},
	}

	for _, d := range drivers {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.Code+"-inicial"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("❌ Failed to hash seed password for %s: %v", d.Code, err)
			continue
		}
		d.Password = string(hash)

		result := db.Where("code = ?", d.Code).FirstOrCreate(&d)
		if result.Error != nil {
			log.Printf("❌ Failed to seed driver %s: %v", d.Code, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			log.Printf("✅ Seeded driver %s (%s)", d.Code, d.Username)
		}
	}
}

// SeedAppVersion ensures at least one app version row exists so the
// version endpoint always has an answer.
func SeedAppVersion(db *gorm.DB) {
	var count int64
	if err := db.Model(&appversion.AppVersion{}).Count(&count).Error; err != nil {
		log.Printf("❌ Failed to check app versions: %v", err)
		return
	}
	if count > 0 {
		return
	}

	v := appversion.AppVersion{
		IsRunMode:          true,
		Name:               "1.0.0",
		VersionCodeCurrent: 1,
		VersionCodeMin:     1,
		UpdateInfo:         "Versión inicial",
	}
	if err := db.Create(&v).Error; err != nil {
		log.Printf("❌ Failed to seed app version: %v", err)
		return
	}
	log.Printf("✅ Seeded initial app version")
}
