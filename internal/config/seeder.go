package config

import (
	"errors"
	"log"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/secret"

	"gorm.io/gorm"
)

// Dev-only admin credentials; production admins are created out of band
const (
	devAdminEmail    = "admin@campusvote.local"
	devAdminPassword = "admin123456"
)

// SeedDevData seeds registry records and an admin account for development
func SeedDevData(db *gorm.DB) error {
	log.Println("🌱 Running database seeders...")

	if err := seedStudentRecords(db); err != nil {
		return err
	}

	if err := seedAdmin(db); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedStudentRecords stands in for the registrar's table in dev
func seedStudentRecords(db *gorm.DB) error {
	records := []models.StudentRecord{
		{MatricNumber: "SCI/2021/001", FullName: "Ada Okafor", FacultyID: "science"},
		{MatricNumber: "SCI/2021/002", FullName: "Bayo Adeyemi", FacultyID: "science"},
		{MatricNumber: "ENG/2022/014", FullName: "Chidi Nwosu", FacultyID: "engineering"},
		{MatricNumber: "ENG/2022/015", FullName: "Dami Bello", FacultyID: "engineering"},
		{MatricNumber: "ART/2020/107", FullName: "Efe Ojo", FacultyID: "arts"},
	}

	for _, rec := range records {
		var existing models.StudentRecord
		err := db.Where("matric_number = ?", rec.MatricNumber).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&rec).Error; err != nil {
			return err
		}
		log.Printf("   Created student_record: %s (%s)", rec.MatricNumber, rec.FacultyID)
	}
	return nil
}

// seedAdmin seeds the default admin voter
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Voter{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := secret.HashPassword(devAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Voter{
		Email:        devAdminEmail,
		PasswordHash: hashedPassword,
		FullName:     "Electoral Officer",
		Role:         string(domain.RoleAdmin),
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin voter created: %s", admin.Email)
	return nil
}
