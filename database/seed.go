package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/config"
	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/auth"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions in dependency order
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := s.SeedSkills(); err != nil {
		return fmt.Errorf("failed to seed skills: %w", err)
	}
	if err := s.SeedAppSettings(); err != nil {
		return fmt.Errorf("failed to seed app settings: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin account from env credentials.
// Missing credentials are logged and skipped, never fatal, so a fresh
// deployment still boots.
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping...")
		return nil
	}

	env, err := config.Get()
	if err != nil {
		return err
	}
	if env.ADMIN_EMAIL == "" || env.ADMIN_PASSWORD == "" {
		log.Println("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(env.ADMIN_PASSWORD)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:         env.ADMIN_EMAIL,
		PasswordHash:  passwordHash,
		Username:      "admin",
		FirstName:     "Site",
		LastName:      "Administrator",
		Role:          model.RoleAdmin,
		IsStaff:       true,
		EmailVerified: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin user: %s\n", admin.Email)
	return nil
}

// SeedSkills creates the initial portfolio skill set
func (s *Seeder) SeedSkills() error {
	var count int64
	if err := s.db.Model(&model.Skill{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Skills already exist, skipping...")
		return nil
	}

	skills := []model.Skill{
		{Name: "Go", Proficiency: 90, Icon: "go"},
		{Name: "PostgreSQL", Proficiency: 85, Icon: "postgresql"},
		{Name: "JavaScript", Proficiency: 80, Icon: "javascript"},
		{Name: "Python", Proficiency: 85, Icon: "python"},
		{Name: "Docker", Proficiency: 75, Icon: "docker"},
		{Name: "System Design", Proficiency: 70, Icon: "architecture"},
	}
	if err := s.db.Create(&skills).Error; err != nil {
		return err
	}

	log.Printf("Created %d skills\n", len(skills))
	return nil
}

// SeedAppSettings creates default runtime settings
func (s *Seeder) SeedAppSettings() error {
	settings := []model.AppSetting{
		{Key: "site_title", Value: "Portfolio & Courses", Description: "Title shown on the landing page"},
		{Key: "registration_open", Value: "true", Description: "Whether new accounts can register"},
		{Key: "enrollment_open", Value: "true", Description: "Global switch for course enrollment"},
		{Key: "contact_notifications", Value: "true", Description: "Email the site owner on new contact messages"},
	}

	for _, setting := range settings {
		var existing model.AppSetting
		err := s.db.Where("key = ?", setting.Key).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := s.db.Create(&setting).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	log.Println("App settings seeded")
	return nil
}
