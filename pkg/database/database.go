package database

import (
	"fmt"
	"log"
	"secaware_backend/internal/config"
	"secaware_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	Seed(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.JobRole{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.QuizAttempt{},
		&model.Learning{},
		&model.VideoContent{},
		&model.TextContent{},
		&model.LearningJobRole{},
		&model.ContactSubmission{},
	)
}

// Seed 填充默认岗位标签，首次启动时生效
func Seed(db *gorm.DB) {
	var count int64
	db.Model(&model.JobRole{}).Count(&count)
	if count == 0 {
		defaultRoles := []model.JobRole{
			{Name: "Engineering"},
			{Name: "Finance"},
			{Name: "Human Resources"},
			{Name: "Sales"},
			{Name: "Operations"},
		}
		for _, r := range defaultRoles {
			db.Create(&r)
		}
	}
}
