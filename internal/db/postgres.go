package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/types"
	"github.com/dosyammh/critic/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "critic", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Category{},
		&types.ContentItem{},
		&types.Review{},
		&types.ReviewLike{},
		&types.Comment{},
		&types.Follow{},
		&types.Achievement{},
		&types.UserAchievement{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

// SeedDefaults inserts the fixed category set and the achievement catalog when
// they are missing. Safe to run on every boot.
func (s *PostgresService) SeedDefaults() error {
	categories := []types.Category{
		{Name: "Movies", Icon: "film", Color: "#E74C3C"},
		{Name: "Books", Icon: "book", Color: "#3498DB"},
		{Name: "Music", Icon: "music", Color: "#9B59B6"},
		{Name: "Articles", Icon: "newspaper", Color: "#2ECC71"},
		{Name: "TV Shows", Icon: "tv", Color: "#F39C12"},
	}
	for i := range categories {
		if err := s.db.Where(types.Category{Name: categories[i].Name}).
			FirstOrCreate(&categories[i]).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", categories[i].Name, err)
		}
	}

	achievements := []types.Achievement{
		{Name: "First Critic", Description: "Write your first review", Icon: "pencil", RequirementType: types.RequirementReviewCount, RequirementValue: 1, XPReward: 50},
		{Name: "Prolific Critic", Description: "Write 10 reviews", Icon: "pencil", RequirementType: types.RequirementReviewCount, RequirementValue: 10, XPReward: 150},
		{Name: "Century Club", Description: "Write 100 reviews", Icon: "trophy", RequirementType: types.RequirementReviewCount, RequirementValue: 100, XPReward: 1000},
		{Name: "Warming Up", Description: "Keep a 3 day streak", Icon: "flame", RequirementType: types.RequirementStreak, RequirementValue: 3, XPReward: 30},
		{Name: "On Fire", Description: "Keep a 7 day streak", Icon: "flame", RequirementType: types.RequirementStreak, RequirementValue: 7, XPReward: 100},
		{Name: "Unstoppable", Description: "Keep a 30 day streak", Icon: "flame", RequirementType: types.RequirementStreak, RequirementValue: 30, XPReward: 500},
		{Name: "Rising Star", Description: "Reach 10 followers", Icon: "star", RequirementType: types.RequirementFollowerCount, RequirementValue: 10, XPReward: 100},
		{Name: "Influencer", Description: "Reach 100 followers", Icon: "star", RequirementType: types.RequirementFollowerCount, RequirementValue: 100, XPReward: 500},
		{Name: "Curious", Description: "Follow 10 critics", Icon: "eye", RequirementType: types.RequirementFollowingCount, RequirementValue: 10, XPReward: 50},
	}
	for i := range achievements {
		if err := s.db.Where(types.Achievement{Name: achievements[i].Name}).
			FirstOrCreate(&achievements[i]).Error; err != nil {
			return fmt.Errorf("failed to seed achievement %q: %w", achievements[i].Name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
