package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/SL-MGx03/userbase/internal/model"
)

// gormStore serves both relational backends; only the dialector differs.
type gormStore struct {
	db *gorm.DB
}

func openSQLite(ctx context.Context, dsn string, log *zap.Logger) (Store, error) {
	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}
	return openGorm(ctx, sqlite.Open(dsn), log)
}

func openPostgres(ctx context.Context, dsn string, log *zap.Logger) (Store, error) {
	return openGorm(ctx, postgres.Open(dsn), log)
}

func openGorm(ctx context.Context, dialector gorm.Dialector, log *zap.Logger) (Store, error) {
	dbLogger := logger.New(
		zap.NewStdLog(log),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&model.User{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	s := &gormStore{db: db}
	if err := s.Ping(ctx); err != nil {
		return nil, fmt.Errorf("probe db: %w", err)
	}
	return s, nil
}

// UpsertUser runs a single INSERT ... ON CONFLICT (telegram_id) DO UPDATE
// statement so concurrent observations of the same identity cannot race
// into duplicate rows.
func (s *gormStore) UpsertUser(ctx context.Context, obs Observation) error {
	now := time.Now().UTC()
	user := model.User{
		TelegramID: obs.TelegramID,
		FirstName:  obs.FirstName,
		LastName:   obs.LastName,
		Username:   obs.Username,
		IsBot:      obs.IsBot,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"first_name": obs.FirstName,
			"last_name":  obs.LastName,
			"username":   obs.Username,
			"is_bot":     obs.IsBot,
			"updated_at": now,
		}),
	}).Create(&user).Error
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", obs.TelegramID, err)
	}
	return nil
}

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("telegram_id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
