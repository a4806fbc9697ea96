package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SeedCore наполняет справочник услуг.
func SeedCore(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("▶️  Запуск наполнения базовых справочников...")
	if err := seedCatalog(ctx, db, logger); err != nil {
		return fmt.Errorf("❌ ошибка наполнения услуг: %w", err)
	}
	logger.Info("✅ Наполнение базовых справочников завершено!")
	return nil
}

// SeedBoss создаёт первого руководителя, от имени которого заводятся остальные сотрудники.
func SeedBoss(ctx context.Context, db *pgxpool.Pool, account BossAccount, logger *zap.Logger) error {
	logger.Info("▶️  Запуск создания руководителя...")
	if err := seedBoss(ctx, db, account, logger); err != nil {
		return fmt.Errorf("❌ ошибка создания руководителя: %w", err)
	}
	logger.Info("✅ Руководитель готов!")
	return nil
}
