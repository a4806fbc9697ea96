package seeders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// true - обновить цену и длительность, если услуга с таким именем уже есть.
// false - пропустить существующие.
const updateIfExists_Catalog = false

const (
	insertServiceQuery = `
		INSERT INTO services (name, description, price, duration_minutes)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (SELECT 1 FROM services WHERE name = $1)`
	updateServiceQuery = `
		UPDATE services SET description = $2, price = $3, duration_minutes = $4
		WHERE name = $1`
)

func seedCatalog(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("  - Наполнение таблицы 'services'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, item := range catalogData {
		tag, err := tx.Exec(ctx, insertServiceQuery, item.Name, item.Description, item.Price, item.DurationMinutes)
		if err != nil {
			logger.Error("Ошибка при вставке услуги", zap.String("name", item.Name), zap.Error(err))
			return err
		}
		if tag.RowsAffected() > 0 {
			inserted++
			continue
		}
		if updateIfExists_Catalog {
			if _, err := tx.Exec(ctx, updateServiceQuery, item.Name, item.Description, item.Price, item.DurationMinutes); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logger.Info("    - Услуги добавлены", zap.Int("inserted", inserted), zap.Int("total", len(catalogData)))
	return nil
}
