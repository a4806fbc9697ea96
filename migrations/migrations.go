// Package migrations содержит SQL-миграции схемы, встроенные в бинарник.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var embedded embed.FS

type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.sugar.Infof(format, v...) }

func open(dsn string, logger *zap.Logger) (*sql.DB, error) {
	goose.SetBaseFS(embedded)
	goose.SetLogger(gooseLogger{sugar: logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть БД для миграций: %w", err)
	}
	return db, nil
}

// Up применяет все новые миграции.
func Up(ctx context.Context, dsn string, logger *zap.Logger) error {
	db, err := open(dsn, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.UpContext(ctx, db, ".")
}

// Down откатывает последнюю миграцию.
func Down(ctx context.Context, dsn string, logger *zap.Logger) error {
	db, err := open(dsn, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.DownContext(ctx, db, ".")
}

// Status печатает состояние миграций в лог.
func Status(ctx context.Context, dsn string, logger *zap.Logger) error {
	db, err := open(dsn, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.StatusContext(ctx, db, ".")
}
