package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autoshop-system/migrations"
	"autoshop-system/pkg/config"
	"autoshop-system/pkg/database/postgresql"
	"autoshop-system/pkg/utils"
	"autoshop-system/seeders"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	dsnFlagName      = "dsn"
	loginFlagName    = "login"
	passwordFlagName = "password"
	nameFlagName     = "name"
	emailFlagName    = "email"

	minPasswordLength = 6
)

// app хранит общее состояние команд. Конфиг и логгер создаются один раз в main.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (a *app) dsn(cmd *cobra.Command) string {
	if flag := cmd.Flag(dsnFlagName); flag != nil && flag.Value.String() != "" {
		return flag.Value.String()
	}
	return a.cfg.Postgres.DSN
}

func (a *app) connect(cmd *cobra.Command) (*pgxpool.Pool, error) {
	return postgresql.ConnectDB(cmd.Context(), a.dsn(cmd), a.logger)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Администрирование мастерской: миграции и начальные данные",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(dsnFlagName, "", "строка подключения к PostgreSQL (по умолчанию DATABASE_URL)")

	root.AddCommand(newMigrateCommand(a), newSeedCommand(a), newHashPasswordCommand())
	return root
}

func newMigrateCommand(a *app) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции схемы БД",
	}

	run := func(step func(ctx context.Context, dsn string, logger *zap.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return step(cmd.Context(), a.dsn(cmd), a.logger)
		}
	}

	migrate.AddCommand(
		&cobra.Command{Use: "up", Short: "Применить все новые миграции", Args: cobra.NoArgs, RunE: run(migrations.Up)},
		&cobra.Command{Use: "down", Short: "Откатить последнюю миграцию", Args: cobra.NoArgs, RunE: run(migrations.Down)},
		&cobra.Command{Use: "status", Short: "Показать состояние миграций", Args: cobra.NoArgs, RunE: run(migrations.Status)},
	)
	return migrate
}

func newSeedCommand(a *app) *cobra.Command {
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Начальные данные",
	}

	core := &cobra.Command{
		Use:   "core",
		Short: "Справочник услуг",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			return seeders.SeedCore(cmd.Context(), db, a.logger)
		},
	}

	boss := &cobra.Command{
		Use:     "boss",
		Short:   "Учётная запись руководителя",
		Example: "shopctl seed boss --login jefe --password secret123",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := bossAccountFromFlags(cmd)
			if err != nil {
				return err
			}
			db, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			return seeders.SeedBoss(cmd.Context(), db, account, a.logger)
		},
	}
	boss.Flags().String(loginFlagName, "", "логин (обязательно)")
	boss.Flags().String(passwordFlagName, "", "пароль, не короче 6 символов (обязательно)")
	boss.Flags().String(nameFlagName, "Jefe de taller", "имя сотрудника")
	boss.Flags().String(emailFlagName, "", "почта сотрудника (по умолчанию <login>@taller.local)")
	_ = boss.MarkFlagRequired(loginFlagName)
	_ = boss.MarkFlagRequired(passwordFlagName)

	seed.AddCommand(core, boss)
	return seed
}

func bossAccountFromFlags(cmd *cobra.Command) (seeders.BossAccount, error) {
	flags := cmd.Flags()
	login, _ := flags.GetString(loginFlagName)
	password, _ := flags.GetString(passwordFlagName)
	name, _ := flags.GetString(nameFlagName)
	email, _ := flags.GetString(emailFlagName)

	login = strings.TrimSpace(login)
	if login == "" {
		return seeders.BossAccount{}, errors.New("логин не может быть пустым")
	}
	if len(password) < minPasswordLength {
		return seeders.BossAccount{}, errors.New("пароль должен быть не короче 6 символов")
	}
	if email == "" {
		email = login + "@taller.local"
	}
	return seeders.BossAccount{Login: login, Password: password, Name: name, Email: email}, nil
}

// newHashPasswordCommand печатает bcrypt-хеш пароля для ручной правки users.password_hash.
func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Вывести bcrypt-хеш пароля",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args[0]) < minPasswordLength {
				return errors.New("пароль должен быть не короче 6 символов")
			}
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
