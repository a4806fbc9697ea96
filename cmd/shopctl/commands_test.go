package main

import (
	"bytes"
	"strings"
	"testing"

	"autoshop-system/pkg/config"
	"autoshop-system/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp() *app {
	return &app{cfg: &config.Config{Postgres: config.PostgresConfig{DSN: "postgres://env"}}, logger: zap.NewNop()}
}

func TestCommandTree(t *testing.T) {
	root := newRootCommand(testApp())

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"seed", "core"},
		{"seed", "boss"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestBossAccountFromFlags(t *testing.T) {
	root := newRootCommand(testApp())
	boss, _, err := root.Find([]string{"seed", "boss"})
	require.NoError(t, err)

	require.NoError(t, boss.Flags().Set(loginFlagName, " jefe "))
	require.NoError(t, boss.Flags().Set(passwordFlagName, "secret123"))

	account, err := bossAccountFromFlags(boss)
	require.NoError(t, err)
	assert.Equal(t, "jefe", account.Login)
	assert.Equal(t, "jefe@taller.local", account.Email)
	assert.Equal(t, "Jefe de taller", account.Name)
}

func TestBossAccountRejectsShortPassword(t *testing.T) {
	root := newRootCommand(testApp())
	boss, _, err := root.Find([]string{"seed", "boss"})
	require.NoError(t, err)

	require.NoError(t, boss.Flags().Set(loginFlagName, "jefe"))
	require.NoError(t, boss.Flags().Set(passwordFlagName, "123"))

	_, err = bossAccountFromFlags(boss)
	assert.Error(t, err)
}

func TestDSNFlagOverridesConfig(t *testing.T) {
	a := testApp()
	root := newRootCommand(a)
	up, _, err := root.Find([]string{"migrate", "up"})
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", a.dsn(up))
	require.NoError(t, root.PersistentFlags().Set(dsnFlagName, "postgres://flag"))
	assert.Equal(t, "postgres://flag", a.dsn(up))
}

func TestHashPassword(t *testing.T) {
	root := newRootCommand(testApp())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"hash-password", "secret123"})

	require.NoError(t, root.Execute())
	hash := strings.TrimSpace(out.String())
	assert.NoError(t, utils.ComparePasswords(hash, "secret123"))
}
