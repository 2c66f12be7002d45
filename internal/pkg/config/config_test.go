package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8080
  allow_init_db: true
database:
  driver: postgres
  host: db
  port: 5432
  database: tasks
  username: app
  password: secret
auth:
  jwt:
    secret: test-secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.AllowInitDB)
	assert.Equal(t, "Task Manager API", cfg.Server.Name)
	assert.Equal(t, 900, cfg.Auth.JWT.AccessTokenExpire)
	assert.Equal(t, 2592000, cfg.Auth.JWT.RefreshTokenExpire)
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=tasks sslmode=disable", cfg.Database.GetDSN())
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  jwt:\n    secret: from-file\n"), 0o644))

	t.Setenv("TASK_TRACKER_AUTH_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWT.Secret)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	mysql := DatabaseConfig{Driver: "mysql", Host: "h", Port: 3306, Database: "d", Username: "u", Password: "p"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=Local", mysql.GetDSN())

	sqlite := DatabaseConfig{Driver: "sqlite", Database: "file.db"}
	assert.Equal(t, "file.db", sqlite.GetDSN())

	explicit := DatabaseConfig{Driver: "mysql", DSN: "custom"}
	assert.Equal(t, "custom", explicit.GetDSN())
}
