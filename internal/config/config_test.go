package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  environment: test
  port: "8080"
  jwt_signing_key: a-signing-key-long-enough
  jwt_ttl: 1h
  allowed_cors_domains:
    - http://localhost:5173
  page_size: 5
gin:
  mode: test
postgres:
  host: db
  port: "5432"
  user: u
  password: p
  db_name: contests
stripe:
  secret_key: sk_test
  success_url: http://ok
  cancel_url: http://cancel
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, time.Hour, conf.API.JWTTTL)
	assert.Equal(t, 5, conf.API.PageSize)
	assert.Equal(t, []string{"http://localhost:5173"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "usd", conf.Stripe.Currency)
	assert.False(t, conf.Redis.Enabled())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=contests sslmode=disable", conf.Postgres.DSN())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://example/contests")

	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "postgres://example/contests", conf.Postgres.DSN())
}

func TestLoad_RejectsShortSigningKey(t *testing.T) {
	content := `
api:
  port: "8080"
  jwt_signing_key: short
gin:
  mode: test
postgres:
  host: db
stripe:
  currency: usd
`
	_, err := Load(writeConfig(t, content))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
