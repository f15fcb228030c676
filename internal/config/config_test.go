package config_test

import (
	"testing"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/config"
	"campusvote/internal/testutil"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// devEnv clears the variables a developer shell may carry
func devEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ALLOWED_ORIGINS", "OTP_TTL", "OTP_MAX_ATTEMPTS", "OTP_CODE_LENGTH",
		"PUSH_BATCH_SIZE", "FACE_MATCH_THRESHOLD", "DEV_JWT_SECRET", "PROD_JWT_SECRET",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DEV_DB_DIALECT", config.DialectSQLite)
}

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	devEnv(t)

	cfg, err := config.Load(flags(t))
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, config.DialectSQLite, cfg.Database.Dialect)
	assert.Equal(t, 6, cfg.OTP.CodeLength)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 5, cfg.OTP.MaxAttempts)
	assert.Equal(t, 80.0, cfg.Biometric.Threshold)
	assert.Equal(t, 100, cfg.Push.BatchSize)
	assert.Equal(t, 10*time.Minute, cfg.StepUpTTL)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.False(t, cfg.MigrateOnly)
}

func TestLoad_EnvOverrides(t *testing.T) {
	devEnv(t)
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("OTP_MAX_ATTEMPTS", "3")
	t.Setenv("FACE_MATCH_THRESHOLD", "85.5")
	t.Setenv("DEV_JWT_SECRET", "dev_secret")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 3, cfg.OTP.MaxAttempts)
	assert.Equal(t, 85.5, cfg.Biometric.Threshold)
	assert.Equal(t, "dev_secret", cfg.JWT.Secret)
}

func TestLoad_FlagsWinOverEnv(t *testing.T) {
	devEnv(t)
	t.Setenv("PORT", "4000")

	cfg, err := config.Load(flags(t, "--port=9000", "--migrate-only"))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.MigrateOnly)
}

func TestLoad_InvalidMode(t *testing.T) {
	devEnv(t)
	t.Setenv("APP_MODE", "staging")

	_, err := config.Load(nil)
	assert.ErrorContains(t, err, "invalid APP_MODE")
}

func TestLoad_ProdNeedsSecret(t *testing.T) {
	devEnv(t)
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_DIALECT", config.DialectSQLite)

	_, err := config.Load(nil)
	assert.ErrorContains(t, err, "PROD_JWT_SECRET")

	t.Setenv("PROD_JWT_SECRET", "a-real-secret")
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "https://vote.campus.local", cfg.GetAllowedOrigins())
}

func TestLoad_UnsupportedDialect(t *testing.T) {
	devEnv(t)
	t.Setenv("DEV_DB_DIALECT", "postgres")

	_, err := config.Load(nil)
	assert.ErrorContains(t, err, "postgres")
}

func TestSeedDevData_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, config.SeedDevData(db))
	require.NoError(t, config.SeedDevData(db))

	var records, admins int64
	require.NoError(t, db.Model(&models.StudentRecord{}).Count(&records).Error)
	require.NoError(t, db.Model(&models.Voter{}).Where("role = ?", "ADMIN").Count(&admins).Error)
	assert.Equal(t, int64(5), records)
	assert.Equal(t, int64(1), admins)
}
