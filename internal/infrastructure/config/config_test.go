package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SMM_APP_NAME":                os.Getenv("SMM_APP_NAME"),
		"SMM_APP_ENV":                 os.Getenv("SMM_APP_ENV"),
		"SMM_APP_PORT":                os.Getenv("SMM_APP_PORT"),
		"SMM_DATABASE_HOST":           os.Getenv("SMM_DATABASE_HOST"),
		"SMM_DATABASE_PORT":           os.Getenv("SMM_DATABASE_PORT"),
		"SMM_DATABASE_USER":           os.Getenv("SMM_DATABASE_USER"),
		"SMM_DATABASE_PASSWORD":       os.Getenv("SMM_DATABASE_PASSWORD"),
		"SMM_DATABASE_DBNAME":         os.Getenv("SMM_DATABASE_DBNAME"),
		"SMM_DATABASE_SSLMODE":        os.Getenv("SMM_DATABASE_SSLMODE"),
		"SMM_DATABASE_MAX_OPEN_CONNS": os.Getenv("SMM_DATABASE_MAX_OPEN_CONNS"),
		"SMM_DATABASE_MAX_IDLE_CONNS": os.Getenv("SMM_DATABASE_MAX_IDLE_CONNS"),
		"SMM_JWT_SECRET":              os.Getenv("SMM_JWT_SECRET"),
		"SMM_GATEWAY_API_KEY":         os.Getenv("SMM_GATEWAY_API_KEY"),
		"SMM_PROVIDER_API_KEY":        os.Getenv("SMM_PROVIDER_API_KEY"),
		"SMM_SCHEDULER_POLL_INTERVAL": os.Getenv("SMM_SCHEDULER_POLL_INTERVAL"),
		"SMM_REFERRAL_COMMISSION_PERCENT": os.Getenv("SMM_REFERRAL_COMMISSION_PERCENT"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "smm-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "smm", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 5*time.Second, cfg.Scheduler.PollInterval)
		assert.Equal(t, 180*time.Second, cfg.Scheduler.ConfirmDeadline)
		assert.Equal(t, int64(10), cfg.Referral.CommissionPercent)
	})

	t.Run("loads values from environment variables with SMM prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SMM_APP_NAME", "test-app")
		os.Setenv("SMM_APP_ENV", "testing")
		os.Setenv("SMM_APP_PORT", "9000")
		os.Setenv("SMM_DATABASE_HOST", "testdb.local")
		os.Setenv("SMM_DATABASE_PORT", "5433")
		os.Setenv("SMM_DATABASE_USER", "testuser")
		os.Setenv("SMM_DATABASE_PASSWORD", "testpass")
		os.Setenv("SMM_DATABASE_DBNAME", "testdb")
		os.Setenv("SMM_DATABASE_SSLMODE", "require")
		os.Setenv("SMM_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("SMM_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("SMM_SCHEDULER_POLL_INTERVAL", "10s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 10*time.Second, cfg.Scheduler.PollInterval)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SMM_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SMM_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("SMM_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("SMM_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects commission percent above 100", func(t *testing.T) {
		clearEnv()
		os.Setenv("SMM_REFERRAL_COMMISSION_PERCENT", "150")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "commission_percent")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"SMM_APP_ENV":           os.Getenv("SMM_APP_ENV"),
		"SMM_JWT_SECRET":        os.Getenv("SMM_JWT_SECRET"),
		"SMM_DATABASE_PASSWORD": os.Getenv("SMM_DATABASE_PASSWORD"),
		"SMM_DATABASE_SSLMODE":  os.Getenv("SMM_DATABASE_SSLMODE"),
		"SMM_GATEWAY_API_KEY":   os.Getenv("SMM_GATEWAY_API_KEY"),
		"SMM_PROVIDER_API_KEY":  os.Getenv("SMM_PROVIDER_API_KEY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("SMM_APP_ENV", "production")
		os.Setenv("SMM_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("SMM_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SMM_DATABASE_SSLMODE", "require")
		os.Setenv("SMM_GATEWAY_API_KEY", "gw-key")
		os.Setenv("SMM_PROVIDER_API_KEY", "sp-key")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("SMM_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("SMM_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("SMM_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("SMM_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires gateway api key in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("SMM_GATEWAY_API_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gateway.api_key is required in production")
	})

	t.Run("requires provider api key in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("SMM_PROVIDER_API_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider.api_key is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
