package fbg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := ConfigFromEnv()
		require.Equal(t, defaultPostgresHost, cfg.PostgresHost)
		require.Equal(t, defaultPostgresPort, cfg.PostgresPort)
		require.Equal(t, defaultPort, cfg.Port)
		require.Equal(t, defaultMetricsAddr, cfg.MetricsAddr)
		require.Empty(t, cfg.CalibrationPath)
		require.NoError(t, cfg.Validate())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("POSTGRES_HOST", "db.internal")
		t.Setenv("POSTGRES_DB", "structures_test")
		t.Setenv("FBG_CALIBRATION_FILE", "/etc/fbg/calibration.yaml")
		t.Setenv("PORT", "8081")

		cfg := ConfigFromEnv()
		require.Equal(t, "db.internal", cfg.PostgresHost)
		require.Equal(t, "structures_test", cfg.PostgresDB)
		require.Equal(t, "/etc/fbg/calibration.yaml", cfg.CalibrationPath)
		require.Equal(t, "8081", cfg.Port)
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := ConfigFromEnv()
	cfg.PostgresHost = ""
	require.Error(t, cfg.Validate())

	cfg = ConfigFromEnv()
	cfg.PostgresDB = ""
	require.Error(t, cfg.Validate())

	cfg = ConfigFromEnv()
	cfg.Port = ""
	require.Error(t, cfg.Validate())
}
