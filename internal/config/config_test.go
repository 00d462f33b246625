package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_DRIVER", "DATABASE_URL", "STUDENT_ID", "ANALYSIS_SCOPE", "LOG_MODE",
		"TELEGRAM_BOT_TOKEN", "ADMIN_USER_IDS", "ENABLE_SCHEDULER", "ANALYSIS_SCHEDULE",
		"SCHEDULER_TIMEZONE", "EXPORT_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "data/eduprofile.db", cfg.Database.DSN)
	assert.Equal(t, "all", cfg.Analysis.Scope)
	assert.Zero(t, cfg.Analysis.StudentID)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 6 * * *", cfg.Scheduler.Schedule)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "eduprofile.yaml")
	content := `
database:
  driver: postgres
  dsn: postgres://localhost/school
analysis:
  student_id: 7
  scope: current_class
telegram:
  admin_user_ids: [1, 2]
scheduler:
  enabled: true
  schedule: "30 5 * * 1"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("STUDENT_ID", "42")
	t.Setenv("ADMIN_USER_IDS", "5, 6")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/school", cfg.Database.DSN)
	assert.Equal(t, "current_class", cfg.Analysis.Scope)
	assert.Equal(t, int64(42), cfg.Analysis.StudentID)
	assert.Equal(t, []int64{5, 6}, cfg.Telegram.AdminUserIDs)
	assert.Equal(t, "token", cfg.Telegram.Token)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "30 5 * * 1", cfg.Scheduler.Schedule)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"bad scope", map[string]string{"ANALYSIS_SCOPE": "last_year"}},
		{"bad student id", map[string]string{"STUDENT_ID": "abc"}},
		{"negative student id", map[string]string{"STUDENT_ID": "-3"}},
		{"bad admin ids", map[string]string{"ADMIN_USER_IDS": "1,x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
