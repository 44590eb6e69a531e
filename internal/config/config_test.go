package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
[server]
http_port = 8080
read_timeout = 15
write_timeout = 15
idle_timeout = 60
shutdown_timeout = 10

[database]
host = "localhost"
port = 5432
user = "booking"
password = "secret"
dbname = "booking"
sslmode = "disable"

[logs]
level = "info"

[metrics]
enabled = true

[rate_limit]
enabled = true
rps = 25.0
burst = 50

[tenant_service]
url = "http://localhost:8081"
timeout = 3

[booking]
default_window_days = 14
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 25.0, cfg.RateLimit.RPS)
	assert.Equal(t, 14, cfg.Booking.DefaultWindowDays)
	assert.Equal(t, 3, cfg.TenantService.Timeout)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	minimal := `
[server]
http_port = 8080

[database]
host = "localhost"
dbname = "booking"

[tenant_service]
url = "http://localhost:8081"
`
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "detailor-booking", cfg.Metrics.ServiceName)
	assert.Equal(t, 7, cfg.Booking.DefaultWindowDays)
	assert.Equal(t, 5, cfg.TenantService.Timeout)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"missing port",
			`
[database]
host = "localhost"
dbname = "booking"

[tenant_service]
url = "http://localhost:8081"
`,
		},
		{
			"missing database",
			`
[server]
http_port = 8080

[tenant_service]
url = "http://localhost:8081"
`,
		},
		{
			"missing tenant service url",
			`
[server]
http_port = 8080

[database]
host = "localhost"
dbname = "booking"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "booking"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=booking sslmode=disable", d.DSN())

	d.SSLMode = "require"
	assert.Contains(t, d.DSN(), "sslmode=require")
}
