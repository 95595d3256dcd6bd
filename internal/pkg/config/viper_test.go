package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewViper_MissingFileUsesDefaults(t *testing.T) {
	// Arrange
	p := filepath.Join(t.TempDir(), "config.yaml")

	// Act
	cfg, err := NewViper(p, WithDefaults(map[string]any{
		"modules.emailverify.otp_ttl_seconds": 300,
		"app.name":                            "mailotp",
	}))

	// Assert
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	if got := cfg.GetSecond("modules.emailverify.otp_ttl_seconds"); got != 300*time.Second {
		t.Fatalf("GetSecond() = %v, want %v", got, 300*time.Second)
	}
	if got := cfg.GetString("app.name"); got != "mailotp" {
		t.Fatalf("GetString() = %q, want %q", got, "mailotp")
	}
}

func TestNewViper_FileOverridesDefaults(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	body := "modules:\n  emailverify:\n    rate_max_requests: 9\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Act
	cfg, err := NewViper(p, WithDefaults(map[string]any{"modules.emailverify.rate_max_requests": 5}))

	// Assert
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	if got := cfg.GetInt("modules.emailverify.rate_max_requests"); got != 9 {
		t.Fatalf("GetInt() = %d, want 9", got)
	}
}

func TestNewViper_EnvOverridesFile(t *testing.T) {
	// Arrange
	t.Setenv("APP_SERVER_PORT", "9090")
	data := []byte("app:\n  server:\n    port: 3000\n")

	// Act
	cfg, err := NewViperFromBytes("yaml", data, WithEnv())

	// Assert
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	if got := cfg.GetInt("app.server.port"); got != 9090 {
		t.Fatalf("GetInt() = %d, want 9090", got)
	}
}

func TestNewViper_EnvAlias(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantTTL int
	}{
		{name: "alias only", env: map[string]string{"OTP_TTL": "120"}, wantTTL: 120},
		{
			name:    "derived name wins over alias",
			env:     map[string]string{"OTP_TTL": "120", "MODULES_EMAILVERIFY_OTP_TTL_SECONDS": "45"},
			wantTTL: 45,
		},
		{name: "default when unset", env: map[string]string{}, wantTTL: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			// Act
			cfg, err := NewViperFromBytes("yaml", []byte("app: {}\n"),
				WithDefaults(map[string]any{"modules.emailverify.otp_ttl_seconds": 300}),
				WithEnvAlias("modules.emailverify.otp_ttl_seconds", "OTP_TTL"),
			)

			// Assert
			if err != nil {
				t.Fatalf("NewViperFromBytes() error = %v", err)
			}
			if got := cfg.GetInt("modules.emailverify.otp_ttl_seconds"); got != tt.wantTTL {
				t.Fatalf("GetInt() = %d, want %d", got, tt.wantTTL)
			}
		})
	}
}

func TestNewViper_DotEnv(t *testing.T) {
	// Arrange
	const name = "MAILOTP_CONFIG_TEST_DOTENV"
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(name+"=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv(name) })

	// Act
	cfg, err := NewViperFromBytes("yaml", []byte("app: {}\n"),
		WithDotEnv(envFile, filepath.Join(dir, "missing.env")),
		WithEnvAlias("mailotp.config.test.value", name),
	)

	// Assert
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	if got := cfg.GetString("mailotp.config.test.value"); got != "from-dotenv" {
		t.Fatalf("GetString() = %q, want %q", got, "from-dotenv")
	}
}

func TestViper_GetArrayAndMap(t *testing.T) {
	// Arrange
	data := []byte("list: \" a, b,,c \"\npairs: \"x:1, y:2,bad\"\n")
	cfg, err := NewViperFromBytes("yaml", data)
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}

	// Act
	list := cfg.GetArray("list")
	pairs := cfg.GetMap("pairs")
	empty := cfg.GetArray("missing")

	// Assert
	if len(list) != 3 || list[0] != "a" || list[1] != "b" || list[2] != "c" {
		t.Fatalf("GetArray() = %v, want [a b c]", list)
	}
	if len(pairs) != 2 || pairs["x"] != "1" || pairs["y"] != "2" {
		t.Fatalf("GetMap() = %v, want map[x:1 y:2]", pairs)
	}
	if len(empty) != 0 {
		t.Fatalf("GetArray(missing) = %v, want empty", empty)
	}
}

func TestNewViperFromBytes_RequiresType(t *testing.T) {
	if _, err := NewViperFromBytes(" ", nil); err == nil {
		t.Fatal("NewViperFromBytes() error = nil, want error")
	}
}
