package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver: "valkey",
			Addrs:  []string{"localhost:6379"},
		},
		Synth: SynthConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d: expected error", port)
		}
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_InvalidDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid driver")
	}

	expected := `database.driver must be "valkey" or "redis", got "memcached"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidDrivers(t *testing.T) {
	for _, driver := range []string{"valkey", "redis"} {
		t.Run("driver="+driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.Driver = driver
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for driver %q: %v", driver, err)
			}
		})
	}
}

func TestValidate_ServiceTokenRequiresPrincipal(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.ServiceToken = "arn:aws:lambda:us-east-1:123456789012:function:provider"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for service token without principal")
	}

	cfg.Provider.Principal = "arn:aws:iam::123456789012:role/provider"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with principal set: %v", err)
	}
}

func TestValidate_S3BucketRequiresKey(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.CodeS3Bucket = "my-artifacts"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for s3 bucket without key")
	}

	cfg.Provider.CodeS3Key = "provider/bundle.zip"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with key set: %v", err)
	}
}

func TestValidate_PageSizeOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Synth.DefaultPageSize = 200
	cfg.Synth.MaxPageSize = 100

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default page size above max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected Driver='valkey', got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Synth.DefaultPageSize != 20 {
		t.Errorf("expected DefaultPageSize=20, got %d", cfg.Synth.DefaultPageSize)
	}
	if cfg.Synth.MaxPageSize != 100 {
		t.Errorf("expected MaxPageSize=100, got %d", cfg.Synth.MaxPageSize)
	}
	if cfg.Storage.KeyPrefix != "aossindex:" {
		t.Errorf("expected KeyPrefix='aossindex:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: "redis", ReadinessTimeout: 15},
		Synth:    SynthConfig{DefaultPageSize: 50, MaxPageSize: 500},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver='redis', got %q", cfg.Database.Driver)
	}
	if cfg.Synth.DefaultPageSize != 50 {
		t.Errorf("expected DefaultPageSize=50, got %d", cfg.Synth.DefaultPageSize)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("AOSSINDEX_TEST_ADDR", "db.internal:6379")

	in := []byte("addrs: [${AOSSINDEX_TEST_ADDR}]\nprefix: ${AOSSINDEX_TEST_PREFIX:-aossindex:}\n")
	out := string(expandEnvVars(in))

	want := "addrs: [db.internal:6379]\nprefix: aossindex:\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestExpandEnvVars_EmptyWithoutDefault(t *testing.T) {
	out := string(expandEnvVars([]byte("token: ${AOSSINDEX_TEST_UNSET}")))
	if out != "token: " {
		t.Errorf("got %q, want empty substitution", out)
	}
}
