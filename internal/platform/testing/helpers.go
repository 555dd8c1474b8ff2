package testing

import (
	"testing"

	"sauc-client-go/internal/platform/config"
	"sauc-client-go/internal/platform/logging"
)

func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Credentials: config.CredentialsConfig{
			AppKey:      "test-app-key",
			AccessToken: "test-access-token",
			ResourceID:  "volc.bigasr.sauc.duration",
		},
		Endpoint: config.EndpointConfig{
			Variant: "bidirectional",
		},
		Timeouts: config.TimeoutConfig{
			ConnectMS: 1000,
			PollMS:    10,
			FinalMS:   500,
		},
		Log: config.LogConfig{
			Level: "DEBUG",
			Dir:   t.TempDir(),
			File:  "test.log",
		},
	}

	return cfg
}

func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	cfg := SetupTestConfig(t)
	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})

	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}

	return logger
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
