package config

import (
	"os"
	"testing"
	"time"
)

func TestInitialize_Defaults(t *testing.T) {
	t.Setenv("STATUSSTORE_STORE_DIR", "")
	os.Unsetenv("STATUSSTORE_STORE_DIR")
	os.Unsetenv("STORE_DIR")

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if StoreDir() != "./data" {
		t.Errorf("got %q, want ./data", StoreDir())
	}
	if ListenAddr() != ":7781" {
		t.Errorf("got %q, want :7781", ListenAddr())
	}
	if BootstrapCommitCount() != 50 {
		t.Errorf("got %d, want 50", BootstrapCommitCount())
	}
	if LockTimeout() != 30*time.Second {
		t.Errorf("got %s, want 30s", LockTimeout())
	}
	if ShutdownTimeout() != 10*time.Second {
		t.Errorf("got %s, want 10s", ShutdownTimeout())
	}
}

func TestInitialize_LegacyEnvVarsOverrideDefaults(t *testing.T) {
	t.Setenv("STORE_DIR", "/var/lib/statusstore")
	t.Setenv("LISTEN_ADDR", "0.0.0.0:9000")

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if StoreDir() != "/var/lib/statusstore" {
		t.Errorf("got %q, want /var/lib/statusstore", StoreDir())
	}
	if ListenAddr() != "0.0.0.0:9000" {
		t.Errorf("got %q, want 0.0.0.0:9000", ListenAddr())
	}
}

func TestInitialize_PrefixedEnvVarsTakePrecedence(t *testing.T) {
	t.Setenv("STORE_DIR", "/legacy")
	t.Setenv("STATUSSTORE_STORE_DIR", "/prefixed")

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if StoreDir() != "/prefixed" {
		t.Errorf("got %q, want /prefixed (STATUSSTORE_ prefix wins)", StoreDir())
	}
}

func TestGetValueSource_ReflectsEnvVar(t *testing.T) {
	t.Setenv("STATUSSTORE_LOG_LEVEL", "debug")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if GetValueSource("log-level") != SourceEnvVar {
		t.Errorf("got %v, want SourceEnvVar", GetValueSource("log-level"))
	}
	if GetValueSource("log-format") != SourceDefault {
		t.Errorf("got %v, want SourceDefault", GetValueSource("log-format"))
	}
}
