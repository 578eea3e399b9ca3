package storage_test

import (
	"testing"

	"github.com/vidaleve/sofia/pkg/storage"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "UseDevelopmentStorage=true"}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.ContainerName != "meals" {
		t.Errorf("ContainerName = %q, want %q", cfg.ContainerName, "meals")
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("SOFIA_STORAGE_CONTAINER_NAME", "archive")
	t.Setenv("SOFIA_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")

	cfg := storage.Config{}
	env := &storage.Env{
		ContainerName:    "SOFIA_STORAGE_CONTAINER_NAME",
		ConnectionString: "SOFIA_STORAGE_CONNECTION_STRING",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.ContainerName != "archive" {
		t.Errorf("ContainerName = %q, want %q", cfg.ContainerName, "archive")
	}
	if cfg.ConnectionString != "UseDevelopmentStorage=true" {
		t.Errorf("ConnectionString = %q", cfg.ConnectionString)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := storage.Config{}

	if err := cfg.Finalize(nil); err == nil {
		t.Fatal("Finalize expected error for missing connection string")
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := storage.Config{ContainerName: "meals", ConnectionString: "base"}
	cfg.Merge(&storage.Config{ConnectionString: "overlay"})

	if cfg.ContainerName != "meals" {
		t.Errorf("ContainerName = %q, want %q", cfg.ContainerName, "meals")
	}
	if cfg.ConnectionString != "overlay" {
		t.Errorf("ConnectionString = %q, want %q", cfg.ConnectionString, "overlay")
	}
}
