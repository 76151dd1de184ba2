package storage_test

import (
	"testing"

	"github.com/albmartin/po-intake/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "conn"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if cfg.ContainerName != "attachments" {
		t.Errorf("container name = %s, want attachments", cfg.ContainerName)
	}
}

func TestFinalizeRequiresConnectionString(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error for missing connection string")
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_STORAGE_CONTAINER", "scans")
	t.Setenv("TEST_STORAGE_CONN", "env-conn")

	cfg := storage.Config{}
	env := &storage.Env{
		ContainerName:    "TEST_STORAGE_CONTAINER",
		ConnectionString: "TEST_STORAGE_CONN",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if cfg.ContainerName != "scans" {
		t.Errorf("container name = %s, want scans", cfg.ContainerName)
	}
	if cfg.ConnectionString != "env-conn" {
		t.Errorf("connection string = %s, want env-conn", cfg.ConnectionString)
	}
}

func TestMerge(t *testing.T) {
	cfg := storage.Config{ContainerName: "attachments", ConnectionString: "base"}
	cfg.Merge(&storage.Config{ConnectionString: "overlay"})

	if cfg.ConnectionString != "overlay" {
		t.Errorf("connection string = %s, want overlay", cfg.ConnectionString)
	}
	if cfg.ContainerName != "attachments" {
		t.Errorf("container name = %s, want attachments", cfg.ContainerName)
	}
}
