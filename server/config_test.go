package server

import "testing"

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.SessionAddress != ":9002" {
		t.Errorf("expected default session address, got %q", cfg.Server.SessionAddress)
	}
	if cfg.Compression.DefaultSubsets != 4 {
		t.Errorf("expected default subsets of 4, got %d", cfg.Compression.DefaultSubsets)
	}
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	if _, err := LoadConfig("/no/such/cubeview.toml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
