package model

import (
	"errors"
	"testing"
)

func TestNodeConfigValidate(t *testing.T) {
	t.Run("accepts every cid within bounds", func(t *testing.T) {
		for totalClients := int32(1); totalClients <= 5; totalClients++ {
			for cid := int32(0); cid < totalClients; cid++ {
				cfg := NodeConfig{Cid: cid, TotalClients: totalClients, DataSeed: 13}
				if err := cfg.Validate(); err != nil {
					t.Fatalf("expected (%d, %d) to be valid, got %v", cid, totalClients, err)
				}
			}
		}
	})

	t.Run("rejects out-of-bounds configurations", func(t *testing.T) {
		invalid := []NodeConfig{
			{Cid: 0, TotalClients: 0},
			{Cid: 0, TotalClients: -1},
			{Cid: -1, TotalClients: 3},
			{Cid: 3, TotalClients: 3},
			{Cid: 5, TotalClients: 3},
		}
		for _, cfg := range invalid {
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected (%d, %d) to be rejected", cfg.Cid, cfg.TotalClients)
			}
			if !errors.Is(err, ErrInvalidNodeConfig) {
				t.Fatalf("expected ErrInvalidNodeConfig, got %v", err)
			}
		}
	})
}

func TestNodeConfigAsFlag(t *testing.T) {
	cfg := NodeConfig{Cid: 2, TotalClients: 5, DataSeed: 42}
	want := "partition-id=2 num-partitions=5 data-seed=42"
	if got := cfg.AsFlag(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
