package main

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("SUPERNODE_TEST_STRING", "value")

	if got := getEnv("SUPERNODE_TEST_STRING", "fallback"); got != "value" {
		t.Fatalf("got %q", got)
	}
	if got := getEnv("SUPERNODE_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SUPERNODE_TEST_INT", "42")
	t.Setenv("SUPERNODE_TEST_BAD", "not-a-number")

	if got := getEnvInt("SUPERNODE_TEST_INT", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := getEnvInt("SUPERNODE_TEST_BAD", 7); got != 7 {
		t.Fatalf("bad values must fall back, got %d", got)
	}
	if got := getEnvInt("SUPERNODE_TEST_UNSET", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
}
