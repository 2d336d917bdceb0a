package main

import (
	"testing"
	"time"
)

func TestResolveSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY is empty")
	}

	t.Setenv("SECRET_KEY", "change_me_in_production")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY uses insecure placeholder")
	}

	t.Setenv("SECRET_KEY", "replace_with_at_least_32_random_characters")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY uses example placeholder")
	}

	t.Setenv("SECRET_KEY", "too-short-secret")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY is too short")
	}

	valid := "0123456789abcdef0123456789abcdef"
	t.Setenv("SECRET_KEY", valid)

	secret, err := resolveSecretKey()
	if err != nil {
		t.Fatalf("expected valid secret, got error: %v", err)
	}
	if secret != valid {
		t.Fatalf("expected %q, got %q", valid, secret)
	}
}

func TestResolvePort(t *testing.T) {
	t.Setenv("PORT", "")
	port, err := resolvePort()
	if err != nil {
		t.Fatalf("expected default port, got error: %v", err)
	}
	if port != "8080" {
		t.Fatalf("expected default port 8080, got %q", port)
	}

	t.Setenv("PORT", "9090")
	port, err = resolvePort()
	if err != nil {
		t.Fatalf("expected valid port, got error: %v", err)
	}
	if port != "9090" {
		t.Fatalf("expected port 9090, got %q", port)
	}

	t.Setenv("PORT", "0")
	if _, err := resolvePort(); err == nil {
		t.Fatal("expected invalid port 0 to fail")
	}

	t.Setenv("PORT", "70000")
	if _, err := resolvePort(); err == nil {
		t.Fatal("expected invalid high port to fail")
	}

	t.Setenv("PORT", "not-a-number")
	if _, err := resolvePort(); err == nil {
		t.Fatal("expected invalid non-numeric port to fail")
	}
}

func TestBoolEnv(t *testing.T) {
	t.Setenv("GUEST_ACCESS", "")
	if !boolEnv("GUEST_ACCESS", true) {
		t.Fatal("expected fallback for unset value")
	}

	t.Setenv("GUEST_ACCESS", "0")
	if boolEnv("GUEST_ACCESS", true) {
		t.Fatal("expected 0 to disable")
	}

	t.Setenv("GUEST_ACCESS", "true")
	if !boolEnv("GUEST_ACCESS", false) {
		t.Fatal("expected true to enable")
	}

	t.Setenv("GUEST_ACCESS", "sometimes")
	if !boolEnv("GUEST_ACCESS", true) {
		t.Fatal("expected fallback for unparseable value")
	}
}

func TestDurationEnv(t *testing.T) {
	t.Setenv("SYNC_INTERVAL", "")
	if got := durationEnv("SYNC_INTERVAL", 5*time.Minute); got != 5*time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}

	t.Setenv("SYNC_INTERVAL", "45s")
	if got := durationEnv("SYNC_INTERVAL", 5*time.Minute); got != 45*time.Second {
		t.Fatalf("expected 45s, got %s", got)
	}

	t.Setenv("SYNC_INTERVAL", "-30s")
	if got := durationEnv("SYNC_INTERVAL", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for negative value, got %s", got)
	}

	t.Setenv("SYNC_INTERVAL", "soon")
	if got := durationEnv("SYNC_INTERVAL", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for unparseable value, got %s", got)
	}
}
