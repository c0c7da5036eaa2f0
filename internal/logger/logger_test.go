package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VySWQiOiJ1MSJ9.sig"
	out := sanitizeKVs([]interface{}{"userId", "u1", "Password", "hunter2", "header", jwt, "dangling"})

	if out[1] != "u1" {
		t.Fatalf("plain value changed: %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("jwt-looking value not redacted: %v", out[5])
	}
	if len(out) != 7 || out[6] != "dangling" {
		t.Fatalf("dangling key lost: %v", out)
	}
}
