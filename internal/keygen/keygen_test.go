package keygen

import (
	"regexp"
	"testing"
)

func TestNewFieldKey_Length(t *testing.T) {
	key, err := NewFieldKey()
	if err != nil {
		t.Fatalf("NewFieldKey() error: %v", err)
	}
	wantLen := len(Prefix) + Length
	if len(key) != wantLen {
		t.Errorf("NewFieldKey() length = %d, want %d (key=%q)", len(key), wantLen, key)
	}
}

func TestNewFieldKey_Prefix(t *testing.T) {
	key, err := NewFieldKey()
	if err != nil {
		t.Fatalf("NewFieldKey() error: %v", err)
	}
	if key[:len(Prefix)] != Prefix {
		t.Errorf("NewFieldKey() = %q, want prefix %q", key, Prefix)
	}
}

func TestNewFieldKey_Charset(t *testing.T) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(Prefix) + `[a-z0-9]+$`)
	for i := 0; i < 100; i++ {
		key, err := NewFieldKey()
		if err != nil {
			t.Fatalf("NewFieldKey() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(key) {
			t.Fatalf("NewFieldKey() = %q, does not match expected charset pattern", key)
		}
	}
}

func TestNewFieldKey_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		key, err := NewFieldKey()
		if err != nil {
			t.Fatalf("NewFieldKey() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key after %d generations: %q", i, key)
		}
		seen[key] = struct{}{}
	}
}

func TestNewFieldKeyWithPrefix(t *testing.T) {
	prefix := "test-"
	key, err := NewFieldKeyWithPrefix(prefix)
	if err != nil {
		t.Fatalf("NewFieldKeyWithPrefix(%q) error: %v", prefix, err)
	}
	if key[:len(prefix)] != prefix {
		t.Errorf("NewFieldKeyWithPrefix(%q) = %q, want prefix %q", prefix, key, prefix)
	}
	wantLen := len(prefix) + Length
	if len(key) != wantLen {
		t.Errorf("NewFieldKeyWithPrefix(%q) length = %d, want %d (key=%q)", prefix, len(key), wantLen, key)
	}
}
