package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Puzzle", "puzzle"},
		{"spaces", "Closed Testing", "closed-testing"},
		{"punctuation runs", "RPG & Strategy!!", "rpg-strategy"},
		{"leading trailing junk", "  --Indie Games-- ", "indie-games"},
		{"unicode stripped", "café ☕ games", "caf-games"},
		{"digits kept", "top 20 apps", "top-20-apps"},
		{"already a slug", "closed-testing", "closed-testing"},
		{"all junk", "???", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Closed Testing", "RPG & Strategy!!", "top 20 apps", "café ☕ games",
		strings.Repeat("very long tag name ", 10),
	}
	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSlugify_MaxLength(t *testing.T) {
	long := strings.Repeat("abc ", 100)
	slug := Slugify(long)
	if len(slug) > maxSlugLen {
		t.Errorf("slug length = %d, want <= %d", len(slug), maxSlugLen)
	}
	if strings.HasSuffix(slug, "-") || strings.HasPrefix(slug, "-") {
		t.Errorf("slug %q has a dangling hyphen after truncation", slug)
	}
}

func TestTagReferenceConflict(t *testing.T) {
	if err := tagReferenceConflict(0); err != nil {
		t.Errorf("unreferenced tag: unexpected error %v", err)
	}

	err := tagReferenceConflict(3)
	if !errors.Is(err, ErrTagInUse) {
		t.Fatalf("error = %v, want ErrTagInUse", err)
	}
	if !strings.Contains(err.Error(), "3 post(s)") {
		t.Errorf("error %q does not carry the reference count", err)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated key", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"pg other violation", &pgconn.PgError{Code: "23503"}, false},
		{"unrelated error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateKey(tt.err); got != tt.want {
				t.Errorf("isDuplicateKey(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
