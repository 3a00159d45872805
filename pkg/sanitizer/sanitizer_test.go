package sanitizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim spaces", "  Weekly Sync  ", "Weekly Sync"},
		{"multiple spaces between words", "Weekly    Sync", "Weekly Sync"},
		{"tabs and newlines", "Weekly\t\nSync", "Weekly Sync"},
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"preserve special characters", " Café & Spa™ ", "Café & Spa™"},
		{"hebrew characters", " חדר ישיבות ", "חדר ישיבות"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("TrimAndNormalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeParticipants(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil stays nil", nil, nil},
		{"empty stays empty", []string{}, []string{}},
		{"trims entries", []string{" bob ", "carol\t"}, []string{"bob", "carol"}},
		{"drops blanks", []string{"bob", "", "   ", "carol"}, []string{"bob", "carol"}},
		{"keeps duplicates and order", []string{"carol", "bob", "carol"}, []string{"carol", "bob", "carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeParticipants(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeParticipants(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeContact(t *testing.T) {
	if got := NormalizeContact("  Alice@Example.com \n"); got != "Alice@Example.com" {
		t.Errorf("NormalizeContact() = %q", got)
	}
}

func TestLocationKey(t *testing.T) {
	if LocationKey("  Tel   Aviv ") != LocationKey("tel aviv") {
		t.Errorf("expected equal keys, got %q and %q", LocationKey("  Tel   Aviv "), LocationKey("tel aviv"))
	}
	if NormalizeLocation("  Tel   Aviv ") != "Tel Aviv" {
		t.Errorf("NormalizeLocation should keep case, got %q", NormalizeLocation("  Tel   Aviv "))
	}
}

func TestNormalizeMetadata(t *testing.T) {
	got := NormalizeMetadata(map[string]string{
		" projector ": " yes ",
		"   ":         "dropped",
	})
	want := map[string]string{"projector": "yes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeMetadata() = %v, want %v", got, want)
	}
	if NormalizeMetadata(nil) != nil {
		t.Error("nil metadata should stay nil")
	}
}

func TestNormalizeTitle_ExtremelyLongInput(t *testing.T) {
	input := strings.Repeat("a  ", 10000)
	got := NormalizeTitle(input)
	if strings.Contains(got, "  ") {
		t.Error("expected whitespace runs to be collapsed")
	}
	if strings.HasSuffix(got, " ") {
		t.Error("expected trailing whitespace to be trimmed")
	}
}
