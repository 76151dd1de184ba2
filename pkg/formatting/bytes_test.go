package formatting_test

import (
	"testing"

	"github.com/albmartin/po-intake/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare number", "1024", 1024, false},
		{"bytes suffix", "512B", 512, false},
		{"kilobytes", "512KB", 512 * 1024, false},
		{"megabytes", "50MB", 50 * 1024 * 1024, false},
		{"gigabytes", "1GB", 1024 * 1024 * 1024, false},
		{"lowercase", "50mb", 50 * 1024 * 1024, false},
		{"fractional", "1.5MB", int64(1.5 * 1024 * 1024), false},
		{"padded", "  25MB  ", 25 * 1024 * 1024, false},
		{"empty", "", 0, true},
		{"garbage", "lots", 0, true},
		{"negative", "-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
