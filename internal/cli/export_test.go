package cli

import (
	"testing"

	"github.com/glowfork/halo"
)

func TestPickFormat(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		out     string
		want    halo.ImageFormat
		wantErr bool
	}{
		{"png from extension", "", "wheel.png", halo.FormatPNG, false},
		{"jpg from extension", "", "wheel.jpg", halo.FormatJPEG, false},
		{"jpeg from extension", "", "wheel.jpeg", halo.FormatJPEG, false},
		{"uppercase extension", "", "wheel.PNG", halo.FormatPNG, false},
		{"flag wins over extension", "jpeg", "wheel.png", halo.FormatJPEG, false},
		{"no extension no flag", "", "wheel", "", true},
		{"unknown format", "bmp", "wheel.bmp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickFormat(tt.flag, tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pickFormat(%q, %q) error = %v, wantErr %v", tt.flag, tt.out, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("pickFormat(%q, %q) = %q, want %q", tt.flag, tt.out, got, tt.want)
			}
		})
	}
}
