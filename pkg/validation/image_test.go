package validation

import (
	"testing"
)

func TestValidateImageType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		// Valid declared types
		{"jpeg", "image/jpeg", false},
		{"jpg alias", "image/jpg", false},
		{"png", "image/png", false},
		{"webp", "image/webp", false},
		{"uppercase", "IMAGE/PNG", false},
		{"with params", "image/jpeg; charset=binary", false},
		{"padded", "  image/webp  ", false},

		// Invalid declared types
		{"empty", "", true},
		{"bmp", "image/bmp", true},
		{"gif", "image/gif", true},
		{"svg smuggle", "image/svg+xml", true},
		{"pdf", "application/pdf", true},
		{"text", "text/plain", true},
		{"bare image", "image", true},
		{"params only", "; charset=binary", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageType(tt.contentType)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageType(%q) error = %v, wantErr %v", tt.contentType, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeContentType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"image/jpeg", "image/jpeg"},
		{"IMAGE/JPEG", "image/jpeg"},
		{" image/png ", "image/png"},
		{"image/webp; q=0.8", "image/webp"},
		{"", ""},
		{";", ""},
	}

	for _, tt := range tests {
		if got := NormalizeContentType(tt.input); got != tt.expected {
			t.Errorf("NormalizeContentType(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeUploadFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{"simple", "car.jpg", "car.jpg", false},
		{"uppercase normalized", "FRONT-Bumper.PNG", "front-bumper.png", false},
		{"jpeg", "photo_01.jpeg", "photo_01.jpeg", false},
		{"webp", "damage.webp", "damage.webp", false},

		{"empty", "", "", true},
		{"path traversal", "../../etc/passwd", "", true},
		{"windows path", `c:\temp\a.jpg`, "", true},
		{"hidden file", ".htaccess.jpg", "", true},
		{"no extension", "car", "", true},
		{"wrong extension", "car.exe", "", true},
		{"double extension trick", "car.jpg.exe", "", true},
		{"spaces", "my car.jpg", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeUploadFilename(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeUploadFilename(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeUploadFilename(%q) = %q, expected %q", tt.filename, got, tt.want)
			}
		})
	}
}
