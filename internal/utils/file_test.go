package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestFileKinds(t *testing.T) {
	tests := []struct {
		name     string
		text     bool
		json     bool
		document bool
	}{
		{"resume.TXT", true, false, false},
		{"notes.md", true, false, false},
		{"resume.json", false, true, false},
		{"resume.PDF", false, false, true},
		{"resume.docx", false, false, true},
		{"resume.doc", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsTextFile(tt.name) != tt.text || IsJSONFile(tt.name) != tt.json || IsDocumentFile(tt.name) != tt.document {
				t.Errorf("kinds = text:%v json:%v document:%v", IsTextFile(tt.name), IsJSONFile(tt.name), IsDocumentFile(tt.name))
			}
		})
	}
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		file    string
		maxSize int64
		wantErr string
	}{
		{name: "ok", file: path, maxSize: 100},
		{name: "no limit", file: path},
		{name: "too large", file: path, maxSize: 5, wantErr: "limit is 5 B"},
		{name: "missing", file: filepath.Join(dir, "nope.txt"), wantErr: "does not exist"},
		{name: "directory", file: dir, wantErr: "is a directory"},
		{name: "empty name", wantErr: "cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.file, tt.maxSize)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
