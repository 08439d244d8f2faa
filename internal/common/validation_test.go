package common

import (
	"testing"
)

func TestNormalizeFormat(t *testing.T) {
	all := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		flag      string
		supported []string
		want      string
		wantErr   string
	}{
		{name: "md alias", flag: "md", supported: all, want: "markdown"},
		{name: "txt alias", flag: "txt", supported: all, want: "text"},
		{name: "upper case with spaces", flag: "  JSON ", supported: all, want: "json"},
		{name: "upper case alias", flag: "MD", supported: all, want: "markdown"},
		{
			name:      "alias outside configured formats",
			flag:      "md",
			supported: []string{"json"},
			want:      "markdown",
			wantErr:   "unsupported output format 'markdown'. Supported formats: [json]",
		},
		{
			name:      "unknown format",
			flag:      "xml",
			supported: all,
			want:      "xml",
			wantErr:   "unsupported output format 'xml'. Supported formats: [json text markdown]",
		},
		{name: "no configured formats", flag: "xml", want: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFormat(tt.flag)
			if got != tt.want {
				t.Errorf("NormalizeFormat(%q) = %q, want %q", tt.flag, got, tt.want)
			}

			err := ValidateOutputFormat(got, tt.supported)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateOutputFormat(%q) unexpected error: %v", got, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateOutputFormat(%q) expected error", got)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}
