package debuginfo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile("does/not/exist.elf"); err == nil {
		t.Error("FromFile() error = nil, want open failure")
	}
}

func TestFromFileNotAnELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-elf")
	if err := os.WriteFile(path, []byte("just some text"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := FromFile(path); err == nil {
		t.Error("FromFile() error = nil, want parse failure")
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{
			name: "with function",
			loc:  Location{File: "src/main.c", Line: 42, Function: "main"},
			want: "src/main.c:42 (main)",
		},
		{
			name: "without function",
			loc:  Location{File: "src/main.c", Line: 42},
			want: "src/main.c:42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
