package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Errorf("FileExists(%q) = false, want true", file)
	}
	if FileExists(dir) {
		t.Errorf("FileExists(%q) = true for a directory", dir)
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{s: "config", want: false},
		{s: "dir/config", want: true},
		{s: `dir\config`, want: true},
		{s: "/abs/path", want: true},
		{s: "", want: false},
	}
	for _, tt := range tests {
		if got := IsFilePath(tt.s); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
