package sandbox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("empty config", func(t *testing.T) {
		s, err := New(Config{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s.allowed) != 0 {
			t.Errorf("expected no allowed paths, got %d", len(s.allowed))
		}
		if s.MaxFileSize() != 0 {
			t.Errorf("expected no max file size, got %d", s.MaxFileSize())
		}
	})

	t.Run("with file size", func(t *testing.T) {
		s, err := New(Config{MaxFileSize: "10MB"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.MaxFileSize() != 10*1024*1024 {
			t.Errorf("expected 10MB = %d bytes, got %d", 10*1024*1024, s.MaxFileSize())
		}
	})

	t.Run("invalid file size", func(t *testing.T) {
		if _, err := New(Config{MaxFileSize: "notasize"}); err == nil {
			t.Fatal("expected error for invalid file size")
		}
	})

	t.Run("invalid pattern", func(t *testing.T) {
		if _, err := New(Config{AllowedPaths: []string{"plans/[a-"}}); err == nil {
			t.Fatal("expected error for invalid pattern")
		}
	})
}

func TestCheckPath(t *testing.T) {
	tmpDir := t.TempDir()
	allowedDir := filepath.Join(tmpDir, "allowed")
	deniedDir := filepath.Join(tmpDir, "denied")
	otherDir := filepath.Join(tmpDir, "other")
	for _, d := range []string{allowedDir, deniedDir, otherDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	s, err := New(Config{
		AllowedPaths: []string{allowedDir, deniedDir, filepath.Join(otherDir, "**", "*.plan.yaml")},
		DeniedPaths:  []string{deniedDir, filepath.Join(allowedDir, "**", "secret*")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"allowed dir itself", allowedDir, false},
		{"file in allowed dir", filepath.Join(allowedDir, "file.json"), false},
		{"nested in allowed dir", filepath.Join(allowedDir, "sub", "file.json"), false},
		{"denied glob inside allowed dir", filepath.Join(allowedDir, "sub", "secret.json"), true},
		{"denied dir itself", deniedDir, true},
		{"file in denied dir", filepath.Join(deniedDir, "plan.yaml"), true},
		{"allowed glob", filepath.Join(otherDir, "a", "b", "basket.plan.yaml"), false},
		{"outside allowed glob", filepath.Join(otherDir, "basket.json"), true},
		{"path not in allowed list", tmpDir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CheckPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestCheckPath_NoAllowedPaths(t *testing.T) {
	tmpDir := t.TempDir()
	deniedDir := filepath.Join(tmpDir, "denied")

	s, err := New(Config{DeniedPaths: []string{deniedDir}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.CheckPath(tmpDir); err != nil {
		t.Errorf("expected no error for non-denied path, got: %v", err)
	}
	if err := s.CheckPath(deniedDir); err == nil {
		t.Error("expected error for denied path")
	}
}

func TestCheckFileSize(t *testing.T) {
	s, err := New(Config{MaxFileSize: "1KB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"zero bytes", 0, false},
		{"within limit", 512, false},
		{"exactly at limit", 1024, false},
		{"over limit", 1025, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CheckFileSize(tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckFileSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.json")
	big := filepath.Join(dir, "big.json")
	if err := os.WriteFile(small, []byte(`[1]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(big, make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := New(Config{AllowedPaths: []string{dir}, MaxFileSize: "1k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.CheckFile(small); err != nil {
		t.Errorf("CheckFile(small) = %v", err)
	}
	if err := s.CheckFile(big); err == nil {
		t.Error("expected size error")
	}
	if err := s.CheckFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected stat error")
	}
}

func TestParseFileSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"100", 100, false},
		{"1KB", 1024, false},
		{"10MB", 10 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"  5MB  ", 5 * 1024 * 1024, false},
		{"1mb", 1024 * 1024, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parseFileSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseFileSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && result != tt.expected {
				t.Errorf("parseFileSize(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}
