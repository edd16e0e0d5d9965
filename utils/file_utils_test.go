package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"invoice.pdf", "invoice.pdf"},
		{"../../etc/passwd", "passwd"},
		{"weird name (1).png", "weirdname1.png"},
		{"résumé.pdf", "rsum.pdf"},
		{"under_score-dash.txt", "under_score-dash.txt"},
	}

	for _, tt := range tests {
		if got := CleanFilename(tt.in); got != tt.want {
			t.Errorf("CleanFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsImageFilename(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"logo.png", true},
		{"anim.gif", true},
		{"doc.pdf", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsImageFilename(tt.in); got != tt.want {
			t.Errorf("IsImageFilename(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSaveUploadedFile(t *testing.T) {
	t.Setenv("UPLOAD_DIR", t.TempDir())

	stored, err := SaveUploadedFile([]byte("hello"), "notes.txt")
	if err != nil {
		t.Fatalf("SaveUploadedFile: %v", err)
	}
	if !strings.HasSuffix(stored, "_notes.txt") {
		t.Errorf("stored name %q does not keep the cleaned original name", stored)
	}

	data, err := os.ReadFile(filepath.Join(UploadBaseDir(), stored))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("stored content = %q, want %q", data, "hello")
	}
}

func TestSaveUploadedFileRejectsBadInput(t *testing.T) {
	t.Setenv("UPLOAD_DIR", t.TempDir())

	if _, err := SaveUploadedFile(nil, "empty.txt"); err == nil {
		t.Error("empty upload accepted")
	}

	big := make([]byte, MaxFileSize+1)
	if _, err := SaveUploadedFile(big, "big.bin"); err == nil {
		t.Error("oversized upload accepted")
	}
}

func TestGenerateThumbnailSkipsNonImages(t *testing.T) {
	t.Setenv("UPLOAD_DIR", t.TempDir())

	name, err := GenerateThumbnail("contract.pdf")
	if err != nil {
		t.Fatalf("GenerateThumbnail: %v", err)
	}
	if name != "" {
		t.Errorf("thumbnail name = %q, want empty for non-image", name)
	}
}
