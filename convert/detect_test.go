package convert

import (
	"archive/zip"
	"path/filepath"
	"testing"

	"olc/content"
)

func TestIsArchiveFile(t *testing.T) {
	dir := t.TempDir()

	realZip := filepath.Join(dir, "songs.zip")
	writeZip(t, realZip, map[string][]byte{"a.xml": []byte("<song/>")})
	upperZip := filepath.Join(dir, "SONGS.ZIP")
	writeZip(t, upperZip, map[string][]byte{"a.xml": []byte("<song/>")})
	fakeZip := filepath.Join(dir, "fake.zip")
	writeFile(t, fakeZip, []byte("not a real zip file"))
	zipNoExt := filepath.Join(dir, "songs.bin")
	writeZip(t, zipNoExt, map[string][]byte{"a.xml": []byte("<song/>")})

	tests := []struct {
		path string
		want bool
	}{
		{realZip, true},
		{upperZip, true},
		{fakeZip, false},
		{zipNoExt, false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			got, err := isArchiveFile(tt.path)
			if err != nil {
				t.Fatalf("isArchiveFile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("isArchiveFile() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := isArchiveFile("/nonexistent/file.zip"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestSongKind(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
		want content.SourceKind
	}{
		{"song.xml", "<song/>", content.SourceXML},
		{"song", `<?xml version="1.0"?><song/>`, content.SourceXML},
		{"song.yaml", "verses: []", content.SourceYAML},
		{"song.json", "{}", content.SourceJSON},
		{"notes.txt", "hello", content.SourceUnknown},
		{"empty", "", content.SourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			writeFile(t, path, []byte(tt.data))
			got, err := songKind(path)
			if err != nil {
				t.Fatalf("songKind() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("songKind() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := songKind("/nonexistent/song.xml"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestSongKindInArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.zip")
	writeZip(t, path, map[string][]byte{
		"a.xml":  []byte("<song/>"),
		"b":      []byte("{\"verses\": []}"),
		"c.txt":  []byte("text"),
		"d.yaml": []byte("verses: []"),
	})

	want := map[string]content.SourceKind{
		"a.xml":  content.SourceXML,
		"b":      content.SourceJSON,
		"c.txt":  content.SourceUnknown,
		"d.yaml": content.SourceYAML,
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer r.Close()
	for _, f := range r.File {
		got, err := songKindInArchive(f)
		if err != nil {
			t.Fatalf("songKindInArchive(%s) error = %v", f.Name, err)
		}
		if got != want[f.Name] {
			t.Errorf("songKindInArchive(%s) = %s, want %s", f.Name, got, want[f.Name])
		}
	}
}
