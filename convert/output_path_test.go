package convert

import (
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"olc/common"
	"olc/config"
	"olc/content"
	"olc/lyrics"
	"olc/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	return &state.LocalEnv{Log: logger, Cfg: cfg, NoDirs: noDirs}
}

func testContent() *content.Content {
	return &content.Content{
		SrcName: "hymns/amazing.xml",
		RefID:   "0190c0de-0000-7000-8000-000000000000",
		Song: &lyrics.Song{
			Meta: lyrics.Meta{Lang: "en"},
			Properties: lyrics.Properties{
				Titles:    []lyrics.Title{{Value: "Amazing Grace"}, {Value: "Erstaunliche Gnade", Lang: "de"}},
				Authors:   []lyrics.Author{{Value: "John Newton", Type: "words"}},
				Variant:   "Newsboys",
				SongBooks: []lyrics.SongBook{{Name: "Hymnal", Entry: "48"}},
			},
		},
	}
}

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.FromSlash("/out")
	tests := []struct {
		name          string
		noDirs        bool
		transliterate bool
		template      string
		format        common.OutputFmt
		want          string
	}{
		{"no template keeps dirs", false, false, "", common.OutputFmtYaml, "/out/hymns/amazing.yaml"},
		{"no template no dirs", true, false, "", common.OutputFmtJson, "/out/amazing.json"},
		{"title", true, false, "{{ .Title }}", common.OutputFmtTree, "/out/Amazing Grace.txt"},
		{"default template", true, false, "{{ if .Title }}{{ .Title }}{{ else }}{{ .SourceFile }}{{ end }}{{ with .Variant }} ({{ . }}){{ end }}", common.OutputFmtXml, "/out/Amazing Grace (Newsboys).xml"},
		{"subdirs", true, false, "{{ (index .Authors 0).Name }}/{{ .Title }}", common.OutputFmtXml, "/out/John Newton/Amazing Grace.xml"},
		{"songbook", true, false, "{{ range .SongBooks }}{{ .Name }}/{{ .Entry }}{{ end }}", common.OutputFmtYaml, "/out/Hymnal/48.yaml"},
		{"transliterate", true, true, "{{ .Title }}", common.OutputFmtYaml, "/out/amazing-grace.yaml"},
		{"sprig", true, false, "{{ .Title | upper }}", common.OutputFmtYaml, "/out/AMAZING GRACE.yaml"},
		{"escape attempt", true, false, "../../{{ .Title }}", common.OutputFmtYaml, "/out/Amazing Grace.yaml"},
		{"empty expansion falls back", false, false, "{{ .Released }}", common.OutputFmtYaml, "/out/hymns/amazing.yaml"},
		{"broken template falls back", true, false, "{{ .Title", common.OutputFmtYaml, "/out/amazing.yaml"},
		{"source file", true, false, "{{ .SourceFile }}-{{ .Format }}", common.OutputFmtJson, "/out/amazing-json.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			c := testContent()
			got := buildOutputPath(c, filepath.FromSlash(c.SrcName), dst, tt.format, env)
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("buildOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestBuildDefaultFileName(t *testing.T) {
	tests := []struct {
		src           string
		transliterate bool
		want          string
	}{
		{"song.xml", false, "song.yaml"},
		{"dir/Ó Holy Night.xml", false, "Ó Holy Night.yaml"},
		{"dir/Ó Holy Night.xml", true, "o-holy-night.yaml"},
		{".xml", false, "_bad_file_name_.yaml"},
	}
	for _, tt := range tests {
		env := setupTestEnvForOutputPath(t, false, tt.transliterate, "")
		if got := buildDefaultFileName(tt.src, common.OutputFmtYaml, env); got != tt.want {
			t.Errorf("buildDefaultFileName(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"a/b/c", []string{"a", "b", "c"}},
		{"/a//b/", []string{"a", "b"}},
		{"../a/./b", []string{"a", "b"}},
		{"", []string{}},
		{" / ", []string{}},
	}
	for _, tt := range tests {
		got := splitPath(filepath.FromSlash(tt.path))
		if !slices.Equal(got, tt.want) {
			t.Errorf("splitPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDetermineOutputDir(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")
	if got, want := determineOutputDir(filepath.FromSlash("a/b/song.xml"), "out", env), filepath.Join("out", "a", "b"); got != want {
		t.Errorf("determineOutputDir() = %q, want %q", got, want)
	}
	env.NoDirs = true
	if got := determineOutputDir(filepath.FromSlash("a/b/song.xml"), "out", env); got != "out" {
		t.Errorf("determineOutputDir() with nodirs = %q, want out", got)
	}
}
