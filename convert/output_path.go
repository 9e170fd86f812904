package convert

import (
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"olc/common"
	"olc/config"
	"olc/content"
	"olc/lyrics"
	"olc/state"
)

// buildOutputPath returns output file path for the song. "src" is path of
// the song relative to the processed source (base name for a single file).
// Name comes from output name template when configured and expandable, from
// source file name otherwise. Unless --nodirs was requested source directory
// structure is kept.
func buildOutputPath(c *content.Content, src, dst string, format common.OutputFmt, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)

	if expanded := expandOutputNameTemplate(c, src, format, env); expanded != "" {
		if p := assemblePathWithSubdirs(outDir, expanded, format, env); p != outDir {
			return p
		}
	}
	return filepath.Join(outDir, buildDefaultFileName(src, format, env))
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func buildDefaultFileName(src string, format common.OutputFmt, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return cleanPathSegment(baseName, env) + format.Ext()
}

func expandOutputNameTemplate(c *content.Content, src string, format common.OutputFmt, env *state.LocalEnv) string {
	field := env.Cfg.Document.OutputNameTemplate
	if field == "" {
		return ""
	}
	expanded, err := c.Song.ExpandTemplate(string(config.OutputNameTemplateFieldName), field, src, format.String(), c.RefID)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expanded))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed.
func assemblePathWithSubdirs(outDir, expandedName string, format common.OutputFmt, env *state.LocalEnv) string {
	segments := splitPath(expandedName)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, s := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(s, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+format.Ext())
	return filepath.Join(parts...)
}

// splitPath breaks path into its non empty segments, "." and ".." are
// dropped so template cannot escape destination directory.
func splitPath(path string) []string {
	return slices.DeleteFunc(strings.Split(filepath.ToSlash(path), "/"), func(s string) bool {
		s = strings.TrimSpace(s)
		return s == "" || s == "." || s == ".."
	})
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = lyrics.Transliterate(segment)
	}
	return config.CleanFileName(segment)
}
