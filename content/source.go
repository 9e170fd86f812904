package content

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// SourceKind tells how song source is represented.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	// SourceXML is OpenLyrics document.
	SourceXML
	// SourceYAML is song description in YAML.
	SourceYAML
	// SourceJSON is song description in JSON.
	SourceJSON
)

func (k SourceKind) String() string {
	switch k {
	case SourceXML:
		return "xml"
	case SourceYAML:
		return "yaml"
	case SourceJSON:
		return "json"
	}
	return "unknown"
}

var utf8BOM = []byte("\xef\xbb\xbf")

// DetectKind decides on source kind by file extension, looking at the data
// only when extension is not conclusive.
func DetectKind(name string, data []byte) SourceKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml", ".olx":
		return SourceXML
	case ".yaml", ".yml":
		return SourceYAML
	case ".json":
		return SourceJSON
	}

	head := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	switch {
	case len(head) == 0:
		return SourceUnknown
	case head[0] == '<':
		return SourceXML
	case head[0] == '{':
		return SourceJSON
	case bytes.HasPrefix(head, []byte("---")) || bytes.Contains(head[:min(len(head), 512)], []byte("properties:")):
		return SourceYAML
	}
	// UTF-16 documents start with BOM
	if bytes.HasPrefix(data, []byte{0xff, 0xfe}) || bytes.HasPrefix(data, []byte{0xfe, 0xff}) {
		return SourceXML
	}
	return SourceUnknown
}

var reDeclEncoding = regexp.MustCompile(`^<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// toUTF8 converts XML document to UTF-8. Encoding declared in the XML
// declaration wins, BOM is used otherwise. Document without either must
// already be UTF-8.
func toUTF8(data []byte, log *zap.Logger) ([]byte, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], nil
	}

	if m := reDeclEncoding.FindSubmatch(data); m != nil {
		label := strings.ToLower(string(m[1]))
		if label == "utf-8" || label == "utf8" {
			return data, nil
		}
		r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unsupported document encoding %q: %w", label, err)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("unable to convert document from %q: %w", label, err)
		}
		log.Debug("Document converted to UTF-8", zap.String("from", label))
		return out, nil
	}

	if utf8.Valid(data) {
		return data, nil
	}

	enc, name, certain := charset.DetermineEncoding(data, "text/xml")
	if !certain {
		log.Warn("Document is not UTF-8 and does not declare encoding, guessing", zap.String("encoding", name))
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("unable to convert document from %q: %w", name, err)
	}
	return bytes.TrimPrefix(out, utf8BOM), nil
}
