package convert

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"olc/content"
)

// sniffLen is enough for zip magic and XML declaration with a root element.
const sniffLen = 512

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return head[:n], nil
}

// isArchiveFile checks whether file is zip archive. Only files with .zip
// extension are looked at.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}

// songKind detects kind of song source in file.
func songKind(path string) (content.SourceKind, error) {
	f, err := os.Open(path)
	if err != nil {
		return content.SourceUnknown, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return content.SourceUnknown, err
	}
	return content.DetectKind(path, head), nil
}

// songKindInArchive detects kind of song source stored in archive.
func songKindInArchive(f *zip.File) (content.SourceKind, error) {
	r, err := f.Open()
	if err != nil {
		return content.SourceUnknown, err
	}
	defer r.Close()

	head, err := readHead(r)
	if err != nil {
		return content.SourceUnknown, err
	}
	return content.DetectKind(f.Name, head), nil
}
