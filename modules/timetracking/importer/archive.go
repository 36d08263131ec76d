package importer

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

// WithExtractedArchive unpacks a ZIP archive into a private temporary
// directory, runs fn against it, and removes the directory on every exit
// path, including errors.
func WithExtractedArchive(data []byte, fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", "tempora-import-*")
	if err != nil {
		return SystemError(errors.Wrap(err, "create extraction dir"))
	}
	defer func() { _ = os.RemoveAll(dir) }()

	if err := extractZip(data, dir); err != nil {
		return err
	}
	return fn(dir)
}

func extractZip(data []byte, dir string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return FormatErrorf("file is not a readable archive")
	}
	for _, file := range reader.File {
		if err := extractZipEntry(file, dir); err != nil {
			return err
		}
	}
	return nil
}

func extractZipEntry(file *zip.File, dir string) error {
	// reject entries escaping the extraction dir
	target := filepath.Join(dir, filepath.Clean(file.Name))
	if !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return FormatErrorf("archive contains an invalid path: %s", file.Name)
	}
	if file.FileInfo().IsDir() {
		return wrapSystem(os.MkdirAll(target, 0o755), "create archive dir")
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return SystemError(errors.Wrap(err, "create archive dir"))
	}
	src, err := file.Open()
	if err != nil {
		return FormatErrorf("archive entry is unreadable: %s", file.Name)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(target)
	if err != nil {
		return SystemError(errors.Wrap(err, "create extracted file"))
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return FormatErrorf("archive entry is unreadable: %s", file.Name)
	}
	return nil
}

func wrapSystem(err error, msg string) error {
	if err == nil {
		return nil
	}
	return SystemError(errors.Wrap(err, msg))
}
