package ingest

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// File is one input to the import pipeline. Open is called at most once.
type File struct {
	Name      string
	MediaType string
	// Size is the declared byte length, or -1 when unknown.
	Size int64
	Open func() (io.ReadCloser, error)
}

// FromPath describes a file on disk. The media type comes from the file
// extension; an unknown extension leaves it empty so the pipeline sniffs the
// content instead.
func FromPath(p string) File {
	f := File{
		Name:      filepath.Base(p),
		MediaType: mime.TypeByExtension(filepath.Ext(p)),
		Size:      -1,
		Open:      func() (io.ReadCloser, error) { return os.Open(p) },
	}
	if fi, err := os.Stat(p); err == nil {
		f.Size = fi.Size()
	}
	return f
}

// FromMultipart describes an uploaded form file.
func FromMultipart(fh *multipart.FileHeader) File {
	name := strings.ReplaceAll(fh.Filename, `\`, "/")
	return File{
		Name:      path.Base(name),
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromBytes wraps in-memory content.
func FromBytes(name, mediaType string, data []byte) File {
	return File{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// DisplayName strips the last extension from a file's base name:
// "cat.photo.png" becomes "cat.photo".
func DisplayName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	if i := strings.LastIndex(base, "."); i >= 0 && i < len(base)-1 {
		return base[:i]
	}
	return base
}
