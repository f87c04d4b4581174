// Package source reads .bbm files and decodes them to UTF-8 text.
//
// The encoding is either named explicitly or detected per file: a byte order
// mark wins, then a file that is valid UTF-8 is taken as UTF-8, and anything
// else falls back to the HTML5 default of windows-1252.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for an encoding label that has no decoder.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Reader reads and decodes source files. It satisfies compiler.SourceReader.
type Reader struct {
	readFile func(string) ([]byte, error)
	enc      encoding.Encoding // nil means detect
	name     string
}

// NewReader returns a Reader over the host file system. An empty label
// selects detection.
func NewReader(label string) (*Reader, error) {
	return newReader(os.ReadFile, label)
}

// NewFSReader returns a Reader over fsys. Paths are converted to slash form.
func NewFSReader(fsys fs.FS, label string) (*Reader, error) {
	return newReader(func(path string) ([]byte, error) {
		return fs.ReadFile(fsys, filepath.ToSlash(path))
	}, label)
}

func newReader(readFile func(string) ([]byte, error), label string) (*Reader, error) {
	r := &Reader{readFile: readFile}
	if label != "" {
		enc, name := charset.Lookup(label)
		if enc == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
		}
		r.enc, r.name = enc, name
	}
	return r, nil
}

// ReadSource reads path and returns its decoded text with CRLF line endings
// normalized to LF.
func (r *Reader) ReadSource(path string) (string, error) {
	data, err := r.readFile(path)
	if err != nil {
		return "", err
	}
	text, _, err := r.decode(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return text, nil
}

// Decode converts data to normalized UTF-8 text and reports the name of the
// encoding it used.
func (r *Reader) Decode(data []byte) (string, string, error) {
	return r.decode(data)
}

func (r *Reader) decode(data []byte) (string, string, error) {
	enc, name := r.enc, r.name
	if enc == nil {
		enc, name = Detect(data)
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", name, err
	}
	return strings.ReplaceAll(string(out), "\r\n", "\n"), name, nil
}

// Detect guesses the encoding of data.
func Detect(data []byte) (encoding.Encoding, string) {
	enc, name, certain := charset.DetermineEncoding(data, "text/plain")
	if certain {
		return enc, name
	}
	// DetermineEncoding only samples the first kilobyte.
	if utf8.Valid(data) {
		return unicode.UTF8, "utf-8"
	}
	return enc, name
}
