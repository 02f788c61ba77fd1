// Package compressio handles the compressed edges of the tool: it
// opens inputs with transparent decompression chosen by file
// extension, and rewrites finished plain-text outputs as gzip or
// bzip2 files.  The pairing engine itself only ever sees plain bytes.
package compressio

import (
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Format selects an output compression codec.
type Format int

const (
	// None leaves output files as plain text.
	None Format = iota
	// Gzip rewrites output files with a ".gz" suffix.
	Gzip
	// Bzip2 rewrites output files with a ".bz2" suffix.
	Bzip2
)

// ParseFormat maps a user-supplied codec name to a Format.  The empty
// string means no compression.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "":
		return None, nil
	case "gzip":
		return Gzip, nil
	case "bzip2":
		return Bzip2, nil
	}
	return None, errors.Errorf("unknown compression %q (want gzip or bzip2)", s)
}

func (f Format) ext() string {
	switch f {
	case Gzip:
		return ".gz"
	case Bzip2:
		return ".bz2"
	}
	return ""
}

type reader struct {
	io.Reader
	closers []io.Closer
}

func (r *reader) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens path for reading, decompressing transparently when the
// name ends in ".gz" or ".bz2".
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		z, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "opening gzip stream %s", path)
		}
		return &reader{Reader: z, closers: []io.Closer{z, f}}, nil
	case strings.HasSuffix(path, ".bz2"):
		z, err := bzip2.NewReader(f, nil)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "opening bzip2 stream %s", path)
		}
		return &reader{Reader: z, closers: []io.Closer{z, f}}, nil
	}
	return f, nil
}
