package compressio

import (
	"io"
	"os"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// CompressFile rewrites a finished plain-text file as path plus the
// format's extension and removes the original.  It must only be
// called after the writer of path has closed it.  A Format of None is
// a no-op.
func CompressFile(path string, format Format) error {
	if format == None {
		return nil
	}
	src, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer src.Close()

	outPath := path + format.ext()
	dst, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", outPath)
	}

	var w io.WriteCloser
	switch format {
	case Gzip:
		w = gzip.NewWriter(dst)
	case Bzip2:
		w, err = bzip2.NewWriter(dst, nil)
		if err != nil {
			dst.Close()
			return errors.Wrapf(err, "creating bzip2 stream %s", outPath)
		}
	}
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		dst.Close()
		return errors.Wrapf(err, "compressing %s", path)
	}
	if err := w.Close(); err != nil {
		dst.Close()
		return errors.Wrapf(err, "closing compressed stream %s", outPath)
	}
	if err := dst.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", outPath)
	}
	return errors.Wrapf(os.Remove(path), "removing %s", path)
}
