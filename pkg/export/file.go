package export

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
)

// CompressedExtension is appended to the file name of snappy-framed output.
const CompressedExtension = "sz"

// FileName returns the output file name for basename in format f.
func FileName(basename string, f Format, compress bool) string {
	name := basename + "." + f.Extension()
	if compress {
		name += "." + CompressedExtension
	}
	return name
}

// WriteTo exports src to w, through a snappy framed stream when compress is set.
func WriteTo(w io.Writer, e Exporter, src Source, compress bool) error {
	if !compress {
		return e.Export(w, src)
	}
	sw := snappy.NewBufferedWriter(w)
	if err := e.Export(sw, src); err != nil {
		sw.Close()
		return err
	}
	return sw.Close()
}

// WriteFile exports src in format f to FileName(basename, f, compress) and
// returns the path written.
func WriteFile(basename string, f Format, src Source, compress bool) (string, error) {
	e, err := New(f)
	if err != nil {
		return "", err
	}
	path := FileName(basename, f, compress)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTo(file, e, src, compress); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
