// Package zipmap provides random-access reads of a zip container over a
// read-only memory mapping, so many workers can pull entries concurrently
// without per-call locking.
package zipmap

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
)

// Reader provides entry-level access to a zip container.
// The file is memory-mapped for lock-free concurrent access; in-memory
// containers skip the mapping and read from the caller's buffer directly.
type Reader struct {
	data   []byte // memory-mapped or caller-owned container bytes
	zr     *zip.Reader
	files  map[string]*zip.File
	names  []string
	path   string
	mapped bool // true when data came from mmapFile and must be unmapped
}

// Open opens a zip container by memory-mapping it and parsing its central
// directory. The file descriptor is closed after mapping; the mapping stays
// valid until Close.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := fi.Size()
	if size == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	data, err := mmapFile(f.Fd(), int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	r, err := fromBytes(data, path)
	if err != nil {
		munmapFile(data)
		return nil, err
	}
	r.mapped = true
	return r, nil
}

// OpenBytes opens a zip container held in memory. The buffer must not be
// modified while the reader is in use.
func OpenBytes(data []byte) (*Reader, error) {
	return fromBytes(data, "<memory>")
}

func fromBytes(data []byte, path string) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing zip %s: %w", path, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
		names = append(names, f.Name)
	}
	sort.Strings(names)

	return &Reader{
		data:  data,
		zr:    zr,
		files: files,
		names: names,
		path:  path,
	}, nil
}

// Close unmaps the memory-mapped file. For in-memory containers it is a no-op.
// The reader must not be used after Close; every worker reading entries has
// to finish first.
func (r *Reader) Close() error {
	if r.mapped && r.data != nil {
		err := munmapFile(r.data)
		r.data = nil
		return err
	}
	r.data = nil
	return nil
}

// Path returns the container path, or "<memory>" for in-memory containers.
func (r *Reader) Path() string {
	return r.path
}

// Names returns all entry names in the container, sorted.
// The returned slice is shared; callers must not modify it.
func (r *Reader) Names() []string {
	return r.names
}

// Size returns the declared uncompressed size of an entry, or an error if
// the entry does not exist.
func (r *Reader) Size(name string) (uint64, error) {
	f, ok := r.files[name]
	if !ok {
		return 0, fmt.Errorf("%s: no entry %q", r.path, name)
	}
	return f.UncompressedSize64, nil
}

// Entry reads an entry fully into buf, growing it as needed, and returns the
// filled slice. Passing a recycled buffer avoids an allocation per read.
// Safe for concurrent use on distinct entries: the backing bytes are
// immutable and each call decompresses through its own stream.
func (r *Reader) Entry(name string, buf []byte) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: no entry %q", r.path, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %q: %w", name, err)
	}
	defer rc.Close()

	want := int(f.UncompressedSize64)
	if cap(buf) < want {
		buf = make([]byte, want)
	}
	buf = buf[:want]

	if _, err := io.ReadFull(rc, buf); err != nil {
		return nil, fmt.Errorf("reading entry %q: %w", name, err)
	}
	return buf, nil
}
