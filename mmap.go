package tdms

import (
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// mmapSource presents a memory-mapped file as an io.ReadSeeker, avoiding the
// per-segment syscall overhead of repeated Seek+Read calls on very large
// files. The metadata scanner and the data extractor both only ever need
// Seek+Read, so no other adaptation is required to use one in place of
// *os.File.
type mmapSource struct {
	data mmap.MMap
	pos  int64
}

func (m *mmapSource) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *mmapSource) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.data))
	default:
		return 0, formatErrorf(-1, "mmap source: invalid whence %d", whence)
	}

	newPos := base + offset
	if newPos < 0 {
		return 0, formatErrorf(-1, "mmap source: negative seek position")
	}
	m.pos = newPos
	return m.pos, nil
}

func (m *mmapSource) Close() error {
	return m.data.Unmap()
}

// mmapFile is the handle OpenMmap returns: an *os.File kept open for the
// lifetime of the mapping, and the mapping itself.
type mmapFile struct {
	f *os.File
	m *mmapSource
}

// OpenMmap opens path and memory-maps it read-only, returning a File backed
// by the mapping instead of buffered file I/O. Close unmaps and closes the
// underlying descriptor.
func OpenMmap(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErrorf(err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ioErrorf(err)
	}

	mapping, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, ioErrorf(err)
	}

	src := &mmapSource{data: mapping}
	file, err := New(src, info.Size(), opts...)
	if err != nil {
		_ = mapping.Unmap()
		_ = f.Close()
		return nil, err
	}

	file.file = f
	file.mmap = &mmapFile{f: f, m: src}

	return file, nil
}
