package attachment

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File is a binary file handle picked by the user. Handles cannot be
// persisted; only their Signature survives a snapshot.
type File interface {
	Name() string
	Size() int64
	ModTime() time.Time
	ContentType() string
	Open() (io.ReadCloser, error)
}

// Signature is the content key of a file.
type Signature struct {
	Name    string    `json:"name" msgpack:"name"`
	Size    int64     `json:"size" msgpack:"size"`
	ModTime time.Time `json:"mod_time" msgpack:"mod_time"`
}

// SignatureOf returns the signature of f.
func SignatureOf(f File) Signature {
	return Signature{Name: f.Name(), Size: f.Size(), ModTime: f.ModTime()}
}

// Key renders the signature as the attachment file_key.
func (s Signature) Key() string {
	return fmt.Sprintf("%s-%d-%d", s.Name, s.Size, s.ModTime.UnixMilli())
}

// MemFile is an in-memory File.
type MemFile struct {
	FileName string
	Data     []byte
	Modified time.Time
	MIME     string
}

// Name implements File.
func (m *MemFile) Name() string { return m.FileName }

// Size implements File.
func (m *MemFile) Size() int64 { return int64(len(m.Data)) }

// ModTime implements File.
func (m *MemFile) ModTime() time.Time { return m.Modified }

// ContentType implements File.
func (m *MemFile) ContentType() string { return m.MIME }

// Open implements File.
func (m *MemFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.Data)), nil
}

// DiskFile is a File backed by a path on disk.
type DiskFile struct {
	path string
	info os.FileInfo
}

// OpenDiskFile stats path and returns a DiskFile for it.
func OpenDiskFile(path string) (*DiskFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("orderflow/attachment: stat %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("orderflow/attachment: %q is a directory", path)
	}
	return &DiskFile{path: path, info: info}, nil
}

// Name implements File.
func (d *DiskFile) Name() string { return d.info.Name() }

// Size implements File.
func (d *DiskFile) Size() int64 { return d.info.Size() }

// ModTime implements File.
func (d *DiskFile) ModTime() time.Time { return d.info.ModTime() }

// ContentType implements File.
func (d *DiskFile) ContentType() string { return contentType(d.info.Name(), "") }

// Open implements File.
func (d *DiskFile) Open() (io.ReadCloser, error) { return os.Open(d.path) }

func contentType(name, declared string) string {
	if declared != "" {
		return declared
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}
