package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// Reader converts a bank export into an unvalidated RawTable.
type Reader interface {
	Read(r io.Reader) (*model.RawTable, error)
	Format() string
	Extensions() []string // lower-case, with the leading dot
}

// Registry holds readers by format name and by file extension.
type Registry struct {
	readers map[string]Reader
	byExt   map[string]Reader
}

// FileInfo describes a bank export waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{
		readers: make(map[string]Reader),
		byExt:   make(map[string]Reader),
	}
}

// Register adds a reader. Panics on duplicate format or extension.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
	for _, ext := range rd.Extensions() {
		if _, ok := r.byExt[ext]; ok {
			panic("duplicate reader extension: " + ext)
		}
		r.byExt[ext] = rd
	}
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// ForFile returns the reader for the extension of name, or nil.
func (r *Registry) ForFile(name string) Reader {
	return r.byExt[strings.ToLower(filepath.Ext(name))]
}

// ReadFile opens path and reads it with the reader matching its extension.
func (r *Registry) ReadFile(path string) (*model.RawTable, error) {
	rd := r.ForFile(path)
	if rd == nil {
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := rd.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVReader{})
	r.Register(&XLSXReader{})
	return r
}

// Scan returns the files in dir that some registered reader accepts.
// A missing dir yields no files.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || r.ForFile(e.Name()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves fileName from dir to processedDir, creating it if
// needed.
func MarkProcessed(dir, processedDir, fileName string) error {
	src := filepath.Join(dir, fileName)

	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(processedDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// fitRow pads or truncates row to width cells.
func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
