package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every file loaded during one analysis run.
type FileSet struct {
	files []File
	index map[string]FileID // путь -> последняя версия
}

func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Add registers already normalized content and returns its id.
// Adding the same path twice creates a new version; lookups by path see the latest.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	clean := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    clean,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[clean] = id
	return id
}

// AddVirtual is Add for in-memory sources.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := normalizeContent(content)
	return fs.Add(name, content, flags|FileVirtual)
}

// Load reads path from disk, strips a UTF-8 BOM and folds CRLF line endings.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the command line or config
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	content, flags := normalizeContent(raw)
	return fs.Add(path, content, flags), nil
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Get returns the file with the given id. Ids come from Add, so out of range is a bug.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// Lookup finds the latest version of path.
func (fs *FileSet) Lookup(path string) (*File, bool) {
	id, ok := fs.index[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return &fs.files[id], true
}

// Resolve maps both ends of a span to line/column pairs.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	if int(span.File) >= len(fs.files) {
		return LineCol{}, LineCol{}
	}
	f := &fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Position formats span start as path:line:col.
func (fs *FileSet) Position(span Span) string {
	if int(span.File) >= len(fs.files) {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", fs.files[span.File].Path, start.Line, start.Col)
}

// Line returns line number lineNum (1-based) without its terminator.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	size := len(f.Content)
	start := 0
	if lineNum > 1 {
		idx := int(lineNum) - 2
		if idx >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[idx]) + 1
	}
	end := size
	if idx := int(lineNum) - 1; idx < len(f.LineIdx) {
		end = int(f.LineIdx[idx])
	}
	if start > size {
		return ""
	}
	return string(f.Content[start:end])
}

// Text returns the bytes covered by span.
func (f *File) Text(span Span) string {
	if span.File != f.ID || int(span.End) > len(f.Content) || span.Start > span.End {
		return ""
	}
	return string(f.Content[span.Start:span.End])
}

// DisplayPath shortens Path relative to base when possible.
func (f *File) DisplayPath(base string) string {
	if base == "" || f.Flags&FileVirtual != 0 {
		return f.Path
	}
	rel, err := filepath.Rel(base, f.Path)
	if err != nil {
		return f.Path
	}
	return filepath.ToSlash(rel)
}
