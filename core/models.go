package core

import (
	"encoding/binary"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ID is a unique identifier for persisted records such as selections.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NormalizeKey lowercases s the way index keys and queries are compared.
func NormalizeKey(s string) string {
	return cases.Lower(language.Und).String(s)
}

// AppEntry is an installed application eligible to be returned as a result.
type AppEntry struct {
	Name           string
	ExecutablePath string   // The executable itself, never a command line
	Args           []string // Arguments passed to the executable
	IconPath       string   // Optional
	Description    string   // Optional
	Keywords       []string // Free-text keywords matched when the name does not match
	UsageCount     uint32   // Successful executions; never decreases while the process runs
	LastUsed       time.Time
}

// Key returns the index key for the entry.
func (a *AppEntry) Key() string {
	return NormalizeKey(a.Name)
}

// IncrementUsage records one successful execution at the given instant.
func (a *AppEntry) IncrementUsage(at time.Time) {
	a.UsageCount++
	a.LastUsed = at
}

// Clone returns a deep copy of the entry.
func (a AppEntry) Clone() AppEntry {
	if a.Keywords != nil {
		a.Keywords = append([]string(nil), a.Keywords...)
	}
	if a.Args != nil {
		a.Args = append([]string(nil), a.Args...)
	}
	return a
}

// ToSearchResult renders the entry with the given score.
func (a *AppEntry) ToSearchResult(score float64) SearchResult {
	var args []string
	if a.Args != nil {
		args = append([]string(nil), a.Args...)
	}
	return NewSearchResult(a.Name, a.Description).
		WithAction(ExecuteApplication{Path: a.ExecutablePath, Args: args}).
		WithCategory(CategoryApplication).
		WithPath(a.ExecutablePath).
		WithIcon(a.IconPath).
		WithScore(score)
}

// FileEntry is a file discovered during a directory scan.
type FileEntry struct {
	Name      string
	Path      string
	Extension string // Without the leading dot; empty when the file has none
	Size      int64
	Modified  time.Time
	Keywords  []string // Reserved for metadata extraction
}

// NewFileEntry builds a FileEntry for path from its file info.
func NewFileEntry(path string, info fs.FileInfo) FileEntry {
	return FileEntry{
		Name:      filepath.Base(path),
		Path:      path,
		Extension: strings.TrimPrefix(filepath.Ext(path), "."),
		Size:      info.Size(),
		Modified:  info.ModTime(),
	}
}

// Key returns the index key for the entry.
func (f *FileEntry) Key() string {
	return NormalizeKey(f.Name)
}

// ToSearchResult renders the entry as an open-file result.
func (f *FileEntry) ToSearchResult(score float64) SearchResult {
	return NewSearchResult(f.Name, "File: "+f.Path).
		WithAction(OpenFile{Path: f.Path}).
		WithCategory(CategoryFile).
		WithPath(f.Path).
		WithScore(score)
}

// UsageRecord is the persisted usage counter of one application key.
type UsageRecord struct {
	Key      string
	Count    uint32
	LastUsed time.Time
}

// Selection is a result the user picked for a query.
type Selection struct {
	Id         ID
	Query      string
	Title      string
	Category   string
	Action     string
	SelectedAt time.Time
}
