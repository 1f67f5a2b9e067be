package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nguyenthenguyen/docx"
)

var (
	// ErrTemplateNotFound means the name is unknown, or known but without
	// content and not recoverable from disk.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrUnsupportedFormat flags legacy binary formats (.doc) that cannot be
	// parsed; callers should ask for a .docx conversion instead of crashing.
	ErrUnsupportedFormat = errors.New("unsupported template format, convert to .docx")
)

// Templates larger than this are skipped on import.
const maxTemplateSize = 10 * 1024 * 1024

// TemplateMetadata describes a stored template. Content may be absent while
// metadata exists (a placeholder awaiting import).
type TemplateMetadata struct {
	Category     string    `json:"category"`
	Version      string    `json:"version"`
	CreatedDate  time.Time `json:"created_date"`
	ModifiedDate time.Time `json:"modified_date"`
	IsNew        bool      `json:"is_new"`
	Description  string    `json:"description"`
}

type templateEntry struct {
	content []byte
	meta    TemplateMetadata
}

// TemplateStore keeps template bytes and metadata in memory, with the
// templates directory as a read-through fallback: a miss is served from disk
// and promoted into memory so later lookups avoid file I/O.
type TemplateStore struct {
	dir string

	mu        sync.Mutex
	templates map[string]*templateEntry
}

// Template catalogue seeded at startup. Names without content act as
// metadata-only placeholders until a file is imported.
var templateCatalogue = map[string][]string{
	"APPROVAL": {
		"ames_pedagang.docx",
		"ames_pengilang.docx",
		"surat kelulusan butiran 5D (Lulus).docx",
		"pelupusan_penjualan.docx",
		"pelupusan_skrap.docx",
	},
	"REJECTION": {
		"pelupusan_tidak_lulus.docx",
		"surat kelulusan butiran 5D (tidak lulus).docx",
	},
	"DISPOSAL": {
		"pelupusan_pemusnahan.docx",
	},
	"REGISTRATION": {
		"signUpB.docx",
	},
	"Delete Item": {
		"delete_item.docx",
		"delete_item_ames.docx",
	},
	"Lain-lain": {
		"batal_sijil.docx",
	},
}

// NewTemplateStore seeds the known catalogue and imports any .docx files
// already present in dir.
func NewTemplateStore(dir string) *TemplateStore {
	s := &TemplateStore{
		dir:       dir,
		templates: make(map[string]*templateEntry),
	}

	for category, names := range templateCatalogue {
		for _, name := range names {
			if _, ok := s.templates[name]; ok {
				continue
			}
			s.templates[name] = &templateEntry{
				meta: TemplateMetadata{
					Category:    category,
					Version:     "1.0",
					IsNew:       true,
					Description: templateDescription(name, category),
				},
			}
		}
	}

	s.importDir()
	return s
}

func (s *TemplateStore) importDir() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".docx") {
			continue
		}
		if info, err := entry.Info(); err != nil || info.Size() > maxTemplateSize {
			log.Printf("Warning: skipping template %s (unreadable or too large)", entry.Name())
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			log.Printf("Warning: could not read template %s: %v", entry.Name(), err)
			continue
		}
		s.put(entry.Name(), content, false)
	}
}

// put stores content under name, preserving existing metadata where present.
// Callers hold no lock.
func (s *TemplateStore) put(name string, content []byte, isNew bool) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.templates[name]
	if !ok {
		category := detectCategory(name)
		entry = &templateEntry{
			meta: TemplateMetadata{
				Category:    category,
				Version:     "1.0",
				CreatedDate: now,
				Description: templateDescription(name, category),
			},
		}
		s.templates[name] = entry
	}
	if entry.meta.CreatedDate.IsZero() {
		entry.meta.CreatedDate = now
	}
	entry.content = content
	entry.meta.ModifiedDate = now
	entry.meta.IsNew = isNew
}

// HasTemplate reports whether actual content (not just metadata) is stored.
func (s *TemplateStore) HasTemplate(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.templates[name]
	return ok && len(entry.content) > 0
}

// TemplateExists reports whether the template is available at all, in memory
// or on the fallback path.
func (s *TemplateStore) TemplateExists(name string) bool {
	if s.HasTemplate(name) {
		return true
	}
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// Content returns the raw stored bytes, falling back to disk on a miss. A
// successful disk read is promoted into memory; promotion itself cannot fail
// the lookup.
func (s *TemplateStore) Content(name string) ([]byte, error) {
	s.mu.Lock()
	entry, ok := s.templates[name]
	if ok && len(entry.content) > 0 {
		content := entry.content
		s.mu.Unlock()
		return content, nil
	}
	s.mu.Unlock()

	content, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	if len(content) <= maxTemplateSize {
		s.put(name, content, false)
	}
	return content, nil
}

// GetTemplate decodes the stored bytes into an editable document. The caller
// must Close the returned document.
func (s *TemplateStore) GetTemplate(name string) (*docx.ReplaceDocx, error) {
	if isLegacyDoc(name) {
		return nil, ErrUnsupportedFormat
	}

	content, err := s.Content(name)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(content, []byte("PK")) {
		return nil, ErrUnsupportedFormat
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return doc, nil
}

// SaveTemplate stores new content for name, bumping the version on update.
func (s *TemplateStore) SaveTemplate(name string, content []byte, isUpdate bool) error {
	if isLegacyDoc(name) {
		return ErrUnsupportedFormat
	}
	if !bytes.HasPrefix(content, []byte("PK")) {
		return ErrUnsupportedFormat
	}
	if len(content) > maxTemplateSize {
		return fmt.Errorf("template %s exceeds size limit", name)
	}

	s.put(name, content, !isUpdate)

	if isUpdate {
		s.mu.Lock()
		entry := s.templates[name]
		entry.meta.Version = bumpVersion(entry.meta.Version)
		s.mu.Unlock()
	}
	return nil
}

// ListTemplates returns the names that have content, optionally filtered by
// category, sorted for stable output.
func (s *TemplateStore) ListTemplates(category string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for name, entry := range s.templates {
		if len(entry.content) == 0 {
			continue
		}
		if category != "" && entry.meta.Category != category {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metadata returns the metadata for a known template name.
func (s *TemplateStore) Metadata(name string) (TemplateMetadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.templates[name]
	if !ok {
		return TemplateMetadata{}, false
	}
	return entry.meta, true
}

// ExportToFile writes the stored template content out to path.
func (s *TemplateStore) ExportToFile(name, path string) error {
	content, err := s.Content(name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

// DeleteTemplate clears the content but keeps a metadata tombstone so the
// catalogue entry survives.
func (s *TemplateStore) DeleteTemplate(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.templates[name]
	if !ok {
		return ErrTemplateNotFound
	}
	entry.content = nil
	entry.meta.ModifiedDate = time.Now()
	return nil
}

func isLegacyDoc(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".doc") && !strings.HasSuffix(lower, ".docx")
}

func bumpVersion(version string) string {
	parts := strings.SplitN(version, ".", 2)
	if len(parts) != 2 {
		return "1.1"
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return "1.1"
	}
	return parts[0] + "." + strconv.Itoa(minor+1)
}

func detectCategory(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "tidak lulus") || strings.Contains(lower, "tidak_lulus"):
		return "REJECTION"
	case strings.Contains(lower, "ames"):
		return "APPROVAL"
	case strings.Contains(lower, "pelupusan"):
		return "DISPOSAL"
	case strings.Contains(lower, "signup"):
		return "REGISTRATION"
	case strings.Contains(lower, "delete_item"):
		return "Delete Item"
	default:
		return "Lain-lain"
	}
}

func templateDescription(name, category string) string {
	descriptions := map[string]string{
		"ames_pedagang.docx":  "Templat Kelulusan AMES untuk Pedagang (APPROVAL)",
		"ames_pengilang.docx": "Templat Kelulusan AMES untuk Pengilang (APPROVAL)",
		"surat kelulusan butiran 5D (Lulus).docx":       "Templat Kelulusan Butiran 5D (APPROVAL)",
		"pelupusan_penjualan.docx":                      "Templat Kelulusan Pelupusan melalui Penjualan (APPROVAL/DISPOSAL)",
		"pelupusan_skrap.docx":                          "Templat Kelulusan Pelupusan Skrap (APPROVAL/DISPOSAL)",
		"pelupusan_tidak_lulus.docx":                    "Templat Penolakan Pelupusan (REJECTION)",
		"surat kelulusan butiran 5D (tidak lulus).docx": "Templat Penolakan Butiran 5D (REJECTION)",
		"pelupusan_pemusnahan.docx":                     "Templat Pelupusan melalui Pemusnahan (DISPOSAL)",
		"signUpB.docx":                                  "Templat Pendaftaran Sign Up B (REGISTRATION)",
		"delete_item.docx":                              "Templat untuk pemadaman item",
		"delete_item_ames.docx":                         "Templat untuk pemadaman item AMES",
		"batal_sijil.docx":                              "Templat untuk pembatalan sijil",
	}
	if desc, ok := descriptions[name]; ok {
		return desc
	}
	return "Templat " + category
}
