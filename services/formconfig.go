package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FormField is one input on a form layout.
type FormField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
}

// FormSection groups fields under a heading.
type FormSection struct {
	Title  string      `json:"title"`
	Fields []FormField `json:"fields"`
}

// FormConfig is the editable layout description for one form type. The
// placeholder mappings tie field names to template tokens.
type FormConfig struct {
	FormName            string            `json:"form_name"`
	Version             string            `json:"version"`
	LastModified        string            `json:"last_modified"`
	Sections            []FormSection     `json:"sections"`
	Checkboxes          []FormField       `json:"checkboxes,omitempty"`
	PlaceholderMappings map[string]string `json:"placeholder_mappings"`
}

// FormConfigManager persists form layouts as JSON files, one per form type.
type FormConfigManager struct {
	Dir string
}

func NewFormConfigManager(dir string) *FormConfigManager {
	os.MkdirAll(dir, os.ModePerm)
	return &FormConfigManager{Dir: dir}
}

func (m *FormConfigManager) path(formName string) string {
	return filepath.Join(m.Dir, fmt.Sprintf("%s_config.json", formName))
}

// Load returns the stored layout for a form, or the built-in default when
// none has been saved yet.
func (m *FormConfigManager) Load(formName string) (*FormConfig, error) {
	data, err := os.ReadFile(m.path(formName))
	if os.IsNotExist(err) {
		return defaultFormConfig(formName), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg FormConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("form config %s is corrupt: %w", formName, err)
	}
	return &cfg, nil
}

// Save writes the layout back, stamping last_modified.
func (m *FormConfigManager) Save(cfg *FormConfig) error {
	cfg.LastModified = time.Now().Format("2006-01-02 15:04:05")
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path(cfg.FormName), data, 0644)
}

// HeaderFooterConfig holds the letterhead lines applied to generated
// documents.
type HeaderFooterConfig struct {
	HeaderLines  []string `json:"header_lines"`
	FooterLines  []string `json:"footer_lines"`
	LastModified string   `json:"last_modified,omitempty"`
}

const headerFooterFile = "header_footer_config.json"

// LoadHeaderFooter returns the stored letterhead config, or the departmental
// default when none has been saved.
func (m *FormConfigManager) LoadHeaderFooter() (*HeaderFooterConfig, error) {
	data, err := os.ReadFile(filepath.Join(m.Dir, headerFooterFile))
	if os.IsNotExist(err) {
		return &HeaderFooterConfig{
			HeaderLines: []string{
				"JABATAN KASTAM DIRAJA MALAYSIA",
				"JOHOR BAHRU",
			},
			FooterLines: []string{
				`"BERKHIDMAT UNTUK NEGARA"`,
			},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg HeaderFooterConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("header/footer config is corrupt: %w", err)
	}
	return &cfg, nil
}

// SaveHeaderFooter writes the letterhead config back, stamping last_modified.
func (m *FormConfigManager) SaveHeaderFooter(cfg *HeaderFooterConfig) error {
	cfg.LastModified = time.Now().Format("2006-01-02 15:04:05")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.Dir, headerFooterFile), data, 0644)
}

func defaultFormConfig(formName string) *FormConfig {
	cfg := &FormConfig{
		FormName: formName,
		Version:  "1.0",
		PlaceholderMappings: map[string]string{
			"rujukan_kami":  "RUJUKAN",
			"nama_syarikat": "NAMA_SYARIKAT",
			"alamat":        "ALAMAT",
			"tarikh":        "TARIKH",
			"nama_pegawai":  "NAMA_PEGAWAI",
		},
	}

	common := FormSection{
		Title: "Maklumat Syarikat",
		Fields: []FormField{
			{Name: "rujukan_kami", Label: "Rujukan Kami", Type: "text", Required: true},
			{Name: "nama_syarikat", Label: "Nama Syarikat", Type: "text", Required: true},
			{Name: "alamat", Label: "Alamat", Type: "multiline", Required: true},
			{Name: "tarikh", Label: "Tarikh", Type: "date", Required: true},
		},
	}
	cfg.Sections = append(cfg.Sections, common)

	switch formName {
	case "pelupusan":
		cfg.Sections = append(cfg.Sections, FormSection{
			Title: "Butiran Pelupusan",
			Fields: []FormField{
				{Name: "proses", Label: "Proses", Type: "select"},
				{Name: "jenis_barang", Label: "Jenis Barang", Type: "text"},
				{Name: "pengecualian", Label: "Pengecualian", Type: "text"},
				{Name: "amount", Label: "Amaun", Type: "text"},
				{Name: "tarikh_mula", Label: "Tarikh Mula", Type: "date"},
				{Name: "tarikh_tamat", Label: "Tarikh Tamat", Type: "date"},
			},
		})
	case "butiran5d":
		cfg.Sections = append(cfg.Sections, FormSection{
			Title: "Butiran 5D",
			Fields: []FormField{
				{Name: "no_sijil", Label: "No. Sijil", Type: "text"},
				{Name: "tarikh_kuatkuasa", Label: "Tarikh Kuatkuasa", Type: "date"},
				{Name: "sebab_tolak", Label: "Sebab Tolak", Type: "multiline"},
			},
		})
	case "ames":
		cfg.Sections = append(cfg.Sections, FormSection{
			Title: "Kelulusan AMES",
			Fields: []FormField{
				{Name: "no_kelulusan", Label: "No. Kelulusan", Type: "text"},
				{Name: "kategori", Label: "Kategori", Type: "select"},
				{Name: "tarikh_mula", Label: "Tarikh Mula", Type: "date"},
				{Name: "tarikh_tamat", Label: "Tarikh Tamat", Type: "date"},
			},
		})
	case "signupb":
		cfg.Sections = append(cfg.Sections, FormSection{
			Title: "Maklumat Perhubungan",
			Fields: []FormField{
				{Name: "email", Label: "E-mel", Type: "text"},
				{Name: "talian", Label: "No. Telefon", Type: "text"},
			},
		})
	}

	return cfg
}
