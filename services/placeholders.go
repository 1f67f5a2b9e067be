package services

import (
	"sort"
	"strings"
)

// Canonical placeholder vocabulary. Templates carry these as <<NAME>> tokens;
// every form-field spelling is normalised onto this table before substitution.
var standardPlaceholders = map[string]string{
	// Basic information
	"RUJUKAN":      "Rujukan standard (format: KE.JB(90)650/05-02/XXXX)",
	"RUJUKAN_KAMI": "Rujukan kami (format: KE.JB(90)650/14/AMES/XXX)",
	"RUJUKAN_TUAN": "Rujukan syarikat/tuan",
	"NAMA_SYARIKAT": "Nama syarikat (uppercase)",
	"ALAMAT":        "Alamat syarikat (3 baris digabungkan)",
	"TARIKH":        "Tarikh (format: DD/MM/YYYY)",
	"TARIKH2":       "Tarikh format Melayu (DD Month YYYY)",
	"TARIKH_MALAY":  "Tarikh format Melayu (sama dengan TARIKH2)",
	"TARIKH_ISLAM":  "Tarikh dalam kalendar Islam",
	"NAMA_PEGAWAI":  "Nama pegawai (uppercase)",

	// AMES specific
	"NO_KELULUSAN":     "Nombor kelulusan AMES",
	"KATEGORI":         "Kategori (Pedagang/Pengilang)",
	"TEMPOH_KELULUSAN": "Tempoh kelulusan (format: DD Month YYYY hingga DD Month YYYY)",

	// Pelupusan specific
	"PROSES":         "Proses (pemusnahan/penjualan/skrap)",
	"JENIS_BARANG":   "Jenis barang",
	"PENGECUALIAN":   "Pengecualian",
	"AMOUNT":         "Amaun dalam Ringgit Malaysia (RM)",
	"JENIS_TEMPLATE": "Jenis template (SST-ADM/AMES-03)",
	"STATUS":         "Status (SST-ADM/AMES-03)",
	"TARIKH_MULA":    "Tarikh mula pemusnahan",
	"TARIKH_TAMAT":   "Tarikh tamat pemusnahan",
	"TEMPOH":         "Tempoh pemusnahan (dalam perkataan Melayu)",
	"TAJUK_SURAT":    "Tajuk surat (uppercase)",
	"TAJUK_SURAT2":   "Tajuk surat (lowercase untuk badan surat)",
	"RUJUKAN_INFO":   "Maklumat rujukan tambahan",

	// Sign Up specific
	"BUSINESS_NAME":       "Nama perniagaan (Sign Up)",
	"BUSINESS_ADDRESS":    "Alamat perniagaan (Sign Up)",
	"SCHEDULE_TYPE":       "Jenis jadual",
	"REGISTRATION_NUMBER": "Nombor pendaftaran",
	"SALUTATION":          "Salutation",
	"SENARAI_SEMAK":       "Senarai semak",
	"CHECKLIST":           "Checklist",

	// Table placeholders
	"LAMPIRAN_A_TABLE": "Jadual untuk AMES",
	"LAMPIRAN_A":       "Nama jadual alternatif",
	"TARIKH_KUATKUASA": "Tarikh kuatkuasa",
}

// Older templates use alternative spellings; both directions resolve to the
// canonical name on the left.
var placeholderAliases = map[string][]string{
	"RUJUKAN":       {"RUJUKAN_KAMI"},
	"TARIKH2":       {"TARIKH_MALAY"},
	"NAMA_SYARIKAT": {"BUSINESS_NAME"},
	"ALAMAT":        {"BUSINESS_ADDRESS"},
}

// CanonicalName strips any << >> delimiters and resolves aliases to the
// canonical placeholder name. Unknown names pass through unchanged.
func CanonicalName(name string) string {
	name = strings.TrimSpace(strings.NewReplacer("<<", "", ">>", "").Replace(name))
	name = strings.ToUpper(name)

	for canonical, aliases := range placeholderAliases {
		if name == canonical {
			return canonical
		}
		for _, alias := range aliases {
			if name == alias {
				return canonical
			}
		}
	}
	return name
}

// NormalizePlaceholder returns the canonical <<NAME>> token for any spelling.
func NormalizePlaceholder(name string) string {
	return "<<" + CanonicalName(name) + ">>"
}

// IsStandardPlaceholder reports whether the (canonicalised) name belongs to
// the registry.
func IsStandardPlaceholder(name string) bool {
	_, ok := standardPlaceholders[CanonicalName(name)]
	return ok
}

// StandardPlaceholders returns all canonical names, sorted.
func StandardPlaceholders() []string {
	names := make([]string, 0, len(standardPlaceholders))
	for name := range standardPlaceholders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlaceholderDescription returns the human description for a placeholder.
func PlaceholderDescription(name string) string {
	canonical := CanonicalName(name)
	if desc, ok := standardPlaceholders[canonical]; ok {
		return desc
	}
	return "Custom placeholder: " + canonical
}

// ExpandAliases copies the replacement map and adds every alias spelling of
// each key, so templates written against either vocabulary are covered.
func ExpandAliases(values map[string]string) map[string]string {
	expanded := make(map[string]string, len(values))
	for name, value := range values {
		expanded[name] = value
	}
	for name, value := range values {
		canonical := CanonicalName(name)
		if _, ok := expanded[canonical]; !ok {
			expanded[canonical] = value
		}
		for _, alias := range placeholderAliases[canonical] {
			if _, ok := expanded[alias]; !ok {
				expanded[alias] = value
			}
		}
	}
	return expanded
}
