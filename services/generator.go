package services

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"time"

	"kastam-document-api/utils"
)

// Reference number prefixes used by the issuing office.
const (
	RujukanPrefix     = "KE.JB(90)650/05-02/"
	RujukanAMESPrefix = "KE.JB(90)650/14/AMES/"
)

// Placeholder names that accept an injected line-item table.
var tablePlaceholders = []string{"LAMPIRAN_A_TABLE", "LAMPIRAN_A"}

// GenerateResult is a populated document plus the placeholders that were
// found in the template but had no mapping. Unresolved placeholders are a
// warning for the caller, not an error.
type GenerateResult struct {
	Content    []byte   `json:"-"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// Generator populates templates from the store with placeholder values and an
// optional line-item table. It guarantees textual substitution only; callers
// inspect Unresolved to warn about missing mappings.
type Generator struct {
	Templates *TemplateStore
}

// NewGenerator wraps a template store.
func NewGenerator(templates *TemplateStore) *Generator {
	return &Generator{Templates: templates}
}

var unresolvedPattern = regexp.MustCompile(`&lt;&lt;([A-Za-z0-9_]+)&gt;&gt;`)

// Generate loads templateName, substitutes every <<NAME>> occurrence
// (including alias spellings) and renders table rows into the LAMPIRAN_A
// slot when present.
func (g *Generator) Generate(templateName string, values map[string]string, table [][]string) (*GenerateResult, error) {
	doc, err := g.Templates.GetTemplate(templateName)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	editable := doc.Editable()

	expanded := ExpandAliases(values)
	for name, value := range expanded {
		token := "<<" + name + ">>"
		if err := editable.Replace(token, value, -1); err != nil {
			return nil, err
		}
		if err := editable.ReplaceHeader(token, value); err != nil {
			return nil, err
		}
		if err := editable.ReplaceFooter(token, value); err != nil {
			return nil, err
		}
	}

	if len(table) > 0 {
		tableXML := buildTableXML(table)
		for _, name := range tablePlaceholders {
			// The placeholder text sits inside a run; close the surrounding
			// paragraph, emit the table, and reopen an empty paragraph so the
			// document stays well-formed. Assumes the token has its own
			// paragraph, which all shipped templates satisfy.
			editable.ReplaceRaw(
				"&lt;&lt;"+name+"&gt;&gt;",
				"</w:t></w:r></w:p>"+tableXML+"<w:p><w:r><w:t>",
				-1,
			)
		}
	}

	unresolved := findUnresolved(editable.GetContent())

	var buf bytes.Buffer
	if err := editable.Write(&buf); err != nil {
		return nil, err
	}

	return &GenerateResult{Content: buf.Bytes(), Unresolved: unresolved}, nil
}

// Placeholders returns the distinct placeholder names present in a template,
// for completeness checks before generating.
func (g *Generator) Placeholders(templateName string) ([]string, error) {
	doc, err := g.Templates.GetTemplate(templateName)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return findUnresolved(doc.Editable().GetContent()), nil
}

func findUnresolved(content string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range unresolvedPattern.FindAllStringSubmatch(content, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	sort.Strings(names)
	return names
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// buildTableXML renders rows as a bordered WordprocessingML table. The first
// row is treated as the header and set in bold.
func buildTableXML(rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/>` +
		`<w:tblW w:w="0" w:type="auto"/>` +
		`<w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`</w:tblBorders></w:tblPr>`)

	for i, row := range rows {
		b.WriteString("<w:tr>")
		for _, cell := range row {
			b.WriteString("<w:tc><w:tcPr><w:tcW w:w=\"0\" w:type=\"auto\"/></w:tcPr><w:p><w:r>")
			if i == 0 {
				b.WriteString("<w:rPr><w:b/></w:rPr>")
			}
			b.WriteString("<w:t xml:space=\"preserve\">")
			b.WriteString(xmlEscaper.Replace(cell))
			b.WriteString("</w:t></w:r></w:p></w:tc>")
		}
		b.WriteString("</w:tr>")
	}

	b.WriteString("</w:tbl>")
	return b.String()
}

// PlaceholderValues builds a replacement map with the normalisations the
// letters expect (uppercase names, joined address lines, prefixed references,
// Malay dates).
type PlaceholderValues struct {
	values map[string]string
}

// NewPlaceholderValues returns an empty builder.
func NewPlaceholderValues() *PlaceholderValues {
	return &PlaceholderValues{values: make(map[string]string)}
}

// Set stores a value under the canonical spelling of name.
func (p *PlaceholderValues) Set(name, value string) *PlaceholderValues {
	p.values[CanonicalName(name)] = value
	return p
}

// SetCustom stores a value under name exactly as given.
func (p *PlaceholderValues) SetCustom(name, value string) *PlaceholderValues {
	p.values[strings.TrimSpace(strings.NewReplacer("<<", "", ">>", "").Replace(name))] = value
	return p
}

// SetRujukan stores the standard reference with the office prefix.
func (p *PlaceholderValues) SetRujukan(ref string) *PlaceholderValues {
	if ref != "" {
		ref = RujukanPrefix + ref
	}
	return p.Set("RUJUKAN", ref)
}

// SetRujukanAMES stores the AMES reference with its prefix.
func (p *PlaceholderValues) SetRujukanAMES(ref string) *PlaceholderValues {
	if ref != "" {
		ref = RujukanAMESPrefix + ref
	}
	return p.Set("RUJUKAN_KAMI", ref)
}

// SetNamaSyarikat stores the company name in uppercase.
func (p *PlaceholderValues) SetNamaSyarikat(name string) *PlaceholderValues {
	return p.Set("NAMA_SYARIKAT", strings.ToUpper(name))
}

// SetAlamat joins the non-empty address lines.
func (p *PlaceholderValues) SetAlamat(lines ...string) *PlaceholderValues {
	var kept []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return p.Set("ALAMAT", strings.Join(kept, "\n"))
}

// SetTarikh stores both the numeric and the Malay spelled-out date.
func (p *PlaceholderValues) SetTarikh(t time.Time) *PlaceholderValues {
	p.Set("TARIKH", t.Format("02/01/2006"))
	return p.Set("TARIKH2", utils.FormatMalayDate(t))
}

// SetTarikhIslam stores the Islamic calendar date string as provided.
func (p *PlaceholderValues) SetTarikhIslam(value string) *PlaceholderValues {
	return p.Set("TARIKH_ISLAM", value)
}

// SetNamaPegawai stores the officer name in uppercase.
func (p *PlaceholderValues) SetNamaPegawai(name string) *PlaceholderValues {
	return p.Set("NAMA_PEGAWAI", strings.ToUpper(name))
}

// Merge adds every entry of extra under its canonical name.
func (p *PlaceholderValues) Merge(extra map[string]string) *PlaceholderValues {
	for name, value := range extra {
		p.SetCustom(name, value)
	}
	return p
}

// Build returns a copy of the accumulated replacement map.
func (p *PlaceholderValues) Build() map[string]string {
	out := make(map[string]string, len(p.values))
	for name, value := range p.values {
		out[name] = value
	}
	return out
}
