package services

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"
)

// buildTestDocx assembles a minimal .docx whose document body is the given
// WordprocessingML fragment.
func buildTestDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body>` + body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// readDocumentXML extracts word/document.xml from generated docx bytes.
func readDocumentXML(t *testing.T, content []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("open generated docx: %v", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open document.xml: %v", err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read document.xml: %v", err)
			}
			return string(data)
		}
	}
	t.Fatal("word/document.xml missing from generated file")
	return ""
}

func newTestGenerator(t *testing.T, templateName string, body string) *Generator {
	t.Helper()

	store := NewTemplateStore(t.TempDir())
	if err := store.SaveTemplate(templateName, buildTestDocx(t, body), false); err != nil {
		t.Fatalf("save template: %v", err)
	}
	return NewGenerator(store)
}

func TestGenerateSubstitutesPlaceholders(t *testing.T) {
	body := `<w:p><w:r><w:t>Ruj. Kami: &lt;&lt;RUJUKAN&gt;&gt;</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>&lt;&lt;NAMA_SYARIKAT&gt;&gt;</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Tarikh: &lt;&lt;TARIKH&gt;&gt;</w:t></w:r></w:p>`
	gen := newTestGenerator(t, "surat_test.docx", body)

	values := NewPlaceholderValues().
		SetRujukan("TEST001").
		SetNamaSyarikat("Syarikat Maju Sdn Bhd").
		Build()

	result, err := gen.Generate("surat_test.docx", values, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	doc := readDocumentXML(t, result.Content)
	if !strings.Contains(doc, "KE.JB(90)650/05-02/TEST001") {
		t.Error("reference not substituted")
	}
	if !strings.Contains(doc, "SYARIKAT MAJU SDN BHD") {
		t.Error("company name not substituted or not uppercased")
	}
	if strings.Contains(doc, "&lt;&lt;RUJUKAN&gt;&gt;") {
		t.Error("placeholder token left behind")
	}

	// TARIKH was never supplied
	if len(result.Unresolved) != 1 || result.Unresolved[0] != "TARIKH" {
		t.Errorf("unresolved = %v", result.Unresolved)
	}
}

func TestGenerateCoversAliasSpellings(t *testing.T) {
	body := `<w:p><w:r><w:t>&lt;&lt;BUSINESS_NAME&gt;&gt;</w:t></w:r></w:p>`
	gen := newTestGenerator(t, "signup.docx", body)

	values := NewPlaceholderValues().SetNamaSyarikat("Kedai Runcit").Build()

	result, err := gen.Generate("signup.docx", values, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	doc := readDocumentXML(t, result.Content)
	if !strings.Contains(doc, "KEDAI RUNCIT") {
		t.Error("alias token not substituted")
	}
	if len(result.Unresolved) != 0 {
		t.Errorf("unresolved = %v", result.Unresolved)
	}
}

func TestGenerateInjectsTable(t *testing.T) {
	body := `<w:p><w:r><w:t>&lt;&lt;LAMPIRAN_A&gt;&gt;</w:t></w:r></w:p>`
	gen := newTestGenerator(t, "lampiran.docx", body)

	table := [][]string{
		{"Bil", "Kod Tarif", "Deskripsi"},
		{"1", "8703.23.51", "Motorcar <1.5L"},
	}

	result, err := gen.Generate("lampiran.docx", map[string]string{}, table)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	doc := readDocumentXML(t, result.Content)
	if !strings.Contains(doc, "<w:tbl>") {
		t.Fatal("no table in output")
	}
	if !strings.Contains(doc, "8703.23.51") {
		t.Error("table cell missing")
	}
	// Cell text is XML-escaped
	if !strings.Contains(doc, "Motorcar &lt;1.5L") {
		t.Error("cell text not escaped")
	}
	if strings.Contains(doc, "LAMPIRAN_A&gt;&gt;") {
		t.Error("table token left behind")
	}
}

func TestGenerateUnknownTemplate(t *testing.T) {
	gen := NewGenerator(NewTemplateStore(t.TempDir()))

	if _, err := gen.Generate("nope.docx", nil, nil); err != ErrTemplateNotFound {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	body := `<w:p><w:r><w:t>&lt;&lt;RUJUKAN&gt;&gt; &lt;&lt;TARIKH&gt;&gt; &lt;&lt;RUJUKAN&gt;&gt;</w:t></w:r></w:p>`
	gen := newTestGenerator(t, "inspect.docx", body)

	names, err := gen.Placeholders("inspect.docx")
	if err != nil {
		t.Fatalf("placeholders: %v", err)
	}
	if len(names) != 2 || names[0] != "RUJUKAN" || names[1] != "TARIKH" {
		t.Errorf("names = %v", names)
	}
}

func TestPlaceholderValuesBuilder(t *testing.T) {
	tarikh := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.Local)

	values := NewPlaceholderValues().
		SetRujukan("ABC123").
		SetAlamat("No. 2, Jalan Besar", "", " 81100 Johor Bahru ").
		SetTarikh(tarikh).
		SetNamaPegawai("siti binti omar").
		Merge(map[string]string{"CUSTOM": "x"}).
		Build()

	if values["RUJUKAN"] != "KE.JB(90)650/05-02/ABC123" {
		t.Errorf("RUJUKAN = %q", values["RUJUKAN"])
	}
	if values["ALAMAT"] != "No. 2, Jalan Besar\n81100 Johor Bahru" {
		t.Errorf("ALAMAT = %q", values["ALAMAT"])
	}
	if values["TARIKH"] != "05/03/2026" {
		t.Errorf("TARIKH = %q", values["TARIKH"])
	}
	if values["TARIKH2"] != "5 Mac 2026" {
		t.Errorf("TARIKH2 = %q", values["TARIKH2"])
	}
	if values["NAMA_PEGAWAI"] != "SITI BINTI OMAR" {
		t.Errorf("NAMA_PEGAWAI = %q", values["NAMA_PEGAWAI"])
	}
	if values["CUSTOM"] != "x" {
		t.Errorf("CUSTOM = %q", values["CUSTOM"])
	}
}
