package services

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ErrConversionUnavailable means no PDF converter is configured; the caller
// keeps the Word document and tells the user.
var ErrConversionUnavailable = errors.New("pdf conversion not available")

// Letter carries the fields a renderer needs when it cannot read the Word
// document itself.
type Letter struct {
	Rujukan      string
	NamaSyarikat string
	Alamat       string
	Tarikh       string
	Tajuk        string
	Body         []string
}

// Converter turns a generated Word document into a PDF. Conversion is
// best-effort everywhere it is used: a failure never loses the .docx.
type Converter interface {
	Name() string
	Convert(docxPath, pdfPath string, letter Letter) error
}

// NewConverterFromEnv picks a converter at startup. PDF_CONVERTER forces one
// of none/libreoffice/letter; otherwise LibreOffice is preferred when its
// binary is on PATH, with the built-in letter renderer as fallback.
func NewConverterFromEnv() Converter {
	switch strings.ToLower(os.Getenv("PDF_CONVERTER")) {
	case "none":
		return NoopConverter{}
	case "libreoffice":
		if binary, ok := findLibreOffice(); ok {
			return &LibreOfficeConverter{Binary: binary}
		}
		return NoopConverter{}
	case "letter":
		return LetterConverter{}
	}

	if binary, ok := findLibreOffice(); ok {
		return &LibreOfficeConverter{Binary: binary}
	}
	return LetterConverter{}
}

func findLibreOffice() (string, bool) {
	for _, name := range []string{"libreoffice", "soffice"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// NoopConverter always reports conversion as unavailable.
type NoopConverter struct{}

func (NoopConverter) Name() string { return "none" }

func (NoopConverter) Convert(docxPath, pdfPath string, letter Letter) error {
	return ErrConversionUnavailable
}

// LibreOfficeConverter shells out to a headless LibreOffice for a faithful
// docx-to-pdf conversion.
type LibreOfficeConverter struct {
	Binary string
}

func (c *LibreOfficeConverter) Name() string { return "libreoffice" }

func (c *LibreOfficeConverter) Convert(docxPath, pdfPath string, letter Letter) error {
	outDir := filepath.Dir(pdfPath)
	cmd := exec.Command(c.Binary, "--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("libreoffice conversion failed: %v: %s", err, strings.TrimSpace(string(output)))
	}

	// LibreOffice names the output after the input file.
	produced := filepath.Join(outDir,
		strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))+".pdf")
	if produced != pdfPath {
		return os.Rename(produced, pdfPath)
	}
	return nil
}

// LetterConverter renders the letter fields into a plain A4 PDF. It is a
// fallback when LibreOffice is absent, not a faithful rendition of the Word
// layout.
type LetterConverter struct{}

func (LetterConverter) Name() string { return "letter" }

func (LetterConverter) Convert(docxPath, pdfPath string, letter Letter) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()

	pdf.SetFont("Arial", "", 11)
	if letter.Rujukan != "" {
		pdf.CellFormat(0, 6, "Ruj. Kami: "+letter.Rujukan, "", 1, "L", false, 0, "")
	}
	if letter.Tarikh != "" {
		pdf.CellFormat(0, 6, "Tarikh: "+letter.Tarikh, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if letter.NamaSyarikat != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 6, letter.NamaSyarikat, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
	}
	for _, line := range strings.Split(letter.Alamat, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)

	if letter.Tajuk != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, strings.ToUpper(letter.Tajuk), "", "L", false)
		pdf.SetFont("Arial", "", 11)
		pdf.Ln(2)
	}

	for _, paragraph := range letter.Body {
		pdf.MultiCell(0, 6, paragraph, "", "L", false)
		pdf.Ln(2)
	}

	return pdf.OutputFileAndClose(pdfPath)
}
