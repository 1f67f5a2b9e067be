package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"kastam-document-api/models"
	"kastam-document-api/services"
	"kastam-document-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateRequest is the full input for one document generation.
type GenerateRequest struct {
	FormType     string `json:"form_type" binding:"required"`
	TemplateName string `json:"template_name" binding:"required"`
	Category     string `json:"category"`
	SubOption    string `json:"sub_option"`

	RujukanKami  string   `json:"rujukan_kami" binding:"required"`
	RujukanTuan  string   `json:"rujukan_tuan"`
	NamaSyarikat string   `json:"nama_syarikat" binding:"required"`
	Alamat       []string `json:"alamat"`
	Tarikh       string   `json:"tarikh"`
	TarikhIslam  string   `json:"tarikh_islam"`
	NamaPegawai  string   `json:"nama_pegawai"`
	Status       string   `json:"status"`

	Details *services.FormDetails `json:"details"`

	// Extra placeholder values beyond the standard set
	Placeholders map[string]string `json:"placeholders"`

	ConvertPDF bool     `json:"convert_pdf"`
	EmailTo    []string `json:"email_to"`
}

// GenerateDocument populates a template, saves the record and optionally
// converts to PDF and emails the result
func (a *API) GenerateDocument(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidFormType(req.FormType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form type"})
		return
	}

	// Default the letter date to today when omitted
	tarikh := req.Tarikh
	tarikhTime := time.Now()
	if tarikh == "" {
		tarikh = tarikhTime.Format("02/01/2006")
	} else if parsed, err := time.Parse("02/01/2006", tarikh); err == nil {
		tarikhTime = parsed
	}

	// Accept either the bare reference number or the full departmental form
	rujukan := req.RujukanKami
	prefix := services.RujukanPrefix
	if req.FormType == models.FormTypeAmes {
		prefix = services.RujukanAMESPrefix
	}
	if !strings.HasPrefix(rujukan, "KE.JB") {
		rujukan = prefix + rujukan
	}
	req.RujukanKami = rujukan

	values := services.NewPlaceholderValues().
		SetNamaSyarikat(req.NamaSyarikat).
		SetAlamat(req.Alamat...).
		SetTarikh(tarikhTime).
		SetNamaPegawai(req.NamaPegawai)

	if req.FormType == models.FormTypeAmes {
		values.SetRujukanAMES(strings.TrimPrefix(rujukan, services.RujukanAMESPrefix))
	} else {
		values.SetRujukan(strings.TrimPrefix(rujukan, services.RujukanPrefix))
	}
	if req.RujukanTuan != "" {
		values.Set("RUJUKAN_TUAN", req.RujukanTuan)
	}
	if req.TarikhIslam != "" {
		values.SetTarikhIslam(req.TarikhIslam)
	}
	addDetailPlaceholders(values, req.FormType, req.Details)
	values.Merge(req.Placeholders)

	result, err := a.Generator.Generate(req.TemplateName, values.Build(), detailTableRows(req.FormType, req.Details))
	if err == services.ErrTemplateNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	if err == services.ErrUnsupportedFormat {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template must be .docx"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document generation failed"})
		return
	}

	// Write the populated document to disk
	docName := fmt.Sprintf("%s_%s.docx", req.FormType, uuid.New().String())
	docPath := filepath.Join(a.GeneratedDir, docName)
	if err := os.WriteFile(docPath, result.Content, 0644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write document"})
		return
	}

	response := gin.H{
		"message":       "Document generated successfully",
		"document_path": docPath,
	}
	if len(result.Unresolved) > 0 {
		response["unresolved_placeholders"] = result.Unresolved
	}

	// PDF conversion is best effort; a failure keeps the .docx
	var pdfPath string
	if req.ConvertPDF {
		pdfPath = strings.TrimSuffix(docPath, ".docx") + ".pdf"
		letter := services.Letter{
			Rujukan:      req.RujukanKami,
			NamaSyarikat: strings.ToUpper(req.NamaSyarikat),
			Alamat:       strings.Join(req.Alamat, "\n"),
			Tarikh:       tarikh,
		}
		if err := a.Converter.Convert(docPath, pdfPath, letter); err != nil {
			log.Printf("PDF conversion failed for %s: %v", docPath, err)
			response["pdf_warning"] = "PDF conversion failed, Word document kept"
			pdfPath = ""
		} else {
			response["pdf_path"] = pdfPath
		}
	}

	status := req.Status
	if status == "" {
		status = "completed"
	}

	app := &models.Application{
		FormType:     req.FormType,
		Category:     req.Category,
		SubOption:    req.SubOption,
		RujukanKami:  req.RujukanKami,
		RujukanTuan:  req.RujukanTuan,
		NamaSyarikat: strings.ToUpper(utils.SanitizeInput(req.NamaSyarikat)),
		Alamat:       strings.Join(req.Alamat, "\n"),
		Tarikh:       tarikh,
		TarikhIslam:  req.TarikhIslam,
		NamaPegawai:  strings.ToUpper(req.NamaPegawai),
		Status:       status,
		DocumentPath: docPath,
	}

	appID, err := a.Store.SaveApplication(app, req.Details)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document generated but saving the record failed"})
		return
	}
	response["application_id"] = appID

	if len(req.EmailTo) > 0 {
		if !a.Mailer.Enabled() {
			response["email_warning"] = "Email is not configured"
		} else {
			attachments := []string{docPath}
			if pdfPath != "" {
				attachments = append(attachments, pdfPath)
			}
			subject := fmt.Sprintf("Dokumen %s - %s", strings.ToUpper(req.FormType), req.RujukanKami)
			body := fmt.Sprintf("Dokumen rujukan %s untuk %s dilampirkan.", req.RujukanKami, strings.ToUpper(req.NamaSyarikat))
			if err := a.Mailer.SendDocument(req.EmailTo, subject, body, attachments...); err != nil {
				log.Printf("Email delivery failed for application %d: %v", appID, err)
				response["email_warning"] = "Email delivery failed"
			} else {
				response["email_sent"] = true
			}
		}
	}

	c.JSON(http.StatusCreated, response)
}

// GetTemplatePlaceholders lists the placeholder names found in a template
func (a *API) GetTemplatePlaceholders(c *gin.Context) {
	name := c.Param("name")

	placeholders, err := a.Generator.Placeholders(name)
	if err == services.ErrTemplateNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to inspect template"})
		return
	}

	described := make([]gin.H, 0, len(placeholders))
	for _, p := range placeholders {
		described = append(described, gin.H{
			"name":        p,
			"standard":    services.IsStandardPlaceholder(p),
			"description": services.PlaceholderDescription(p),
		})
	}

	c.JSON(http.StatusOK, gin.H{"placeholders": described})
}

// DownloadGeneratedDocument returns a previously generated file by
// application ID
func (a *API) DownloadGeneratedDocument(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	app, err := a.Store.GetApplicationByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if app.DocumentPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No document recorded for this application"})
		return
	}
	if _, err := os.Stat(app.DocumentPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage"})
		return
	}

	c.FileAttachment(app.DocumentPath, filepath.Base(app.DocumentPath))
}

// addDetailPlaceholders maps form detail fields onto their template tokens.
func addDetailPlaceholders(values *services.PlaceholderValues, formType string, details *services.FormDetails) {
	if details == nil {
		return
	}

	switch formType {
	case models.FormTypePelupusan:
		if d := details.Pelupusan; d != nil {
			values.Set("PROSES", d.Proses)
			values.Set("JENIS_BARANG", d.JenisBarang)
			values.Set("PENGECUALIAN", d.Pengecualian)
			values.Set("AMOUNT", d.Amount)
			values.Set("TARIKH_MULA", d.TarikhMula)
			values.Set("TARIKH_TAMAT", d.TarikhTamat)
			values.Set("TEMPOH", d.Tempoh)
		}
	case models.FormTypeButiran5D:
		if d := details.Butiran5D; d != nil {
			values.Set("NO_SIJIL", d.NoSijil)
			values.Set("TARIKH_KUATKUASA", d.TarikhKuatkuasa)
			values.Set("SEBAB_TOLAK", d.SebabTolak)
		}
	case models.FormTypeAmes:
		if d := details.Ames; d != nil {
			values.Set("NO_KELULUSAN", d.NoKelulusan)
			values.Set("KATEGORI", d.Kategori)
			values.Set("TARIKH_MULA", d.TarikhMula)
			values.Set("TARIKH_TAMAT", d.TarikhTamat)
			values.Set("TEMPOH_KELULUSAN", d.TempohKelulusan)
		}
	case models.FormTypeSignupB:
		if d := details.SignupB; d != nil {
			values.Set("EMAIL", d.Email)
			values.Set("TALIAN", d.Talian)
		}
	}
}

// detailTableRows builds the line-item table injected at the LAMPIRAN_A slot.
func detailTableRows(formType string, details *services.FormDetails) [][]string {
	if details == nil {
		return nil
	}

	switch formType {
	case models.FormTypeButiran5D:
		if len(details.Vehicles) == 0 {
			return nil
		}
		rows := [][]string{{"Bil", "Jenama / Model", "No. Chasis", "No. Enjin"}}
		for i, v := range details.Vehicles {
			bil := v.Bil
			if bil == 0 {
				bil = i + 1
			}
			rows = append(rows, []string{strconv.Itoa(bil), v.JenamaModel, v.NoChasis, v.NoEnjin})
		}
		return rows
	case models.FormTypeAmes:
		if len(details.Items) == 0 {
			return nil
		}
		rows := [][]string{{"Bil", "Kod Tarif", "Deskripsi", "Nisbah", "Tarikh Kuatkuasa"}}
		for i, item := range details.Items {
			bil := item.Bil
			if bil == 0 {
				bil = i + 1
			}
			rows = append(rows, []string{strconv.Itoa(bil), item.KodTarif, item.Deskripsi, item.Nisbah, item.TarikhKuatkuasa})
		}
		return rows
	}
	return nil
}
