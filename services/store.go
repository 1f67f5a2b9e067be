package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gorm.io/gorm"

	"kastam-document-api/models"
)

// ErrDetailMismatch is returned when the supplied detail payload does not
// belong to the application's form type.
var ErrDetailMismatch = errors.New("form details do not match form type")

// FormDetails carries the form-specific payload for SaveApplication. Exactly
// the field matching the application's form type may be set; line items ride
// along with their parent detail.
type FormDetails struct {
	Pelupusan *models.PelupusanDetail  `json:"pelupusan,omitempty"`
	Butiran5D *models.Butiran5DDetail  `json:"butiran5d,omitempty"`
	Vehicles  []models.Butiran5DVehicle `json:"vehicles,omitempty"`
	Ames      *models.AmesDetail       `json:"ames,omitempty"`
	Items     []models.AmesItem        `json:"items,omitempty"`
	SignupB   *models.SignupBDetail    `json:"signupb,omitempty"`
}

// Statistics aggregates application counts over several windows.
type Statistics struct {
	TotalApplications int64            `json:"total_applications"`
	ByStatus          map[string]int64 `json:"by_status"`
	ByFormType        map[string]int64 `json:"by_form_type,omitempty"`
	Last7Days         int64            `json:"last_7_days"`
	Last30Days        int64            `json:"last_30_days"`
	ThisMonth         int64            `json:"this_month"`
	ThisYear          int64            `json:"this_year"`
}

// MonthlyCount is one row of the monthly report.
type MonthlyCount struct {
	Month    string `json:"month"`
	FormType string `json:"form_type"`
	Count    int64  `json:"count"`
}

// UnifiedStore is the relational datastore for all document types. Listing
// results are served from a read-through cache that is cleared on every write;
// the cache is only coherent for writes made through the same instance, so one
// instance must own the database file.
type UnifiedStore struct {
	db *gorm.DB

	cacheMu   sync.Mutex
	listCache map[string][]models.ApplicationSummary
}

// NewUnifiedStore wraps an open database handle.
func NewUnifiedStore(db *gorm.DB) *UnifiedStore {
	return &UnifiedStore{
		db:        db,
		listCache: make(map[string][]models.ApplicationSummary),
	}
}

func (s *UnifiedStore) invalidateCache() {
	s.cacheMu.Lock()
	s.listCache = make(map[string][]models.ApplicationSummary)
	s.cacheMu.Unlock()
}

// SaveApplication inserts the application row, its form-specific detail row,
// any line items and a CREATE audit entry in a single transaction. Either all
// rows commit or none do.
func (s *UnifiedStore) SaveApplication(app *models.Application, details *FormDetails) (int, error) {
	if !models.ValidFormType(app.FormType) {
		return 0, fmt.Errorf("unknown form type %q", app.FormType)
	}
	if details != nil {
		if err := details.validate(app.FormType); err != nil {
			return 0, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}

		if details != nil {
			if err := details.insert(tx, app.ID, app.FormType); err != nil {
				return err
			}
		}

		return logAction(tx, &app.ID, models.AuditActionCreate, app.NamaPegawai,
			fmt.Sprintf("Created %s application", app.FormType))
	})
	if err != nil {
		return 0, err
	}

	s.invalidateCache()
	return app.ID, nil
}

func (d *FormDetails) validate(formType string) error {
	switch formType {
	case models.FormTypePelupusan:
		if d.Butiran5D != nil || d.Ames != nil || d.SignupB != nil {
			return ErrDetailMismatch
		}
	case models.FormTypeButiran5D:
		if d.Pelupusan != nil || d.Ames != nil || d.SignupB != nil {
			return ErrDetailMismatch
		}
	case models.FormTypeAmes:
		if d.Pelupusan != nil || d.Butiran5D != nil || d.SignupB != nil {
			return ErrDetailMismatch
		}
	case models.FormTypeSignupB:
		if d.Pelupusan != nil || d.Butiran5D != nil || d.Ames != nil {
			return ErrDetailMismatch
		}
	}
	return nil
}

func (d *FormDetails) insert(tx *gorm.DB, appID int, formType string) error {
	switch formType {
	case models.FormTypePelupusan:
		if d.Pelupusan != nil {
			d.Pelupusan.ApplicationID = appID
			if err := tx.Create(d.Pelupusan).Error; err != nil {
				return err
			}
		}
	case models.FormTypeButiran5D:
		if d.Butiran5D != nil {
			d.Butiran5D.ApplicationID = appID
			if err := tx.Create(d.Butiran5D).Error; err != nil {
				return err
			}
		}
		for i := range d.Vehicles {
			d.Vehicles[i].ID = 0
			d.Vehicles[i].ApplicationID = appID
			if err := tx.Create(&d.Vehicles[i]).Error; err != nil {
				return err
			}
		}
	case models.FormTypeAmes:
		if d.Ames != nil {
			d.Ames.ApplicationID = appID
			if err := tx.Create(d.Ames).Error; err != nil {
				return err
			}
		}
		for i := range d.Items {
			d.Items[i].ID = 0
			d.Items[i].ApplicationID = appID
			if err := tx.Create(&d.Items[i]).Error; err != nil {
				return err
			}
		}
	case models.FormTypeSignupB:
		if d.SignupB != nil {
			d.SignupB.ApplicationID = appID
			if err := tx.Create(d.SignupB).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func logAction(tx *gorm.DB, appID *int, action, userName, details string) error {
	entry := models.AuditEntry{
		ApplicationID: appID,
		Action:        action,
		UserName:      userName,
		Details:       details,
		Timestamp:     time.Now(),
	}
	return tx.Create(&entry).Error
}

// GetApplicationByID returns the application with its form-specific detail and
// line items loaded. Returns gorm.ErrRecordNotFound when the id is unknown.
func (s *UnifiedStore) GetApplicationByID(id int) (*models.Application, error) {
	var app models.Application
	if err := s.db.First(&app, id).Error; err != nil {
		return nil, err
	}

	switch app.FormType {
	case models.FormTypePelupusan:
		var detail models.PelupusanDetail
		if err := s.db.Where("application_id = ?", id).First(&detail).Error; err == nil {
			app.PelupusanDetail = &detail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	case models.FormTypeButiran5D:
		var detail models.Butiran5DDetail
		if err := s.db.Where("application_id = ?", id).First(&detail).Error; err == nil {
			app.Butiran5DDetail = &detail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.db.Where("application_id = ?", id).Order("bil").
			Find(&app.Vehicles).Error; err != nil {
			return nil, err
		}
	case models.FormTypeAmes:
		var detail models.AmesDetail
		if err := s.db.Where("application_id = ?", id).First(&detail).Error; err == nil {
			app.AmesDetail = &detail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.db.Where("application_id = ?", id).Order("item_type, bil").
			Find(&app.Items).Error; err != nil {
			return nil, err
		}
	case models.FormTypeSignupB:
		var detail models.SignupBDetail
		if err := s.db.Where("application_id = ?", id).First(&detail).Error; err == nil {
			app.SignupBDetail = &detail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return &app, nil
}

const summaryColumns = "id, form_type, category, sub_option, rujukan_kami, nama_syarikat, tarikh, status, created_at"

// GetAllApplications returns summary rows newest first, optionally filtered by
// form type and capped at limit. Results are cached per (formType, limit).
func (s *UnifiedStore) GetAllApplications(formType string, limit int) ([]models.ApplicationSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	cacheKey := fmt.Sprintf("%s|%d", formType, limit)

	s.cacheMu.Lock()
	if cached, ok := s.listCache[cacheKey]; ok {
		s.cacheMu.Unlock()
		return cached, nil
	}
	s.cacheMu.Unlock()

	query := s.db.Model(&models.Application{}).Select(summaryColumns)
	if formType != "" {
		query = query.Where("form_type = ?", formType)
	}

	var summaries []models.ApplicationSummary
	if err := query.Order("created_at DESC").Limit(limit).Scan(&summaries).Error; err != nil {
		return nil, err
	}

	s.cacheMu.Lock()
	s.listCache[cacheKey] = summaries
	s.cacheMu.Unlock()

	return summaries, nil
}

// SearchApplications matches text case-insensitively against company name,
// address, reference number and the line-item lookup columns, deduplicated by
// application id, newest first, capped at 50.
func (s *UnifiedStore) SearchApplications(text, formType string) ([]models.ApplicationSummary, error) {
	pattern := "%" + text + "%"

	query := `
		SELECT DISTINCT a.id, a.form_type, a.category, a.sub_option, a.rujukan_kami,
		       a.nama_syarikat, a.tarikh, a.status, a.created_at
		FROM applications a
		LEFT JOIN butiran5d_vehicles v ON a.id = v.application_id
		LEFT JOIN ames_items i ON a.id = i.application_id
		WHERE (a.rujukan_kami LIKE ?
		   OR a.nama_syarikat LIKE ?
		   OR a.alamat LIKE ?
		   OR v.no_chasis LIKE ?
		   OR v.no_enjin LIKE ?
		   OR i.kod_tarif LIKE ?)`

	args := []interface{}{pattern, pattern, pattern, pattern, pattern, pattern}
	if formType != "" {
		query += " AND a.form_type = ?"
		args = append(args, formType)
	}
	query += " ORDER BY a.created_at DESC LIMIT 50"

	var summaries []models.ApplicationSummary
	if err := s.db.Raw(query, args...).Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// DeleteApplication writes a DELETE audit entry capturing identifying fields,
// then removes the row. Detail, line-item and attachment rows go with it via
// ON DELETE CASCADE; the audit entry keeps a NULL application id afterwards.
func (s *UnifiedStore) DeleteApplication(id int, userName string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var app models.Application
		if err := tx.Select("id, form_type, rujukan_kami, nama_syarikat").
			First(&app, id).Error; err != nil {
			return err
		}

		if err := logAction(tx, &app.ID, models.AuditActionDelete, userName,
			fmt.Sprintf("Deleted %s application: %s - %s", app.FormType, app.RujukanKami, app.NamaSyarikat)); err != nil {
			return err
		}

		return tx.Delete(&models.Application{}, id).Error
	})
	if err != nil {
		return err
	}

	s.invalidateCache()
	return nil
}

// GetStatistics computes total, per-status and per-form-type counts plus
// time-windowed counts over created_at. ByFormType is only populated when no
// form type filter is given.
func (s *UnifiedStore) GetStatistics(formType string) (*Statistics, error) {
	stats := &Statistics{
		ByStatus: make(map[string]int64),
	}

	base := func() *gorm.DB {
		q := s.db.Model(&models.Application{})
		if formType != "" {
			q = q.Where("form_type = ?", formType)
		}
		return q
	}

	if err := base().Count(&stats.TotalApplications).Error; err != nil {
		return nil, err
	}

	rows, err := base().Select("status, COUNT(*)").Group("status").Rows()
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	rows.Close()

	if formType == "" {
		stats.ByFormType = make(map[string]int64)
		rows, err := base().Select("form_type, COUNT(*)").Group("form_type").Rows()
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var ft string
			var count int64
			if err := rows.Scan(&ft, &count); err != nil {
				rows.Close()
				return nil, err
			}
			stats.ByFormType[ft] = count
		}
		rows.Close()
	}

	now := time.Now()
	windows := []struct {
		since time.Time
		dest  *int64
	}{
		{now.AddDate(0, 0, -7), &stats.Last7Days},
		{now.AddDate(0, 0, -30), &stats.Last30Days},
		{time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), &stats.ThisMonth},
		{time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), &stats.ThisYear},
	}
	for _, w := range windows {
		if err := base().Where("created_at >= ?", w.since).Count(w.dest).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// GetMonthlyReport counts applications grouped by (month, form type) for the
// given year.
func (s *UnifiedStore) GetMonthlyReport(year int) ([]MonthlyCount, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	var report []MonthlyCount
	err := s.db.Raw(`
		SELECT strftime('%m', created_at) AS month,
		       form_type,
		       COUNT(*) AS count
		FROM applications
		WHERE strftime('%Y', created_at) = ?
		GROUP BY month, form_type
		ORDER BY month, form_type`, fmt.Sprintf("%d", year)).Scan(&report).Error
	if err != nil {
		return nil, err
	}
	return report, nil
}

// CSV column order is fixed; consumers import these files elsewhere.
var csvHeader = []string{
	"Rujukan", "Nama Syarikat", "Alamat", "Tarikh",
	"Jenis Borang", "Kategori", "Sub-Kategori", "Status",
	"Pegawai", "Tarikh Rekod",
}

// ExportCSV streams the summary projection for all (or one form type's)
// applications, newest first.
func (s *UnifiedStore) ExportCSV(formType string, w io.Writer) error {
	query := s.db.Model(&models.Application{}).
		Select("rujukan_kami, nama_syarikat, alamat, tarikh, form_type, category, sub_option, status, nama_pegawai, created_at")
	if formType != "" {
		query = query.Where("form_type = ?", formType)
	}

	rows, err := query.Order("created_at DESC").Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for rows.Next() {
		var rujukan, nama, alamat, tarikh, ft, category, subOption, status, pegawai string
		var createdAt time.Time
		if err := rows.Scan(&rujukan, &nama, &alamat, &tarikh, &ft, &category,
			&subOption, &status, &pegawai, &createdAt); err != nil {
			return err
		}
		record := []string{
			rujukan, nama, alamat, tarikh, ft, category, subOption, status,
			pegawai, createdAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportCSVFile writes the export to a file on disk and returns its path.
func (s *UnifiedStore) ExportCSVFile(formType, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.ExportCSV(formType, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AddAttachment records a file reference under an application and logs it.
func (s *UnifiedStore) AddAttachment(appID int, fileName, filePath, fileType string, fileSize int64) (int, error) {
	attachment := models.Attachment{
		ApplicationID: appID,
		FileName:      fileName,
		FilePath:      filePath,
		FileType:      fileType,
		FileSize:      fileSize,
		UploadedAt:    time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attachment).Error; err != nil {
			return err
		}
		return logAction(tx, &appID, models.AuditActionAttachmentAdded, "",
			fmt.Sprintf("Added attachment: %s", fileName))
	})
	if err != nil {
		return 0, err
	}

	s.invalidateCache()
	return attachment.ID, nil
}

// GetAttachments returns all attachments for an application, newest first.
func (s *UnifiedStore) GetAttachments(appID int) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := s.db.Where("application_id = ?", appID).
		Order("uploaded_at DESC").Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// GetAttachment returns a single attachment row by its own id.
func (s *UnifiedStore) GetAttachment(id int) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := s.db.First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DeleteAttachment removes one attachment row and logs the removal.
func (s *UnifiedStore) DeleteAttachment(id int) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var attachment models.Attachment
		if err := tx.First(&attachment, id).Error; err != nil {
			return err
		}
		if err := logAction(tx, &attachment.ApplicationID, models.AuditActionAttachmentRemoved, "",
			fmt.Sprintf("Removed attachment: %s", attachment.FileName)); err != nil {
			return err
		}
		return tx.Delete(&models.Attachment{}, id).Error
	})
	if err != nil {
		return err
	}

	s.invalidateCache()
	return nil
}

// GetAuditLog returns audit entries newest first, optionally filtered by
// application id (0 means all).
func (s *UnifiedStore) GetAuditLog(appID, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := s.db.Model(&models.AuditEntry{})
	if appID != 0 {
		query = query.Where("application_id = ?", appID)
	}

	var entries []models.AuditEntry
	if err := query.Order("timestamp DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
