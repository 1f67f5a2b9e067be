package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kastam-document-api/config"
	"kastam-document-api/models"
)

func newTestStore(t *testing.T) *UnifiedStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewUnifiedStore(db)
}

func pelupusanApp() (*models.Application, *FormDetails) {
	app := &models.Application{
		FormType:     models.FormTypePelupusan,
		Category:     "DISPOSAL",
		SubOption:    "pemusnahan",
		RujukanKami:  "KE.JB(90)650/05-02/TEST001",
		NamaSyarikat: "SYARIKAT TEST SDN BHD",
		Alamat:       "No. 1, Jalan Test\n81100 Johor Bahru",
		Tarikh:       "15/01/2026",
		NamaPegawai:  "AHMAD BIN ALI",
		Status:       "completed",
	}
	details := &FormDetails{
		Pelupusan: &models.PelupusanDetail{
			Proses:      "pemusnahan",
			JenisBarang: "sisa kain",
			TarikhMula:  "15/01/2026",
			TarikhTamat: "14/02/2026",
			Tempoh:      "tiga puluh (30) hari",
		},
	}
	return app, details
}

func TestSaveAndGetPelupusan(t *testing.T) {
	store := newTestStore(t)

	app, details := pelupusanApp()
	id, err := store.SaveApplication(app, details)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	got, err := store.GetApplicationByID(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.NamaSyarikat != "SYARIKAT TEST SDN BHD" {
		t.Errorf("nama_syarikat = %q", got.NamaSyarikat)
	}
	if got.PelupusanDetail == nil {
		t.Fatal("expected pelupusan detail")
	}
	if got.PelupusanDetail.Tempoh != "tiga puluh (30) hari" {
		t.Errorf("tempoh = %q", got.PelupusanDetail.Tempoh)
	}
}

func TestSaveButiran5DWithVehicles(t *testing.T) {
	store := newTestStore(t)

	app := &models.Application{
		FormType:     models.FormTypeButiran5D,
		RujukanKami:  "KE.JB(90)650/05-02/B5D001",
		NamaSyarikat: "PENGIMPORT KENDERAAN SDN BHD",
	}
	details := &FormDetails{
		Butiran5D: &models.Butiran5DDetail{NoSijil: "SIJIL-001"},
		Vehicles: []models.Butiran5DVehicle{
			{Bil: 2, JenamaModel: "TOYOTA HILUX", NoChasis: "CHS-002", NoEnjin: "ENJ-002"},
			{Bil: 1, JenamaModel: "HONDA CIVIC", NoChasis: "CHS-001", NoEnjin: "ENJ-001"},
		},
	}

	id, err := store.SaveApplication(app, details)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetApplicationByID(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Butiran5DDetail == nil || got.Butiran5DDetail.NoSijil != "SIJIL-001" {
		t.Fatalf("detail = %+v", got.Butiran5DDetail)
	}
	if len(got.Vehicles) != 2 {
		t.Fatalf("vehicles = %d", len(got.Vehicles))
	}
	// Ordered by bil regardless of insertion order
	if got.Vehicles[0].NoChasis != "CHS-001" {
		t.Errorf("first vehicle = %+v", got.Vehicles[0])
	}
}

func TestSaveRejectsDetailMismatch(t *testing.T) {
	store := newTestStore(t)

	app, _ := pelupusanApp()
	details := &FormDetails{
		Ames: &models.AmesDetail{NoKelulusan: "AMES-001"},
	}

	if _, err := store.SaveApplication(app, details); !errors.Is(err, ErrDetailMismatch) {
		t.Fatalf("expected ErrDetailMismatch, got %v", err)
	}
}

func TestSaveRejectsUnknownFormType(t *testing.T) {
	store := newTestStore(t)

	app := &models.Application{FormType: "permits", NamaSyarikat: "X"}
	if _, err := store.SaveApplication(app, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetApplicationNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetApplicationByID(999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDeleteApplicationCascades(t *testing.T) {
	store := newTestStore(t)

	app, details := pelupusanApp()
	id, err := store.SaveApplication(app, details)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.DeleteApplication(id, "AHMAD"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.GetApplicationByID(id); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}

	// Detail row went with the application
	var count int64
	store.db.Model(&models.PelupusanDetail{}).Where("application_id = ?", id).Count(&count)
	if count != 0 {
		t.Errorf("detail rows left after delete: %d", count)
	}

	// Delete of a missing id reports not found
	if err := store.DeleteApplication(id, "AHMAD"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGetAllApplicationsOrderAndLimit(t *testing.T) {
	store := newTestStore(t)

	for i, ref := range []string{"A", "B", "C"} {
		app := &models.Application{
			FormType:     models.FormTypeSignupB,
			RujukanKami:  ref,
			NamaSyarikat: "SYARIKAT " + ref,
			CreatedAt:    time.Now().Add(time.Duration(i) * time.Minute),
		}
		if _, err := store.SaveApplication(app, nil); err != nil {
			t.Fatalf("save %s: %v", ref, err)
		}
	}

	all, err := store.GetAllApplications("", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d rows", len(all))
	}
	if all[0].RujukanKami != "C" {
		t.Errorf("expected newest first, got %q", all[0].RujukanKami)
	}

	limited, err := store.GetAllApplications("", 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored, got %d rows", len(limited))
	}
}

func TestListCacheInvalidatedOnWrite(t *testing.T) {
	store := newTestStore(t)

	app, _ := pelupusanApp()
	if _, err := store.SaveApplication(app, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, err := store.GetAllApplications("", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("got %d rows", len(first))
	}

	second := &models.Application{
		FormType:     models.FormTypeAmes,
		RujukanKami:  "KE.JB(90)650/14/AMES/002",
		NamaSyarikat: "PENGILANG AMES SDN BHD",
	}
	if _, err := store.SaveApplication(second, nil); err != nil {
		t.Fatalf("save second: %v", err)
	}

	after, err := store.GetAllApplications("", 0)
	if err != nil {
		t.Fatalf("list after write: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("stale cache: got %d rows, want 2", len(after))
	}
}

func TestSearchApplications(t *testing.T) {
	store := newTestStore(t)

	app := &models.Application{
		FormType:     models.FormTypeButiran5D,
		RujukanKami:  "KE.JB(90)650/05-02/SRC001",
		NamaSyarikat: "CARIAN MOTOR SDN BHD",
	}
	details := &FormDetails{
		Vehicles: []models.Butiran5DVehicle{
			{Bil: 1, JenamaModel: "PROTON X70", NoChasis: "PNAGX70XYZ", NoEnjin: "E15TGDI"},
			{Bil: 2, JenamaModel: "PROTON X50", NoChasis: "PNAGX50ABC", NoEnjin: "E15TGDI2"},
		},
	}
	id, err := store.SaveApplication(app, details)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Case-insensitive chassis match, deduplicated per application
	results, err := store.SearchApplications("pnagx", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != id {
		t.Fatalf("results = %+v", results)
	}

	// Company name match
	results, err = store.SearchApplications("CARIAN", models.FormTypeButiran5D)
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}

	// Form type filter excludes
	results, err = store.SearchApplications("CARIAN", models.FormTypeAmes)
	if err != nil {
		t.Fatalf("search wrong type: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
}

func TestGetStatistics(t *testing.T) {
	store := newTestStore(t)

	for _, ft := range []string{models.FormTypePelupusan, models.FormTypePelupusan, models.FormTypeAmes} {
		app := &models.Application{
			FormType:     ft,
			NamaSyarikat: "SYARIKAT STAT",
			Status:       "completed",
		}
		if _, err := store.SaveApplication(app, nil); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	stats, err := store.GetStatistics("")
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalApplications != 3 {
		t.Errorf("total = %d", stats.TotalApplications)
	}
	if stats.ByFormType[models.FormTypePelupusan] != 2 {
		t.Errorf("by form type = %v", stats.ByFormType)
	}
	if stats.ByStatus["completed"] != 3 {
		t.Errorf("by status = %v", stats.ByStatus)
	}
	if stats.Last7Days != 3 || stats.ThisYear != 3 {
		t.Errorf("windows = %+v", stats)
	}

	filtered, err := store.GetStatistics(models.FormTypeAmes)
	if err != nil {
		t.Fatalf("filtered statistics: %v", err)
	}
	if filtered.TotalApplications != 1 {
		t.Errorf("filtered total = %d", filtered.TotalApplications)
	}
	if filtered.ByFormType != nil {
		t.Errorf("filtered ByFormType should be empty, got %v", filtered.ByFormType)
	}
}

func TestGetMonthlyReport(t *testing.T) {
	store := newTestStore(t)

	app, _ := pelupusanApp()
	if _, err := store.SaveApplication(app, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	report, err := store.GetMonthlyReport(time.Now().Year())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report[0].FormType != models.FormTypePelupusan || report[0].Count != 1 {
		t.Errorf("row = %+v", report[0])
	}

	empty, err := store.GetMonthlyReport(time.Now().Year() - 1)
	if err != nil {
		t.Fatalf("report previous year: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty report, got %+v", empty)
	}
}

func TestExportCSV(t *testing.T) {
	store := newTestStore(t)

	app, details := pelupusanApp()
	if _, err := store.SaveApplication(app, details); err != nil {
		t.Fatalf("save: %v", err)
	}

	var buf bytes.Buffer
	if err := store.ExportCSV("", &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0][0] != "Rujukan" || records[0][4] != "Jenis Borang" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "SYARIKAT TEST SDN BHD" {
		t.Errorf("row = %v", records[1])
	}
	if !strings.Contains(records[1][2], "Johor Bahru") {
		t.Errorf("alamat = %q", records[1][2])
	}
}

func TestAttachments(t *testing.T) {
	store := newTestStore(t)

	app, _ := pelupusanApp()
	appID, err := store.SaveApplication(app, nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	attID, err := store.AddAttachment(appID, "permit.pdf", "/uploads/abc.pdf", ".pdf", 1024)
	if err != nil {
		t.Fatalf("add attachment: %v", err)
	}

	list, err := store.GetAttachments(appID)
	if err != nil {
		t.Fatalf("list attachments: %v", err)
	}
	if len(list) != 1 || list[0].FileName != "permit.pdf" {
		t.Fatalf("attachments = %+v", list)
	}

	got, err := store.GetAttachment(attID)
	if err != nil {
		t.Fatalf("get attachment: %v", err)
	}
	if got.FileSize != 1024 {
		t.Errorf("size = %d", got.FileSize)
	}

	if err := store.DeleteAttachment(attID); err != nil {
		t.Fatalf("delete attachment: %v", err)
	}
	if _, err := store.GetAttachment(attID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestAuditLog(t *testing.T) {
	store := newTestStore(t)

	app, _ := pelupusanApp()
	appID, err := store.SaveApplication(app, nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeleteApplication(appID, "AHMAD BIN ALI"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries, err := store.GetAuditLog(0, 0)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}

	actions := map[string]bool{}
	for _, e := range entries {
		actions[e.Action] = true
	}
	if !actions[models.AuditActionCreate] || !actions[models.AuditActionDelete] {
		t.Errorf("actions = %v", actions)
	}
}
