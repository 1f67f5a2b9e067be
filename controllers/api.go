package controllers

import (
	"gorm.io/gorm"

	"kastam-document-api/services"
)

// API bundles the injected services behind the HTTP handlers.
type API struct {
	DB          *gorm.DB
	Store       *services.UnifiedStore
	Templates   *services.TemplateStore
	Generator   *services.Generator
	Backups     *services.BackupManager
	Converter   services.Converter
	Mailer      services.Mailer
	FormConfigs *services.FormConfigManager
	Drafts      *services.DraftStore

	GeneratedDir string
	UploadDir    string
}

// New wires the API from its dependencies.
func New(db *gorm.DB, store *services.UnifiedStore, templates *services.TemplateStore,
	generator *services.Generator, backups *services.BackupManager,
	converter services.Converter, mailer services.Mailer,
	formConfigs *services.FormConfigManager, drafts *services.DraftStore,
	generatedDir, uploadDir string) *API {

	return &API{
		DB:           db,
		Store:        store,
		Templates:    templates,
		Generator:    generator,
		Backups:      backups,
		Converter:    converter,
		Mailer:       mailer,
		FormConfigs:  formConfigs,
		Drafts:       drafts,
		GeneratedDir: generatedDir,
		UploadDir:    uploadDir,
	}
}
