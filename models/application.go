package models

import (
	"time"

	"gorm.io/datatypes"
)

// Form types recognised by the datastore. Each one owns its own detail table.
const (
	FormTypePelupusan = "pelupusan"
	FormTypeButiran5D = "butiran5d"
	FormTypeAmes      = "ames"
	FormTypeSignupB   = "signupb"
)

// ValidFormType reports whether ft is one of the known form types.
func ValidFormType(ft string) bool {
	switch ft {
	case FormTypePelupusan, FormTypeButiran5D, FormTypeAmes, FormTypeSignupB:
		return true
	}
	return false
}

// Application is one row per generated document.
type Application struct {
	ID             int            `gorm:"primaryKey;column:id" json:"id"`
	FormType       string         `gorm:"column:form_type;not null;index:idx_form_type" json:"form_type"`
	Category       string         `gorm:"column:category" json:"category"`
	SubOption      string         `gorm:"column:sub_option" json:"sub_option"`
	RujukanKami    string         `gorm:"column:rujukan_kami;index:idx_rujukan" json:"rujukan_kami"`
	RujukanTuan    string         `gorm:"column:rujukan_tuan" json:"rujukan_tuan"`
	NamaSyarikat   string         `gorm:"column:nama_syarikat;not null;index:idx_nama" json:"nama_syarikat"`
	Alamat         string         `gorm:"column:alamat" json:"alamat"`
	Tarikh         string         `gorm:"column:tarikh" json:"tarikh"`
	TarikhIslam    string         `gorm:"column:tarikh_islam" json:"tarikh_islam"`
	NamaPegawai    string         `gorm:"column:nama_pegawai" json:"nama_pegawai"`
	Status         string         `gorm:"column:status;index:idx_status" json:"status"`
	DocumentPath   string         `gorm:"column:document_path" json:"document_path"`
	CreatedAt      time.Time      `gorm:"column:created_at;index:idx_created" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updated_at"`
	AdditionalData datatypes.JSON `gorm:"column:additional_data" json:"additional_data,omitempty"`

	// Relations (loaded according to FormType)
	PelupusanDetail *PelupusanDetail   `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"pelupusan_details,omitempty"`
	Butiran5DDetail *Butiran5DDetail   `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"butiran5d_details,omitempty"`
	Vehicles        []Butiran5DVehicle `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"vehicles,omitempty"`
	AmesDetail      *AmesDetail        `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"ames_details,omitempty"`
	Items           []AmesItem         `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	SignupBDetail   *SignupBDetail     `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"signupb_details,omitempty"`
	Attachments     []Attachment       `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// ApplicationSummary is the projection returned by listing and search queries.
type ApplicationSummary struct {
	ID           int       `json:"id"`
	FormType     string    `json:"form_type"`
	Category     string    `json:"category"`
	SubOption    string    `json:"sub_option"`
	RujukanKami  string    `json:"rujukan_kami"`
	NamaSyarikat string    `json:"nama_syarikat"`
	Tarikh       string    `json:"tarikh"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides
func (Application) TableName() string {
	return "applications"
}
