package models

// PelupusanDetail holds fields unique to disposal (pelupusan) applications.
type PelupusanDetail struct {
	ID            int    `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID int    `gorm:"column:application_id;not null" json:"application_id"`
	Proses        string `gorm:"column:proses" json:"proses"`
	JenisBarang   string `gorm:"column:jenis_barang" json:"jenis_barang"`
	Pengecualian  string `gorm:"column:pengecualian" json:"pengecualian"`
	Amount        string `gorm:"column:amount" json:"amount"`
	TarikhMula    string `gorm:"column:tarikh_mula" json:"tarikh_mula"`
	TarikhTamat   string `gorm:"column:tarikh_tamat" json:"tarikh_tamat"`
	Tempoh        string `gorm:"column:tempoh" json:"tempoh"`
}

// Butiran5DDetail holds fields unique to Butiran 5D applications.
type Butiran5DDetail struct {
	ID              int    `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID   int    `gorm:"column:application_id;not null" json:"application_id"`
	NoSijil         string `gorm:"column:no_sijil;index:idx_no_sijil" json:"no_sijil"`
	TarikhKuatkuasa string `gorm:"column:tarikh_kuatkuasa" json:"tarikh_kuatkuasa"`
	SebabTolak      string `gorm:"column:sebab_tolak" json:"sebab_tolak"`
}

// Butiran5DVehicle is one vehicle line item under a Butiran 5D application.
type Butiran5DVehicle struct {
	ID            int    `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID int    `gorm:"column:application_id;not null" json:"application_id"`
	Bil           int    `gorm:"column:bil" json:"bil"`
	JenamaModel   string `gorm:"column:jenama_model;not null" json:"jenama_model"`
	NoChasis      string `gorm:"column:no_chasis;not null;index:idx_chasis" json:"no_chasis"`
	NoEnjin       string `gorm:"column:no_enjin;not null;index:idx_enjin" json:"no_enjin"`
}

// AmesDetail holds fields unique to AMES approval applications.
type AmesDetail struct {
	ID              int    `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID   int    `gorm:"column:application_id;not null" json:"application_id"`
	NoKelulusan     string `gorm:"column:no_kelulusan;index:idx_no_kelulusan" json:"no_kelulusan"`
	Kategori        string `gorm:"column:kategori" json:"kategori"`
	TarikhMula      string `gorm:"column:tarikh_mula" json:"tarikh_mula"`
	TarikhTamat     string `gorm:"column:tarikh_tamat" json:"tarikh_tamat"`
	TempohKelulusan string `gorm:"column:tempoh_kelulusan" json:"tempoh_kelulusan"`
}

// AMES line item types.
const (
	AmesItemPedagang = "pedagang"
	AmesItemBahan    = "bahan"
	AmesItemBarang   = "barang"
)

// AmesItem is one tariff-code line item under an AMES application.
type AmesItem struct {
	ID              int    `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID   int    `gorm:"column:application_id;not null" json:"application_id"`
	ItemType        string `gorm:"column:item_type" json:"item_type"`
	Bil             int    `gorm:"column:bil" json:"bil"`
	KodTarif        string `gorm:"column:kod_tarif;not null;index:idx_kod_tarif" json:"kod_tarif"`
	Deskripsi       string `gorm:"column:deskripsi;not null" json:"deskripsi"`
	Nisbah          string `gorm:"column:nisbah" json:"nisbah"`
	TarikhKuatkuasa string `gorm:"column:tarikh_kuatkuasa" json:"tarikh_kuatkuasa"`
}

// SignupBDetail holds fields unique to Sign Up B registration applications.
type SignupBDetail struct {
	ID            int    `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID int    `gorm:"column:application_id;not null" json:"application_id"`
	Email         string `gorm:"column:email" json:"email"`
	Talian        string `gorm:"column:talian" json:"talian"`
}

// TableName overrides
func (PelupusanDetail) TableName() string {
	return "pelupusan_details"
}

func (Butiran5DDetail) TableName() string {
	return "butiran5d_details"
}

func (Butiran5DVehicle) TableName() string {
	return "butiran5d_vehicles"
}

func (AmesDetail) TableName() string {
	return "ames_details"
}

func (AmesItem) TableName() string {
	return "ames_items"
}

func (SignupBDetail) TableName() string {
	return "signupb_details"
}
