package model

import "gorm.io/gorm"

// Die vier Stammdaten-Listen liegen in getrennten Tabellen, damit bestehende
// Meldungen ihre Referenzen behalten (soft delete statt löschen).

type Bauleitung struct {
	ItemID uint   `gorm:"column:item_id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:name;type:varchar(255);not null"`
	Active bool   `gorm:"column:active;default:true;not null"`
}

func (Bauleitung) TableName() string {
	return "bauleitung"
}

type Verantwortlicher struct {
	ItemID uint   `gorm:"column:item_id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:name;type:varchar(255);not null"`
	Active bool   `gorm:"column:active;default:true;not null"`
}

func (Verantwortlicher) TableName() string {
	return "verantwortlicher"
}

type Gewerk struct {
	ItemID uint   `gorm:"column:item_id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:name;type:varchar(255);not null"`
	Active bool   `gorm:"column:active;default:true;not null"`
}

func (Gewerk) TableName() string {
	return "gewerk"
}

type Firma struct {
	ItemID uint   `gorm:"column:item_id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:name;type:varchar(255);not null"`
	Active bool   `gorm:"column:active;default:true;not null"`
}

func (Firma) TableName() string {
	return "firma"
}

// MasterDataItem is the shared shape the handlers work with; it reads and
// writes any of the four tables via db.Table(...).
type MasterDataItem struct {
	ItemID uint   `gorm:"column:item_id;primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"column:name" json:"name"`
	Active bool   `gorm:"column:active" json:"active"`
}

// MasterDataKinds are the valid values of the "type" query parameter.
var MasterDataKinds = []string{"bauleitung", "verantwortlicher", "gewerk", "firma"}

func IsMasterDataKind(kind string) bool {
	for _, k := range MasterDataKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// MasterDataTable returns the table name for a kind. Kinds and table names
// match by construction; the indirection keeps raw strings out of queries.
func MasterDataTable(kind string) string {
	return kind
}

// ResolveMasterDataID looks up the id of an active item by display name.
// Unknown names resolve to nil, matching the form behaviour of treating
// stale names as "no selection".
func ResolveMasterDataID(db *gorm.DB, kind, name string) *uint {
	if name == "" || !IsMasterDataKind(kind) {
		return nil
	}
	var item MasterDataItem
	err := db.Table(MasterDataTable(kind)).
		Where("name = ? AND active = ?", name, true).
		Select("item_id", "name", "active").
		First(&item).Error
	if err != nil {
		return nil
	}
	id := item.ItemID
	return &id
}
