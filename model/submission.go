package model

import (
	"time"
)

// Interne Status-Werte; nach außen werden die deutschen Anzeigenamen benutzt.
type Status string

const (
	StatusOffen           Status = "OFFEN"
	StatusInBearbeitung   Status = "IN_BEARBEITUNG"
	StatusErledigt        Status = "ERLEDIGT"
	StatusMangelAbgelehnt Status = "MANGEL_ABGELEHNT"
)

var statusDisplay = map[Status]string{
	StatusOffen:           "Offen",
	StatusInBearbeitung:   "In Bearbeitung",
	StatusErledigt:        "Erledigt",
	StatusMangelAbgelehnt: "Mangel abgelehnt",
}

var statusFromDisplay = map[string]Status{
	"Offen":            StatusOffen,
	"In Bearbeitung":   StatusInBearbeitung,
	"Erledigt":         StatusErledigt,
	"Mangel abgelehnt": StatusMangelAbgelehnt,
}

// Sortierreihenfolge: Offen < In Bearbeitung < Erledigt < Mangel abgelehnt
var statusRank = map[Status]int{
	StatusOffen:           0,
	StatusInBearbeitung:   1,
	StatusErledigt:        2,
	StatusMangelAbgelehnt: 3,
}

func (s Status) Display() string {
	if d, ok := statusDisplay[s]; ok {
		return d
	}
	return string(s)
}

func (s Status) Rank() int {
	return statusRank[s]
}

// ParseStatus maps a German display name to the internal value.
func ParseStatus(display string) (Status, bool) {
	s, ok := statusFromDisplay[display]
	return s, ok
}

type Submission struct {
	SubmissionID      uint       `gorm:"column:submission_id;primaryKey;autoIncrement"`
	Timestamp         time.Time  `gorm:"column:timestamp;autoCreateTime"`
	Vorname           string     `gorm:"column:vorname;type:varchar(100);not null"`
	Nachname          string     `gorm:"column:nachname;type:varchar(100);not null"`
	StrasseHausnummer string     `gorm:"column:strasse_hausnummer;type:varchar(255);not null"`
	PLZ               string     `gorm:"column:plz;type:varchar(5);not null"`
	Ort               string     `gorm:"column:ort;type:varchar(100);not null"`
	TCNummer          string     `gorm:"column:tc_nummer;type:varchar(50);not null"`
	Email             string     `gorm:"column:email;type:varchar(255);not null"`
	Telefon           string     `gorm:"column:telefon;type:varchar(50);not null"`
	Beschreibung      string     `gorm:"column:beschreibung;type:text;not null"`
	DsgvoAccepted     bool       `gorm:"column:dsgvo_accepted;not null"`
	Status            Status     `gorm:"column:status;type:varchar(20);default:'OFFEN';not null"`
	ErsteFrist        *time.Time `gorm:"column:erste_frist"`
	ZweiteFrist       *time.Time `gorm:"column:zweite_frist"`
	ErledigtAm        *time.Time `gorm:"column:erledigt_am"`
	Abnahme           *string    `gorm:"column:abnahme;type:varchar(100)"`
	Haustyp           *string    `gorm:"column:haustyp;type:varchar(100)"`
	BauleitungID      *uint      `gorm:"column:bauleitung_id"`
	VerantwortlicherID *uint     `gorm:"column:verantwortlicher_id"`
	GewerkID          *uint      `gorm:"column:gewerk_id"`
	FirmaID           *uint      `gorm:"column:firma_id"`
	TrackingToken     string     `gorm:"column:tracking_token;type:varchar(64);uniqueIndex"`

	// Relations
	Files            []UploadedFile    `gorm:"foreignKey:SubmissionID;references:SubmissionID;constraint:OnDelete:CASCADE"`
	Bauleitung       *Bauleitung       `gorm:"foreignKey:BauleitungID;references:ItemID"`
	Verantwortlicher *Verantwortlicher `gorm:"foreignKey:VerantwortlicherID;references:ItemID"`
	Gewerk           *Gewerk           `gorm:"foreignKey:GewerkID;references:ItemID"`
	Firma            *Firma            `gorm:"foreignKey:FirmaID;references:ItemID"`
}

func (Submission) TableName() string {
	return "submissions"
}

type UploadedFile struct {
	FileID       uint      `gorm:"column:file_id;primaryKey;autoIncrement"`
	SubmissionID uint      `gorm:"column:submission_id;not null;index"`
	Name         string    `gorm:"column:name;type:varchar(255);not null"`
	Type         string    `gorm:"column:type;type:varchar(100);not null"`
	Size         int64     `gorm:"column:size;not null"`
	URL          string    `gorm:"column:url;type:varchar(500);not null"`
	UploadedAt   time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}

func (UploadedFile) TableName() string {
	return "uploaded_files"
}

// ApplyWorkflowPatch applies a status/ErledigtAm patch and keeps the two
// fields consistent:
//   - Status -> ERLEDIGT setzt ErledigtAm, falls noch leer.
//   - Ein gesetztes ErledigtAm erzwingt Status ERLEDIGT.
//   - Ein explizit geleertes ErledigtAm lässt den Status unverändert.
//
// status is nil when the patch does not touch the status; erledigtAm is a
// double pointer so "absent" and "set to null" can be told apart.
func (s *Submission) ApplyWorkflowPatch(status *Status, erledigtAm **time.Time, now time.Time) {
	if status != nil {
		s.Status = *status
		if *status == StatusErledigt && s.ErledigtAm == nil {
			t := now
			s.ErledigtAm = &t
		}
	}
	if erledigtAm != nil {
		s.ErledigtAm = *erledigtAm
		if *erledigtAm != nil && s.Status != StatusErledigt {
			s.Status = StatusErledigt
		}
	}
}
