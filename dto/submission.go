package dto

// SubmissionForm sind die Multipart-Felder des öffentlichen Formulars.
// Dateien kommen separat über das "files"-Feld.
type SubmissionForm struct {
	Vorname           string `form:"vorname" binding:"required"`
	Nachname          string `form:"nachname" binding:"required"`
	StrasseHausnummer string `form:"strasseHausnummer" binding:"required"`
	PLZ               string `form:"plz" binding:"required"`
	Ort               string `form:"ort" binding:"required"`
	TCNummer          string `form:"tcNummer" binding:"required"`
	Email             string `form:"email" binding:"required,email"`
	Telefon           string `form:"telefon" binding:"required"`
	Beschreibung      string `form:"beschreibung" binding:"required"`
	DsgvoAccepted     string `form:"dsgvoAccepted" binding:"required"`
	Haustyp           string `form:"haustyp"`
}

// UpdateSubmissionRequest is a partial patch; pointer fields distinguish
// "absent" from "set to empty/null". Classification fields carry display
// names, not ids.
type UpdateSubmissionRequest struct {
	Status           *string `json:"status"`
	ErsteFrist       *string `json:"ersteFrist"`
	ZweiteFrist      *string `json:"zweiteFrist"`
	ErledigtAm       *string `json:"erledigtAm"`
	Abnahme          *string `json:"abnahme"`
	Haustyp          *string `json:"haustyp"`
	Bauleitung       *string `json:"bauleitung"`
	Verantwortlicher *string `json:"verantwortlicher"`
	Gewerk           *string `json:"gewerk"`
	Firma            *string `json:"firma"`
}

type SubmissionResponse struct {
	ID                uint           `json:"id"`
	Timestamp         string         `json:"timestamp"`
	Vorname           string         `json:"vorname"`
	Nachname          string         `json:"nachname"`
	StrasseHausnummer string         `json:"strasseHausnummer"`
	PLZ               string         `json:"plz"`
	Ort               string         `json:"ort"`
	TCNummer          string         `json:"tcNummer"`
	Email             string         `json:"email"`
	Telefon           string         `json:"telefon"`
	Beschreibung      string         `json:"beschreibung"`
	DsgvoAccepted     bool           `json:"dsgvoAccepted"`
	Status            string         `json:"status"`
	ErsteFrist        *string        `json:"ersteFrist"`
	ZweiteFrist       *string        `json:"zweiteFrist"`
	ErledigtAm        *string        `json:"erledigtAm"`
	Abnahme           *string        `json:"abnahme"`
	Haustyp           *string        `json:"haustyp"`
	Bauleitung        *string        `json:"bauleitung"`
	Verantwortlicher  *string        `json:"verantwortlicher"`
	Gewerk            *string        `json:"gewerk"`
	Firma             *string        `json:"firma"`
	Files             []FileResponse `json:"files"`
}

type FileResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploadedAt"`
}
