package dto

// SubmissionAlertRequest feeds the internal staff notification mail.
type SubmissionAlertRequest struct {
	Timestamp         string   `json:"timestamp"`
	Vorname           string   `json:"vorname" binding:"required"`
	Nachname          string   `json:"nachname" binding:"required"`
	StrasseHausnummer string   `json:"strasseHausnummer"`
	PLZ               string   `json:"plz"`
	Ort               string   `json:"ort"`
	TCNummer          string   `json:"tcNummer" binding:"required"`
	Email             string   `json:"email" binding:"required,email"`
	Telefon           string   `json:"telefon"`
	Beschreibung      string   `json:"beschreibung"`
	FileNames         []string `json:"fileNames"`
}

// ConfirmationRequest feeds the customer confirmation mail.
type ConfirmationRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Vorname      string `json:"vorname" binding:"required"`
	Nachname     string `json:"nachname" binding:"required"`
	TCNummer     string `json:"tcNummer" binding:"required"`
	TempPassword string `json:"tempPassword"`
	TrackingURL  string `json:"trackingUrl"`
}
