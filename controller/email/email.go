package email

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"maengelportal/dto"
	"maengelportal/model"
	"maengelportal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func EmailController(router *gin.Engine, db *gorm.DB, mailer services.Mailer) {
	routes := router.Group("/email")
	{
		routes.POST("/submission-alert", func(c *gin.Context) {
			SendSubmissionAlert(c, mailer)
		})
		routes.POST("/confirmation", func(c *gin.Context) {
			SendConfirmation(c, mailer)
		})
	}
}

// SendSubmissionAlert mails the internal notification address. Anders als
// beim Formular-Submit ist ein SMTP-Fehler hier ein 500.
func SendSubmissionAlert(c *gin.Context, mailer services.Mailer) {
	var req dto.SubmissionAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}

	notifyTo := os.Getenv("NOTIFY_EMAIL")
	if notifyTo == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Keine Empfängeradresse konfiguriert"})
		return
	}

	s := alertSubmission(&req)
	if err := mailer.Send(notifyTo, "Neue Mangelmeldung: "+req.TCNummer, services.SubmissionAlertBody(s)); err != nil {
		fmt.Printf("submission alert mail failed: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "E-Mail konnte nicht gesendet werden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "E-Mail gesendet"})
}

func SendConfirmation(c *gin.Context, mailer services.Mailer) {
	var req dto.ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}

	s := &model.Submission{
		Timestamp: time.Now(),
		Vorname:   req.Vorname,
		Nachname:  req.Nachname,
		TCNummer:  req.TCNummer,
		Email:     req.Email,
	}
	if err := mailer.Send(req.Email, "Ihre Mangelmeldung ist eingegangen", services.ConfirmationBody(s, req.TempPassword, req.TrackingURL)); err != nil {
		fmt.Printf("confirmation mail failed: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "E-Mail konnte nicht gesendet werden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "E-Mail gesendet"})
}

func alertSubmission(req *dto.SubmissionAlertRequest) *model.Submission {
	timestamp := time.Now()
	if req.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			timestamp = t
		}
	}
	s := &model.Submission{
		Timestamp:         timestamp,
		Vorname:           req.Vorname,
		Nachname:          req.Nachname,
		StrasseHausnummer: req.StrasseHausnummer,
		PLZ:               req.PLZ,
		Ort:               req.Ort,
		TCNummer:          req.TCNummer,
		Email:             req.Email,
		Telefon:           req.Telefon,
		Beschreibung:      req.Beschreibung,
	}
	for _, name := range req.FileNames {
		s.Files = append(s.Files, model.UploadedFile{Name: name})
	}
	return s
}
