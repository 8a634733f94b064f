package submission

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"maengelportal/dto"
	"maengelportal/model"
	"maengelportal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var plzPattern = regexp.MustCompile(`^\d{5}$`)

const minBeschreibung = 20

func generateTrackingToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func generateTempPassword(length int) (string, error) {
	const characters = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
	var password strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(characters))))
		if err != nil {
			return "", err
		}
		password.WriteByte(characters[n.Int64()])
	}
	return password.String(), nil
}

func CreateSubmission(c *gin.Context, db *gorm.DB, storage services.BlobStore, mailer services.Mailer) {
	var form dto.SubmissionForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bitte füllen Sie alle Pflichtfelder aus"})
		return
	}

	if !plzPattern.MatchString(form.PLZ) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Die Postleitzahl muss aus genau 5 Ziffern bestehen"})
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(form.Beschreibung)) < minBeschreibung {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Die Beschreibung muss mindestens 20 Zeichen lang sein"})
		return
	}
	if form.DsgvoAccepted != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bitte stimmen Sie der Datenschutzerklärung zu"})
		return
	}

	token, err := generateTrackingToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Die Meldung konnte nicht gespeichert werden"})
		return
	}

	newSubmission := model.Submission{
		Vorname:           strings.TrimSpace(form.Vorname),
		Nachname:          strings.TrimSpace(form.Nachname),
		StrasseHausnummer: strings.TrimSpace(form.StrasseHausnummer),
		PLZ:               form.PLZ,
		Ort:               strings.TrimSpace(form.Ort),
		TCNummer:          strings.TrimSpace(form.TCNummer),
		Email:             strings.TrimSpace(form.Email),
		Telefon:           strings.TrimSpace(form.Telefon),
		Beschreibung:      strings.TrimSpace(form.Beschreibung),
		DsgvoAccepted:     true,
		Status:            model.StatusOffen,
		TrackingToken:     token,
	}
	if form.Haustyp != "" {
		haustyp := form.Haustyp
		newSubmission.Haustyp = &haustyp
	}

	if err := db.Create(&newSubmission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Die Meldung konnte nicht gespeichert werden"})
		return
	}

	// Uploads laufen nach dem Insert; ein fehlgeschlagener Upload verwirft
	// nicht die Meldung, sondern nur die Datei.
	if multipartForm, err := c.MultipartForm(); err == nil && multipartForm != nil {
		for _, fh := range multipartForm.File["files"] {
			url, err := storage.Upload(c.Request.Context(), fh)
			if err != nil {
				fmt.Printf("file upload failed for submission %d: %v\n", newSubmission.SubmissionID, err)
				continue
			}
			file := model.UploadedFile{
				SubmissionID: newSubmission.SubmissionID,
				Name:         fh.Filename,
				Type:         fh.Header.Get("Content-Type"),
				Size:         fh.Size,
				URL:          url,
			}
			if err := db.Create(&file).Error; err != nil {
				fmt.Printf("file record failed for submission %d: %v\n", newSubmission.SubmissionID, err)
				continue
			}
			newSubmission.Files = append(newSubmission.Files, file)
		}
	}

	tempPassword := ensureCustomerAccount(db, &newSubmission)

	services.LogActivity(db, &model.ActivityLog{
		Action:     model.ActionCreated,
		EntityType: "submission",
		EntityID:   fmt.Sprintf("%d", newSubmission.SubmissionID),
		NewValue:   fmt.Sprintf("%s %s, TC %s", newSubmission.Vorname, newSubmission.Nachname, newSubmission.TCNummer),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	// Mails sind best effort; der Kunde bekommt seine Bestätigung trotzdem
	// im Response quittiert.
	if mailer != nil {
		if notifyTo := os.Getenv("NOTIFY_EMAIL"); notifyTo != "" {
			if err := mailer.Send(notifyTo, "Neue Mangelmeldung: "+newSubmission.TCNummer, services.SubmissionAlertBody(&newSubmission)); err != nil {
				fmt.Printf("submission alert mail failed: %v\n", err)
			}
		}
		trackingURL := ""
		if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
			trackingURL = fmt.Sprintf("%s/track/%s", strings.TrimRight(base, "/"), newSubmission.TrackingToken)
		}
		if err := mailer.Send(newSubmission.Email, "Ihre Mangelmeldung ist eingegangen", services.ConfirmationBody(&newSubmission, tempPassword, trackingURL)); err != nil {
			fmt.Printf("confirmation mail failed: %v\n", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            newSubmission.SubmissionID,
		"trackingToken": newSubmission.TrackingToken,
		"message":       "Ihre Mangelmeldung wurde erfolgreich übermittelt",
	})
}

// ensureCustomerAccount creates the customer record for the new submission
// with a temporary password. Returns the cleartext temp password for the
// confirmation mail, or "" when account creation failed.
func ensureCustomerAccount(db *gorm.DB, s *model.Submission) string {
	tempPassword, err := generateTempPassword(12)
	if err != nil {
		fmt.Printf("temp password generation failed: %v\n", err)
		return ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), 12)
	if err != nil {
		fmt.Printf("temp password hash failed: %v\n", err)
		return ""
	}

	customer := model.Customer{
		SubmissionID: s.SubmissionID,
		Email:        s.Email,
		TCNummer:     s.TCNummer,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := db.Create(&customer).Error; err != nil {
		fmt.Printf("customer account creation failed: %v\n", err)
		return ""
	}
	return tempPassword
}
