package tracking

import (
	"net/http"
	"strings"

	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func TrackingController(router *gin.Engine, db *gorm.DB) {
	router.GET("/track/:token", func(c *gin.Context) {
		TrackSubmission(c, db)
	})
}

// TrackSubmission is the read-only customer view behind the tracking link.
// Ohne PLZ und E-Mail gibt es nur die Aufforderung zur Verifizierung, keine
// Meldungsdaten.
func TrackSubmission(c *gin.Context, db *gorm.DB) {
	token := c.Param("token")

	var s model.Submission
	err := db.Preload("Files").
		Preload("Bauleitung").
		Preload("Verantwortlicher").
		Preload("Gewerk").
		Preload("Firma").
		Where("tracking_token = ?", token).
		First(&s).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meldung nicht gefunden"})
		return
	}

	plz := c.Query("plz")
	email := c.Query("email")
	if plz == "" && email == "" {
		c.JSON(http.StatusOK, gin.H{
			"verified":             false,
			"requiresVerification": true,
			"tcNummer":             s.TCNummer,
		})
		return
	}

	if plz != s.PLZ || !strings.EqualFold(email, s.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Die angegebenen Daten stimmen nicht mit der Meldung überein"})
		return
	}

	files := make([]gin.H, 0, len(s.Files))
	for _, f := range s.Files {
		files = append(files, gin.H{"name": f.Name, "type": f.Type, "url": f.URL})
	}
	relation := func(set bool, name func() string) interface{} {
		if !set {
			return nil
		}
		return name()
	}

	c.JSON(http.StatusOK, gin.H{
		"verified": true,
		"submission": gin.H{
			"id":               s.SubmissionID,
			"timestamp":        s.Timestamp,
			"vorname":          s.Vorname,
			"nachname":         s.Nachname,
			"tcNummer":         s.TCNummer,
			"beschreibung":     s.Beschreibung,
			"status":           s.Status.Display(),
			"ersteFrist":       s.ErsteFrist,
			"zweiteFrist":      s.ZweiteFrist,
			"erledigtAm":       s.ErledigtAm,
			"bauleitung":       relation(s.Bauleitung != nil, func() string { return s.Bauleitung.Name }),
			"verantwortlicher": relation(s.Verantwortlicher != nil, func() string { return s.Verantwortlicher.Name }),
			"gewerk":           relation(s.Gewerk != nil, func() string { return s.Gewerk.Name }),
			"firma":            relation(s.Firma != nil, func() string { return s.Firma.Name }),
			"files":            files,
		},
	})
}
