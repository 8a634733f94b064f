package submission

import (
	"fmt"
	"time"

	"maengelportal/dto"
	"maengelportal/middleware"
	"maengelportal/model"
	"maengelportal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SubmissionController(router *gin.Engine, db *gorm.DB, storage services.BlobStore, mailer services.Mailer) {
	router.POST("/submissions", func(c *gin.Context) {
		CreateSubmission(c, db, storage, mailer)
	})

	admin := router.Group("/submissions", middleware.AdminSessionMiddleware(db))
	{
		admin.GET("", func(c *gin.Context) {
			ListSubmissions(c, db)
		})
		admin.GET("/export", func(c *gin.Context) {
			ExportSubmissions(c, db)
		})
		admin.GET("/:id", func(c *gin.Context) {
			GetSubmission(c, db)
		})
		admin.PATCH("/:id", middleware.RequirePasswordChanged(), func(c *gin.Context) {
			UpdateSubmission(c, db)
		})
		admin.DELETE("/:id", middleware.RequirePasswordChanged(), func(c *gin.Context) {
			DeleteSubmission(c, db, storage)
		})
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

// parseDate accepts the form date and the full timestamp variant the
// admin UI sends.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	return &t, nil
}

// toResponse denormalizes the classification relations to display names.
func toResponse(s *model.Submission) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:                s.SubmissionID,
		Timestamp:         s.Timestamp.Format(time.RFC3339),
		Vorname:           s.Vorname,
		Nachname:          s.Nachname,
		StrasseHausnummer: s.StrasseHausnummer,
		PLZ:               s.PLZ,
		Ort:               s.Ort,
		TCNummer:          s.TCNummer,
		Email:             s.Email,
		Telefon:           s.Telefon,
		Beschreibung:      s.Beschreibung,
		DsgvoAccepted:     s.DsgvoAccepted,
		Status:            s.Status.Display(),
		ErsteFrist:        formatDate(s.ErsteFrist),
		ZweiteFrist:       formatDate(s.ZweiteFrist),
		ErledigtAm:        formatDate(s.ErledigtAm),
		Abnahme:           s.Abnahme,
		Haustyp:           s.Haustyp,
		Files:             make([]dto.FileResponse, 0, len(s.Files)),
	}
	if s.Bauleitung != nil {
		resp.Bauleitung = &s.Bauleitung.Name
	}
	if s.Verantwortlicher != nil {
		resp.Verantwortlicher = &s.Verantwortlicher.Name
	}
	if s.Gewerk != nil {
		resp.Gewerk = &s.Gewerk.Name
	}
	if s.Firma != nil {
		resp.Firma = &s.Firma.Name
	}
	for _, f := range s.Files {
		resp.Files = append(resp.Files, dto.FileResponse{
			ID:         f.FileID,
			Name:       f.Name,
			Type:       f.Type,
			Size:       f.Size,
			URL:        f.URL,
			UploadedAt: f.UploadedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func preloadSubmission(db *gorm.DB) *gorm.DB {
	return db.Preload("Files").
		Preload("Bauleitung").
		Preload("Verantwortlicher").
		Preload("Gewerk").
		Preload("Firma")
}
