package submission

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"maengelportal/dto"
	"maengelportal/middleware"
	"maengelportal/model"
	"maengelportal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func UpdateSubmission(c *gin.Context, db *gorm.DB) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige ID"})
		return
	}

	var req dto.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}

	var s model.Submission
	if err := preloadSubmission(db).First(&s, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meldung nicht gefunden"})
		return
	}

	admin := middleware.CurrentAdmin(c)
	changes := make([][3]string, 0, 8)
	recordChange := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, [3]string{field, oldValue, newValue})
		}
	}

	var statusPatch *model.Status
	if req.Status != nil {
		status, ok := model.ParseStatus(*req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unbekannter Status"})
			return
		}
		statusPatch = &status
	}

	var erledigtPatch **time.Time
	if req.ErledigtAm != nil {
		t, err := parseDate(*req.ErledigtAm)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiges Datum für Erledigt am"})
			return
		}
		erledigtPatch = &t
	}

	oldStatus := s.Status
	oldErledigt := deref(formatDate(s.ErledigtAm))
	s.ApplyWorkflowPatch(statusPatch, erledigtPatch, time.Now())
	recordChange("status", oldStatus.Display(), s.Status.Display())
	recordChange("erledigtAm", oldErledigt, deref(formatDate(s.ErledigtAm)))

	if req.ErsteFrist != nil {
		t, err := parseDate(*req.ErsteFrist)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiges Datum für 1. Frist"})
			return
		}
		recordChange("ersteFrist", deref(formatDate(s.ErsteFrist)), deref(formatDate(t)))
		s.ErsteFrist = t
	}
	if req.ZweiteFrist != nil {
		t, err := parseDate(*req.ZweiteFrist)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiges Datum für 2. Frist"})
			return
		}
		recordChange("zweiteFrist", deref(formatDate(s.ZweiteFrist)), deref(formatDate(t)))
		s.ZweiteFrist = t
	}
	if req.Abnahme != nil {
		recordChange("abnahme", deref(s.Abnahme), *req.Abnahme)
		s.Abnahme = nilIfEmpty(*req.Abnahme)
	}
	if req.Haustyp != nil {
		recordChange("haustyp", deref(s.Haustyp), *req.Haustyp)
		s.Haustyp = nilIfEmpty(*req.Haustyp)
	}

	// Stammdaten-Felder kommen als Anzeigenamen. Unbekannte oder inaktive
	// Namen werden still auf "keine Auswahl" abgebildet.
	if req.Bauleitung != nil {
		recordChange("bauleitung", relationName(s.Bauleitung != nil, func() string { return s.Bauleitung.Name }), *req.Bauleitung)
		s.BauleitungID = model.ResolveMasterDataID(db, "bauleitung", *req.Bauleitung)
		s.Bauleitung = nil
	}
	if req.Verantwortlicher != nil {
		recordChange("verantwortlicher", relationName(s.Verantwortlicher != nil, func() string { return s.Verantwortlicher.Name }), *req.Verantwortlicher)
		s.VerantwortlicherID = model.ResolveMasterDataID(db, "verantwortlicher", *req.Verantwortlicher)
		s.Verantwortlicher = nil
	}
	if req.Gewerk != nil {
		recordChange("gewerk", relationName(s.Gewerk != nil, func() string { return s.Gewerk.Name }), *req.Gewerk)
		s.GewerkID = model.ResolveMasterDataID(db, "gewerk", *req.Gewerk)
		s.Gewerk = nil
	}
	if req.Firma != nil {
		recordChange("firma", relationName(s.Firma != nil, func() string { return s.Firma.Name }), *req.Firma)
		s.FirmaID = model.ResolveMasterDataID(db, "firma", *req.Firma)
		s.Firma = nil
	}

	updates := map[string]interface{}{
		"status":              s.Status,
		"erste_frist":         s.ErsteFrist,
		"zweite_frist":        s.ZweiteFrist,
		"erledigt_am":         s.ErledigtAm,
		"abnahme":             s.Abnahme,
		"haustyp":             s.Haustyp,
		"bauleitung_id":       s.BauleitungID,
		"verantwortlicher_id": s.VerantwortlicherID,
		"gewerk_id":           s.GewerkID,
		"firma_id":            s.FirmaID,
	}
	if err := db.Model(&model.Submission{}).Where("submission_id = ?", s.SubmissionID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldung konnte nicht aktualisiert werden"})
		return
	}

	if admin != nil {
		for _, ch := range changes {
			action := model.ActionFieldUpdated
			if ch[0] == "status" {
				action = model.ActionStatusChanged
			}
			adminID := admin.AdminID
			services.LogActivity(db, &model.ActivityLog{
				AdminID:    &adminID,
				Action:     action,
				EntityType: "submission." + ch[0],
				EntityID:   fmt.Sprintf("%d", s.SubmissionID),
				OldValue:   ch[1],
				NewValue:   ch[2],
				IPAddress:  c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
			})
		}
	}

	var fresh model.Submission
	if err := preloadSubmission(db).First(&fresh, s.SubmissionID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldung konnte nicht geladen werden"})
		return
	}
	c.JSON(http.StatusOK, toResponse(&fresh))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func relationName(set bool, name func() string) string {
	if !set {
		return ""
	}
	return name()
}
