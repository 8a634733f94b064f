package submission

import (
	"fmt"
	"net/http"
	"strconv"

	"maengelportal/middleware"
	"maengelportal/model"
	"maengelportal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func DeleteSubmission(c *gin.Context, db *gorm.DB, storage services.BlobStore) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige ID"})
		return
	}

	var s model.Submission
	if err := db.Preload("Files").First(&s, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meldung nicht gefunden"})
		return
	}

	// Blobs zuerst; ein fehlgeschlagener Delete blockiert das Löschen der
	// Meldung nicht.
	for _, f := range s.Files {
		if err := storage.Delete(c.Request.Context(), f.URL); err != nil {
			fmt.Printf("blob delete failed for file %d: %v\n", f.FileID, err)
		}
	}

	// Snapshot ins Protokoll, bevor die Zeile verschwindet
	if admin := middleware.CurrentAdmin(c); admin != nil {
		adminID := admin.AdminID
		services.LogActivity(db, &model.ActivityLog{
			AdminID:    &adminID,
			Action:     model.ActionDeleted,
			EntityType: "submission",
			EntityID:   strconv.Itoa(int(s.SubmissionID)),
			OldValue:   fmt.Sprintf("%s %s, TC %s, %d Dateien", s.Vorname, s.Nachname, s.TCNummer, len(s.Files)),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		})
	}

	tx := db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldung konnte nicht gelöscht werden"})
		return
	}
	if err := tx.Where("submission_id = ?", s.SubmissionID).Delete(&model.UploadedFile{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldung konnte nicht gelöscht werden"})
		return
	}
	if err := tx.Where("submission_id = ?", s.SubmissionID).Delete(&model.Customer{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldung konnte nicht gelöscht werden"})
		return
	}
	if err := tx.Delete(&model.Submission{}, s.SubmissionID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldung konnte nicht gelöscht werden"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldung konnte nicht gelöscht werden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meldung gelöscht"})
}
