package activity

import (
	"net/http"

	"maengelportal/middleware"
	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ActivityLogController(router *gin.Engine, db *gorm.DB) {
	router.GET("/activity-log", middleware.AdminSessionMiddleware(db), func(c *gin.Context) {
		ListActivityLog(c, db)
	})
}

func ListActivityLog(c *gin.Context, db *gorm.DB) {
	query := db.Model(&model.ActivityLog{}).Order("created_at DESC").Limit(500)

	if entityType := c.Query("entityType"); entityType != "" {
		query = query.Where("entity_type LIKE ?", entityType+"%")
	}
	if entityID := c.Query("entityId"); entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}

	var entries []model.ActivityLog
	if err := query.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Protokoll konnte nicht geladen werden"})
		return
	}

	results := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		results = append(results, gin.H{
			"id":         e.LogID,
			"adminId":    e.AdminID,
			"action":     e.Action,
			"entityType": e.EntityType,
			"entityId":   e.EntityID,
			"oldValue":   e.OldValue,
			"newValue":   e.NewValue,
			"createdAt":  e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": results})
}
