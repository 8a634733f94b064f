package masterdata

import (
	"net/http"
	"strconv"
	"strings"

	"maengelportal/dto"
	"maengelportal/middleware"
	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func MasterDataController(router *gin.Engine, db *gorm.DB) {
	// Lesen ist öffentlich; das Mangelformular füllt seine Auswahllisten
	// ohne Anmeldung.
	router.GET("/master-data", func(c *gin.Context) {
		ListMasterData(c, db)
	})

	adminOnly := router.Group("/master-data",
		middleware.AdminSessionMiddleware(db),
		middleware.RequireRole(model.RoleAdmin),
		middleware.RequirePasswordChanged(),
	)
	{
		adminOnly.POST("", func(c *gin.Context) {
			CreateMasterData(c, db)
		})
		adminOnly.DELETE("/:id", func(c *gin.Context) {
			DeleteMasterData(c, db)
		})
	}
}

func activeItems(db *gorm.DB, kind string) ([]model.MasterDataItem, error) {
	items := make([]model.MasterDataItem, 0)
	err := db.Table(model.MasterDataTable(kind)).
		Where("active = ?", true).
		Select("item_id", "name", "active").
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// ListMasterData returns one list when ?type= is given, otherwise all four
// keyed by kind.
func ListMasterData(c *gin.Context, db *gorm.DB) {
	if kind := c.Query("type"); kind != "" {
		if !model.IsMasterDataKind(kind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unbekannter Stammdaten-Typ"})
			return
		}
		items, err := activeItems(db, kind)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Stammdaten konnten nicht geladen werden"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
		return
	}

	result := gin.H{}
	for _, kind := range model.MasterDataKinds {
		items, err := activeItems(db, kind)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Stammdaten konnten nicht geladen werden"})
			return
		}
		result[kind] = items
	}
	c.JSON(http.StatusOK, result)
}

// CreateMasterData rejects names that collide with an ACTIVE item of the
// same kind. Ein gelöschter (inaktiver) Eintrag blockiert den Namen nicht.
func CreateMasterData(c *gin.Context, db *gorm.DB) {
	var req dto.CreateMasterDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}
	if !model.IsMasterDataKind(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unbekannter Stammdaten-Typ"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Der Name darf nicht leer sein"})
		return
	}

	var count int64
	db.Table(model.MasterDataTable(req.Type)).
		Where("name = ? AND active = ?", name, true).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Dieser Name existiert bereits"})
		return
	}

	item := model.MasterDataItem{Name: name, Active: true}
	if err := db.Table(model.MasterDataTable(req.Type)).Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Eintrag konnte nicht angelegt werden"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// DeleteMasterData is a soft delete and idempotent: deleting an already
// inactive item succeeds again.
func DeleteMasterData(c *gin.Context, db *gorm.DB) {
	kind := c.Query("type")
	if !model.IsMasterDataKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unbekannter Stammdaten-Typ"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige ID"})
		return
	}

	var count int64
	db.Table(model.MasterDataTable(kind)).Where("item_id = ?", id).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Eintrag nicht gefunden"})
		return
	}

	err = db.Table(model.MasterDataTable(kind)).
		Where("item_id = ?", id).
		Update("active", false).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Eintrag konnte nicht gelöscht werden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Eintrag gelöscht"})
}
