package setup

import (
	"fmt"
	"net/http"
	"os"

	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Die Listen entsprechen dem Stand beim Go-Live; danach pflegt der Admin
// die Stammdaten über /master-data.
var seedData = map[string][]string{
	"bauleitung": {
		"Daniel Mordass",
		"Jens Kohnert",
		"Markus Wünsch",
	},
	"verantwortlicher": {
		"Daniel Mordass",
		"Jens Kohnert",
		"Markus Wünsch",
		"Thomas Wötzel",
	},
	"gewerk": {
		"Außenputz", "Balkone", "Dachdeckung", "Dachstuhl", "Elektro",
		"Estrich", "Fenster", "Fliesen", "Heizung/Sanitär", "Hochbau",
		"Innenputz", "Innentüren", "Lüftung", "Tiefbau", "Treppen",
		"Trockenbau",
	},
	"firma": {
		"Arndt", "Bauconstruct", "Bauservice Zwenkau", "Bergander", "BMB",
		"Breman", "Cierpinski", "Döhler", "Enick", "Estrichteam", "Gaedtke",
		"Guttenberger", "Happke", "Harrandt", "HIB", "HIT", "Hoppe & Kant",
		"Hüther", "Kieburg", "Krieg", "Lunos", "MoJé Bau", "Pluggit",
		"Raum + Areal", "Salomon", "Stoof", "Streubel", "TMP",
		"Treppenmeister", "UDIPAN", "Werner",
	},
}

func SetupController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/setup", requireSeedSecret())
	{
		routes.POST("/seed-admin", func(c *gin.Context) {
			SeedAdmin(c, db)
		})
		routes.POST("/seed-master-data", func(c *gin.Context) {
			SeedMasterData(c, db)
		})
		routes.GET("/seed-master-data", func(c *gin.Context) {
			MasterDataCounts(c, db)
		})
	}
}

func requireSeedSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := os.Getenv("SEED_SECRET")
		header := c.GetHeader("Authorization")
		if secret == "" || header != "Bearer "+secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// SeedAdmin creates the bootstrap account Admin/admin123 with a forced
// password change. Läuft nur einmal; ein zweiter Aufruf ist ein 409.
func SeedAdmin(c *gin.Context, db *gorm.DB) {
	var count int64
	db.Model(&model.AdminUser{}).Where("username = ?", "Admin").Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Admin existiert bereits"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admin konnte nicht angelegt werden"})
		return
	}

	admin := model.AdminUser{
		Username:           "Admin",
		PasswordHash:       string(hash),
		Role:               model.RoleAdmin,
		MustChangePassword: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admin konnte nicht angelegt werden"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": admin.Username, "mustChangePassword": true})
}

// SeedMasterData inserts the initial lists, skipping names that already
// exist in the respective table.
func SeedMasterData(c *gin.Context, db *gorm.DB) {
	created, skipped := 0, 0
	for _, kind := range model.MasterDataKinds {
		for _, name := range seedData[kind] {
			var count int64
			db.Table(model.MasterDataTable(kind)).Where("name = ?", name).Count(&count)
			if count > 0 {
				skipped++
				continue
			}
			item := model.MasterDataItem{Name: name, Active: true}
			if err := db.Table(model.MasterDataTable(kind)).Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Stammdaten konnten nicht angelegt werden"})
				return
			}
			created++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Seed abgeschlossen: %d angelegt, %d übersprungen", created, skipped),
	})
}

func MasterDataCounts(c *gin.Context, db *gorm.DB) {
	counts := gin.H{}
	total := int64(0)
	for _, kind := range model.MasterDataKinds {
		var count int64
		db.Table(model.MasterDataTable(kind)).Count(&count)
		counts[kind] = count
		total += count
	}
	counts["total"] = total
	c.JSON(http.StatusOK, counts)
}

