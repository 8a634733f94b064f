package auth

import (
	"net/http"

	"maengelportal/dto"
	"maengelportal/middleware"
	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

func AdminAuthController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/auth/admin")
	{
		routes.POST("/login", func(c *gin.Context) {
			AdminLogin(c, db)
		})
		routes.POST("/logout", func(c *gin.Context) {
			AdminLogout(c)
		})
		routes.GET("/verify", middleware.AdminSessionMiddleware(db), func(c *gin.Context) {
			AdminVerify(c)
		})
		routes.POST("/change-password", middleware.AdminSessionMiddleware(db), func(c *gin.Context) {
			AdminChangePassword(c, db)
		})
	}
}

func AdminLogin(c *gin.Context, db *gorm.DB) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}

	var admin model.AdminUser
	if err := db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültige Anmeldedaten"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültige Anmeldedaten"})
		return
	}

	if err := middleware.SetAdminSession(c, &admin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Anmeldung fehlgeschlagen"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":           admin.Username,
		"role":               string(admin.Role),
		"mustChangePassword": admin.MustChangePassword,
	})
}

func AdminLogout(c *gin.Context) {
	middleware.ClearAdminSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Abgemeldet"})
}

func AdminVerify(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	c.JSON(http.StatusOK, gin.H{
		"username":           admin.Username,
		"role":               string(admin.Role),
		"mustChangePassword": admin.MustChangePassword,
	})
}

func AdminChangePassword(c *gin.Context, db *gorm.DB) {
	admin := middleware.CurrentAdmin(c)

	var req dto.AdminChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}
	if len(req.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Das neue Passwort muss mindestens 8 Zeichen lang sein"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Das aktuelle Passwort ist falsch"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Passwort konnte nicht geändert werden"})
		return
	}

	updates := map[string]interface{}{
		"password_hash":        string(hash),
		"must_change_password": false,
	}
	if err := db.Model(&model.AdminUser{}).Where("admin_id = ?", admin.AdminID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Passwort konnte nicht geändert werden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Passwort geändert"})
}
