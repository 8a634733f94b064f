package admin

import (
	"net/http"
	"strconv"

	"maengelportal/dto"
	"maengelportal/middleware"
	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func AdminUsersController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/admin/users", middleware.AdminSessionMiddleware(db))
	{
		routes.GET("", func(c *gin.Context) {
			ListAdminUsers(c, db)
		})
		routes.POST("", middleware.RequireRole(model.RoleAdmin), middleware.RequirePasswordChanged(), func(c *gin.Context) {
			CreateAdminUser(c, db)
		})
		routes.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), middleware.RequirePasswordChanged(), func(c *gin.Context) {
			DeleteAdminUser(c, db)
		})
		routes.PUT("/:id/password", middleware.RequireRole(model.RoleAdmin), middleware.RequirePasswordChanged(), func(c *gin.Context) {
			ResetAdminPassword(c, db)
		})
	}
}

func ListAdminUsers(c *gin.Context, db *gorm.DB) {
	var users []model.AdminUser
	if err := db.Order("admin_id").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Benutzer konnten nicht geladen werden"})
		return
	}

	results := make([]gin.H, 0, len(users))
	for _, u := range users {
		results = append(results, gin.H{
			"id":                 u.AdminID,
			"username":           u.Username,
			"role":               string(u.Role),
			"mustChangePassword": u.MustChangePassword,
			"createdAt":          u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": results})
}

func CreateAdminUser(c *gin.Context, db *gorm.DB) {
	actor := middleware.CurrentAdmin(c)

	var req dto.CreateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}
	if !model.IsValidAdminRole(model.AdminRole(req.Role)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unbekannte Rolle"})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Das Passwort muss mindestens 8 Zeichen lang sein"})
		return
	}

	var existing model.AdminUser
	if err := db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Benutzername bereits vergeben"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Benutzer konnte nicht angelegt werden"})
		return
	}

	actorID := actor.AdminID
	newUser := model.AdminUser{
		Username:           req.Username,
		PasswordHash:       string(hash),
		Role:               model.AdminRole(req.Role),
		MustChangePassword: true,
		CreatedBy:          &actorID,
	}
	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Benutzer konnte nicht angelegt werden"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       newUser.AdminID,
		"username": newUser.Username,
		"role":     string(newUser.Role),
	})
}

// ResetAdminPassword sets a new password for another user without the old
// one and forces a change on next login. Nur ADMIN, nie für das eigene Konto
// (dafür gibt es change-password).
func ResetAdminPassword(c *gin.Context, db *gorm.DB) {
	actor := middleware.CurrentAdmin(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige ID"})
		return
	}
	if uint(id) == actor.AdminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Das eigene Passwort wird über die Passwort-Änderung gesetzt"})
		return
	}

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Das Passwort muss mindestens 8 Zeichen lang sein"})
		return
	}

	var user model.AdminUser
	if err := db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Benutzer nicht gefunden"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Passwort konnte nicht gesetzt werden"})
		return
	}
	updates := map[string]interface{}{
		"password_hash":        string(hash),
		"must_change_password": true,
	}
	if err := db.Model(&model.AdminUser{}).Where("admin_id = ?", user.AdminID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Passwort konnte nicht gesetzt werden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Passwort zurückgesetzt"})
}

func DeleteAdminUser(c *gin.Context, db *gorm.DB) {
	actor := middleware.CurrentAdmin(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige ID"})
		return
	}
	if uint(id) == actor.AdminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Das eigene Konto kann nicht gelöscht werden"})
		return
	}

	var user model.AdminUser
	if err := db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Benutzer nicht gefunden"})
		return
	}
	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Benutzer konnte nicht gelöscht werden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Benutzer gelöscht"})
}
