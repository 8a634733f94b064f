package connection

import (
	"fmt"
	"log"
	"os"

	"maengelportal/controller/activity"
	adminctl "maengelportal/controller/admin"
	"maengelportal/controller/auth"
	"maengelportal/controller/email"
	"maengelportal/controller/masterdata"
	"maengelportal/controller/setup"
	"maengelportal/controller/stats"
	"maengelportal/controller/submission"
	"maengelportal/controller/tracking"
	"maengelportal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartServer() {
	router := gin.Default()

	DB, err := DBConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var storage services.BlobStore
	if ossStorage, err := services.NewOSSStorageFromEnv(); err == nil {
		storage = ossStorage
	} else {
		fmt.Printf("Warning: OSS not configured (%v), using in-memory storage\n", err)
		storage = services.NewMemoryStorage()
	}

	var mailer services.Mailer
	if emailConfig, err := services.LoadEmailConfig(); err == nil {
		mailer = services.NewSMTPMailer(emailConfig)
	} else {
		fmt.Printf("Warning: SMTP not configured (%v), mails disabled\n", err)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	corsConfig := cors.DefaultConfig()
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = []string{origin}
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	auth.AdminAuthController(router, DB)
	auth.CustomerAuthController(router, DB)

	submission.SubmissionController(router, DB, storage, mailer)

	adminctl.AdminUsersController(router, DB)
	masterdata.MasterDataController(router, DB)
	tracking.TrackingController(router, DB)
	stats.StatsController(router, DB)
	activity.ActivityLogController(router, DB)
	email.EmailController(router, DB, mailer)
	setup.SetupController(router, DB)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
