package scheduler

import (
	"fmt"
	"os"
	"time"

	"maengelportal/connection"
	"maengelportal/model"
	"maengelportal/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler runs the daily deadline check at 07:00. It keeps its own
// DB handle so the HTTP server and the cron jobs fail independently.
func StartScheduler() {
	db, err := connection.DBConnection()
	if err != nil {
		fmt.Printf("scheduler: database connection failed: %v\n", err)
		return
	}

	var mailer services.Mailer
	if emailConfig, err := services.LoadEmailConfig(); err == nil {
		mailer = services.NewSMTPMailer(emailConfig)
	} else {
		fmt.Printf("scheduler: SMTP not configured (%v), reminders disabled\n", err)
		return
	}

	c := cron.New(cron.WithSeconds())
	_, err = c.AddFunc("0 0 7 * * *", func() {
		if err := SendDeadlineReminders(db, mailer, time.Now()); err != nil {
			fmt.Printf("scheduler: deadline reminder failed: %v\n", err)
		}
	})
	if err != nil {
		fmt.Printf("scheduler: cron setup failed: %v\n", err)
		return
	}
	c.Start()
}

// SendDeadlineReminders mails the internal address a list of submissions
// whose Frist has passed without the Meldung being erledigt.
func SendDeadlineReminders(db *gorm.DB, mailer services.Mailer, now time.Time) error {
	overdue, err := FindOverdueSubmissions(db, now)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	notifyTo := os.Getenv("NOTIFY_EMAIL")
	if notifyTo == "" {
		return fmt.Errorf("NOTIFY_EMAIL not configured")
	}

	subject := fmt.Sprintf("%d überfällige Mangelmeldungen", len(overdue))
	return mailer.Send(notifyTo, subject, services.DeadlineReminderBody(overdue, now))
}

// FindOverdueSubmissions returns open submissions with an expired erste or
// zweite Frist.
func FindOverdueSubmissions(db *gorm.DB, now time.Time) ([]model.Submission, error) {
	var overdue []model.Submission
	err := db.
		Where("status IN ?", []model.Status{model.StatusOffen, model.StatusInBearbeitung}).
		Where(db.Where("erste_frist IS NOT NULL AND erste_frist < ?", now).
			Or("zweite_frist IS NOT NULL AND zweite_frist < ?", now)).
		Order("timestamp ASC").
		Find(&overdue).Error
	return overdue, err
}
