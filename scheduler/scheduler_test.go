package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"maengelportal/model"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Submission{}))
	return db
}

func TestFindOverdueSubmissions(t *testing.T) {
	db := setupDB(t)
	now := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	rows := []model.Submission{
		{Vorname: "A", Status: model.StatusOffen, ErsteFrist: &past, TrackingToken: "o1"},
		{Vorname: "B", Status: model.StatusInBearbeitung, ZweiteFrist: &past, TrackingToken: "o2"},
		{Vorname: "C", Status: model.StatusOffen, ErsteFrist: &future, TrackingToken: "o3"},
		{Vorname: "D", Status: model.StatusErledigt, ErsteFrist: &past, TrackingToken: "o4"},
		{Vorname: "E", Status: model.StatusMangelAbgelehnt, ErsteFrist: &past, TrackingToken: "o5"},
		{Vorname: "F", Status: model.StatusOffen, TrackingToken: "o6"},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	overdue, err := FindOverdueSubmissions(db, now)
	require.NoError(t, err)
	require.Len(t, overdue, 2)

	names := []string{overdue[0].Vorname, overdue[1].Vorname}
	assert.ElementsMatch(t, []string{"A", "B"}, names)
}

type captureMailer struct {
	to      string
	subject string
	body    string
	sent    int
}

func (m *captureMailer) Send(to, subject, htmlBody string) error {
	m.to = to
	m.subject = subject
	m.body = htmlBody
	m.sent++
	return nil
}

func TestSendDeadlineRemindersSkipsWhenNothingOverdue(t *testing.T) {
	db := setupDB(t)
	t.Setenv("NOTIFY_EMAIL", "bau@example.com")

	mailer := &captureMailer{}
	require.NoError(t, SendDeadlineReminders(db, mailer, time.Now()))
	assert.Zero(t, mailer.sent)
}

func TestSendDeadlineRemindersMailsList(t *testing.T) {
	db := setupDB(t)
	t.Setenv("NOTIFY_EMAIL", "bau@example.com")

	past := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Create(&model.Submission{
		Vorname: "Max", Nachname: "Mustermann", TCNummer: "TC-1",
		Status: model.StatusOffen, ErsteFrist: &past, TrackingToken: "r1",
	}).Error)

	mailer := &captureMailer{}
	require.NoError(t, SendDeadlineReminders(db, mailer, time.Now()))
	require.Equal(t, 1, mailer.sent)
	assert.Equal(t, "bau@example.com", mailer.to)
	assert.Contains(t, mailer.body, "TC-1")
	assert.Contains(t, mailer.body, "Mustermann")
}
