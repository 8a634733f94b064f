package services

import (
	"testing"
	"time"

	"maengelportal/model"

	"github.com/stretchr/testify/assert"
)

func sampleSubmission() *model.Submission {
	return &model.Submission{
		SubmissionID: 7,
		Timestamp:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Vorname:      "Max", Nachname: "Mustermann",
		StrasseHausnummer: "Musterweg 12", PLZ: "04442", Ort: "Zwenkau",
		TCNummer: "TC-2026-017", Email: "max@example.com", Telefon: "0341 123456",
		Beschreibung: "Feuchtigkeit an der Außenwand.",
		Status:       model.StatusOffen,
		Files:        []model.UploadedFile{{Name: "riss.jpg", Size: 1024}},
	}
}

func TestSubmissionAlertBody(t *testing.T) {
	body := SubmissionAlertBody(sampleSubmission())
	assert.Contains(t, body, "Max Mustermann")
	assert.Contains(t, body, "TC-2026-017")
	assert.Contains(t, body, "riss.jpg")
	assert.Contains(t, body, "01.03.2026")
}

func TestSubmissionAlertBodyEscapesHTML(t *testing.T) {
	s := sampleSubmission()
	s.Beschreibung = "<script>alert(1)</script>"
	body := SubmissionAlertBody(s)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestConfirmationBodyWithCredentials(t *testing.T) {
	body := ConfirmationBody(sampleSubmission(), "Xy7kPq2mNr4t", "https://example.com/track/abc")
	assert.Contains(t, body, "Xy7kPq2mNr4t")
	assert.Contains(t, body, "https://example.com/track/abc")
	assert.Contains(t, body, "Guten Tag Max Mustermann")
}

func TestConfirmationBodyWithoutCredentials(t *testing.T) {
	body := ConfirmationBody(sampleSubmission(), "", "")
	assert.NotContains(t, body, "Kundenzugang")
	assert.NotContains(t, body, "Status verfolgen")
}

func TestDeadlineReminderBody(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	frist := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := *sampleSubmission()
	s.ErsteFrist = &frist

	body := DeadlineReminderBody([]model.Submission{s}, now)
	assert.Contains(t, body, "1. Frist 01.03.2026")
	assert.Contains(t, body, "Offen")
}
