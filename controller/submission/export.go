package submission

import (
	"fmt"
	"net/http"
	"time"

	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var exportHeaders = []string{
	"Nr.", "Eingegangen am", "Vorname", "Nachname", "Straße / Hausnummer",
	"PLZ", "Ort", "TC-Nummer", "E-Mail", "Telefon", "Beschreibung",
	"Status", "1. Frist", "2. Frist", "Erledigt am", "Abnahme", "Haustyp",
	"Bauleitung", "Verantwortlicher", "Gewerk", "Firma", "Dateien",
}

// ExportSubmissions streams an xlsx workbook with one row per Meldung. The
// same filters as the list view apply via query params.
func ExportSubmissions(c *gin.Context, db *gorm.DB) {
	query := preloadSubmission(db).Model(&model.Submission{}).Order("timestamp DESC")

	if display := c.Query("status"); display != "" {
		status, ok := model.ParseStatus(display)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unbekannter Status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var submissions []model.Submission
	if err := query.Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export fehlgeschlagen"})
		return
	}

	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()

	const sheet = "Mangelmeldungen"
	index, err := workbook.NewSheet(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export fehlgeschlagen"})
		return
	}
	workbook.SetActiveSheet(index)
	_ = workbook.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = workbook.SetCellValue(sheet, cell, header)
	}

	for i := range submissions {
		s := &submissions[i]
		row := exportRow(s)
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = workbook.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("mangelmeldungen_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		fmt.Printf("xlsx write failed: %v\n", err)
	}
}

func exportRow(s *model.Submission) []interface{} {
	dateOrEmpty := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("02.01.2006")
	}
	nameOrEmpty := func(name *string) string {
		if name == nil {
			return ""
		}
		return *name
	}
	relation := func(set bool, name func() string) string {
		if !set {
			return ""
		}
		return name()
	}
	fileNames := ""
	for i, f := range s.Files {
		if i > 0 {
			fileNames += ", "
		}
		fileNames += f.Name
	}

	return []interface{}{
		s.SubmissionID,
		s.Timestamp.Format("02.01.2006 15:04"),
		s.Vorname,
		s.Nachname,
		s.StrasseHausnummer,
		s.PLZ,
		s.Ort,
		s.TCNummer,
		s.Email,
		s.Telefon,
		s.Beschreibung,
		s.Status.Display(),
		dateOrEmpty(s.ErsteFrist),
		dateOrEmpty(s.ZweiteFrist),
		dateOrEmpty(s.ErledigtAm),
		nameOrEmpty(s.Abnahme),
		nameOrEmpty(s.Haustyp),
		relation(s.Bauleitung != nil, func() string { return s.Bauleitung.Name }),
		relation(s.Verantwortlicher != nil, func() string { return s.Verantwortlicher.Name }),
		relation(s.Gewerk != nil, func() string { return s.Gewerk.Name }),
		relation(s.Firma != nil, func() string { return s.Firma.Name }),
		fileNames,
	}
}
