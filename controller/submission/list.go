package submission

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"maengelportal/dto"
	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListSubmissions supports status, search and year filters plus sorting.
// Query params: status (Anzeigename), search, year, sort (timestamp|status),
// order (asc|desc).
func ListSubmissions(c *gin.Context, db *gorm.DB) {
	query := preloadSubmission(db).Model(&model.Submission{})

	if display := c.Query("status"); display != "" {
		status, ok := model.ParseStatus(display)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unbekannter Status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			db.Where("LOWER(vorname) LIKE LOWER(?)", like).
				Or("LOWER(nachname) LIKE LOWER(?)", like).
				Or("LOWER(email) LIKE LOWER(?)", like).
				Or("LOWER(tc_nummer) LIKE LOWER(?)", like).
				Or("LOWER(ort) LIKE LOWER(?)", like).
				Or("LOWER(beschreibung) LIKE LOWER(?)", like),
		)
	}

	for param, column := range map[string]string{
		"bauleitungId":       "bauleitung_id",
		"verantwortlicherId": "verantwortlicher_id",
		"gewerkId":           "gewerk_id",
		"firmaId":            "firma_id",
	} {
		if v := c.Query(param); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiger Filter"})
				return
			}
			query = query.Where(column+" = ?", id)
		}
	}

	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiges Jahr"})
			return
		}
		from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("timestamp >= ? AND timestamp < ?", from, from.AddDate(1, 0, 0))
	}

	// beide Parameter-Schreibweisen werden akzeptiert
	sortParam := c.DefaultQuery("sort", c.Query("sortBy"))
	orderParam := c.DefaultQuery("order", c.Query("sortOrder"))

	order := "DESC"
	if orderParam == "asc" {
		order = "ASC"
	}
	sortByStatus := sortParam == "status"
	if !sortByStatus {
		query = query.Order(sortColumn(sortParam) + " " + order)
	}

	var submissions []model.Submission
	if err := query.Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldungen konnten nicht geladen werden"})
		return
	}

	if sortByStatus {
		sortByStatusRank(submissions, order == "ASC")
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		responses = append(responses, toResponse(&submissions[i]))
	}
	c.JSON(http.StatusOK, gin.H{"submissions": responses, "total": len(responses)})
}

// sortColumn whitelists the sortable columns; everything else falls back to
// the creation timestamp.
func sortColumn(sort string) string {
	switch sort {
	case "vorname", "nachname", "ort":
		return sort
	case "tcNummer":
		return "tc_nummer"
	default:
		return "timestamp"
	}
}

// sortByStatusRank orders by workflow rank, then newest first within a rank.
// In Go statt SQL, damit die Reihenfolge nicht von der Datenbank-Collation
// der Statuswerte abhängt.
func sortByStatusRank(submissions []model.Submission, ascending bool) {
	sort.SliceStable(submissions, func(i, j int) bool {
		ri, rj := submissions[i].Status.Rank(), submissions[j].Status.Rank()
		if ri != rj {
			if ascending {
				return ri < rj
			}
			return ri > rj
		}
		return submissions[i].Timestamp.After(submissions[j].Timestamp)
	})
}

func GetSubmission(c *gin.Context, db *gorm.DB) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige ID"})
		return
	}

	var s model.Submission
	if err := preloadSubmission(db).First(&s, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meldung nicht gefunden"})
		return
	}
	c.JSON(http.StatusOK, toResponse(&s))
}
