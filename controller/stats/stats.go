package stats

import (
	"net/http"
	"sort"

	"maengelportal/middleware"
	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func StatsController(router *gin.Engine, db *gorm.DB) {
	router.GET("/stats", middleware.AdminSessionMiddleware(db), func(c *gin.Context) {
		GetStats(c, db)
	})
}

type countEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type firmaEntry struct {
	Name   string `json:"name"`
	Gewerk string `json:"gewerk"`
	Count  int    `json:"count"`
}

// GetStats aggregates over all submissions in Go instead of SQL GROUP BY;
// die Auflösung der Namen braucht die Preloads ohnehin.
func GetStats(c *gin.Context, db *gorm.DB) {
	var submissions []model.Submission
	err := db.Preload("Bauleitung").
		Preload("Gewerk").
		Preload("Firma").
		Find(&submissions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Statistik konnte nicht geladen werden"})
		return
	}

	byGewerk := make(map[string]int)
	byBauleitung := make(map[string]int)
	type firmaKey struct{ firma, gewerk string }
	byFirma := make(map[firmaKey]int)

	for i := range submissions {
		s := &submissions[i]
		if s.Gewerk != nil {
			byGewerk[s.Gewerk.Name]++
		}
		if s.Bauleitung != nil {
			byBauleitung[s.Bauleitung.Name]++
		}
		if s.Firma != nil {
			gewerk := ""
			if s.Gewerk != nil {
				gewerk = s.Gewerk.Name
			}
			byFirma[firmaKey{s.Firma.Name, gewerk}]++
		}
	}

	gewerkList := sortedCounts(byGewerk)
	bauleitungList := sortedCounts(byBauleitung)

	firmaList := make([]firmaEntry, 0, len(byFirma))
	for k, n := range byFirma {
		firmaList = append(firmaList, firmaEntry{Name: k.firma, Gewerk: k.gewerk, Count: n})
	}
	sort.Slice(firmaList, func(i, j int) bool {
		if firmaList[i].Count != firmaList[j].Count {
			return firmaList[i].Count > firmaList[j].Count
		}
		return firmaList[i].Name < firmaList[j].Name
	})

	c.JSON(http.StatusOK, gin.H{
		"total":        len(submissions),
		"byGewerk":     gewerkList,
		"byBauleitung": bauleitungList,
		"byFirma":      firmaList,
	})
}

func sortedCounts(counts map[string]int) []countEntry {
	list := make([]countEntry, 0, len(counts))
	for name, n := range counts {
		list = append(list, countEntry{Name: name, Count: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Name < list[j].Name
	})
	return list
}
