// eventflow/internal/handlers/attendee_import.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventflow/config"
	"eventflow/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const exportTimeFormat = "2006-01-02 15:04:05"

// ImportAttendeesHandler - массовый импорт участников из CSV-файла.
// Каждая строка сверяется с базой И с уже принятыми строками этого же
// файла, поэтому внутренние дубликаты файла тоже отсекаются.
func ImportAttendeesHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV-файл не передан"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не удалось открыть файл: " + err.Error()})
		return
	}
	defer file.Close()

	candidates, err := parseAttendeeCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "В файле нет ни одной пригодной строки"})
		return
	}

	var existing []models.Attendee
	if err := config.DB.Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить участников: " + err.Error()})
		return
	}

	accepted, skipped := reconcileAttendees(existing, candidates)
	if len(accepted) > 0 {
		for i := range accepted {
			accepted[i].BadgeCode = uuid.NewString()
		}
		if err := config.DB.Create(&accepted).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить участников: " + err.Error()})
			return
		}
		GlobalHub.NotifyChange("attendees", "INSERT", gin.H{"imported": len(accepted)})
	}

	c.JSON(http.StatusOK, gin.H{
		"imported":     len(accepted),
		"skipped":      len(skipped),
		"skippedNames": skipped,
	})
}

// ExportAttendeesCSVHandler выгружает участников в CSV. Формат совместим
// с шаблоном импорта: все значения в кавычках, время - yyyy-MM-dd HH:mm:ss.
func ExportAttendeesCSVHandler(c *gin.Context) {
	var attendees []models.Attendee
	if err := config.DB.Order("name asc").Find(&attendees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить участников: " + err.Error()})
		return
	}

	var sb strings.Builder
	sb.WriteString("Name,Email,Company,Status,Check-in Time\n")
	for _, a := range attendees {
		status := "Not Checked In"
		if a.CheckedIn {
			status = "Checked In"
		}
		checkInTime := ""
		if a.CheckInTime != nil {
			checkInTime = a.CheckInTime.Format(exportTimeFormat)
		}
		row := []string{
			csvQuote(a.Name),
			csvQuote(a.Email),
			csvQuote(a.Company),
			csvQuote(status),
			csvQuote(checkInTime),
		}
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}

	fileName := fmt.Sprintf("attendees_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(sb.String()))
}

// AttendeeTemplateHandler отдаёт шаблон CSV для импорта.
func AttendeeTemplateHandler(c *gin.Context) {
	template := "Name,Email,Company\nJohn Doe,john@example.com,ABC Corp\nJane Smith,jane@example.com,XYZ Inc\n"
	c.Header("Content-Disposition", "attachment; filename=attendees_template.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(template))
}

// ExportAttendeesXLSXHandler выгружает участников в Excel-файл.
func ExportAttendeesXLSXHandler(c *gin.Context) {
	var attendees []models.Attendee
	if err := config.DB.Order("name asc").Find(&attendees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить участников: " + err.Error()})
		return
	}

	f := excelize.NewFile()
	sheetName := "Attendees"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Name", "Email", "Company", "Status", "Check-in Time"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, a := range attendees {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), a.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), a.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), a.Company)
		if a.CheckedIn {
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), "Checked In")
		} else {
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), "Not Checked In")
		}
		if a.CheckInTime != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), a.CheckInTime.Format(exportTimeFormat))
		}
	}

	fileName := fmt.Sprintf("attendees_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сформировать файл: " + err.Error()})
	}
}
