package allocation

import (
	"fmt"
	"log"

	"gesthor-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// buildRunXLSX: classeur Excel d'un run : une feuille de synthèse par
// commande, une feuille des lignes en rupture
func buildRunXLSX(run *models.AllocationRun) (*excelize.File, error) {
	f := excelize.NewFile()

	summary := "Commandes"
	f.SetSheetName(f.GetSheetName(0), summary)
	summaryHeaders := []string{"N° commande", "Qté commandée", "Qté livrée", "Taux de service (%)"}
	for col, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(summary, cell, h)
	}
	for i, o := range run.OrderResults {
		row := i + 2
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), o.OrderID)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), o.TotalOrdered)
		f.SetCellValue(summary, fmt.Sprintf("C%d", row), o.TotalDelivered)
		f.SetCellValue(summary, fmt.Sprintf("D%d", row), o.ServiceRate)
	}
	globalRow := len(run.OrderResults) + 3
	f.SetCellValue(summary, fmt.Sprintf("A%d", globalRow), "GLOBAL")
	f.SetCellValue(summary, fmt.Sprintf("B%d", globalRow), run.TotalOrdered)
	f.SetCellValue(summary, fmt.Sprintf("C%d", globalRow), run.TotalDelivered)
	f.SetCellValue(summary, fmt.Sprintf("D%d", globalRow), run.ServiceRate)

	shortages := "Ruptures"
	if _, err := f.NewSheet(shortages); err != nil {
		return nil, err
	}
	shortageHeaders := []string{"N° commande", "Code article", "Qté commandée", "Qté livrée", "Qté manquante"}
	for col, h := range shortageHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(shortages, cell, h)
	}
	row := 2
	for _, o := range run.OrderResults {
		for _, sl := range o.ShortageLines {
			f.SetCellValue(shortages, fmt.Sprintf("A%d", row), o.OrderID)
			f.SetCellValue(shortages, fmt.Sprintf("B%d", row), sl.ArticleRef)
			f.SetCellValue(shortages, fmt.Sprintf("C%d", row), sl.QuantityOrdered)
			f.SetCellValue(shortages, fmt.Sprintf("D%d", row), sl.QuantityDelivered)
			f.SetCellValue(shortages, fmt.Sprintf("E%d", row), sl.QuantityMissing)
			row++
		}
	}

	return f, nil
}

// GET /api/allocations/runs/:id/export
func ExportRunHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		run, err := loadRun(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Simulation introuvable")
		}

		f, err := buildRunXLSX(run)
		if err != nil {
			log.Printf("Export du run #%d impossible : %v", run.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Export Excel impossible")
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			log.Printf("Export du run #%d impossible : %v", run.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Export Excel impossible")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="simulation_%d.xlsx"`, run.ID))
		return c.Send(buf.Bytes())
	}
}
