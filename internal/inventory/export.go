package inventory

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Code article", "Désignation", "Stock (unités)", "Colisage", "Stock (colis)", "Statut"}

// buildExportXLSX: construit le classeur Excel de l'état de stock
func buildExportXLSX(views []ArticleView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Stock"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, v := range views {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), v.Reference)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), v.Description)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), v.OnHandQuantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), v.PackagingFactor)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), v.PackagedQuantity)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), v.Status)
	}

	return f.WriteToBuffer()
}

// buildExportCSV: même état au format CSV (séparateur point-virgule, usage Excel FR)
func buildExportCSV(views []ArticleView) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	w.Comma = ';'

	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, v := range views {
		record := []string{
			v.Reference,
			v.Description,
			strconv.Itoa(v.OnHandQuantity),
			strconv.FormatFloat(v.PackagingFactor, 'f', -1, 64),
			strconv.FormatFloat(v.PackagedQuantity, 'f', 2, 64),
			v.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf, w.Error()
}

// GET /api/inventory/export?snapshot_id=&format=xlsx|csv
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, err := resolveSnapshot(c)
		if err != nil {
			return err
		}

		articles, err := snapshotArticles(snapshot.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture des articles impossible")
		}

		views := make([]ArticleView, 0, len(articles))
		for _, a := range articles {
			views = append(views, toArticleView(a))
		}

		format := c.Query("format", "xlsx")
		switch format {
		case "xlsx":
			buf, err := buildExportXLSX(views)
			if err != nil {
				log.Printf("Export Excel impossible : %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Export Excel impossible")
			}
			c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stock_%d.xlsx"`, snapshot.ID))
			return c.Send(buf.Bytes())
		case "csv":
			buf, err := buildExportCSV(views)
			if err != nil {
				log.Printf("Export CSV impossible : %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Export CSV impossible")
			}
			c.Set("Content-Type", "text/csv; charset=utf-8")
			c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stock_%d.csv"`, snapshot.ID))
			return c.Send(buf.Bytes())
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Format inconnu : "+format)
		}
	}
}
