package orders

import (
	"io"
	"log"
	"strings"

	"gesthor-backend/internal/database"
	"gesthor-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// saveDocument: persiste le document et ses lignes dans l'ordre d'extraction
func saveDocument(fileName string, result *ParseResult) (*models.OrderDocument, error) {
	doc := &models.OrderDocument{
		FileName:      fileName,
		OrderCount:    len(result.OrderIDs),
		LineCount:     len(result.Lines),
		RejectedLines: result.Rejected + result.Orphans,
	}
	for i, ln := range result.Lines {
		doc.Lines = append(doc.Lines, models.OrderLine{
			Position:        i,
			OrderID:         ln.OrderID,
			ArticleRef:      ln.ArticleRef,
			QuantityOrdered: ln.Quantity,
		})
	}
	if err := database.DB.Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func uploadResponse(c *fiber.Ctx, doc *models.OrderDocument, result *ParseResult) error {
	log.Printf("Document de commandes #%d importé : %d commandes, %d lignes, %d écartées, %d orphelines",
		doc.ID, doc.OrderCount, doc.LineCount, result.Rejected, result.Orphans)
	return c.JSON(fiber.Map{
		"document_id":    doc.ID,
		"order_ids":      result.OrderIDs,
		"line_count":     doc.LineCount,
		"rejected_lines": result.Rejected,
		"orphan_lines":   result.Orphans,
	})
}

// POST /api/orders/upload
// Importe un PDF de commandes : extraction du texte puis découpage en lignes.
func UploadOrderPDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Fichier manquant : "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
			return fiber.NewError(fiber.StatusBadRequest, "Seuls les fichiers .pdf sont acceptés")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fichier illisible : "+err.Error())
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture du fichier impossible : "+err.Error())
		}

		text, err := ExtractPDFText(data)
		if err != nil {
			log.Printf("Extraction PDF impossible (%s) : %v", fileHeader.Filename, err)
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := ParseOrderText(text)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		doc, err := saveDocument(fileHeader.Filename, result)
		if err != nil {
			log.Printf("Enregistrement du document impossible : %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Enregistrement du document impossible")
		}
		return uploadResponse(c, doc, result)
	}
}

// POST /api/orders/upload-text
// Même découpage sur un texte déjà extrait (envoyé par le frontend).
func UploadOrderTextHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			FileName string `json:"file_name"`
			Text     string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide, champ 'text' attendu")
		}
		if strings.TrimSpace(body.Text) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le texte du document est vide")
		}
		if body.FileName == "" {
			body.FileName = "texte-collé"
		}

		result, err := ParseOrderText(body.Text)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		doc, err := saveDocument(body.FileName, result)
		if err != nil {
			log.Printf("Enregistrement du document impossible : %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Enregistrement du document impossible")
		}
		return uploadResponse(c, doc, result)
	}
}

// GET /api/orders/documents
func ListDocumentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var docs []models.OrderDocument
		if err := database.DB.Order("created_at DESC").Find(&docs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture des documents impossible")
		}
		return c.JSON(docs)
	}
}

// GET /api/orders/documents/:id/lines
func ListDocumentLinesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doc models.OrderDocument
		if err := database.DB.First(&doc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Document introuvable")
		}

		var lines []models.OrderLine
		if err := database.DB.Where("document_id = ?", doc.ID).Order("position ASC").Find(&lines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture des lignes impossible")
		}

		return c.JSON(fiber.Map{
			"document": doc,
			"lines":    lines,
		})
	}
}
