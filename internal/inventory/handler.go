package inventory

import (
	"log"
	"strings"

	"gesthor-backend/internal/database"
	"gesthor-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ArticleView: un article tel qu'exposé au tableau de bord, avec ses champs
// dérivés (statut, stock colis)
type ArticleView struct {
	Reference        string  `json:"reference"`
	Description      string  `json:"description"`
	OnHandQuantity   int     `json:"on_hand_quantity"`
	PackagingFactor  float64 `json:"packaging_factor"`
	PackagedQuantity float64 `json:"packaged_quantity"`
	Status           string  `json:"status"`
}

func toArticleView(a models.Article) ArticleView {
	return ArticleView{
		Reference:        a.Reference,
		Description:      a.Description,
		OnHandQuantity:   a.OnHandQuantity,
		PackagingFactor:  a.PackagingFactor,
		PackagedQuantity: PackagedQuantity(a.OnHandQuantity, a.PackagingFactor),
		Status:           StockStatus(a.OnHandQuantity),
	}
}

// POST /api/inventory/upload
// Importe un export de stock Excel et crée une nouvelle photo de stock.
// La photo est immuable : les simulations travaillent toujours sur une copie.
func UploadSnapshotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Fichier manquant : "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Seuls les fichiers .xlsx sont acceptés")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fichier illisible : "+err.Error())
		}
		defer file.Close()

		parsed, err := ParseInventoryXLSX(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot := models.InventorySnapshot{
			FileName:    fileHeader.Filename,
			RowCount:    len(parsed.Articles),
			SkippedRows: parsed.SkippedRows,
		}
		for _, a := range parsed.Articles {
			snapshot.Articles = append(snapshot.Articles, models.Article{
				Reference:       a.Reference,
				Description:     a.Description,
				OnHandQuantity:  a.OnHandQuantity,
				PackagingFactor: a.PackagingFactor,
			})
		}

		if err := database.DB.Create(&snapshot).Error; err != nil {
			log.Printf("Création photo de stock impossible : %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Enregistrement de la photo de stock impossible")
		}

		log.Printf("Photo de stock #%d importée : %d articles, %d lignes ignorées", snapshot.ID, snapshot.RowCount, snapshot.SkippedRows)
		return c.JSON(fiber.Map{
			"snapshot_id":  snapshot.ID,
			"article_count": snapshot.RowCount,
			"skipped_rows": snapshot.SkippedRows,
		})
	}
}

// GET /api/inventory/snapshots
func ListSnapshotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var snapshots []models.InventorySnapshot
		if err := database.DB.Order("created_at DESC").Find(&snapshots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture des photos de stock impossible")
		}
		return c.JSON(snapshots)
	}
}

// resolveSnapshot: retrouve la photo demandée, ou la plus récente si
// snapshot_id est absent
func resolveSnapshot(c *fiber.Ctx) (*models.InventorySnapshot, error) {
	var snapshot models.InventorySnapshot
	if idStr := c.Query("snapshot_id"); idStr != "" {
		if err := database.DB.First(&snapshot, "id = ?", idStr).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "Photo de stock introuvable")
		}
		return &snapshot, nil
	}
	if err := database.DB.Order("created_at DESC").First(&snapshot).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Aucune photo de stock importée")
	}
	return &snapshot, nil
}

// snapshotArticles: articles d'une photo, dans l'ordre du fichier d'origine
func snapshotArticles(snapshotID uint) ([]models.Article, error) {
	var articles []models.Article
	err := database.DB.Where("snapshot_id = ?", snapshotID).Order("id ASC").Find(&articles).Error
	return articles, err
}

// GET /api/inventory/articles?snapshot_id=&search=&status=
// Recherche sur code article et désignation, filtre sur le statut dérivé.
func ListArticlesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, err := resolveSnapshot(c)
		if err != nil {
			return err
		}

		articles, err := snapshotArticles(snapshot.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture des articles impossible")
		}

		search := strings.ToLower(strings.TrimSpace(c.Query("search")))
		statusFilter := strings.ToLower(strings.TrimSpace(c.Query("status")))
		if statusFilter != "" && statusFilter != StatusOutOfStock && statusFilter != StatusLow && statusFilter != StatusOK {
			return fiber.NewError(fiber.StatusBadRequest, "Statut inconnu : "+statusFilter)
		}

		views := make([]ArticleView, 0, len(articles))
		for _, a := range articles {
			if search != "" &&
				!strings.Contains(strings.ToLower(a.Reference), search) &&
				!strings.Contains(strings.ToLower(a.Description), search) {
				continue
			}
			v := toArticleView(a)
			// le statut est dérivé, le filtre s'applique après calcul
			if statusFilter != "" && v.Status != statusFilter {
				continue
			}
			views = append(views, v)
		}

		return c.JSON(fiber.Map{
			"snapshot_id": snapshot.ID,
			"articles":    views,
		})
	}
}

// StatusPoint: un segment du graphique de répartition des statuts
type StatusPoint struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// KPIResponse: indicateurs du tableau de bord pour une photo de stock
type KPIResponse struct {
	SnapshotID    uint          `json:"snapshot_id"`
	ArticleCount  int           `json:"article_count"`
	OutOfStock    int           `json:"out_of_stock"`
	LowStock      int           `json:"low_stock"`
	HealthyStock  int           `json:"healthy_stock"`
	TotalOnHand   int           `json:"total_on_hand"`
	StatusPoints  []StatusPoint `json:"status_points"`
}

// GET /api/inventory/kpis?snapshot_id=
func KPIHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, err := resolveSnapshot(c)
		if err != nil {
			return err
		}

		articles, err := snapshotArticles(snapshot.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture des articles impossible")
		}

		resp := KPIResponse{SnapshotID: snapshot.ID, ArticleCount: len(articles)}
		for _, a := range articles {
			resp.TotalOnHand += a.OnHandQuantity
			switch StockStatus(a.OnHandQuantity) {
			case StatusOutOfStock:
				resp.OutOfStock++
			case StatusLow:
				resp.LowStock++
			default:
				resp.HealthyStock++
			}
		}
		resp.StatusPoints = []StatusPoint{
			{Status: StatusOutOfStock, Label: "Rupture", Count: resp.OutOfStock},
			{Status: StatusLow, Label: "Stock faible", Count: resp.LowStock},
			{Status: StatusOK, Label: "Stock OK", Count: resp.HealthyStock},
		}

		return c.JSON(resp)
	}
}
