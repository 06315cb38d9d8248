package allocation

import (
	"log"

	"gesthor-backend/internal/database"
	"gesthor-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ShortageLineView / OrderResultView / RunDetailResponse: projection JSON
// d'un run persisté, taux de service calculés en bordure de reporting
type ShortageLineView struct {
	ArticleRef        string `json:"article_ref"`
	QuantityOrdered   int    `json:"quantity_ordered"`
	QuantityDelivered int    `json:"quantity_delivered"`
	QuantityMissing   int    `json:"quantity_missing"`
}

type OrderResultView struct {
	OrderID        string             `json:"order_id"`
	TotalOrdered   int                `json:"total_ordered"`
	TotalDelivered int                `json:"total_delivered"`
	ServiceRate    float64            `json:"service_rate"`
	ShortageLines  []ShortageLineView `json:"shortage_lines"`
}

type RunDetailResponse struct {
	RunID          uint              `json:"run_id"`
	SnapshotID     uint              `json:"snapshot_id"`
	DocumentID     uint              `json:"document_id"`
	CreatedAt      string            `json:"created_at"`
	OrderCount     int               `json:"order_count"`
	TotalOrdered   int               `json:"total_ordered"`
	TotalDelivered int               `json:"total_delivered"`
	ServiceRate    float64           `json:"service_rate"`
	Orders         []OrderResultView `json:"orders"`
}

func runDetail(run *models.AllocationRun) RunDetailResponse {
	resp := RunDetailResponse{
		RunID:          run.ID,
		SnapshotID:     run.SnapshotID,
		DocumentID:     run.DocumentID,
		CreatedAt:      run.CreatedAt.Format("2006-01-02 15:04:05"),
		OrderCount:     run.OrderCount,
		TotalOrdered:   run.TotalOrdered,
		TotalDelivered: run.TotalDelivered,
		ServiceRate:    run.ServiceRate,
	}
	for _, o := range run.OrderResults {
		view := OrderResultView{
			OrderID:        o.OrderID,
			TotalOrdered:   o.TotalOrdered,
			TotalDelivered: o.TotalDelivered,
			ServiceRate:    o.ServiceRate,
			ShortageLines:  []ShortageLineView{},
		}
		for _, sl := range o.ShortageLines {
			view.ShortageLines = append(view.ShortageLines, ShortageLineView{
				ArticleRef:        sl.ArticleRef,
				QuantityOrdered:   sl.QuantityOrdered,
				QuantityDelivered: sl.QuantityDelivered,
				QuantityMissing:   sl.QuantityMissing,
			})
		}
		resp.Orders = append(resp.Orders, view)
	}
	return resp
}

// loadInventoryMap: photo de stock -> pool (référence -> unités disponibles).
// Un code présent plusieurs fois dans la photo cumule ses quantités.
func loadInventoryMap(snapshotID uint) (map[string]int, error) {
	var articles []models.Article
	if err := database.DB.Where("snapshot_id = ?", snapshotID).Find(&articles).Error; err != nil {
		return nil, err
	}
	inventory := make(map[string]int, len(articles))
	for _, a := range articles {
		if a.OnHandQuantity > 0 {
			inventory[a.Reference] += a.OnHandQuantity
		}
	}
	return inventory, nil
}

// loadLines: lignes du document dans leur ordre d'extraction
func loadLines(documentID uint) ([]Line, error) {
	var rows []models.OrderLine
	if err := database.DB.Where("document_id = ?", documentID).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Line{
			OrderID:    r.OrderID,
			ArticleRef: r.ArticleRef,
			Quantity:   r.QuantityOrdered,
		})
	}
	return lines, nil
}

// POST /api/allocations/run
// Lance une simulation de préparation sur un couple (photo de stock, document
// de commandes) et archive le résultat. Le journal des runs est append-only :
// relancer la même simulation crée un nouveau run identique depuis la même base.
func RunAllocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			SnapshotID uint `json:"snapshot_id"`
			DocumentID uint `json:"document_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide : snapshot_id et document_id attendus")
		}

		var snapshot models.InventorySnapshot
		if err := database.DB.First(&snapshot, "id = ?", body.SnapshotID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Photo de stock introuvable")
		}
		var document models.OrderDocument
		if err := database.DB.First(&document, "id = ?", body.DocumentID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Document de commandes introuvable")
		}

		inventory, err := loadInventoryMap(snapshot.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture de la photo de stock impossible")
		}
		lines, err := loadLines(document.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture des lignes de commande impossible")
		}

		result := Allocate(inventory, lines)

		run := models.AllocationRun{
			SnapshotID:     snapshot.ID,
			DocumentID:     document.ID,
			OrderCount:     len(result.Orders),
			TotalOrdered:   result.TotalOrdered,
			TotalDelivered: result.TotalDelivered,
			ServiceRate:    result.GlobalServiceRate(),
		}
		for pos, o := range result.Orders {
			orderRow := models.AllocationOrderResult{
				Position:       pos,
				OrderID:        o.OrderID,
				TotalOrdered:   o.TotalOrdered,
				TotalDelivered: o.TotalDelivered,
				ServiceRate:    o.ServiceRate(),
			}
			for slPos, sl := range o.ShortageLines {
				orderRow.ShortageLines = append(orderRow.ShortageLines, models.AllocationShortageLine{
					Position:          slPos,
					ArticleRef:        sl.ArticleRef,
					QuantityOrdered:   sl.Ordered,
					QuantityDelivered: sl.Delivered,
					QuantityMissing:   sl.Missing,
				})
			}
			run.OrderResults = append(run.OrderResults, orderRow)
		}

		if err := database.DB.Create(&run).Error; err != nil {
			log.Printf("Archivage du run impossible : %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Archivage de la simulation impossible")
		}

		log.Printf("Run #%d : %d commandes, taux de service global %.2f%%", run.ID, run.OrderCount, run.ServiceRate)
		return c.JSON(runDetail(&run))
	}
}

// GET /api/allocations/runs
// Historique des simulations, la plus récente en premier.
func ListRunsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var runs []models.AllocationRun
		if err := database.DB.Order("created_at DESC").Find(&runs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture de l'historique impossible")
		}
		return c.JSON(runs)
	}
}

// loadRun: run complet avec ses résultats par commande et lignes en rupture,
// dans l'ordre archivé
func loadRun(id string) (*models.AllocationRun, error) {
	var run models.AllocationRun
	err := database.DB.
		Preload("OrderResults", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("OrderResults.ShortageLines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GET /api/allocations/runs/:id
func GetRunHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		run, err := loadRun(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Simulation introuvable")
		}
		return c.JSON(runDetail(run))
	}
}
