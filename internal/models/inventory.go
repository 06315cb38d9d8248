package models

import "time"

// InventorySnapshot: photo du stock importée depuis un fichier Excel.
// Copie source immuable : jamais modifiée après l'import, chaque simulation
// d'allocation repart de cette base.
type InventorySnapshot struct {
	ID          uint   `gorm:"primaryKey"`
	FileName    string `gorm:"size:255;not null"`
	RowCount    int    `gorm:"not null"`           // lignes retenues
	SkippedRows int    `gorm:"not null;default:0"` // lignes vides ou sans code article
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Articles []Article `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

// Article: un article du stock. La référence est une chaîne opaque (les zéros
// de tête comptent), jamais comparée comme un nombre.
type Article struct {
	ID              uint    `gorm:"primaryKey"`
	SnapshotID      uint    `gorm:"index;not null"`
	Reference       string  `gorm:"size:50;index;not null"` // code article (ex: 004612)
	Description     string  `gorm:"size:255"`
	OnHandQuantity  int     `gorm:"not null"`           // stock en unités de vente
	PackagingFactor float64 `gorm:"not null;default:1"` // colisage (unités par colis), jamais 0
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
