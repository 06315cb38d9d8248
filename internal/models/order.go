package models

import "time"

// OrderDocument: un document de commandes importé (PDF fournisseur ou texte brut)
type OrderDocument struct {
	ID            uint   `gorm:"primaryKey"`
	FileName      string `gorm:"size:255;not null"`
	OrderCount    int    `gorm:"not null"`
	LineCount     int    `gorm:"not null"`
	RejectedLines int    `gorm:"not null;default:0"` // lignes écartées à la validation (qté <= 0)
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Lines []OrderLine `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// OrderLine: une ligne de commande extraite du document. Les doublons sont
// conservés tels quels, l'ordre du document fait foi pour l'allocation.
type OrderLine struct {
	ID              uint   `gorm:"primaryKey"`
	DocumentID      uint   `gorm:"index;not null"`
	Position        int    `gorm:"not null"`              // ordre d'apparition dans le document
	OrderID         string `gorm:"size:50;index;not null"` // numéro de commande
	ArticleRef      string `gorm:"size:50;not null"`
	QuantityOrdered int    `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
