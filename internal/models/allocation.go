package models

import "time"

// AllocationRun: une simulation de préparation sur un couple (photo de stock,
// document de commandes). Journal append-only : un run n'est jamais modifié,
// relancer la même simulation crée un nouveau run depuis la même base.
type AllocationRun struct {
	ID             uint    `gorm:"primaryKey"`
	SnapshotID     uint    `gorm:"index;not null"`
	DocumentID     uint    `gorm:"index;not null"`
	OrderCount     int     `gorm:"not null"`
	TotalOrdered   int     `gorm:"not null"`
	TotalDelivered int     `gorm:"not null"`
	ServiceRate    float64 `gorm:"not null"` // taux de service global en %
	CreatedAt      time.Time

	OrderResults []AllocationOrderResult `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// AllocationOrderResult: résultat d'allocation pour une commande du run
type AllocationOrderResult struct {
	ID             uint    `gorm:"primaryKey"`
	RunID          uint    `gorm:"index;not null"`
	Position       int     `gorm:"not null"` // ordre de première apparition dans le document
	OrderID        string  `gorm:"size:50;not null"`
	TotalOrdered   int     `gorm:"not null"`
	TotalDelivered int     `gorm:"not null"`
	ServiceRate    float64 `gorm:"not null"`

	ShortageLines []AllocationShortageLine `gorm:"foreignKey:OrderResultID;constraint:OnDelete:CASCADE"`
}

// AllocationShortageLine: ligne en rupture (livré < commandé)
type AllocationShortageLine struct {
	ID                uint   `gorm:"primaryKey"`
	OrderResultID     uint   `gorm:"index;not null"`
	Position          int    `gorm:"not null"`
	ArticleRef        string `gorm:"size:50;not null"`
	QuantityOrdered   int    `gorm:"not null"`
	QuantityDelivered int    `gorm:"not null"`
	QuantityMissing   int    `gorm:"not null"`
}
