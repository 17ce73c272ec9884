package superhero

import "time"

// Superhero is a registered hero. ID and CreatedAt are generated on insert.
// Name is stored as submitted and only its trimmed length is bounded, so its
// column has no width limit.
type Superhero struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:text;not null;uniqueIndex:idx_superheroes_name" json:"name"`
	Superpower    string    `gorm:"type:varchar(200);not null" json:"superpower"`
	HumilityScore int       `gorm:"type:smallint;not null;check:chk_superheroes_humility_score,humility_score BETWEEN 1 AND 10" json:"humilityScore"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}

// TableName pins the table name used by GORM.
func (Superhero) TableName() string {
	return "superheroes"
}

// CreateInput is a validated create payload.
type CreateInput struct {
	Name          string
	Superpower    string
	HumilityScore int
}

func (in CreateInput) toModel() *Superhero {
	return &Superhero{
		Name:          in.Name,
		Superpower:    in.Superpower,
		HumilityScore: in.HumilityScore,
	}
}
