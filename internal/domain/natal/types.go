package natal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/astrotune/backend/internal/domain/astro"
)

// BirthRecord stores the data needed for chart work that a sun sign alone
// cannot support, the ascendant above all.
type BirthRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	BirthTime time.Time `json:"birth_time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest is the payload accepted when registering birth data.
type CreateRequest struct {
	Name      string  `json:"name" binding:"required"`
	BirthTime string  `json:"birth_time" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Chart summarizes the placements derived from one birth record.
type Chart struct {
	SunSign         astro.Sign `json:"sun_sign"`
	MoonSign        astro.Sign `json:"moon_sign"`
	Ascendant       astro.Sign `json:"ascendant"`
	AscendantDegree float64    `json:"ascendant_degree"`
}

// Profile pairs the stored record with its computed chart.
type Profile struct {
	Record BirthRecord `json:"record"`
	Chart  Chart       `json:"chart"`
}

// Repository is the persistence contract for birth records.
type Repository interface {
	Insert(ctx context.Context, record BirthRecord) (BirthRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (BirthRecord, bool, error)
}
