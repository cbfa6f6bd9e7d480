package catalog

import "resort/domain/shared"

// Game is an hourly activity. It has no capacity, so overlapping sessions
// of the same game are always accepted.
type Game struct {
	id           string
	title        string
	category     string
	thumbnail    string
	pricePerHour shared.Money
}

type GameReconstructionDTO struct {
	ID           string
	Title        string
	Category     string
	Thumbnail    string
	PricePerHour shared.Money
}

func RebuildGameFromDTO(dto GameReconstructionDTO) *Game {
	return &Game{
		id:           dto.ID,
		title:        dto.Title,
		category:     dto.Category,
		thumbnail:    dto.Thumbnail,
		pricePerHour: dto.PricePerHour,
	}
}

func (g *Game) ID() string                 { return g.id }
func (g *Game) Title() string              { return g.title }
func (g *Game) Category() string           { return g.category }
func (g *Game) Thumbnail() string          { return g.thumbnail }
func (g *Game) PricePerHour() shared.Money { return g.pricePerHour }

func (g *Game) Listing() *Listing {
	return &Listing{
		ID:        g.id,
		Kind:      KindGame,
		Title:     g.title,
		Category:  g.category,
		Thumbnail: g.thumbnail,
		Price:     g.pricePerHour.Amount(),
		Currency:  g.pricePerHour.Currency(),
	}
}
