// Package seed holds the resort's starting catalog. The memory store loads
// it on creation and the MySQL migration inserts it into empty tables.
package seed

import (
	"strings"
	"time"

	"resort/domain/catalog"
	"resort/domain/shared"
)

type roomSeed struct {
	category, subCategory, name, thumbnail string
	pricePerNight                          int64 // whole currency units
}

var rooms = []roomSeed{
	{"Villas", "Beach Front Villa", "Two Bedroom Beachfront Villa", "/images/villa2bhk.jpg", 1200},
	{"Villas", "Beach Front Villa", "Three Bedroom Beachfront Villa", "/images/villa3bhk.jpg", 1600},
	{"Suites", "Beachfront Suites", "Beachfront Junior Suite", "/images/beachfrontjuniorsuite.jpg", 550},
	{"Suites", "Beachfront Suites", "Beachfront Junior Suite with Pool", "/images/beachfrontjuniorsuitewithpool.jpg", 700},
	{"Suites", "Beachfront Suites", "Beachfront Executive Suite", "/images/beachfrontexecutivesuite.jpg", 850},
	{"Suites", "Beachfront Suites", "Beachfront Executive Suite with Pool", "/images/beachfrontexecutivesuitewithpool.jpg", 1000},
	{"Suites", "Manor House Suites", "Manor House Junior Suite", "/images/manorhousejuniorsuite.jpg", 450},
	{"Suites", "Manor House Suites", "Manor House Junior Suite with Pool", "/images/manorhousejuniorsuitewithpool.jpg", 600},
	{"Suites", "Manor House Suites", "Manor House Executive Suite", "/images/manorhouseexecutivesuite.jpg", 700},
	{"Suites", "Manor House Suites", "Manor House Executive Suite with Pool", "/images/manorhouseexecutivesuitewithpool.jpg", 850},
	{"Rooms", "Beachfront Rooms", "Beachfront Premier Room", "/images/beachfrontroomspremier.jpg", 350},
	{"Rooms", "Beachfront Rooms", "Beachfront Junior Room", "/images/beachfrontroomsjunior.jpg", 300},
	{"Rooms", "Manor House Rooms", "Manor House Premier Room", "/images/manorhouseroomspremier.jpg", 320},
	{"Rooms", "Manor House Rooms", "Manor House Junior Room", "/images/manorhouseroomsjunior.jpg", 280},
}

type gameSeed struct {
	title, category, thumbnail string
	pricePerHour               int64
}

var games = []gameSeed{
	{"Golf", "Outdoor", "/images2/golf-1938932_1920.jpg", 500},
	{"Football", "Outdoor", "/images2/football.jpg", 500},
	{"Turf", "Outdoor", "/images2/turf.jpg", 850},
	{"VR Gaming", "Indoor", "/images2/virtual-reality-7019022.jpg", 1200},
	{"Bowling", "Indoor", "/images2/bowling-424776.jpg", 1000},
	{"Go Karting", "Outdoor", "/images2/kart-1754533_1920.jpg", 800},
}

// Rooms returns the seeded room types, one unit each, priced in minor units of currency.
func Rooms(currency string) []catalog.RoomReconstructionDTO {
	now := time.Now()
	result := make([]catalog.RoomReconstructionDTO, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, catalog.RoomReconstructionDTO{
			ID:             "room-" + slug(r.name),
			Name:           r.name,
			Category:       r.category,
			SubCategory:    r.subCategory,
			Thumbnail:      r.thumbnail,
			PricePerNight:  *shared.NewMoney(r.pricePerNight*100, currency),
			AvailableRooms: 1,
			Amenities:      []string{"wifi", "breakfast"},
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return result
}

// Games returns the seeded games priced per hour in minor units of currency.
func Games(currency string) []catalog.GameReconstructionDTO {
	result := make([]catalog.GameReconstructionDTO, 0, len(games))
	for _, g := range games {
		result = append(result, catalog.GameReconstructionDTO{
			ID:           "game-" + slug(g.title),
			Title:        g.title,
			Category:     g.category,
			Thumbnail:    g.thumbnail,
			PricePerHour: *shared.NewMoney(g.pricePerHour*100, currency),
		})
	}
	return result
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
