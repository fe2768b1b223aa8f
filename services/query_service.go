package services

import (
	"log"

	"match-ladder-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QueryService serves the read-only, unauthenticated views: match history
// and the leaderboard.
type QueryService struct {
	DB *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{DB: db}
}

// GetMatches lists the full match log, newest first.
func (s *QueryService) GetMatches(c *fiber.Ctx) error {
	var matches []models.Match
	if err := s.DB.Order("match_date DESC").Find(&matches).Error; err != nil {
		log.Printf("Get matches error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Matches retrieved successfully",
		"count":   len(matches),
		"matches": matches,
	})
}

// GetPlayers lists the ledger in leaderboard order. Ties are broken by id so
// the output is stable across calls.
func (s *QueryService) GetPlayers(c *fiber.Ctx) error {
	var players []models.Player
	if err := s.DB.Order("victories DESC, id ASC").Find(&players).Error; err != nil {
		log.Printf("Get players error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Players retrieved successfully",
		"count":   len(players),
		"players": players,
	})
}
