package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"match-ladder-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

// Scores stay raw through decoding so that presence and the distinct-players
// rule can be checked before score types: a request with a bad score AND a
// missing field must answer with the missing-field message.
type LogMatchRequest struct {
	FirstPlayer       string          `json:"first_player" validate:"required"`
	SecondPlayer      string          `json:"second_player" validate:"required"`
	FirstPlayerScore  json.RawMessage `json:"first_player_score" validate:"required"`
	SecondPlayerScore json.RawMessage `json:"second_player_score" validate:"required"`
}

var (
	ErrMissingFields = errors.New("all fields are required: first_player, second_player, first_player_score, second_player_score")
	ErrSamePlayer    = errors.New("players must be different")
	ErrInvalidScore  = errors.New("scores must be numbers")
)

// Validate checks field presence, then the distinct-players rule. Score
// types are checked separately (and last) by Scores.
func (r *LogMatchRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ErrMissingFields
	}
	if r.FirstPlayer == r.SecondPlayer {
		return ErrSamePlayer
	}
	return nil
}

// Scores parses the raw score values, failing when either is not an integer.
func (r *LogMatchRequest) Scores() (first, second int, err error) {
	if first, err = parseScore(r.FirstPlayerScore); err != nil {
		return 0, 0, err
	}
	if second, err = parseScore(r.SecondPlayerScore); err != nil {
		return 0, 0, err
	}
	return first, second, nil
}

func parseScore(raw json.RawMessage) (int, error) {
	// json.Unmarshal accepts "null" as a zero int; reject it explicitly.
	if string(raw) == "null" {
		return 0, ErrInvalidScore
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, ErrInvalidScore
	}
	return n, nil
}

// LogMatch appends a match to the log and, for a decisive result, advances
// the winner's victory counter. Preconditions are checked in order: field
// presence, distinct players, numeric scores. Insert and counter update run
// in one transaction so a failure cannot leave the log and the ledger out of
// step.
func (s *MatchService) LogMatch(c *fiber.Ctx) error {
	var req LogMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		switch {
		case errors.Is(err, ErrSamePlayer):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Players must be different",
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "All fields are required: first_player, second_player, first_player_score, second_player_score",
			})
		}
	}

	firstScore, secondScore, err := req.Scores()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Scores must be numbers",
		})
	}

	match := models.Match{
		FirstPlayerName:   req.FirstPlayer,
		SecondPlayerName:  req.SecondPlayer,
		FirstPlayerScore:  firstScore,
		SecondPlayerScore: secondScore,
		MatchDate:         time.Now().UTC(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return err
		}

		winner := match.Winner()
		if winner == "" {
			// Draw: logged, but the ledger is untouched.
			return nil
		}

		res := tx.Model(&models.Player{}).
			Where("name = ?", winner).
			UpdateColumn("victories", gorm.Expr("victories + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Matches may name players with no ledger row; the win is then
			// recorded in the log only. The audit worker reports these.
			log.Printf("⚠️  No ledger row for winner %q — victory not counted (match %d)", winner, match.ID)
		}
		return nil
	})
	if err != nil {
		log.Printf("Log match error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Match logged successfully",
		"match":   match,
	})
}
