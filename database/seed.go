package database

import (
	"errors"
	"log"

	"match-ladder-system/config"
	"match-ladder-system/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The fixed ladder roster. Players start at zero victories; counters are only
// ever advanced by logged matches.
var seedPlayers = []string{
	"Vesko Lazarevic",
	"Danilo Kujacic",
	"Danilo Zagarcanin",
	"Predrag Zunjic",
	"Marko Cekaj",
	"Stefan Braunovic",
	"Milos Ivanis",
}

// Seed provisions the admin user and the player roster. Existing users are
// cleared first so the admin credentials in the environment always win;
// players already present keep their victory counts.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set to seed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 10)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
			return err
		}

		admin := models.User{
			Username:     cfg.AdminUsername,
			PasswordHash: string(hash),
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("Created admin user: %s", admin.Username)

		for _, name := range seedPlayers {
			player := models.Player{Name: name, Victories: 0}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&player).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeded %d players", len(seedPlayers))
		return nil
	})
}
