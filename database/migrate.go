package database

import (
	"log"

	"match-ladder-system/models"

	"gorm.io/gorm"
)

// Secondary indexes matching the query patterns: leaderboard order, match
// history order, and per-player match lookups.
var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE INDEX IF NOT EXISTS idx_players_name ON players(name)`,
	`CREATE INDEX IF NOT EXISTS idx_players_victories ON players(victories DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_first_player ON matches(first_player_name)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_second_player ON matches(second_player_name)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_date ON matches(match_date DESC)`,
}

const updatedAtFunction = `
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = CURRENT_TIMESTAMP;
    RETURN NEW;
END;
$$ language 'plpgsql';
`

// Migrate provisions the schema: the three tables, their secondary indexes,
// the same-players check on matches, and the updated_at trigger pair on users
// and players. With drop set, existing tables are removed first.
func Migrate(db *gorm.DB, drop bool) error {
	if drop {
		log.Println("Dropping existing tables...")
		for _, stmt := range []string{
			`DROP TABLE IF EXISTS matches CASCADE`,
			`DROP TABLE IF EXISTS players CASCADE`,
			`DROP TABLE IF EXISTS users CASCADE`,
			`DROP FUNCTION IF EXISTS update_updated_at_column() CASCADE`,
		} {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Player{},
		&models.Match{},
	); err != nil {
		return err
	}

	// AutoMigrate does not express CHECK constraints or triggers; raw SQL for
	// the rest, all idempotent so startup can re-run them.
	if err := db.Exec(`
		DO $$ BEGIN
			ALTER TABLE matches ADD CONSTRAINT different_players
				CHECK (first_player_name != second_player_name);
		EXCEPTION
			WHEN duplicate_object THEN NULL;
		END $$;
	`).Error; err != nil {
		return err
	}

	for _, stmt := range indexStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	if err := db.Exec(updatedAtFunction).Error; err != nil {
		return err
	}

	for _, table := range []string{"users", "players"} {
		if err := db.Exec(`DROP TRIGGER IF EXISTS update_` + table + `_updated_at ON ` + table).Error; err != nil {
			return err
		}
		if err := db.Exec(`
			CREATE TRIGGER update_` + table + `_updated_at
				BEFORE UPDATE ON ` + table + `
				FOR EACH ROW
				EXECUTE FUNCTION update_updated_at_column()
		`).Error; err != nil {
			return err
		}
	}

	log.Println("Database migrated")
	return nil
}
