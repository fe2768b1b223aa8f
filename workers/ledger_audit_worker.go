package workers

import (
	"log"
	"time"

	"match-ladder-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// LedgerAuditWorker periodically recounts decisive wins from the match log
// and compares them to the stored victory counters. Drift is reported, never
// healed: the ledger is only ever mutated by the match service.
type LedgerAuditWorker struct {
	DB       *gorm.DB
	Interval time.Duration

	scheduler gocron.Scheduler
}

func NewLedgerAuditWorker(db *gorm.DB, interval time.Duration) *LedgerAuditWorker {
	return &LedgerAuditWorker{DB: db, Interval: interval}
}

// Start schedules the recurring audit. A zero interval disables the worker.
func (w *LedgerAuditWorker) Start() error {
	if w.Interval <= 0 {
		log.Println("Ledger audit worker disabled")
		return nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.scheduler = sched

	if _, err := sched.NewJob(
		gocron.DurationJob(w.Interval),
		gocron.NewTask(w.runAudit),
	); err != nil {
		return err
	}

	sched.Start()
	log.Printf("Ledger audit worker running (every %s)", w.Interval)
	return nil
}

// Stop shuts the scheduler down. Safe to call when the worker never started.
func (w *LedgerAuditWorker) Stop() {
	if w.scheduler != nil {
		_ = w.scheduler.Shutdown()
	}
}

type winCount struct {
	Name string
	Wins int
}

func (w *LedgerAuditWorker) runAudit() {
	var counts []winCount
	err := w.DB.Raw(`
		SELECT
			CASE WHEN first_player_score > second_player_score
				THEN first_player_name
				ELSE second_player_name
			END AS name,
			COUNT(*) AS wins
		FROM matches
		WHERE first_player_score != second_player_score
		GROUP BY name
	`).Scan(&counts).Error
	if err != nil {
		log.Printf("[LedgerAudit] recount query failed: %v", err)
		return
	}

	var players []models.Player
	if err := w.DB.Find(&players).Error; err != nil {
		log.Printf("[LedgerAudit] player load failed: %v", err)
		return
	}

	ledger := make(map[string]int, len(players))
	for _, p := range players {
		ledger[p.Name] = p.Victories
	}

	drift := 0
	for _, c := range counts {
		stored, ok := ledger[c.Name]
		if !ok {
			drift++
			log.Printf("[LedgerAudit] %q has %d logged wins but no ledger row", c.Name, c.Wins)
			continue
		}
		if stored != c.Wins {
			drift++
			log.Printf("[LedgerAudit] %q ledger=%d log=%d", c.Name, stored, c.Wins)
		}
		delete(ledger, c.Name)
	}
	for name, stored := range ledger {
		if stored != 0 {
			drift++
			log.Printf("[LedgerAudit] %q ledger=%d but no logged wins", name, stored)
		}
	}

	if drift == 0 {
		log.Println("[LedgerAudit] ledger and match log agree")
	}
}
