package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"match-ladder-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestLogMatchRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  LogMatchRequest
		want error
	}{
		{
			"valid decisive match",
			LogMatchRequest{"A", "B", raw("10"), raw("3")},
			nil,
		},
		{
			"valid draw",
			LogMatchRequest{"A", "B", raw("5"), raw("5")},
			nil,
		},
		{
			"missing first player",
			LogMatchRequest{"", "B", raw("1"), raw("2")},
			ErrMissingFields,
		},
		{
			"missing second player",
			LogMatchRequest{"A", "", raw("1"), raw("2")},
			ErrMissingFields,
		},
		{
			"missing first score",
			LogMatchRequest{"A", "B", nil, raw("2")},
			ErrMissingFields,
		},
		{
			"missing second score",
			LogMatchRequest{"A", "B", raw("1"), nil},
			ErrMissingFields,
		},
		{
			"same player on both sides",
			LogMatchRequest{"A", "A", raw("1"), raw("2")},
			ErrSamePlayer,
		},
		{
			"non-numeric score is present, so presence passes",
			LogMatchRequest{"A", "B", raw(`"x"`), raw("1")},
			nil,
		},
	}

	for _, c := range cases {
		err := c.req.Validate()
		if !errors.Is(err, c.want) {
			t.Fatalf("%s: Validate() = %v, want %v", c.name, err, c.want)
		}
	}
}

func TestLogMatchRequestScores(t *testing.T) {
	cases := []struct {
		name        string
		first       string
		second      string
		wantFirst   int
		wantSecond  int
		wantInvalid bool
	}{
		{"integers", "10", "3", 10, 3, false},
		{"zero is a valid score", "0", "0", 0, 0, false},
		{"negative integers parse", "-1", "-3", -1, -3, false},
		{"string score rejected", `"x"`, "1", 0, 0, true},
		{"second string score rejected", "1", `"3"`, 0, 0, true},
		{"null score rejected", "null", "1", 0, 0, true},
		{"fractional score rejected", "10.5", "1", 0, 0, true},
		{"boolean score rejected", "true", "1", 0, 0, true},
	}

	for _, c := range cases {
		req := LogMatchRequest{"A", "B", raw(c.first), raw(c.second)}
		first, second, err := req.Scores()
		if c.wantInvalid {
			if !errors.Is(err, ErrInvalidScore) {
				t.Fatalf("%s: Scores() err = %v, want ErrInvalidScore", c.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: Scores() failed: %v", c.name, err)
		}
		if first != c.wantFirst || second != c.wantSecond {
			t.Fatalf("%s: Scores() = (%d, %d), want (%d, %d)", c.name, first, second, c.wantFirst, c.wantSecond)
		}
	}
}

func TestValidateChecksPresenceBeforeSamePlayer(t *testing.T) {
	// A request that is both incomplete and self-paired must fail on the
	// presence check first.
	req := LogMatchRequest{FirstPlayer: "A", SecondPlayer: "A"}
	if err := req.Validate(); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("Validate() = %v, want ErrMissingFields", err)
	}
}

// --- handler-level tests ---

func newMatchTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Player{}, &models.Match{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func newLogMatchApp(svc *MatchService) *fiber.App {
	app := fiber.New()
	app.Post("/log-match", svc.LogMatch)
	return app
}

func logMatchResponse(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/log-match", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, out.Message
}

// The validation failures must be reported in precondition order even when a
// later check would also fail. None of these touch the database.
func TestLogMatchPreconditionOrder(t *testing.T) {
	app := newLogMatchApp(NewMatchService(nil))

	cases := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{
			"same player reported before bad score",
			`{"first_player":"A","second_player":"A","first_player_score":"x","second_player_score":1}`,
			"Players must be different",
		},
		{
			"missing field reported before bad score",
			`{"first_player":"A","first_player_score":"x"}`,
			"All fields are required: first_player, second_player, first_player_score, second_player_score",
		},
		{
			"bad score reported once the rest passes",
			`{"first_player":"A","second_player":"B","first_player_score":"x","second_player_score":1}`,
			"Scores must be numbers",
		},
		{
			"null score is not a number",
			`{"first_player":"A","second_player":"B","first_player_score":null,"second_player_score":1}`,
			"Scores must be numbers",
		},
	}

	for _, c := range cases {
		status, message := logMatchResponse(t, app, c.body)
		if status != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", c.name, status)
		}
		if message != c.wantMessage {
			t.Fatalf("%s: message = %q, want %q", c.name, message, c.wantMessage)
		}
	}
}

func seedTestPlayers(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := db.Create(&models.Player{Name: name, Victories: 0}).Error; err != nil {
			t.Fatalf("Failed to seed player %q: %v", name, err)
		}
	}
}

func playerVictories(t *testing.T, db *gorm.DB, name string) int {
	t.Helper()
	var p models.Player
	if err := db.Where("name = ?", name).First(&p).Error; err != nil {
		t.Fatalf("Failed to load player %q: %v", name, err)
	}
	return p.Victories
}

func TestLogMatchIncrementsWinnerOnly(t *testing.T) {
	db := newMatchTestDB(t, "logmatch_winner")
	seedTestPlayers(t, db, "A", "B")
	app := newLogMatchApp(NewMatchService(db))

	status, _ := logMatchResponse(t, app,
		`{"first_player":"A","second_player":"B","first_player_score":10,"second_player_score":3}`)
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}

	if got := playerVictories(t, db, "A"); got != 1 {
		t.Fatalf("Winner victories = %d, want 1", got)
	}
	if got := playerVictories(t, db, "B"); got != 0 {
		t.Fatalf("Loser victories = %d, want 0", got)
	}

	var match models.Match
	if err := db.First(&match).Error; err != nil {
		t.Fatalf("Expected a match row: %v", err)
	}
	if match.FirstPlayerName != "A" || match.SecondPlayerName != "B" ||
		match.FirstPlayerScore != 10 || match.SecondPlayerScore != 3 {
		t.Fatalf("Unexpected match row: %+v", match)
	}
	if match.MatchDate.IsZero() {
		t.Fatal("Expected a server-assigned match date")
	}
}

func TestLogMatchSecondPlayerWin(t *testing.T) {
	db := newMatchTestDB(t, "logmatch_second")
	seedTestPlayers(t, db, "A", "B")
	app := newLogMatchApp(NewMatchService(db))

	status, _ := logMatchResponse(t, app,
		`{"first_player":"A","second_player":"B","first_player_score":2,"second_player_score":5}`)
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}

	if got := playerVictories(t, db, "B"); got != 1 {
		t.Fatalf("Winner victories = %d, want 1", got)
	}
	if got := playerVictories(t, db, "A"); got != 0 {
		t.Fatalf("Loser victories = %d, want 0", got)
	}
}

func TestLogMatchDrawTouchesNoCounter(t *testing.T) {
	db := newMatchTestDB(t, "logmatch_draw")
	seedTestPlayers(t, db, "A", "B")
	app := newLogMatchApp(NewMatchService(db))

	status, _ := logMatchResponse(t, app,
		`{"first_player":"A","second_player":"B","first_player_score":7,"second_player_score":7}`)
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}

	var count int64
	if err := db.Model(&models.Match{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count matches: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 match row, got %d", count)
	}
	if got := playerVictories(t, db, "A"); got != 0 {
		t.Fatalf("First player victories = %d, want 0", got)
	}
	if got := playerVictories(t, db, "B"); got != 0 {
		t.Fatalf("Second player victories = %d, want 0", got)
	}
}

func TestLogMatchUnregisteredWinner(t *testing.T) {
	db := newMatchTestDB(t, "logmatch_orphan")
	seedTestPlayers(t, db, "B")
	app := newLogMatchApp(NewMatchService(db))

	// "A" has no ledger row; the match is still logged and the request
	// still succeeds, the counter update just affects zero rows.
	status, _ := logMatchResponse(t, app,
		`{"first_player":"A","second_player":"B","first_player_score":4,"second_player_score":1}`)
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}

	var count int64
	if err := db.Model(&models.Match{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count matches: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 match row, got %d", count)
	}
	if got := playerVictories(t, db, "B"); got != 0 {
		t.Fatalf("Registered loser victories = %d, want 0", got)
	}
}

func TestLogMatchSamePlayerCreatesNoRow(t *testing.T) {
	db := newMatchTestDB(t, "logmatch_sameplayer")
	seedTestPlayers(t, db, "A", "B")
	app := newLogMatchApp(NewMatchService(db))

	status, _ := logMatchResponse(t, app,
		`{"first_player":"A","second_player":"A","first_player_score":1,"second_player_score":0}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", status)
	}

	var count int64
	if err := db.Model(&models.Match{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count matches: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected no match rows, got %d", count)
	}
}
