// internal/lexicon/lexicon.go
//
// Provides the name pools the generator draws from.
//
// Responsibilities:
//   - Load player, venue, and weather-condition lists from
//     environment-provided files or fall back to embedded defaults.
//   - Validate entries against the log character set so generated games
//     always re-parse.
//   - Supply utility functions like RandomPlayer, RandomVenue,
//     RandomCondition, and Stats.
//
// Environment variables:
//   LEXICON_PLAYERS_FILE=/path/to/players.txt
//   LEXICON_VENUES_FILE=/path/to/venues.txt
//   LEXICON_CONDITIONS_FILE=/path/to/conditions.txt
//
// Constraints:
//   • Player names: letters (including À-ÖØ-öø-ÿ), spaces, "." and "'".
//   • Venues and conditions: letters and spaces only.
//   • Initialization is run once (sync.Once).

package lexicon

import (
	"bufio"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/dugout/playlog/assets"
)

var (
	initOnce   sync.Once
	players    []string
	venues     []string
	conditions []string
	initialErr error
)

// Init loads the lexicon exactly once. Returns an error if any list
// ends up empty.
func Init() error {
	initOnce.Do(func() {
		players = load("LEXICON_PLAYERS_FILE", assets.PlayersList, isName)
		venues = load("LEXICON_VENUES_FILE", assets.VenuesList, isWords)
		conditions = load("LEXICON_CONDITIONS_FILE", assets.ConditionsList, isWords)
		if initialErr == nil && (len(players) == 0 || len(venues) == 0 || len(conditions) == 0) {
			initialErr = errors.New("lexicon: empty list after filtering")
		}
	})
	return initialErr
}

// load reads one list: the env-named file when set, the embedded
// default otherwise. Invalid entries are dropped, not fatal.
func load(envVar string, embedded func() ([]string, error), valid func(string) bool) []string {
	var lines []string
	if path := os.Getenv(envVar); path != "" {
		var err error
		lines, err = readLineFile(path)
		if err != nil {
			initialErr = err
			return nil
		}
	} else {
		var err error
		lines, err = embedded()
		if err != nil {
			initialErr = err
			return nil
		}
	}
	var out []string
	for _, s := range lines {
		s = strings.TrimSpace(s)
		if s != "" && valid(s) {
			out = append(out, s)
		}
	}
	return out
}

// readLineFile loads one entry per line, skipping blanks and comments.
func readLineFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func isLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 'À' && r <= 'Ö', r >= 'Ø' && r <= 'ö', r >= 'ø' && r <= 'ÿ':
		return true
	}
	return false
}

// isName reports whether s fits the player-name character set.
func isName(s string) bool {
	for _, r := range s {
		if !isLetter(r) && r != ' ' && r != '.' && r != '\'' {
			return false
		}
	}
	return true
}

// isWords reports whether s is letters and spaces only.
func isWords(s string) bool {
	for _, r := range s {
		if !isLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}

func pick(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	return list[nBig.Int64()]
}

// RandomPlayer returns a cryptographically random player name.
// Falls back to a fixed name before Init.
func RandomPlayer() string { return pick(players, "Anthony Volpe") }

// RandomVenue returns a random venue name.
func RandomVenue() string { return pick(venues, "Yankee Stadium") }

// RandomCondition returns a random weather condition.
func RandomCondition() string { return pick(conditions, "Sunny") }

// Players exposes the loaded player pool (for seeded selection).
func Players() []string { return players }

// Venues exposes the loaded venue pool.
func Venues() []string { return venues }

// Conditions exposes the loaded condition pool.
func Conditions() []string { return conditions }

// Stats returns counts of loaded entries: (players, venues, conditions).
func Stats() (playerCount, venueCount, conditionCount int) {
	return len(players), len(venues), len(conditions)
}
