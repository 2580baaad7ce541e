// Package story holds the card's static content: the greeting, timeline
// events, photos, quiz, gifts, surprise, reasons, quotes and playlist.
package story

import (
	"errors"
	"fmt"
	"strings"

	"lovestory/internal/playlist"
)

// Story is the full content of one card.
type Story struct {
	Greeting Greeting         `toml:"greeting" yaml:"greeting"`
	Timeline []Event          `toml:"timeline" yaml:"timeline"`
	Photos   []Photo          `toml:"photos" yaml:"photos"`
	Quiz     []Question       `toml:"quiz" yaml:"quiz"`
	Gifts    []Gift           `toml:"gifts" yaml:"gifts"`
	Surprise Surprise         `toml:"surprise" yaml:"surprise"`
	Reasons  []string         `toml:"reasons" yaml:"reasons"`
	Quotes   []string         `toml:"quotes" yaml:"quotes"`
	Playlist []playlist.Track `toml:"playlist" yaml:"playlist"`
}

// Greeting is the hero screen text. "{recipient}" in Salutation is replaced
// with the configured recipient.
type Greeting struct {
	Title      string `toml:"title" yaml:"title"`
	Salutation string `toml:"salutation" yaml:"salutation"`
	Body       string `toml:"body" yaml:"body"`
	Begin      string `toml:"begin" yaml:"begin"`
}

type Event struct {
	ID          int    `toml:"id" yaml:"id"`
	Date        string `toml:"date" yaml:"date"`
	Title       string `toml:"title" yaml:"title"`
	Description string `toml:"description" yaml:"description"`
	Location    string `toml:"location" yaml:"location"`
}

type Photo struct {
	ID        int    `toml:"id" yaml:"id"`
	Caption   string `toml:"caption" yaml:"caption"`
	Date      string `toml:"date" yaml:"date"`
	Location  string `toml:"location" yaml:"location"`
	Mood      string `toml:"mood" yaml:"mood"`
	VoiceNote string `toml:"voice_note" yaml:"voice_note"`
}

// Question is one quiz entry; Answer indexes Options.
type Question struct {
	Question    string   `toml:"question" yaml:"question"`
	Options     []string `toml:"options" yaml:"options"`
	Answer      int      `toml:"answer" yaml:"answer"`
	Explanation string   `toml:"explanation" yaml:"explanation"`
}

type Gift struct {
	ID          int    `toml:"id" yaml:"id"`
	Title       string `toml:"title" yaml:"title"`
	Description string `toml:"description" yaml:"description"`
	Kind        string `toml:"kind" yaml:"kind"`
	Content     string `toml:"content" yaml:"content"`
}

// Surprise is the locked message behind the scratch card.
type Surprise struct {
	Hint    string `toml:"hint" yaml:"hint"`
	Title   string `toml:"title" yaml:"title"`
	Promise string `toml:"promise" yaml:"promise"`
	Video   string `toml:"video" yaml:"video"`
}

// Personalize fills the recipient into the greeting.
func (s *Story) Personalize(recipient string) {
	if recipient == "" {
		return
	}
	s.Greeting.Salutation = strings.ReplaceAll(s.Greeting.Salutation, "{recipient}", recipient)
}

// Validate reports every structural problem in s.
func (s *Story) Validate() error {
	var errs []error
	if len(s.Quiz) == 0 {
		errs = append(errs, errors.New("quiz has no questions"))
	}
	for i, q := range s.Quiz {
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			errs = append(errs, fmt.Errorf("quiz question %d: answer %d outside %d options", i+1, q.Answer, len(q.Options)))
		}
	}
	if len(s.Timeline) == 0 {
		errs = append(errs, errors.New("timeline has no events"))
	}
	if len(s.Photos) == 0 {
		errs = append(errs, errors.New("gallery has no photos"))
	}
	if len(s.Gifts) == 0 {
		errs = append(errs, errors.New("no gifts"))
	}
	if len(s.Reasons) == 0 {
		errs = append(errs, errors.New("no reasons"))
	}
	if len(s.Quotes) == 0 {
		errs = append(errs, errors.New("no quotes"))
	}
	if len(s.Playlist) == 0 {
		errs = append(errs, errors.New("playlist is empty"))
	}
	errs = append(errs, checkIDs("timeline event", s.Timeline, func(e Event) int { return e.ID })...)
	errs = append(errs, checkIDs("photo", s.Photos, func(p Photo) int { return p.ID })...)
	errs = append(errs, checkIDs("gift", s.Gifts, func(g Gift) int { return g.ID })...)
	return errors.Join(errs...)
}

// checkIDs requires every item to carry a positive id unique within its list.
func checkIDs[T any](kind string, items []T, id func(T) int) []error {
	var errs []error
	seen := make(map[int]int, len(items))
	for i, it := range items {
		n := id(it)
		if n <= 0 {
			errs = append(errs, fmt.Errorf("%s %d: id must be positive, got %d", kind, i+1, n))
			continue
		}
		if prev, ok := seen[n]; ok {
			errs = append(errs, fmt.Errorf("%s %d: id %d already used by %s %d", kind, i+1, n, kind, prev+1))
			continue
		}
		seen[n] = i
	}
	return errs
}
