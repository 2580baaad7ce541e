// Package playlist keeps the background music widget's state. No audio is
// decoded; playback is a progress value advanced by the shell's ticker.
package playlist

import "time"

// PulseTrack is the haptic pulse issued on track changes.
const PulseTrack = 30 * time.Millisecond

// Track is one playlist entry.
type Track struct {
	Title  string `toml:"title" yaml:"title"`
	Artist string `toml:"artist" yaml:"artist"`
}

// Pulser is the slice of the haptics capability the playlist needs.
type Pulser interface {
	Pulse(d time.Duration)
}

// Playlist is a fixed, ordered, cyclic list of tracks.
type Playlist struct {
	tracks   []Track
	current  int
	playing  bool
	progress float64
	haptics  Pulser
}

// New returns a paused playlist positioned on the first track. tracks must
// not be empty.
func New(tracks []Track, haptics Pulser) *Playlist {
	if len(tracks) == 0 {
		tracks = Default
	}
	return &Playlist{tracks: tracks, haptics: haptics}
}

func (p *Playlist) Len() int          { return len(p.tracks) }
func (p *Playlist) Index() int        { return p.current }
func (p *Playlist) Current() Track    { return p.tracks[p.current] }
func (p *Playlist) Playing() bool     { return p.playing }
func (p *Playlist) Progress() float64 { return p.progress }
func (p *Playlist) Tracks() []Track   { return p.tracks }

// TogglePlay flips the playing flag and reports the new value.
func (p *Playlist) TogglePlay() bool {
	p.playing = !p.playing
	return p.playing
}

// Next moves to the following track, wrapping at the end.
func (p *Playlist) Next() Track {
	p.current = (p.current + 1) % len(p.tracks)
	p.changed()
	return p.Current()
}

// Prev moves to the preceding track, wrapping at the start.
func (p *Playlist) Prev() Track {
	p.current = (p.current - 1 + len(p.tracks)) % len(p.tracks)
	p.changed()
	return p.Current()
}

// Advance adds delta to the simulated progress while playing. A finished
// track rolls into the next one; it returns true when that happens.
func (p *Playlist) Advance(delta float64) bool {
	if !p.playing || delta <= 0 {
		return false
	}
	p.progress += delta
	if p.progress < 1 {
		return false
	}
	p.current = (p.current + 1) % len(p.tracks)
	p.progress = 0
	return true
}

func (p *Playlist) changed() {
	p.progress = 0
	if p.haptics != nil {
		p.haptics.Pulse(PulseTrack)
	}
}

// Default is the card's built-in playlist.
var Default = []Track{
	{Title: "Lover", Artist: "Taylor Swift"},
	{Title: "Wildest Dreams", Artist: "Taylor Swift"},
	{Title: "White Mustang", Artist: "Lana Del Rey"},
	{Title: "Chemtrails Over the Country Club", Artist: "Lana Del Rey"},
	{Title: "Drinks or Coffee", Artist: "Rosé"},
	{Title: "Your Love", Artist: "Jisoo"},
	{Title: "Khuda Jaane", Artist: "KK & Shilpa Rao"},
	{Title: "Tum Mile", Artist: "Neeraj Shridhar"},
	{Title: "Titli", Artist: "Chinmayi"},
	{Title: "Perfect", Artist: "Ed Sheeran"},
	{Title: "All of Me", Artist: "John Legend"},
	{Title: "Thinking Out Loud", Artist: "Ed Sheeran"},
}
