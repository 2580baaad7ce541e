package tui

import (
	"math/rand/v2"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const maxSparkles = 6

var heartGlyphs = []string{"♥", "♡", "❥", "❣"}

// heart is one decoration drifting up the screen.
type heart struct {
	x     int
	y     float64
	speed float64
	glyph string
}

// sparkle marks where a tap landed until its timer runs out.
type sparkle struct {
	id   int
	x, y int
}

type sparkleDoneMsg struct{ id int }

func spawnHeart(rng *rand.Rand, w, h int, anywhere bool) heart {
	y := float64(h - 1)
	if anywhere {
		y = rng.Float64() * float64(h)
	}
	return heart{
		x:     rng.IntN(max(w, 1)),
		y:     y,
		speed: 0.5 + rng.Float64(),
		glyph: heartGlyphs[rng.IntN(len(heartGlyphs))],
	}
}

// driftHearts moves every heart up one step, respawning those that left the
// top edge at the bottom.
func driftHearts(hs []heart, rng *rand.Rand, w, h int) {
	for i := range hs {
		hs[i].y -= hs[i].speed
		if hs[i].y < 0 || hs[i].x >= w {
			hs[i] = spawnHeart(rng, w, h, false)
		}
	}
}

// overlay draws fg over bg with its top-left corner at (x, y). Lines of bg
// are cut around fg so escape sequences on either side survive.
func overlay(bg, fg string, width, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	fgW := 0
	for _, l := range fgLines {
		fgW = max(fgW, xansi.StringWidth(l))
	}
	if fgW == 0 {
		return bg
	}
	x, y = max(x, 0), max(y, 0)
	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		line := bgLines[y+i]
		if n := xansi.StringWidth(line); n < x+fgW {
			line += strings.Repeat(" ", x+fgW-n)
		}
		left := xansi.Cut(line, 0, x)
		right := xansi.Cut(line, x+fgW, max(width, x+fgW))

		fl := fgLines[i]
		if n := xansi.StringWidth(fl); n < fgW {
			fl += strings.Repeat(" ", fgW-n)
		}
		bgLines[y+i] = left + fl + right
	}
	return strings.Join(bgLines, "\n")
}

// centerOverlay draws fg in the middle of a width x height bg.
func centerOverlay(bg, fg string, width, height int) string {
	fgLines := strings.Split(fg, "\n")
	fgW := 0
	for _, l := range fgLines {
		fgW = max(fgW, xansi.StringWidth(l))
	}
	return overlay(bg, fg, width, (width-fgW)/2, (height-len(fgLines))/2)
}

// shift slides every line of s right by offset columns, or left when offset
// is negative, keeping each line within width.
func shift(s string, offset, width int) string {
	if offset == 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if offset > 0 {
			lines[i] = xansi.Truncate(strings.Repeat(" ", offset)+l, width, "")
		} else {
			lines[i] = xansi.Cut(l, -offset, width-offset)
		}
	}
	return strings.Join(lines, "\n")
}
