package content

import (
	"math/rand"
	"time"
)

const (
	Glyphs = "01XYWZ<>[]_-+"

	// LoopDelay is the pause before a looping reveal starts over.
	LoopDelay = 4 * time.Second

	// ticksPerChar is how many ticks it takes to reveal one character.
	ticksPerChar = 3
)

// Decrypter reveals text left to right, showing random glyphs for the
// characters not yet revealed.
type Decrypter struct {
	text    []rune
	loop    bool
	rng     *rand.Rand
	step    int
	done    bool
	doneAt  time.Time
	display string
}

func NewDecrypter(text string, loop bool, rng *rand.Rand) *Decrypter {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Decrypter{text: []rune(text), loop: loop, rng: rng}
}

// Tick advances one frame and returns the display string.
func (d *Decrypter) Tick(now time.Time) string {
	if d.done {
		if !d.loop || now.Sub(d.doneAt) < LoopDelay {
			return d.display
		}
		d.step, d.done = 0, false
	}

	out := make([]rune, len(d.text))
	for i, r := range d.text {
		if i*ticksPerChar < d.step {
			out[i] = r
			continue
		}
		out[i] = rune(Glyphs[d.rng.Intn(len(Glyphs))])
	}
	d.display = string(out)

	if d.step >= ticksPerChar*len(d.text) {
		d.done, d.doneAt = true, now
	}
	d.step++
	return d.display
}

// String is the current display, or the plain text before the first tick.
func (d *Decrypter) String() string {
	if d.display == "" {
		return string(d.text)
	}
	return d.display
}

// Done reports whether the text is fully revealed and not restarting yet.
func (d *Decrypter) Done() bool { return d.done }

// Text is the target string.
func (d *Decrypter) Text() string { return string(d.text) }
