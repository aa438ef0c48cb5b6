package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// progress prints a single-line export status, redrawn in place. The export
// loop is sequential, so each Step renders inline — no background refresher
// — throttled so fast runs don't flood the terminal. The current item name
// rides along on the line.
type progress struct {
	out      io.Writer
	total    int
	done     int
	start    time.Time
	lastDraw time.Time
}

const progressBarWidth = 24

func newProgress(total int) *progress {
	return &progress{out: os.Stderr, total: total, start: time.Now()}
}

// Step records one finished item and redraws at most every 80ms, except
// that the last item always redraws.
func (p *progress) Step(name string) {
	p.done++
	now := time.Now()
	if p.done < p.total && now.Sub(p.lastDraw) < 80*time.Millisecond {
		return
	}
	p.lastDraw = now
	p.render(name)
}

// Finish completes the line with a summary of the whole run.
func (p *progress) Finish() {
	p.render("")
	fmt.Fprintf(p.out, "  %s\n", time.Since(p.start).Truncate(10*time.Millisecond))
}

// Interrupt ends the in-place line so error output starts cleanly.
func (p *progress) Interrupt() {
	fmt.Fprintln(p.out)
}

func (p *progress) render(name string) {
	filled := 0
	if p.total > 0 {
		filled = p.done * progressBarWidth / p.total
	}
	bar := strings.Repeat("=", filled)
	if filled < progressBarWidth {
		bar += ">" + strings.Repeat(" ", progressBarWidth-filled-1)
	}
	if len(name) > 32 {
		name = name[:29] + "..."
	}
	fmt.Fprintf(p.out, "\r[%s] %d/%d %-32s", bar, p.done, p.total, name)
}
