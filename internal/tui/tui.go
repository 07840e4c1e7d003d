// Package tui plays the race in a terminal. Terminals report key presses
// but not releases, so a press holds its control for a short window.
package tui

import (
	"context"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"crazycars/internal/assets"
	"crazycars/internal/race"
	"crazycars/internal/view"
)

const DefaultKeyHold = 150 * time.Millisecond

type Options struct {
	FPS     int
	KeyHold time.Duration
	Log     *zap.Logger
}

type control int

const (
	ctrlLeft control = iota
	ctrlRight
	ctrlForward
	ctrlBackward
)

// App drives a race.World from terminal input and draws it on a tcell screen.
type App struct {
	screen tcell.Screen
	world  *race.World
	bundle *assets.Bundle
	opts   Options
	log    *zap.Logger

	board  *board
	held   [4]time.Time // control released after this instant
	anyKey bool
	now    func() time.Time
}

func New(screen tcell.Screen, world *race.World, b *assets.Bundle, opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.KeyHold <= 0 {
		opts.KeyHold = DefaultKeyHold
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		screen: screen,
		world:  world,
		bundle: b,
		opts:   opts,
		log:    log,
		now:    time.Now,
	}
}

// Run ticks the world at FPS until ctx is done or a quit key is pressed.
// The screen must already be initialized; the caller finalizes it.
func (a *App) Run(ctx context.Context) error {
	a.screen.HideCursor()
	a.resize()

	events := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	tick := time.NewTicker(time.Second / time.Duration(a.opts.FPS))
	defer tick.Stop()

	a.log.Info("terminal race started", zap.Int("fps", a.opts.FPS), zap.Duration("keyHold", a.opts.KeyHold))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				a.resize()
			case *tcell.EventKey:
				if a.HandleKey(e) {
					a.log.Info("quit requested")
					return nil
				}
			}
		case <-tick.C:
			a.world.Tick(a.Input())
			a.Render()
		}
	}
}

func (a *App) resize() {
	w, h := a.screen.Size()
	a.board = newBoard(a.bundle, w, h-hudRows)
	a.screen.Sync()
}

// HandleKey records a key press and reports whether it asks to quit.
func (a *App) HandleKey(e *tcell.EventKey) bool {
	if isQuit(e) {
		return true
	}
	a.anyKey = true
	until := a.now().Add(a.opts.KeyHold)
	if c, ok := controlOf(e); ok {
		a.held[c] = until
	}
	return false
}

func isQuit(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		r := e.Rune()
		return r == 'q' || r == 'Q'
	}
	return false
}

func controlOf(e *tcell.EventKey) (control, bool) {
	switch e.Key() {
	case tcell.KeyLeft:
		return ctrlLeft, true
	case tcell.KeyRight:
		return ctrlRight, true
	case tcell.KeyUp:
		return ctrlForward, true
	case tcell.KeyDown:
		return ctrlBackward, true
	case tcell.KeyRune:
		switch e.Rune() {
		case 'a', 'A':
			return ctrlLeft, true
		case 'd', 'D':
			return ctrlRight, true
		case 'w', 'W':
			return ctrlForward, true
		case 's', 'S':
			return ctrlBackward, true
		}
	}
	return 0, false
}

// Input returns the controls held at this instant and consumes the
// pending key press.
func (a *App) Input() race.Input {
	now := a.now()
	held := func(c control) bool { return now.Before(a.held[c]) }
	in := race.Input{
		Controls: race.Controls{
			Left:     held(ctrlLeft),
			Right:    held(ctrlRight),
			Forward:  held(ctrlForward),
			Backward: held(ctrlBackward),
		},
		AnyKey: a.anyKey,
	}
	a.anyKey = false
	return in
}

// Render draws the current snapshot.
func (a *App) Render() {
	if a.board == nil {
		a.resize()
	}
	s := a.screen
	s.Clear()
	bd := a.board
	for row := 0; row < bd.rows; row++ {
		for col := 0; col < bd.cols; col++ {
			s.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(bd.at(col, row)))
		}
	}

	snap := a.world.Snapshot()
	drawCar(s, bd, snap.Computer, bd.computerSize, tcell.ColorMediumPurple)
	drawCar(s, bd, snap.Player, bd.playerSize, tcell.ColorRed)

	hud := view.NewHUD(snap)
	_, h := s.Size()
	stats := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	x := 0
	for _, line := range hud.Stats() {
		drawText(s, x, h-1, line, stats)
		x += len([]rune(line)) + 3
	}

	if hud.Banner != "" {
		banner := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true)
		drawCentered(s, bd.cols/2, bd.rows/2, hud.Banner, banner)
		if hud.Hint != "" {
			drawCentered(s, bd.cols/2, bd.rows/2+1, hud.Hint, stats)
		}
	}
	s.Show()
}

const hudRows = 1

func drawCar(s tcell.Screen, bd *board, p race.Pose, size image.Point, fg tcell.Color) {
	col, row := bd.cellOf(p, size)
	st := tcell.StyleDefault.Foreground(fg).Background(bd.at(col, row)).Bold(true)
	s.SetContent(col, row, Arrow(p.Heading), nil, st)
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for i, ch := range []rune(text) {
		s.SetContent(x+i, y, ch, nil, st)
	}
}

func drawCentered(s tcell.Screen, cx, cy int, text string, st tcell.Style) {
	drawText(s, cx-len([]rune(text))/2, cy, text, st)
}
