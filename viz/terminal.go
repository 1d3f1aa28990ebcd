// Package viz draws the world model in a terminal once per turn.
package viz

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lab1702/tank-agent/agent"
	"github.com/lab1702/tank-agent/game"
)

var (
	styleEdge    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleSelf    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleObject  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSeen    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
	styleHeading = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

var glyphs = map[game.ObjectType]rune{
	game.ObjectTank:             'T',
	game.ObjectBullet:           '.',
	game.ObjectWall:             '#',
	game.ObjectDestructibleWall: '%',
	game.ObjectPowerup:          '+',
	game.ObjectUnknown:          '?',
}

// Terminal renders turns onto a tcell screen. It implements session.Observer.
type Terminal struct {
	screen tcell.Screen
}

// Open initializes the controlling terminal.
func Open() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return New(screen), nil
}

// New renders onto an initialized screen.
func New(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Observe draws the arena, every live object and a status line.
func (t *Terminal) Observe(turn int, w *game.World, a *agent.Agent, act game.Action) {
	t.screen.Clear()
	defer t.screen.Show()

	cols, rows := t.screen.Size()
	if cols < 2 || rows < 3 {
		return
	}
	width, height := w.Bounds()
	proj := projection{cols: cols, rows: rows - 1, width: width, height: height}

	if corners, err := w.Corners(w.ClosingBoundaryID()); err == nil {
		for _, pl := range agent.Planes {
			t.line(proj, corners[pl.From], corners[pl.To], '·', styleEdge)
		}
	}

	selfID, enemyID := a.IDs()
	seen := a.Detected()
	state := a.State()

	for id, obj := range w.All() {
		if obj.Type.IsBoundary() || id == selfID || id == enemyID {
			continue
		}
		style := styleObject
		if _, ok := seen[id]; ok {
			style = styleSeen
		}
		x, y := proj.cell(obj.Position.Anchor())
		t.screen.SetContent(x, y, glyphs[obj.Type], nil, style)
	}

	if enemy, ok := w.Get(enemyID); ok {
		x, y := proj.cell(enemy.Position.Anchor())
		t.screen.SetContent(x, y, 'E', nil, styleEnemy)
	}
	if self, ok := w.Get(selfID); ok {
		pos := self.Position.Anchor()
		if state.Path != nil {
			t.line(proj, pos, *state.Path, '~', styleHeading)
		}
		x, y := proj.cell(pos)
		t.screen.SetContent(x, y, '@', nil, styleSelf)
	}

	status := fmt.Sprintf("turn %d  %s  counter %d  seen %d  %s", turn, state.Mode, state.Counter, len(seen), act)
	t.text(0, rows-1, cols, status, styleStatus)
}

// line plots a straight segment between two world points.
func (t *Terminal) line(proj projection, from, to mgl64.Vec2, r rune, style tcell.Style) {
	steps := max(proj.cols, proj.rows)
	for i := 0; i <= steps; i++ {
		x, y := proj.cell(from.Add(to.Sub(from).Mul(float64(i) / float64(steps))))
		t.screen.SetContent(x, y, r, nil, style)
	}
}

func (t *Terminal) text(x, y, limit int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= limit {
			return
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// projection maps world coordinates, y up, onto screen cells, y down.
type projection struct {
	cols, rows    int
	width, height float64
}

func (p projection) cell(pt mgl64.Vec2) (int, int) {
	width, height := p.width, p.height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	x := int(pt.X()/width*float64(p.cols-1) + 0.5)
	y := int((height-pt.Y())/height*float64(p.rows-1) + 0.5)
	return clamp(x, 0, p.cols-1), clamp(y, 0, p.rows-1)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
