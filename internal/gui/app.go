// Package gui is the raylib viewer: swinging metronomes with cluster-colored
// bobs and an optional ambient pad that opens up as the board locks.
package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/kurasim/internal/audio"
	"github.com/san-kum/kurasim/internal/cluster"
	"github.com/san-kum/kurasim/internal/kuramoto"
	"github.com/san-kum/kurasim/internal/sim"
)

var (
	colBg      = rl.NewColor(16, 16, 22, 255)
	colRod     = rl.NewColor(235, 235, 245, 255)
	colPin     = rl.NewColor(190, 190, 200, 255)
	colText    = rl.NewColor(240, 240, 240, 255)
	colTextDim = rl.NewColor(140, 140, 140, 255)
	colIdle    = rl.NewColor(150, 150, 160, 255)
	colLoose   = rl.NewColor(150, 150, 160, 255)

	clusterColors = []rl.Color{
		rl.NewColor(80, 200, 255, 255),
		rl.NewColor(255, 150, 80, 255),
		rl.NewColor(150, 255, 100, 255),
		rl.NewColor(255, 100, 200, 255),
		rl.NewColor(255, 228, 80, 255),
		rl.NewColor(100, 228, 255, 255),
		rl.NewColor(200, 150, 255, 255),
		rl.NewColor(255, 100, 100, 255),
	}
)

type App struct {
	runner   *sim.Runner
	layout   *kuramoto.GridLayout
	duration float64
	fps      int

	frame  sim.Frame
	paused bool
	done   bool
	err    error

	player *audio.Player
}

func NewApp(runner *sim.Runner, layout *kuramoto.GridLayout, duration float64, fps int, withAudio bool) *App {
	if fps <= 0 {
		fps = 30
	}
	a := &App{
		runner:   runner,
		layout:   layout,
		duration: duration,
		fps:      fps,
	}
	if withAudio {
		player := audio.NewPlayer()
		if err := player.Start(); err == nil {
			a.player = player
		}
	}
	return a
}

// Run owns the window loop until the run finishes or the window closes.
func (a *App) Run() error {
	rl.InitWindow(int32(kuramoto.BoardWidth), int32(kuramoto.BoardHeight), "kurasim")
	rl.SetTargetFPS(int32(a.fps))
	defer rl.CloseWindow()

	if a.player != nil {
		defer a.player.Stop()
	}

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			a.paused = !a.paused
		}

		if !a.paused && !a.done && a.err == nil {
			f, err := a.runner.Step()
			if err != nil {
				a.err = err
			} else {
				a.frame = f
				if a.player != nil {
					a.player.UpdateSync(f.R)
				}
				if a.runner.Time() >= a.duration {
					a.done = true
				}
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(colBg)
		a.drawBoard()
		a.drawHUD()
		rl.EndDrawing()
	}

	return a.err
}

func (a *App) drawBoard() {
	if a.frame.Phases == nil {
		return
	}
	for i := 0; i < a.layout.N; i++ {
		px := float32(a.layout.X[i])
		py := float32(a.layout.Y[i])
		bx, by := bobPosition(a.layout, i, a.frame.Phases[i])

		rl.DrawLineEx(rl.NewVector2(px, py-6), rl.NewVector2(px, py+6), 2, colPin)
		rl.DrawLineEx(rl.NewVector2(px, py), rl.NewVector2(bx, by), 3, colRod)
		rl.DrawCircleV(rl.NewVector2(bx, by), 8, a.bobColor(i))
	}
}

func (a *App) bobColor(i int) rl.Color {
	if !a.frame.Active[i] {
		return colIdle
	}
	id := a.frame.Clusters[i]
	if id == cluster.Unassigned {
		return colLoose
	}
	return clusterColors[id%len(clusterColors)]
}

func (a *App) drawHUD() {
	f := a.frame
	line1 := fmt.Sprintf("N=%d   K(t)=%.2f   t=%5.1fs", a.layout.N, f.K, f.T)
	line2 := fmt.Sprintf("order parameter r=%.3f   clusters=%d   active=%d", f.R, f.ClusterCount(), f.ActiveCount())
	rl.DrawText(line1, 20, 16, 20, colText)
	rl.DrawText(line2, 20, 40, 20, colText)

	if a.err != nil {
		rl.DrawText("error: "+a.err.Error(), 20, 64, 20, rl.Red)
	} else if a.done {
		rl.DrawText("run finished", 20, 64, 20, colTextDim)
	} else if a.paused {
		rl.DrawText("paused (space to resume)", 20, 64, 20, colTextDim)
	}
}

// bobPosition mirrors the small-angle swing mapping used by the SVG export:
// the display angle oscillates within +/-22 degrees as sin(theta).
func bobPosition(layout *kuramoto.GridLayout, i int, phase float64) (float32, float32) {
	const armLength = 70.0
	swing := 22.0 * math.Pi / 180 * math.Sin(phase)
	x := layout.X[i] + armLength*math.Sin(swing)
	y := layout.Y[i] + armLength*math.Cos(swing)
	return float32(x), float32(y)
}
