// Package viewer renders a session in a window with ebiten and feeds it
// keyboard and gamepad input.
package viewer

import (
	"context"
	"image/color"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/sim"
	"github.com/Versifine/stride/internal/viewer/scene"
)

const (
	ScreenWidth  = 960
	ScreenHeight = 640

	pixelsPerUnit = 24
	stickDeadzone = 0.2
	bodyRadius    = 0.5
)

var (
	hudFont = text.NewGoXFace(basicfont.Face7x13)

	backgroundColor = color.RGBA{24, 26, 32, 255}
	walkableColor   = color.RGBA{90, 160, 110, 255}
	steepColor      = color.RGBA{210, 110, 80, 255}
	otherColor      = color.RGBA{70, 110, 190, 255}
	bodyColor       = color.RGBA{240, 200, 90, 255}
	shadowColor     = color.RGBA{0, 0, 0, 110}
	facingColor     = color.RGBA{255, 255, 255, 255}
	probeOnColor    = color.RGBA{120, 240, 120, 255}
	probeOffColor   = color.RGBA{150, 150, 150, 255}
	hudColor        = color.RGBA{220, 230, 240, 255}
)

// Game implements ebiten.Game over a session. Update advances the session
// by one tick, so the simulation runs on ebiten's update goroutine.
type Game struct {
	ctx     context.Context
	session *sim.Session
	spawn   mgl64.Vec3
	camera  scene.Camera
	gamepad []ebiten.GamepadID
}

func NewGame(ctx context.Context, session *sim.Session) *Game {
	return &Game{
		ctx:     ctx,
		session: session,
		spawn:   session.Body.Position(),
		camera: scene.Camera{
			Scale:  pixelsPerUnit,
			Width:  ScreenWidth,
			Height: ScreenHeight,
		},
	}
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, session *sim.Session) error {
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("stride")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetTPS(session.Config.Loop.FrameRate)

	return ebiten.RunGame(NewGame(ctx, session))
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.session.Keys.Update(g.moveVector())
	if g.jumpPressed() {
		g.session.Input.Jump()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Teleport(g.spawn)
	}

	g.session.Loop.Advance(1 / float64(ebiten.TPS()))
	g.camera.Center = g.session.Body.Position()
	return nil
}

// moveVector prefers a deflected stick over the keyboard.
func (g *Game) moveVector() mgl64.Vec2 {
	g.gamepad = ebiten.AppendGamepadIDs(g.gamepad[:0])
	for _, id := range g.gamepad {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		v := scene.StickVector(
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
			stickDeadzone,
		)
		if v != (mgl64.Vec2{}) {
			return v
		}
	}

	return input.Directions{
		Up:    ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:  ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:  ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right: ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}.Vector()
}

func (g *Game) jumpPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return true
	}
	for _, id := range g.gamepad {
		if ebiten.IsStandardGamepadLayoutAvailable(id) &&
			inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			return true
		}
	}
	return false
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	tuning := g.session.Controller.Tuning()
	for _, s := range g.session.World.Surfaces() {
		g.drawSurface(screen, s, tuning)
	}
	g.drawCharacter(screen)

	y := 8
	for _, line := range scene.HUDLines(g.session.Snapshot(), ebiten.ActualTPS()) {
		drawText(screen, 8, y, line, hudColor)
		y += 16
	}
}

func (g *Game) drawSurface(screen *ebiten.Image, s physics.Surface, tuning locomotion.Tuning) {
	corners, ok := scene.Outline(s)
	if !ok {
		slog.Debug("Viewer cannot draw surface", "surface", s.Name())
		return
	}
	clr := surfaceColor(scene.Classify(s, tuning))
	for i := range corners {
		x0, y0 := g.camera.Project(corners[i])
		x1, y1 := g.camera.Project(corners[(i+1)%len(corners)])
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, clr, true)
	}

	if ramp, ok := s.(*physics.Ramp); ok {
		c := ramp.Spec().Center
		tip := c.Add(ramp.Downhill())
		if h, ok := ramp.HeightAt(tip.X(), tip.Z()); ok {
			tip[1] = h
		}
		x0, y0 := g.camera.Project(c)
		x1, y1 := g.camera.Project(tip)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
	}
	lx, ly := g.camera.Project(corners[0])
	drawText(screen, int(lx)+4, int(ly)+4, s.Name(), clr)
}

func (g *Game) drawCharacter(screen *ebiten.Image) {
	snap := g.session.Snapshot()
	r := float32(bodyRadius * pixelsPerUnit)

	feet := g.session.Body.Feet()
	sx, sy := g.camera.Project(feet)
	vector.DrawFilledCircle(screen, sx, sy, r, shadowColor, true)

	probe, radius := g.session.Controller.GroundProbe()
	px, py := g.camera.Project(probe)
	probeColor := probeOffColor
	if snap.Controller.Grounded {
		probeColor = probeOnColor
	}
	vector.StrokeCircle(screen, px, py, float32(radius*pixelsPerUnit), 1, probeColor, true)

	bx, by := g.camera.Project(snap.Position)
	vector.DrawFilledCircle(screen, bx, by, r, bodyColor, true)

	fx, fy := g.camera.Project(snap.Position.Add(snap.Facing.Mul(bodyRadius * 1.6)))
	vector.StrokeLine(screen, bx, by, fx, fy, 2, facingColor, true)

	if snap.Controller.Sliding {
		drawText(screen, int(bx)+int(r)+4, int(by)-6, "slide", steepColor)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func surfaceColor(k scene.Kind) color.Color {
	switch k {
	case scene.KindWalkable:
		return walkableColor
	case scene.KindSteep:
		return steepColor
	default:
		return otherColor
	}
}

func drawText(screen *ebiten.Image, x, y int, msg string, clr color.Color) {
	options := &text.DrawOptions{}
	options.GeoM.Translate(float64(x), float64(y))
	options.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, msg, hudFont, options)
}
