package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/sim"
)

func TestProjectTurnsInputUpToScreenUp(t *testing.T) {
	cam := Camera{Scale: 10, Width: 200, Height: 100}

	tests := []struct {
		name   string
		input  mgl64.Vec2
		wantDx float64
		wantDy float64
	}{
		{"up", mgl64.Vec2{0, 1}, 0, -10},
		{"right", mgl64.Vec2{1, 0}, 10, 0},
		{"down", mgl64.Vec2{0, -1}, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The controller's world direction for this input.
			s := math.Sqrt2 / 2
			x, z := tt.input.X(), tt.input.Y()
			dir := mgl64.Vec3{x*s + z*s, 0, -x*s + z*s}

			px, py := cam.Project(dir)
			if math.Abs(float64(px)-100-tt.wantDx) > 1e-4 || math.Abs(float64(py)-50-tt.wantDy) > 1e-4 {
				t.Fatalf("Project(%v) = (%v,%v), want offset (%v,%v)", dir, px, py, tt.wantDx, tt.wantDy)
			}
		})
	}
}

func TestProjectLiftsHeight(t *testing.T) {
	cam := Camera{Scale: 10, Width: 100, Height: 100}
	_, ground := cam.Project(mgl64.Vec3{})
	_, lifted := cam.Project(mgl64.Vec3{0, 2, 0})
	if lifted != ground-10 {
		t.Fatalf("lifted y = %v, want %v", lifted, ground-10)
	}
}

func TestClassify(t *testing.T) {
	floor, err := physics.NewBox("floor", physics.LayerGround, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 0, 1})
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	pond, err := physics.NewBox("pond", physics.LayerWater, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 0, 1})
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	steep, err := physics.NewRamp(physics.RampSpec{Name: "steep", Layer: physics.LayerGround, HalfX: 1, HalfZ: 1, AngleDeg: 60})
	if err != nil {
		t.Fatalf("NewRamp: %v", err)
	}

	tuning := locomotion.DefaultTuning()
	tests := []struct {
		surface physics.Surface
		want    Kind
	}{
		{floor, KindWalkable},
		{pond, KindNotGround},
		{steep, KindSteep},
	}
	for _, tt := range tests {
		if got := Classify(tt.surface, tuning); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.surface.Name(), got, tt.want)
		}
	}
}

func TestOutline(t *testing.T) {
	box, err := physics.NewBox("box", physics.LayerGround, mgl64.Vec3{-1, -2, -3}, mgl64.Vec3{1, 0.5, 3})
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	corners, ok := Outline(box)
	if !ok {
		t.Fatal("box outline not supported")
	}
	if corners[0] != (mgl64.Vec3{-1, 0.5, -3}) || corners[2] != (mgl64.Vec3{1, 0.5, 3}) {
		t.Fatalf("box outline = %v", corners)
	}

	ramp, err := physics.NewRamp(physics.RampSpec{
		Name: "ramp", Layer: physics.LayerGround, Center: mgl64.Vec3{0, 1, 0},
		HalfX: 1, HalfZ: 1, AngleDeg: 45, DownhillYawDeg: 90,
	})
	if err != nil {
		t.Fatalf("NewRamp: %v", err)
	}
	corners, ok = Outline(ramp)
	if !ok {
		t.Fatal("ramp outline not supported")
	}
	// Downhill toward +X: the -X edge is high, the +X edge low.
	if math.Abs(corners[0].Y()-2) > 1e-9 || math.Abs(corners[1].Y()) > 1e-9 {
		t.Fatalf("ramp outline heights = %v", corners)
	}
}

func TestStickVector(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want mgl64.Vec2
	}{
		{"inside dead zone", 0.1, 0.1, mgl64.Vec2{}},
		{"full up", 0, -1, mgl64.Vec2{0, 1}},
		{"full right", 1, 0, mgl64.Vec2{1, 0}},
		{"half right rescaled", 0.6, 0, mgl64.Vec2{0.5, 0}},
		{"corner clamped", 1, 1, mgl64.Vec2{math.Sqrt2 / 2, -math.Sqrt2 / 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StickVector(tt.x, tt.y, 0.2)
			if !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Fatalf("StickVector(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestHUDLines(t *testing.T) {
	snap := sim.Snapshot{
		Position: mgl64.Vec3{1, 2, 3},
		Anim:     "walk",
		Speed:    4.5,
		Controller: locomotion.State{
			Grounded: true,
			Jumps:    2,
		},
	}
	text := strings.Join(HUDLines(snap, 60), "\n")
	for _, want := range []string{"anim walk", "jumps 2", "ground true", "tps 60"} {
		if !strings.Contains(text, want) {
			t.Errorf("HUD %q missing %q", text, want)
		}
	}
}
