package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime/debug"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cespare/xxhash/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/detmath"
)

// Body is one gravitating sphere in the box
type Body struct {
	Pos, Vel detmath.Vec3
	Mass     detmath.Unit
	Color    rgb
}

type rgb struct {
	r, g, b int32
}

type projected struct {
	cx, cy, radius, depth float64
	index                 int
}

const (
	targetFPS   = 30
	framePeriod = time.Second / targetFPS
	hudRows     = 2
	maxBodies   = 8
	focalLen    = 14.0
)

var configPath = flag.String("config", "", "TOML scene file overriding the built-in scene")

var (
	boundsX    = detmath.FromInt(12)
	boundsY    = detmath.FromInt(8)
	boundsZMin = detmath.FromInt(4)
	boundsZMax = detmath.FromInt(28)
)

var bodyPalette = []rgb{
	{40, 180, 255}, // Cyan
	{255, 60, 120}, // Magenta
	{120, 255, 80}, // Lime
	{255, 200, 50}, // Amber
}

var audioReady bool

// --- Scene config ---

// sceneConfig is the TOML scene schema. Positions, velocities and masses are
// whole units; fractional tunables are raw Q17.15 encodings, so the scene
// file never contains a float.
type sceneConfig struct {
	Gravity     int32        `toml:"gravity"`
	Restitution int32        `toml:"restitution"`
	Timestep    int32        `toml:"timestep"`
	Softening   int32        `toml:"softening"`
	Bodies      []bodyConfig `toml:"body"`
}

type bodyConfig struct {
	Pos  [3]int32 `toml:"pos"`
	Vel  [3]int32 `toml:"vel"`
	Mass int32    `toml:"mass"`
}

// simParams holds the scene tunables as fixed-point values
type simParams struct {
	gravity     detmath.Unit
	restitution detmath.Unit
	dt          detmath.Unit
	softening   detmath.Unit
}

func defaultScene() sceneConfig {
	return sceneConfig{
		Gravity:     3 * detmath.HalfScale, // 1.5
		Restitution: 7 * detmath.Scale / 8, // 0.875
		Timestep:    detmath.Scale / targetFPS,
		Softening:   detmath.Scale,
		Bodies: []bodyConfig{
			{Pos: [3]int32{0, 0, 14}, Vel: [3]int32{0, 0, 0}, Mass: 16},
			{Pos: [3]int32{-7, 0, 14}, Vel: [3]int32{0, 2, 0}, Mass: 2},
			{Pos: [3]int32{6, 2, 14}, Vel: [3]int32{0, -2, 1}, Mass: 2},
			{Pos: [3]int32{0, -5, 20}, Vel: [3]int32{2, 0, -1}, Mass: 3},
		},
	}
}

// loadScene returns the built-in scene, overlaid with the TOML file at path
// when one is given. Keys absent from the file keep their defaults.
func loadScene(path string) (sceneConfig, error) {
	cfg := defaultScene()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file not found: %s", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config load failed: %w", err)
	}
	if err := validateScene(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateScene(cfg sceneConfig) error {
	if len(cfg.Bodies) < 2 || len(cfg.Bodies) > maxBodies {
		return fmt.Errorf("scene needs 2 to %d bodies, got %d", maxBodies, len(cfg.Bodies))
	}
	if cfg.Timestep <= 0 {
		return errors.New("timestep raw must be positive")
	}
	if cfg.Softening <= 0 {
		return errors.New("softening raw must be positive")
	}
	if cfg.Restitution < 0 || cfg.Restitution > detmath.Scale {
		return fmt.Errorf("restitution raw %d outside [0, %d]", cfg.Restitution, detmath.Scale)
	}
	for i, b := range cfg.Bodies {
		if b.Mass <= 0 || b.Mass > 1000 {
			return fmt.Errorf("body %d mass %d outside [1, 1000]", i+1, b.Mass)
		}
		// Squared pair distances must fit the scalar range on the first
		// tick, before the walls clamp positions into the box.
		for _, c := range b.Pos {
			if c < -60 || c > 60 {
				return fmt.Errorf("body %d position %d outside [-60, 60]", i+1, c)
			}
		}
		for _, c := range b.Vel {
			if c < -60 || c > 60 {
				return fmt.Errorf("body %d velocity %d outside [-60, 60]", i+1, c)
			}
		}
	}
	return nil
}

func sceneParams(cfg sceneConfig) simParams {
	return simParams{
		gravity:     detmath.FromRaw(cfg.Gravity),
		restitution: detmath.FromRaw(cfg.Restitution),
		dt:          detmath.FromRaw(cfg.Timestep),
		softening:   detmath.FromRaw(cfg.Softening),
	}
}

func buildBodies(cfg sceneConfig) []Body {
	bodies := make([]Body, len(cfg.Bodies))
	for i, bc := range cfg.Bodies {
		bodies[i] = Body{
			Pos:   detmath.V3(detmath.FromInt(bc.Pos[0]), detmath.FromInt(bc.Pos[1]), detmath.FromInt(bc.Pos[2])),
			Vel:   detmath.V3(detmath.FromInt(bc.Vel[0]), detmath.FromInt(bc.Vel[1]), detmath.FromInt(bc.Vel[2])),
			Mass:  detmath.FromInt(bc.Mass),
			Color: bodyPalette[i%len(bodyPalette)],
		}
	}
	return bodies
}

// --- Physics ---

func div(a, b detmath.Unit) detmath.Unit {
	q, err := a.Div(b)
	if err != nil {
		panic(err)
	}
	return q
}

func divScalar(v detmath.Vec3, s detmath.Unit) detmath.Vec3 {
	q, err := v.DivScalar(s)
	if err != nil {
		panic(err)
	}
	return q
}

func sqrt(u detmath.Unit) detmath.Unit {
	r, err := detmath.Sqrt(u)
	if err != nil {
		panic(err)
	}
	return r
}

// applyGravity applies one timestep of mutual attraction to the pair.
// Everything stays in fixed point; the softening term keeps the divisor
// away from zero when bodies overlap.
func applyGravity(a, b *Body, p simParams) {
	delta := b.Pos.Sub(a.Pos)
	distSq := delta.Dot(delta).Add(p.softening)
	dist := sqrt(distSq)
	n := divScalar(delta, dist)

	accelA := div(p.gravity.Mul(b.Mass), distSq)
	accelB := div(p.gravity.Mul(a.Mass), distSq)

	a.Vel = a.Vel.Add(n.MulScalar(accelA.Mul(p.dt)))
	b.Vel = b.Vel.Sub(n.MulScalar(accelB.Mul(p.dt)))
}

// reflectAxis clamps position and reflects velocity on boundary contact
func reflectAxis(pos, vel *detmath.Unit, lo, hi, e detmath.Unit) bool {
	if pos.Lt(lo) {
		*pos = lo
		if vel.LtRaw(0) {
			*vel = vel.Mul(e).Neg()
			return true
		}
	} else if pos.Gt(hi) {
		*pos = hi
		if vel.GtRaw(0) {
			*vel = vel.Mul(e).Neg()
			return true
		}
	}
	return false
}

func reflectBody(b *Body, e detmath.Unit) bool {
	hit := false
	if reflectAxis(&b.Pos.X, &b.Vel.X, boundsX.Neg(), boundsX, e) {
		hit = true
	}
	if reflectAxis(&b.Pos.Y, &b.Vel.Y, boundsY.Neg(), boundsY, e) {
		hit = true
	}
	if reflectAxis(&b.Pos.Z, &b.Vel.Z, boundsZMin, boundsZMax, e) {
		hit = true
	}
	return hit
}

// step advances the simulation by one fixed timestep. Wall time never enters
// the math, so every run of the same scene produces the same raw sequence.
func step(bodies []Body, p simParams) bool {
	// Pairwise attraction
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			applyGravity(&bodies[i], &bodies[j], p)
		}
	}

	// Integrate positions
	for i := range bodies {
		bodies[i].Pos = bodies[i].Pos.Add(bodies[i].Vel.MulScalar(p.dt))
	}

	// Boundary reflection per axis
	bounced := false
	for i := range bodies {
		if reflectBody(&bodies[i], p.restitution) {
			bounced = true
		}
	}
	return bounced
}

// --- State digest ---

// stateDigest hashes every body raw in order. Two terminals running the same
// scene show the same digest on the same tick, on any platform.
func stateDigest(bodies []Body) uint64 {
	d := xxhash.New()
	var buf [4]byte
	put := func(u detmath.Unit) {
		binary.LittleEndian.PutUint32(buf[:], uint32(u.Raw()))
		d.Write(buf[:])
	}
	for i := range bodies {
		put(bodies[i].Pos.X)
		put(bodies[i].Pos.Y)
		put(bodies[i].Pos.Z)
		put(bodies[i].Vel.X)
		put(bodies[i].Vel.Y)
		put(bodies[i].Vel.Z)
	}
	return d.Sum64()
}

// --- Projection ---

func visRadius(m detmath.Unit) float64 {
	return 0.55 * math.Cbrt(float64(m.Float32()))
}

func projectBody(b *Body, idx, screenW, screenH int) projected {
	p := b.Pos.Float32()

	denom := float64(p.Z) + focalLen
	if denom < 0.5 {
		denom = 0.5
	}
	invZ := focalLen / denom

	viewH := float64(screenH - hudRows)
	scale := viewH * 0.16

	return projected{
		cx:     float64(screenW)/2.0 + float64(p.X)*invZ*scale*2.0, // 2x for terminal cell aspect 1:2
		cy:     viewH/2.0 + float64(p.Y)*invZ*scale,
		radius: visRadius(b.Mass) * invZ * scale,
		depth:  float64(p.Z),
		index:  idx,
	}
}

// --- Rendering ---

func (c rgb) dim(f float64) tcell.Color {
	return tcell.NewRGBColor(int32(float64(c.r)*f), int32(float64(c.g)*f), int32(float64(c.b)*f))
}

func drawBody(s tcell.Screen, proj projected, c rgb, screenW, viewH int) {
	zMin := float64(boundsZMin.Float32())
	zMax := float64(boundsZMax.Float32())
	depthT := (proj.depth - zMin) / (zMax - zMin)
	depthT = math.Max(0, math.Min(1, depthT))
	style := tcell.StyleDefault.Foreground(c.dim(1.0 - 0.45*depthT))

	if proj.radius < 0.4 {
		x, y := int(proj.cx), int(proj.cy)
		if x >= 0 && x < screenW && y >= 0 && y < viewH {
			s.SetContent(x, y, '·', nil, style)
		}
		return
	}

	prX := proj.radius * 2.0
	prY := proj.radius
	minX := max(0, int(proj.cx-prX-1))
	maxX := min(screenW-1, int(proj.cx+prX+1))
	minY := max(0, int(proj.cy-prY-1))
	maxY := min(viewH-1, int(proj.cy+prY+1))

	for sy := minY; sy <= maxY; sy++ {
		for sx := minX; sx <= maxX; sx++ {
			nx := (float64(sx) + 0.5 - proj.cx) / (proj.radius * 2.0)
			ny := (float64(sy) + 0.5 - proj.cy) / proj.radius
			distSq := nx*nx + ny*ny
			if distSq > 1.0 {
				continue
			}
			ch := '█'
			if distSq > 0.55 {
				ch = '▓'
			}
			s.SetContent(sx, sy, ch, nil, style)
		}
	}
}

func drawFrame(s tcell.Screen, bodies []Body, w, h int, tick, digest uint64, paused, muted bool) {
	s.Clear()
	viewH := h - hudRows

	projs := make([]projected, len(bodies))
	for i := range bodies {
		projs[i] = projectBody(&bodies[i], i, w, h)
	}

	// Painter's algorithm: far to near
	sort.Slice(projs, func(i, j int) bool {
		return projs[i].depth > projs[j].depth
	})
	for _, pr := range projs {
		drawBody(s, pr, bodies[pr.index].Color, w, viewH)
	}

	drawHUD(s, w, h, tick, digest, paused, muted)
	if paused {
		drawReadout(s, bodies)
	}
	s.Show()
}

func drawHUD(s tcell.Screen, w, h int, tick, digest uint64, paused, muted bool) {
	statusY := h - 2
	controlY := h - 1
	dim := tcell.StyleDefault.Foreground(tcell.NewRGBColor(100, 100, 110))
	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	status := fmt.Sprintf("tick %-8d  state %016x", tick, digest)
	if muted || !audioReady {
		status += "  [MUTED]"
	}
	writeStr(s, 1, statusY, status, white)

	if paused {
		writeStr(s, w-9, statusY, "[PAUSED]", tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 200, 50)))
	}

	writeStr(s, 1, controlY, "space:pause  r:reset  m:mute  q:quit", dim)
}

// drawReadout prints exact body state while paused. The digits are the
// decimal expansion of the raw encodings, so matching digests mean matching
// readouts everywhere.
func drawReadout(s tcell.Screen, bodies []Body) {
	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dim := tcell.StyleDefault.Foreground(tcell.NewRGBColor(140, 140, 150))

	y := 1
	for i := range bodies {
		b := &bodies[i]
		writeStr(s, 2, y, fmt.Sprintf("body %d  mass %s", i+1, b.Mass), white)
		writeStr(s, 2, y+1, fmt.Sprintf("  pos (%s, %s, %s)", b.Pos.X, b.Pos.Y, b.Pos.Z), dim)
		writeStr(s, 2, y+2, fmt.Sprintf("  vel (%s, %s, %s)", b.Vel.X, b.Vel.Y, b.Vel.Z), dim)
		y += 4
	}
}

func writeStr(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// --- Audio ---

func initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		audioReady = true
	}
	return err
}

func playBounce() {
	if !audioReady {
		return
	}
	sampleRate := beep.SampleRate(44100)
	duration := sampleRate.N(50 * time.Millisecond)
	sine, _ := generators.SineTone(sampleRate, 660)
	speaker.Play(beep.Take(duration, sine))
}

// --- Main ---

func main() {
	flag.Parse()

	cfg, err := loadScene(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orbit-sandbox: %v\n", err)
		os.Exit(1)
	}
	params := sceneParams(cfg)
	bodies := buildBodies(cfg)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal init: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal init: %v\n", err)
		os.Exit(1)
	}
	defer cleanup(screen)

	// Panic recovery: restore the terminal before the stack trace hits stderr
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mORBIT-SANDBOX CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := initAudio(); err != nil {
		// Non-fatal, demo runs without sound
		log.Printf("Audio initialization failed: %v (continuing without audio)", err)
	}

	w, h := screen.Size()

	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()

	eventCh := startEventReader(screen)

	var tick uint64
	paused := false
	muted := false
	running := true

	for running {
		select {
		case <-ticker.C:
			// Drain input non-blocking
		drainInput:
			for {
				select {
				case ev, ok := <-eventCh:
					if !ok {
						running = false
						break drainInput
					}
					switch ev := ev.(type) {
					case *tcell.EventResize:
						w, h = screen.Size()
						screen.Sync()
						continue drainInput
					case *tcell.EventKey:
						switch {
						case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
							running = false
						case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
							running = false
						case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
							paused = !paused
						case ev.Key() == tcell.KeyRune && ev.Rune() == 'm':
							muted = !muted
						case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
							// Rebuilding from config reproduces the start
							// state exactly; the digest readout proves it
							bodies = buildBodies(cfg)
							tick = 0
						}
					}
				default:
					break drainInput
				}
			}

			if !paused {
				if step(bodies, params) && !muted {
					playBounce()
				}
				tick++
			}

			drawFrame(screen, bodies, w, h, tick, stateDigest(bodies), paused, muted)
		}
	}
}

func cleanup(s tcell.Screen) {
	if audioReady {
		speaker.Close()
	}
	s.Fini()
}

func startEventReader(s tcell.Screen) chan tcell.Event {
	ch := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				close(ch)
				return
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}()
	return ch
}
