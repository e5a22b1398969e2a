package viz

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/attsim/internal/attitude"
	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/physics"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 300
	frameRate       = 30
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Name      string
	Dt        float64
	Normalize bool
	SigmaRef  attitude.Vec3
	// Box is the half extents of the drawn body; zero derives them from the
	// model inertia when available.
	Box      attitude.Vec3
	GIFPath  string
	SVGPath  string
	Duration float64
}

type tunable struct {
	target  dynamo.Configurable
	initial float64
}

// Model is the Bubble Tea model of the live attitude view.
type Model struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	controller dynamo.Controller
	opts       Options

	state, initialState dynamo.State
	u                   dynamo.Control
	t                   float64
	stepsPerFrame       int
	steps               int
	switches            int

	canvas *Canvas
	camera *Camera
	box    attitude.Vec3

	params    map[string]tunable
	paramKeys []string
	selected  int

	rateHistory  []float64
	errorHistory []float64

	running   bool
	showHelp  bool
	recorder  *Recorder
	recording bool
	status    string
	err       error
}

// NewModel prepares a live view of dyn starting from x0.
func NewModel(dyn dynamo.System, integ dynamo.Integrator, ctrl dynamo.Controller, x0 dynamo.State, opts Options) *Model {
	m := &Model{
		dyn:           dyn,
		integrator:    integ,
		controller:    ctrl,
		opts:          opts,
		state:         x0.Clone(),
		initialState:  x0.Clone(),
		u:             make(dynamo.Control, dyn.ControlDim()),
		stepsPerFrame: 1,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		box:           opts.Box,
		params:        make(map[string]tunable),
		rateHistory:   make([]float64, 0, historyCapacity),
		errorHistory:  make([]float64, 0, historyCapacity),
		running:       true,
		recorder:      NewRecorder(),
	}
	if m.box == (attitude.Vec3{}) {
		m.box = attitude.Vec3{1, 0.7, 0.5}
		if in, ok := dyn.(interface{ InertiaMatrix() attitude.Mat3 }); ok {
			m.box = BoxFromInertia(in.InertiaMatrix())
		}
	}
	if m.opts.GIFPath == "" {
		m.opts.GIFPath = "attitude.gif"
	}
	if m.opts.SVGPath == "" {
		m.opts.SVGPath = "attitude.svg"
	}

	for _, target := range []any{ctrl, dyn} {
		c, ok := target.(dynamo.Configurable)
		if !ok {
			continue
		}
		for k, v := range c.GetParams() {
			if _, taken := m.params[k]; !taken {
				m.params[k] = tunable{target: c, initial: v}
				m.paramKeys = append(m.paramKeys, k)
			}
		}
	}
	sort.Strings(m.paramKeys)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case ">", ".":
			m.stepsPerFrame = min(m.stepsPerFrame*2, 256)
		case "<", ",":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "g":
			m.toggleRecording()
		case "s":
			m.status = m.saveSVG()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPerFrame; i++ {
				if !m.step() {
					break
				}
			}
		}
		m.draw()
		if m.recording {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// step advances one sample and reports whether the view should keep going.
func (m *Model) step() bool {
	if m.opts.Duration > 0 && m.t >= m.opts.Duration {
		m.running = false
		return false
	}

	m.u = m.controller.Compute(m.state, m.t)
	next := m.integrator.Step(m.dyn, m.state, m.u, m.t, m.opts.Dt)
	if !next.IsValid() {
		m.err = &dynamo.SimulationError{Step: m.steps, Time: m.t, State: m.state.Clone(), Wrapped: dynamo.ErrInvalidState}
		return false
	}
	if m.opts.Normalize {
		if n, ok := m.dyn.(dynamo.Normalizer); ok {
			normalized := n.Normalize(next)
			if normalized[0] != next[0] || normalized[1] != next[1] || normalized[2] != next[2] {
				m.switches++
			}
			next = normalized
		}
	}
	m.state = next
	m.t += m.opts.Dt
	m.steps++

	s := physics.ToAttitude(m.state)
	m.rateHistory = pushBounded(m.rateHistory, s.Omega().Norm())
	m.errorHistory = pushBounded(m.errorHistory, m.pointingError(s.Sigma()))
	return true
}

func pushBounded(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) pointingError(sigma attitude.Vec3) float64 {
	return attitude.PrincipalAngle(attitude.Short(attitude.Relative(sigma, m.opts.SigmaRef))) * 180 / math.Pi
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	p := m.params[key]
	val := p.target.GetParams()[key]
	if val == 0 {
		val = 1e-3
	}
	if err := p.target.SetParam(key, val*factor); err != nil {
		m.status = err.Error()
	}
}

// reset restores the initial state and parameters.
func (m *Model) reset() {
	m.t = 0
	m.steps = 0
	m.switches = 0
	m.err = nil
	m.running = true
	m.state = m.initialState.Clone()
	m.u = make(dynamo.Control, m.dyn.ControlDim())
	m.rateHistory = m.rateHistory[:0]
	m.errorHistory = m.errorHistory[:0]
	for k, p := range m.params {
		p.target.SetParam(k, p.initial)
	}
	m.status = ""
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.status = "recording"
		return
	}
	m.recording = false
	m.status = m.saveGIF()
}

func (m *Model) saveGIF() string {
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		return err.Error()
	}
	defer f.Close()
	if err := m.recorder.Encode(f); err != nil {
		return err.Error()
	}
	return "saved " + m.opts.GIFPath
}

func (m *Model) saveSVG() string {
	f, err := os.Create(m.opts.SVGPath)
	if err != nil {
		return err.Error()
	}
	defer f.Close()
	if err := WriteCanvasSVG(f, m.canvas, 4); err != nil {
		return err.Error()
	}
	return "saved " + m.opts.SVGPath
}

func (m *Model) draw() {
	DrawAttitude(m.canvas, m.camera, m.box, physics.ToAttitude(m.state).Sigma())
}

// Time returns the simulated time shown by the view.
func (m *Model) Time() float64 { return m.t }

// State returns the current state.
func (m *Model) State() dynamo.State { return m.state.Clone() }

// Err returns the error that stopped propagation, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) View() string {
	s := physics.ToAttitude(m.state)
	sigma, omega := s.Sigma(), s.Omega()

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(m.opts.Name)) + "\n")

	status := statusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = statusRecording.Render("DIVERGED")
	case m.recording:
		status = statusRecording.Render("● REC")
	case !m.running:
		status = statusPaused.Render("PAUSED")
	}
	b.WriteString(fmt.Sprintf("%s  x%d\n\n", status, m.stepsPerFrame))

	if len(m.rateHistory) > 1 {
		chart := asciigraph.Plot(m.rateHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("|ω| rad/s"))
		b.WriteString(graphStyle.Render(chart) + "\n")
		chart = asciigraph.Plot(m.errorHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("error deg"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.1fs", m.t))
	row("σ", fmt.Sprintf("[% .4f % .4f % .4f]", sigma[0], sigma[1], sigma[2]))
	row("ω", fmt.Sprintf("[% .4f % .4f % .4f]", omega[0], omega[1], omega[2]))
	row("Error", fmt.Sprintf("%.3f°", m.pointingError(sigma)))
	if e, ok := m.dyn.(dynamo.Hamiltonian); ok {
		row("Energy", fmt.Sprintf("%.6f J", e.Energy(m.state)))
	}
	row("Torque", fmt.Sprintf("%.4f N·m", dynamo.State(m.u).Norm()))
	row("Switches", fmt.Sprintf("%d", m.switches))

	b.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		b.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		p := m.params[k]
		val := p.target.GetParams()[k]
		line := fmt.Sprintf("%-6s %s %.4g", k, paramBar(val, p.initial, 10), val)
		if i == m.selected {
			b.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	if m.status != "" {
		b.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(b.String()))
	if m.showHelp {
		help := strings.Join([]string{
			"Space    pause / resume",
			"R        reset state and parameters",
			"Tab      select parameter",
			"↑ ↓      scale parameter ±5%",
			"< >      halve / double speed",
			"x X y Y  rotate camera",
			"+ -      zoom",
			"G        start / stop GIF recording",
			"S        save the current frame as SVG",
			"Q        quit",
		}, "\n")
		return helpPanel.Render(help) + "\n" + mainView
	}
	return mainView
}

// Run starts the live view on the terminal and blocks until it exits.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		return err
	}
	return m.Err()
}
