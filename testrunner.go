package folio

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `yaml:"action" json:"action"`
	Label  string  `yaml:"label,omitempty" json:"label,omitempty"`
	X      float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty" json:"y,omitempty"`
	ToX    float64 `yaml:"toX,omitempty" json:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty" json:"toY,omitempty"`
	DY     float64 `yaml:"dy,omitempty" json:"dy,omitempty"`
	Frames int     `yaml:"frames,omitempty" json:"frames,omitempty"`
}

// testScript is the top-level structure for a test script.
type testScript struct {
	Steps []testStep `yaml:"steps" json:"steps"`
}

// Recognized test script actions.
const (
	actionMove       = "move"       // pointer to (x, y), or along a path to (toX, toY) over frames
	actionLeave      = "leave"      // pointer out of the window
	actionScroll     = "scroll"     // scroll the primary camera by dy
	actionWait       = "wait"       // idle for frames
	actionScreenshot = "screenshot" // capture with label
)

// TestRunner sequences injected input events and screenshots across frames
// for automated visual testing. Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a YAML (or JSON) test script and returns a TestRunner
// ready to be attached to a Scene via SetTestRunner.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case actionMove, actionLeave, actionScroll, actionWait, actionScreenshot:
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called from Scene.Step before input is processed each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Scene.Step.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case actionScreenshot:
		s.Screenshot(st.Label)
	case actionMove:
		if st.Frames > 1 {
			s.InjectPath(st.X, st.Y, st.ToX, st.ToY, st.Frames)
		} else {
			s.InjectMove(st.X, st.Y)
		}
	case actionLeave:
		s.InjectLeave()
	case actionScroll:
		s.InjectScroll(st.DY)
	case actionWait:
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
