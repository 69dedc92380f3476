package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatetimer/hal"
	"gatetimer/timer/lcd"
	"gatetimer/timer/race"
)

type fakePin struct {
	name  string
	level bool
	err   error
}

func (p *fakePin) Name() string        { return p.name }
func (p *fakePin) Caps() hal.GPIOCaps  { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *fakePin) Read() (bool, error) { return p.level, p.err }
func (p *fakePin) Write(bool) error    { return errors.New("read only") }

func (p *fakePin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	if mode != hal.GPIOModeInput {
		return errors.New("input only")
	}
	return nil
}

type fakeGPIO []hal.GPIOPin

func (g fakeGPIO) PinCount() int          { return len(g) }
func (g fakeGPIO) Pin(id int) hal.GPIOPin { return g[id] }

type fakeBeeper struct {
	pulses []time.Duration
	err    error
}

func (b *fakeBeeper) Pulse(d time.Duration) { b.pulses = append(b.pulses, d) }

func (b *fakeBeeper) Poll() error {
	err := b.err
	b.err = nil
	return err
}

type lineLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLog) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *lineLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *lineLog) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeHAL struct {
	lcd  *lcd.DDRAM
	gpio fakeGPIO
	beep *fakeBeeper
	log  *lineLog
	pins map[string]*fakePin
}

func newFakeHAL() *fakeHAL {
	h := &fakeHAL{
		lcd:  lcd.NewDDRAM(lcd.Cols, lcd.Rows),
		beep: &fakeBeeper{},
		log:  &lineLog{},
		pins: map[string]*fakePin{},
	}
	for _, name := range []string{hal.PinEncoderClock, hal.PinEncoderData, hal.PinButton, hal.PinGate} {
		p := &fakePin{name: name, level: true}
		h.pins[name] = p
		h.gpio = append(h.gpio, p)
	}
	return h
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) Display() hal.Display { return h.lcd }
func (h *fakeHAL) Beeper() hal.Beeper   { return h.beep }
func (h *fakeHAL) GPIO() hal.GPIO       { return h.gpio }
func (h *fakeHAL) Clock() hal.Clock     { return fixedClock{t0} }

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

const poll = 10 * time.Millisecond

// rig steps a controller through simulated time.
type rig struct {
	t   *testing.T
	h   *fakeHAL
	c   *Controller
	now time.Time
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()
	h := newFakeHAL()
	c, err := NewController(h, cfg)
	require.NoError(t, err)
	return &rig{t: t, h: h, c: c, now: t0}
}

func (r *rig) frame(clock, data, button, gate bool) {
	r.t.Helper()
	r.h.pins[hal.PinEncoderClock].level = clock
	r.h.pins[hal.PinEncoderData].level = data
	r.h.pins[hal.PinButton].level = button
	r.h.pins[hal.PinGate].level = gate
	r.now = r.now.Add(poll)
	require.NoError(r.t, r.c.Step(r.now))
}

func (r *rig) idle(n int) {
	r.t.Helper()
	for i := 0; i < n; i++ {
		r.frame(true, true, true, true)
	}
}

func (r *rig) wait(d time.Duration) {
	r.t.Helper()
	r.idle(int(d / poll))
}

func (r *rig) next() {
	r.t.Helper()
	r.frame(true, false, true, true)
	r.frame(false, false, true, true)
	r.frame(true, true, true, true)
}

func (r *rig) prev() {
	r.t.Helper()
	r.frame(true, true, true, true)
	r.frame(false, true, true, true)
	r.frame(true, true, true, true)
}

func (r *rig) press() {
	r.t.Helper()
	r.frame(true, true, false, true)
	r.frame(true, true, false, true)
}

func (r *rig) release() {
	r.t.Helper()
	r.frame(true, true, true, true)
}

// holdButton keeps the button down for d.
func (r *rig) holdButton(d time.Duration) {
	r.t.Helper()
	for i := 0; i < int(d/poll); i++ {
		r.frame(true, true, false, true)
	}
}

func (r *rig) click() {
	r.t.Helper()
	r.press()
	r.release()
}

func (r *rig) gate() {
	r.t.Helper()
	r.frame(true, true, true, false)
	r.frame(true, true, true, false)
	r.frame(true, true, true, true)
}

func (r *rig) row(i int) string {
	rows, _ := r.h.lcd.Snapshot()
	return strings.TrimRight(rows[i], " ")
}

// waitRow idles until row i reads want, failing after limit.
func (r *rig) waitRow(i int, want string, limit time.Duration) {
	r.t.Helper()
	for waited := time.Duration(0); waited <= limit; waited += poll {
		if r.row(i) == want {
			return
		}
		r.idle(1)
	}
	rows, _ := r.h.lcd.Snapshot()
	r.t.Fatalf("row %d never became %q within %s; screen %q", i, want, limit, rows)
}

// selectItem moves the main menu cursor down n items and opens it.
func (r *rig) selectItem(n int) {
	r.t.Helper()
	for i := 0; i < n; i++ {
		r.next()
	}
	r.click()
	r.wait(DefaultConfig().SelectedHold)
}

func TestSplashWaitsForClick(t *testing.T) {
	r := newRig(t, Config{})
	assert.Equal(t, "  FPV DRONE GATE", r.row(1))
	assert.Equal(t, " Click to Start...", r.row(2))

	r.next()
	r.idle(100)
	assert.Equal(t, focusSplash, r.c.focus)

	r.click()
	assert.Equal(t, focusMenu, r.c.focus)
	assert.Equal(t, "> Start Race", r.row(0))
}

func TestMenuPagingAndWrap(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	assert.Equal(t, "> Start Race", r.row(0))
	assert.Equal(t, "  View Results", r.row(1))
	assert.Equal(t, "  Reset Timer", r.row(2))
	assert.Equal(t, "  Settings", r.row(3))

	r.prev()
	assert.Equal(t, "> Exit", r.row(0))
	assert.Equal(t, "", r.row(1))

	r.next()
	assert.Equal(t, "> Start Race", r.row(0))
	r.next()
	assert.Equal(t, "  Start Race", r.row(0))
	assert.Equal(t, "> View Results", r.row(1))
}

func TestSelectedNotice(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	r.next()
	r.next()
	r.click()
	assert.Equal(t, "Selected: Reset Time", r.row(1), "cut at the right edge")
	assert.Equal(t, focusNotice, r.c.focus)
	assert.True(t, r.h.log.contains("menu: selected Reset Timer"))

	// The knob is ignored while the notice is up.
	r.next()
	r.wait(DefaultConfig().SelectedHold)
	assert.Equal(t, "Timer Reset.", r.row(0))
	r.waitRow(2, "> Reset Timer", DefaultConfig().ResetHold+poll)
}

func TestViewResultsWithoutRace(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	r.selectItem(1)
	assert.Equal(t, "No Results Yet.", r.row(0))
	r.waitRow(1, "> View Results", DefaultConfig().NoResultsHold+poll)
	assert.Equal(t, focusMenu, r.c.focus)
}

func TestExitReturnsToSplash(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	r.selectItem(4)
	assert.Equal(t, focusSplash, r.c.focus)
	assert.Equal(t, "  FPV DRONE GATE", r.row(1))
}

// runLapRace starts a race from the main menu and crosses the gate laps
// times, each gap after the banner hold.
func runLapRace(r *rig, laps int, gap time.Duration) {
	r.t.Helper()
	r.selectItem(0)
	r.waitRow(1, "  Starting in 10...", 2*poll)
	r.waitRow(1, "    GO!", 11*time.Second)
	r.waitRow(0, "Lap: 0/3", 2*time.Second)
	for i := 0; i < laps; i++ {
		r.wait(gap)
		r.gate()
	}
}

func TestLapRace(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	r.selectItem(0)
	require.Equal(t, focusRace, r.c.focus)

	r.waitRow(1, "  Starting in 10...", 2*poll)
	r.waitRow(1, "  Starting in 1...", 10*time.Second)
	r.waitRow(1, "    GO!", 2*time.Second)
	r.waitRow(0, "Lap: 0/3", 2*time.Second)
	assert.True(t, strings.HasPrefix(r.row(1), "Time: "))

	// Button presses do not abort a race.
	r.click()
	assert.Equal(t, focusRace, r.c.focus)

	r.wait(3 * time.Second)
	r.gate()
	s := r.c.Session()
	require.Len(t, s.LapTimes, 1)
	assert.Equal(t, fmt.Sprintf("Lap 1: %.2fs", s.LapTimes[0].Seconds()), r.row(0))
	assert.Equal(t, fmt.Sprintf("Best: %.2fs", s.LapTimes[0].Seconds()), r.row(1))
	assert.Len(t, r.h.beep.pulses, 1)

	r.waitRow(0, "Lap: 1/3", DefaultConfig().Timing.LapHold+poll)

	r.wait(2 * time.Second)
	r.gate()
	r.wait(3 * time.Second)
	r.gate()

	s = r.c.Session()
	require.Len(t, s.LapTimes, 3)
	assert.Equal(t, fmt.Sprintf("Lap 3: %.2fs", s.LapTimes[2].Seconds()), r.row(0))
	r.waitRow(0, "Race Complete!", DefaultConfig().Timing.LapHold+poll)
	r.waitRow(0, "> Start Race", DefaultConfig().Timing.CompleteHold+poll)
	assert.Equal(t, focusMenu, r.c.focus)
	assert.Len(t, r.h.beep.pulses, 3)
	assert.True(t, r.h.log.contains("race: complete after 3 laps"))
}

func TestResultsAfterRace(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	runLapRace(r, 3, 3*time.Second)
	r.waitRow(0, "> Start Race", 10*time.Second)

	r.selectItem(1)
	require.Equal(t, focusResults, r.c.focus)
	s := r.c.Session()
	var total time.Duration
	for _, d := range s.LapTimes {
		total += d
	}
	assert.Equal(t, fmt.Sprintf("Total: %.3fs", total.Seconds()), r.row(0))
	assert.Equal(t, fmt.Sprintf("1. %.3fs", s.LapTimes[0].Seconds()), r.row(1))
	assert.Equal(t, fmt.Sprintf("2. %.3fs", s.LapTimes[1].Seconds()), r.row(2))
	assert.Equal(t, "> Back to Menu", r.row(3))

	r.click()
	assert.Equal(t, focusMenu, r.c.focus)
}

func TestResultsNeedArmedRelease(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	runLapRace(r, 3, 3*time.Second)
	r.waitRow(0, "> Start Race", 10*time.Second)

	r.next()
	r.press()
	r.holdButton(DefaultConfig().SelectedHold)
	require.Equal(t, focusResults, r.c.focus)

	// The press that opened the screen is released here.
	r.release()
	assert.Equal(t, focusResults, r.c.focus)

	r.press()
	assert.Equal(t, focusResults, r.c.focus)
	r.release()
	assert.Equal(t, focusMenu, r.c.focus)
}

func TestResultsPaging(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true, Initial: race.Config{Mode: race.ModeTimeTrial, LapGoal: 3, TimeTrialSeconds: 30}})
	r.selectItem(0)
	r.waitRow(0, "Time Left:   30s", 12*time.Second)
	for i := 0; i < 5; i++ {
		r.wait(2 * time.Second)
		r.gate()
	}
	r.waitRow(0, "Time's up!", 30*time.Second)
	assert.Equal(t, "Laps: 5", r.row(1))
	r.waitRow(0, "> Start Race", DefaultConfig().Timing.TimeUpHold+poll)

	r.selectItem(1)
	require.Equal(t, focusResults, r.c.focus)
	assert.True(t, strings.HasPrefix(r.row(1), "1. "))
	assert.True(t, strings.HasPrefix(r.row(3), "3. "))

	// Select on a page that is not the last moves on.
	r.click()
	assert.Equal(t, focusResults, r.c.focus)
	assert.True(t, strings.HasPrefix(r.row(1), "4. "))
	assert.True(t, strings.HasPrefix(r.row(2), "5. "))
	assert.Equal(t, "> Back to Menu", r.row(3))

	r.next()
	assert.True(t, strings.HasPrefix(r.row(1), "1. "))
	r.prev()
	assert.True(t, strings.HasPrefix(r.row(1), "4. "))

	r.click()
	assert.Equal(t, focusMenu, r.c.focus)
}

func TestTimeTrialLapRow(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true, Initial: race.Config{Mode: race.ModeTimeTrial, LapGoal: 3, TimeTrialSeconds: 60}})
	r.selectItem(0)
	r.waitRow(0, "Time Left:   60s", 12*time.Second)
	assert.Equal(t, "Laps: 0", r.row(1))

	r.wait(5 * time.Second)
	r.gate()
	s := r.c.Session()
	require.Len(t, s.LapTimes, 1)
	assert.Equal(t, fmt.Sprintf("Lap 1: %.2fs", s.LapTimes[0].Seconds()), r.row(2))
	r.waitRow(1, "Laps: 1", DefaultConfig().RaceRefresh+poll)
	assert.True(t, strings.HasPrefix(r.row(0), "Time Left:   5"))

	r.waitRow(2, "", DefaultConfig().Timing.TrialLapHold+poll)
	assert.Equal(t, "Laps: 1", r.row(1))
}

func TestSettingsEditors(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	r.selectItem(3)
	require.Equal(t, focusFormat, r.c.focus)
	assert.Equal(t, "Race Format", r.row(0))
	assert.Equal(t, "> Lap Race", r.row(1))
	assert.Equal(t, "  Time Trial", r.row(2))
	assert.Equal(t, "  Back to Menu", r.row(3))

	r.click()
	require.Equal(t, focusEditor, r.c.focus)
	assert.Equal(t, "Set Laps: 3", r.row(0))
	assert.Equal(t, "  Back to Menu", r.row(1))
	r.click()
	r.click()
	assert.Equal(t, "Set Laps: 5", r.row(0))
	r.next()
	assert.Equal(t, "> Back to Menu", r.row(1))
	r.click()
	require.Equal(t, focusFormat, r.c.focus)

	r.next()
	r.click()
	assert.Equal(t, "Set Time: 60s", r.row(0))
	for i := 0; i < 3; i++ {
		r.click()
	}
	assert.Equal(t, "Set Time: 150s", r.row(0))
	r.click()
	assert.Equal(t, "Set Time: 30s", r.row(0), "150s wraps to 30s")

	r.prev()
	r.click()
	require.Equal(t, focusFormat, r.c.focus)
	r.next()
	assert.Equal(t, "> Back to Menu", r.row(3))

	r.click()
	assert.Equal(t, focusMenu, r.c.focus)
	assert.Equal(t, race.Config{Mode: race.ModeTimeTrial, LapGoal: 5, TimeTrialSeconds: 30}, r.c.Settings())
}

func TestResetClearsResults(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	runLapRace(r, 3, 3*time.Second)
	r.waitRow(0, "> Start Race", 10*time.Second)
	require.Len(t, r.c.Session().LapTimes, 3)

	r.selectItem(2)
	assert.Equal(t, "Timer Reset.", r.row(0))
	assert.Empty(t, r.c.Session().LapTimes)
	r.waitRow(2, "> Reset Timer", DefaultConfig().ResetHold+poll)

	r.prev()
	r.click()
	r.wait(DefaultConfig().SelectedHold)
	assert.Equal(t, "No Results Yet.", r.row(0))
}

func TestStepReadError(t *testing.T) {
	h := newFakeHAL()
	c, err := NewController(h, Config{})
	require.NoError(t, err)

	h.pins[hal.PinGate].err = errors.New("bus fault")
	err = c.Step(t0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app: read lines: bus fault")
}

func TestStepLogsBuzzerError(t *testing.T) {
	r := newRig(t, Config{SkipSplash: true})
	r.h.beep.err = errors.New("buzzer: gpio: pin BUZZER: bus fault")
	r.idle(1)
	assert.True(t, r.h.log.contains("buzzer: gpio: pin BUZZER: bus fault"))
	assert.Equal(t, focusMenu, r.c.focus, "a buzzer fault does not halt the timer")
}

func TestNewControllerMissingPin(t *testing.T) {
	h := newFakeHAL()
	h.gpio = h.gpio[:3]
	_, err := NewController(h, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GATE")
}
