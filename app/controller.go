package app

import (
	"fmt"
	"time"

	"gatetimer/hal"
	"gatetimer/timer/encoder"
	"gatetimer/timer/lcd"
	"gatetimer/timer/menu"
	"gatetimer/timer/race"
	"gatetimer/timer/results"
	"gatetimer/timer/settings"
)

// Main menu items.
const (
	itemStart    = "Start Race"
	itemResults  = "View Results"
	itemReset    = "Reset Timer"
	itemSettings = "Settings"
	itemExit     = "Exit"
)

// Race format menu items.
const (
	formatLap  = "Lap Race"
	formatTime = "Time Trial"
	formatBack = "Back to Menu"
)

type focus uint8

const (
	focusSplash focus = iota
	focusMenu
	focusNotice
	focusRace
	focusResults
	focusFormat
	focusEditor
)

func (f focus) String() string {
	switch f {
	case focusSplash:
		return "splash"
	case focusMenu:
		return "menu"
	case focusNotice:
		return "notice"
	case focusRace:
		return "race"
	case focusResults:
		return "results"
	case focusFormat:
		return "format"
	case focusEditor:
		return "editor"
	default:
		return "unknown"
	}
}

// notice is a timed message; then runs when it expires.
type notice struct {
	until time.Time
	then  func(now time.Time)
}

// raceView is the display state layered over the engine while racing.
type raceView struct {
	banner      bool
	bannerUntil time.Time
	// completing shows "Race Complete!" once the final lap banner ends.
	completing  bool
	lastRefresh time.Time
}

// Controller owns every component of the timer and the screen focus.
type Controller struct {
	cfg    Config
	log    hal.Logger
	screen *lcd.Screen
	lines  hal.Lines
	beep   hal.Beeper
	knob   *encoder.Knob

	menu     *menu.Model
	formats  *menu.Model
	settings *settings.Store
	engine   *race.Engine
	results  *results.Browser
	editor   *settings.Editor

	focus  focus
	notice notice
	race   raceView
	// armed is set by a press seen on the results screen; only then does
	// a release confirm.
	armed bool
}

// NewController opens the input lines and shows the first screen.
func NewController(h hal.HAL, cfg Config) (*Controller, error) {
	cfg = cfg.withDefaults()

	lines, err := hal.OpenLines(h.GPIO())
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	lv, err := lines.Read()
	if err != nil {
		return nil, fmt.Errorf("app: read lines: %w", err)
	}

	screen := lcd.NewScreen(nil, lcd.Cols, lcd.Rows)
	if d := h.Display(); d != nil {
		cols, rows := d.Size()
		screen = lcd.NewScreen(d, cols, rows)
	}

	var beep race.Beeper
	b := h.Beeper()
	if b != nil {
		beep = b
	}

	c := &Controller{
		cfg:      cfg,
		log:      h.Logger(),
		screen:   screen,
		lines:    lines,
		beep:     b,
		knob:     encoder.NewKnob(lv.Clock, lv.Button),
		menu:     menu.New(menu.PageSize, itemStart, itemResults, itemReset, itemSettings, itemExit),
		formats:  menu.New(menu.PageSize, formatLap, formatTime, formatBack),
		settings: settings.NewFrom(cfg.Initial),
		engine:   race.NewEngine(beep, cfg.Timing),
	}
	if cfg.SkipSplash {
		c.showMenu()
	} else {
		c.showSplash()
	}
	return c, nil
}

// Step runs one tick: sample the lines, advance the race (deadline before
// gate), decode the knob for the focused screen, then refresh timed screens.
func (c *Controller) Step(now time.Time) error {
	lv, err := c.lines.Read()
	if err != nil {
		return fmt.Errorf("app: read lines: %w", err)
	}
	if c.beep != nil {
		if err := c.beep.Poll(); err != nil {
			c.logf("%v", err)
		}
	}

	c.onRace(now, c.engine.Tick(now, lv.Gate))
	c.dispatch(now, c.knob.Sample(lv.Clock, lv.Data, lv.Button))
	c.refresh(now)
	return nil
}

// Settings returns the current race setup.
func (c *Controller) Settings() race.Config { return c.settings.Config() }

// Session returns the recorded laps of the last race.
func (c *Controller) Session() race.Session { return c.engine.Session() }

func (c *Controller) logf(format string, args ...any) {
	if c.log == nil {
		return
	}
	c.log.WriteLineString(fmt.Sprintf(format, args...))
}

func (c *Controller) dispatch(now time.Time, in encoder.Input) {
	switch c.focus {
	case focusSplash:
		if in.Pressed {
			c.showMenu()
		}
	case focusMenu:
		switch in.Nav() {
		case encoder.Next:
			c.menu.Advance(1)
			c.showMenu()
		case encoder.Previous:
			c.menu.Advance(-1)
			c.showMenu()
		case encoder.Select:
			c.choose(now)
		}
	case focusResults:
		c.browse(in)
	case focusFormat:
		switch in.Nav() {
		case encoder.Next:
			c.formats.Advance(1)
			c.showFormats()
		case encoder.Previous:
			c.formats.Advance(-1)
			c.showFormats()
		case encoder.Select:
			c.chooseFormat()
		}
	case focusEditor:
		switch in.Nav() {
		case encoder.Next:
			c.editor.Move(1)
			c.showEditor()
		case encoder.Previous:
			c.editor.Move(-1)
			c.showEditor()
		case encoder.Select:
			if c.editor.Select() {
				c.showFormats()
				return
			}
			cfg := c.settings.Config()
			c.logf("settings: laps=%d time=%ds", cfg.LapGoal, cfg.TimeTrialSeconds)
			c.showEditor()
		}
	}
	// Notices and races ignore the knob.
}

func (c *Controller) choose(now time.Time) {
	item := c.menu.SelectedItem()
	c.logf("menu: selected %s", item)
	c.screen.Clear()
	c.screen.Print(0, 1, "Selected: "+item)
	c.wait(now, c.cfg.SelectedHold, func(now time.Time) { c.run(now, item) })
}

func (c *Controller) run(now time.Time, item string) {
	switch item {
	case itemStart:
		if err := c.engine.Start(now, c.settings.Config()); err != nil {
			c.logf("race: %v", err)
			c.showMenu()
			return
		}
		cfg := c.engine.Config()
		c.logf("race: countdown mode=%s laps=%d time=%ds", cfg.Mode, cfg.LapGoal, cfg.TimeTrialSeconds)
		c.race = raceView{}
		c.focus = focusRace
		c.screen.Clear()
	case itemResults:
		if !c.engine.HasResults() {
			c.showMessage(now, "No Results Yet.", c.cfg.NoResultsHold)
			return
		}
		c.results = results.New(c.engine.Session().LapTimes, results.PageSize)
		c.armed = false
		c.focus = focusResults
		c.showResults()
	case itemReset:
		if err := c.engine.Reset(); err != nil {
			c.logf("race: %v", err)
		} else {
			c.logf("race: results cleared")
		}
		c.showMessage(now, "Timer Reset.", c.cfg.ResetHold)
	case itemSettings:
		c.formats.Reset()
		c.showFormats()
	case itemExit:
		c.showSplash()
	}
}

func (c *Controller) browse(in encoder.Input) {
	switch in.Rotation {
	case encoder.Next:
		c.results.Next()
		c.armed = false
		c.showResults()
		return
	case encoder.Previous:
		c.results.Prev()
		c.armed = false
		c.showResults()
		return
	}
	if in.Pressed {
		c.armed = true
	}
	if !in.Released || !c.armed {
		return
	}
	c.armed = false
	if c.results.Select() {
		c.showMenu()
		return
	}
	c.showResults()
}

func (c *Controller) chooseFormat() {
	switch c.formats.SelectedItem() {
	case formatLap:
		c.settings.SetMode(race.ModeLap)
	case formatTime:
		c.settings.SetMode(race.ModeTimeTrial)
	default:
		c.showMenu()
		return
	}
	mode := c.settings.Mode()
	c.logf("settings: mode=%s", mode)
	c.editor = settings.NewEditor(c.settings, settings.ParamFor(mode))
	c.showEditor()
}

// wait shows nothing new until d has passed, then calls then.
func (c *Controller) wait(now time.Time, d time.Duration, then func(now time.Time)) {
	c.focus = focusNotice
	c.notice = notice{until: now.Add(d), then: then}
}

func (c *Controller) showMessage(now time.Time, text string, d time.Duration) {
	c.screen.Clear()
	c.screen.Print(0, 0, text)
	c.wait(now, d, func(time.Time) { c.showMenu() })
}

func (c *Controller) onRace(now time.Time, ev race.Event) {
	switch ev.Kind {
	case race.EventCountdown:
		c.screen.Clear()
		c.screen.Print(2, 1, fmt.Sprintf("Starting in %d...", ev.Count))
	case race.EventGo:
		c.screen.Clear()
		c.screen.Print(4, 1, "GO!")
	case race.EventStart:
		c.logf("race: started")
		c.screen.Clear()
		c.drawLive(now)
	case race.EventLap:
		c.logf("race: lap %d %s best %s", ev.Lap.Number, seconds(ev.Lap.Time, 2), seconds(ev.Lap.Best, 2))
		c.showLap(now, ev.Lap)
	case race.EventComplete:
		c.onComplete(now, ev)
	case race.EventIdle:
		c.logf("race: idle")
		c.showMenu()
	}
}

func (c *Controller) onComplete(now time.Time, ev race.Event) {
	switch ev.Finish {
	case race.FinishLapGoal:
		c.logf("race: lap %d %s best %s", ev.Lap.Number, seconds(ev.Lap.Time, 2), seconds(ev.Lap.Best, 2))
		c.logf("race: complete after %d laps", ev.Lap.Number)
		c.showLap(now, ev.Lap)
		c.race.completing = true
	case race.FinishTimeUp:
		laps := c.engine.Session().LapsCompleted
		c.logf("race: time up after %d laps", laps)
		c.race.banner = false
		c.screen.Clear()
		c.screen.Print(0, 0, "Time's up!")
		c.screen.Print(0, 1, fmt.Sprintf("Laps: %d", laps))
	}
}

func (c *Controller) refresh(now time.Time) {
	switch c.focus {
	case focusNotice:
		if now.Before(c.notice.until) {
			return
		}
		then := c.notice.then
		c.notice = notice{}
		if then != nil {
			then(now)
		}
	case focusRace:
		c.refreshRace(now)
	}
}

func (c *Controller) refreshRace(now time.Time) {
	trial := c.engine.Config().Mode == race.ModeTimeTrial
	if c.race.banner && !now.Before(c.race.bannerUntil) {
		c.race.banner = false
		switch {
		case c.race.completing:
			c.race.completing = false
			c.screen.Clear()
			c.screen.Print(0, 0, "Race Complete!")
			return
		case trial:
			c.screen.Blank(2)
		default:
			c.screen.Clear()
		}
		c.race.lastRefresh = time.Time{}
	}

	if c.engine.State() != race.StateRunning || (c.race.banner && !trial) {
		return
	}
	if !c.race.lastRefresh.IsZero() && now.Sub(c.race.lastRefresh) < c.cfg.RaceRefresh {
		return
	}
	c.drawLive(now)
}
