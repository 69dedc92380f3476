package app

import (
	"fmt"
	"strconv"
	"time"

	"gatetimer/timer/menu"
	"gatetimer/timer/race"
	"gatetimer/timer/results"
)

func (c *Controller) showSplash() {
	c.focus = focusSplash
	c.screen.Clear()
	c.screen.Print(2, 1, "FPV DRONE GATE")
	c.screen.Print(1, 2, "Click to Start...")
}

func (c *Controller) showMenu() {
	c.focus = focusMenu
	c.screen.Clear()
	for row, e := range c.menu.CurrentPage() {
		c.screen.Print(0, row, entryLabel(e))
	}
}

func (c *Controller) showFormats() {
	c.focus = focusFormat
	c.screen.Clear()
	c.screen.Print(0, 0, "Race Format")
	for row, e := range c.formats.CurrentPage() {
		c.screen.Print(0, row+1, entryLabel(e))
	}
}

func (c *Controller) showEditor() {
	c.focus = focusEditor
	lines := c.editor.Lines()
	c.screen.Clear()
	c.screen.Print(0, 0, lines[0])
	c.screen.Print(0, 1, lines[1])
}

// showResults draws one page of lap times under the total. On the last
// page the bottom row becomes the way back.
func (c *Controller) showResults() {
	p := c.results.Page()
	c.screen.Clear()
	c.screen.Print(0, 0, "Total: "+seconds(p.Total, 3))
	for i, e := range p.Entries {
		c.screen.Line(i+1, fmt.Sprintf("%d. %s", e.Rank, seconds(e.Time, 3)))
	}
	if p.Last {
		c.screen.Line(results.PageSize, "> Back to Menu")
	}
}

// showLap puts up the lap banner: the whole screen in lap mode, row 2 in a
// time trial so the countdown stays visible.
func (c *Controller) showLap(now time.Time, lap race.Lap) {
	t := c.engine.Timing()
	text := fmt.Sprintf("Lap %d: %s", lap.Number, seconds(lap.Time, 2))
	if c.engine.Config().Mode == race.ModeTimeTrial {
		c.screen.Line(2, text)
		c.race.bannerUntil = now.Add(t.TrialLapHold)
	} else {
		c.screen.Clear()
		c.screen.Print(0, 0, text)
		c.screen.Print(0, 1, "Best: "+seconds(lap.Best, 2))
		c.race.bannerUntil = now.Add(t.LapHold)
	}
	c.race.banner = true
}

func (c *Controller) drawLive(now time.Time) {
	c.race.lastRefresh = now
	cfg := c.engine.Config()
	laps := c.engine.Session().LapsCompleted
	if cfg.Mode == race.ModeTimeTrial {
		left := int(c.engine.Remaining(now) / time.Second)
		c.screen.Line(0, fmt.Sprintf("Time Left: %4ds", left))
		c.screen.Line(1, fmt.Sprintf("Laps: %d", laps))
		return
	}
	c.screen.Line(0, fmt.Sprintf("Lap: %d/%d", laps, cfg.LapGoal))
	c.screen.Line(1, "Time: "+seconds(c.engine.LapElapsed(now), 2))
}

func entryLabel(e menu.Entry) string {
	if e.Active {
		return "> " + e.Label
	}
	return "  " + e.Label
}

// seconds formats d as seconds with prec decimals and an "s" suffix.
func seconds(d time.Duration, prec int) string {
	return strconv.FormatFloat(d.Seconds(), 'f', prec, 64) + "s"
}
