package sky

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/clock"
)

// PassStatus classifies a pass relative to the moment the plan was made.
type PassStatus int

const (
	PassPast   PassStatus = iota // Set during the look-back
	PassNow                      // Above the horizon now
	PassNext                     // The body's next rise
	PassFuture                   // Any later rise
)

// String returns the status name.
func (s PassStatus) String() string {
	switch s {
	case PassPast:
		return "PAST"
	case PassNow:
		return "NOW"
	case PassNext:
		return "NEXT"
	case PassFuture:
		return "FUTURE"
	default:
		return "?"
	}
}

// Pass is one interval a body spends above the horizon. Rise is the window
// start when the body was already up, and Set is the window end when it
// is still up; Clipped reports either case.
type Pass struct {
	Body        string
	Rise        time.Time
	Culmination time.Time
	Set         time.Time
	MaxAlt      float64 // radians
	SunMinSep   float64 // radians, NaN for the Sun itself
	RiseClipped bool
	SetClipped  bool
	Status      PassStatus
}

// PassPlan holds every pass of every body over a window that opens
// PassLookback before Now.
type PassPlan struct {
	Observer    astro.Observer
	Now         time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	Passes      []Pass
}

// Pass planning defaults.
const (
	PassSampleInterval = 5 * time.Minute
	PassWindowDuration = 24 * time.Hour
	PassLookback       = 2 * time.Hour
)

// altSample is one body's altitude at one step.
type altSample struct {
	epoch  float64
	alt    float64
	sunSep float64
}

// PassPlan samples the sky from PassLookback before epoch to window after it
// and collects each body's passes above the horizon, ordered by rise.
func (e *Engine) PassPlan(epoch float64, obs astro.Observer, window, step time.Duration) *PassPlan {
	start := epoch - PassLookback.Seconds()
	plan := &PassPlan{
		Observer:    obs,
		Now:         clock.ToTime(epoch),
		WindowStart: clock.ToTime(start),
		WindowEnd:   clock.ToTime(epoch + window.Seconds()),
	}
	if step <= 0 || window < 2*step {
		return plan
	}

	n := int((window+PassLookback)/step) + 1
	series := make(map[string][]altSample)
	var order []string
	for i := 0; i < n; i++ {
		t := start + float64(i)*step.Seconds()
		f := e.frameAt(t, obs)
		sun, _ := f.Body("Sun")
		for _, b := range f.Bodies {
			if _, ok := series[b.Name]; !ok {
				order = append(order, b.Name)
			}
			sep := math.NaN()
			if b.Name != "Sun" {
				sep = astro.AngularSeparation(sun.Equatorial, b.Equatorial)
			}
			series[b.Name] = append(series[b.Name], altSample{epoch: t, alt: b.Horizontal.Alt, sunSep: sep})
		}
	}

	for _, name := range order {
		plan.Passes = append(plan.Passes, findPasses(name, series[name])...)
	}

	sort.SliceStable(plan.Passes, func(i, j int) bool {
		return plan.Passes[i].Rise.Before(plan.Passes[j].Rise)
	})
	classifyPasses(plan.Passes, plan.Now)
	return plan
}

// up treats an undefined altitude as below the horizon.
func up(alt float64) bool {
	return !math.IsNaN(alt) && alt >= 0
}

func findPasses(name string, samples []altSample) []Pass {
	var passes []Pass
	var cur *Pass

	for i, s := range samples {
		above := up(s.alt)

		if cur == nil && above {
			cur = &Pass{
				Body:        name,
				Rise:        clock.ToTime(s.epoch),
				Culmination: clock.ToTime(s.epoch),
				MaxAlt:      s.alt,
				SunMinSep:   math.NaN(),
				RiseClipped: i == 0,
			}
			if i > 0 {
				cur.Rise = crossingTime(samples[i-1], s)
			}
		}

		if cur == nil {
			continue
		}

		if !above {
			cur.Set = crossingTime(samples[i-1], s)
			passes = append(passes, *cur)
			cur = nil
			continue
		}

		if s.alt > cur.MaxAlt {
			cur.MaxAlt = s.alt
			cur.Culmination = clock.ToTime(s.epoch)
		}
		if !math.IsNaN(s.sunSep) && (math.IsNaN(cur.SunMinSep) || s.sunSep < cur.SunMinSep) {
			cur.SunMinSep = s.sunSep
		}
	}

	if cur != nil {
		cur.Set = clock.ToTime(samples[len(samples)-1].epoch)
		cur.SetClipped = true
		passes = append(passes, *cur)
	}
	return passes
}

// crossingTime interpolates the horizon crossing between two samples.
func crossingTime(a, b altSample) time.Time {
	if math.IsNaN(a.alt) || math.IsNaN(b.alt) || a.alt == b.alt {
		return clock.ToTime(b.epoch)
	}
	frac := -a.alt / (b.alt - a.alt)
	frac = math.Max(0, math.Min(1, frac))
	return clock.ToTime(a.epoch + frac*(b.epoch-a.epoch))
}

// classifyPasses marks each body's first rise after now as its next pass.
func classifyPasses(passes []Pass, now time.Time) {
	next := make(map[string]bool)
	for i := range passes {
		p := &passes[i]
		switch {
		case !p.Set.After(now) && !p.SetClipped:
			p.Status = PassPast
		case !p.Rise.After(now):
			p.Status = PassNow
		case !next[p.Body]:
			p.Status = PassNext
			next[p.Body] = true
		default:
			p.Status = PassFuture
		}
	}
}

// ForBody returns the named body's passes.
func (p *PassPlan) ForBody(name string) []Pass {
	var out []Pass
	for _, pass := range p.Passes {
		if pass.Body == name {
			out = append(out, pass)
		}
	}
	return out
}

// Current returns the pass the body is in now, or nil.
func (p *PassPlan) Current(name string) *Pass {
	return p.find(name, PassNow)
}

// Next returns the body's next rise, or nil.
func (p *PassPlan) Next(name string) *Pass {
	return p.find(name, PassNext)
}

func (p *PassPlan) find(name string, status PassStatus) *Pass {
	for i := range p.Passes {
		if p.Passes[i].Body == name && p.Passes[i].Status == status {
			return &p.Passes[i]
		}
	}
	return nil
}

// WritePassTable writes the plan as a text table.
func WritePassTable(w io.Writer, p *PassPlan) {
	fmt.Fprintf(w, "Passes %s to %s  lat %+.2f°  lon %+.2f°\n",
		p.WindowStart.Format("2006-01-02 15:04"),
		p.WindowEnd.Format("2006-01-02 15:04 UTC"),
		astro.RadToDeg(p.Observer.Lat),
		astro.RadToDeg(p.Observer.Lon))
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(p.Passes) == 0 {
		fmt.Fprintln(w, "No passes")
		return
	}

	fmt.Fprintf(w, "%-8s %-6s %-7s %-7s %-7s %8s %8s\n",
		"Body", "Status", "Rise", "Culm", "Set", "MaxAlt", "Sun sep")
	for _, pass := range p.Passes {
		rise := pass.Rise.Format("15:04")
		if pass.RiseClipped {
			rise = "-"
		}
		set := pass.Set.Format("15:04")
		if pass.SetClipped {
			set = "-"
		}
		fmt.Fprintf(w, "%-8s %-6s %-7s %-7s %-7s %8s %8s\n",
			truncateStr(pass.Body, 8),
			pass.Status,
			rise,
			pass.Culmination.Format("15:04"),
			set,
			formatAngle(pass.MaxAlt),
			formatAngle(pass.SunMinSep))
	}
}
