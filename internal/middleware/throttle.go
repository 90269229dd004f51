package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HourWindow is a wall-clock interval [Start:00, End:00) during which API
// access is blocked. A window with Start >= End wraps past midnight, so
// Start == End blocks the entire day.
type HourWindow struct {
	Start int
	End   int
}

// Wraps reports whether the window spans midnight.
func (w HourWindow) Wraps() bool {
	return w.Start >= w.End
}

// Contains reports whether the time of day of t falls inside the window.
func (w HourWindow) Contains(t time.Time) bool {
	now := secondOfDay(t)
	start := w.Start * 3600
	end := w.End * 3600

	if w.Wraps() {
		return now >= start || now < end
	}
	return start <= now && now < end
}

func (w HourWindow) String() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// ParseHourWindows parses a comma-separated list of "start-end" hour pairs,
// e.g. "3-5" or "23-2,12-14". Hours must be in [0,24).
func ParseHourWindows(s string) ([]HourWindow, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var windows []HourWindow
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		bounds := strings.Split(part, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid restricted hours entry %q: want \"start-end\"", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid start hour in %q: %w", part, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid end hour in %q: %w", part, err)
		}
		if start < 0 || start > 23 || end < 0 || end > 23 {
			return nil, fmt.Errorf("hours in %q must be in [0,24)", part)
		}
		windows = append(windows, HourWindow{Start: start, End: end})
	}
	return windows, nil
}

// Throttle rejects requests that arrive inside any configured restricted
// window, independent of request volume.
type Throttle struct {
	windows []HourWindow
	now     func() time.Time
}

// NewThrottle creates a Throttle over the given windows using local time.
func NewThrottle(windows []HourWindow) *Throttle {
	return &Throttle{windows: windows, now: time.Now}
}

// Check returns the first window containing t, if any.
func (th *Throttle) Check(t time.Time) (HourWindow, bool) {
	for _, w := range th.windows {
		if w.Contains(t) {
			return w, true
		}
	}
	return HourWindow{}, false
}

// Wait returns the time remaining until the blocking window reopens, or
// zero when t is unrestricted. Used for Retry-After responses.
func (th *Throttle) Wait(t time.Time) time.Duration {
	w, blocked := th.Check(t)
	if !blocked {
		return 0
	}

	reopen := time.Date(t.Year(), t.Month(), t.Day(), w.End, 0, 0, 0, t.Location())
	// Inside the pre-midnight half of a wrap window the end hour belongs
	// to the next day.
	if w.Wraps() && secondOfDay(t) >= w.Start*3600 {
		reopen = reopen.AddDate(0, 0, 1)
	}
	return reopen.Sub(t)
}

// Handler returns a Fiber middleware enforcing the restricted windows.
// Rejections carry retry metadata and use a distinct body shape from
// plain validation errors:
//
//	{"message": ..., "available_from": "5:00", "current_time": "04:12", "status": "throttled"}
func (th *Throttle) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(th.windows) == 0 {
			return c.Next()
		}

		now := th.now()
		w, blocked := th.Check(now)
		if !blocked {
			return c.Next()
		}

		ThrottleRejections.WithLabelValues(w.String()).Inc()

		wait := th.Wait(now)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(wait/time.Second)))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message": fmt.Sprintf(
				"API access is restricted from %d:00 to %d:00. Please try again later.",
				w.Start, w.End),
			"available_from": fmt.Sprintf("%d:00", w.End),
			"current_time":   now.Format("15:04"),
			"status":         "throttled",
		})
	}
}
