package pulse

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Element describes one node on the ancestor path of a click, innermost
// first. The host binding fills in whatever the node exposes; empty
// fields are fine.
type Element struct {
	Tag       string
	ID        string
	Class     string
	Role      string
	Text      string
	AriaLabel string
	Href      string
}

// FormField describes the element behind a focus or change occurrence.
// HasValue reports whether the field currently holds a non-empty value;
// the value itself is never captured.
type FormField struct {
	Tag         string
	Name        string
	ID          string
	Placeholder string
	Type        string
	HasValue    bool
}

// ScrollPosition is a raw scroll reading from the host.
type ScrollPosition struct {
	// Offset is the scrolled distance from the top.
	Offset float64
	// ViewportHeight is the visible height.
	ViewportHeight float64
	// ContentHeight is the total scrollable height.
	ContentHeight float64
}

// ScriptError describes an uncaught exception in the host page.
type ScriptError struct {
	Message string
	File    string
	Line    int
	Column  int
	Stack   string
}

// scrollMilestones are the only depths reported, each at most once per
// page view and only while the maximum seen depth keeps growing.
var scrollMilestones = [4]int{25, 50, 75, 100}

const maxLabelLength = 100

// guard runs a capture handler and swallows any panic. One failing
// handler must not disable the others, and capture failures must never
// reach the host page.
func (c *Collector) guard(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("capture handler %s failed: %v", name, r)
		}
	}()
	fn()
}

// trackPageView fires once at collector initialization.
func (c *Collector) trackPageView() {
	c.trackEvent(Event{
		EventType:     "page_view",
		EventCategory: CategoryNavigation,
		EventAction:   "view",
	})
}

// OnClick handles a click occurrence. path is the ancestor chain from the
// click target outward; the nearest interactive ancestor (button, link or
// explicit button role) produces the event. Clicks with no interactive
// ancestor are ignored.
func (c *Collector) OnClick(path []Element) {
	c.guard("click", func() {
		target, ok := nearestInteractive(path)
		if !ok {
			return
		}

		metadata := map[string]any{
			"element_type":  strings.ToUpper(target.Tag),
			"element_id":    target.ID,
			"element_class": target.Class,
		}
		if target.Href != "" {
			metadata["href"] = target.Href
		}

		c.trackEvent(Event{
			EventType:     "click",
			EventCategory: CategoryEngagement,
			EventAction:   "click",
			EventLabel:    clickLabel(target),
			Metadata:      metadata,
		})
	})
}

func nearestInteractive(path []Element) (Element, bool) {
	for _, el := range path {
		tag := strings.ToLower(el.Tag)
		if tag == "button" || tag == "a" || strings.EqualFold(el.Role, "button") {
			return el, true
		}
	}
	return Element{}, false
}

// clickLabel derives a human-readable label: visible text, then
// accessible label, then id, then class list, truncated to 100 chars.
func clickLabel(el Element) string {
	label := strings.TrimSpace(el.Text)
	if label == "" {
		label = el.AriaLabel
	}
	if label == "" {
		label = el.ID
	}
	if label == "" {
		label = el.Class
	}
	return truncate(label, maxLabelLength)
}

// truncate cuts s to at most max characters, never mid-rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// OnFocus handles a focus occurrence, filtered to form fields.
func (c *Collector) OnFocus(field FormField) {
	c.guard("focus", func() {
		if !isFormField(field.Tag) {
			return
		}
		c.trackEvent(Event{
			EventType:     "input_focus",
			EventCategory: CategoryEngagement,
			EventAction:   "focus",
			EventLabel:    firstNonEmpty(field.Name, field.ID, field.Placeholder),
		})
	})
}

// OnChange handles a change occurrence, filtered to form fields. Only the
// field's type and whether it holds anything are recorded, never the value.
func (c *Collector) OnChange(field FormField) {
	c.guard("change", func() {
		if !isFormField(field.Tag) {
			return
		}
		c.trackEvent(Event{
			EventType:     "input_change",
			EventCategory: CategoryEngagement,
			EventAction:   "change",
			EventLabel:    firstNonEmpty(field.Name, field.ID),
			Metadata: map[string]any{
				"input_type": field.Type,
				"has_value":  field.HasValue,
			},
		})
	})
}

func isFormField(tag string) bool {
	switch strings.ToLower(tag) {
	case "input", "textarea", "select":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// OnScroll handles a raw scroll reading. Readings are debounced: only a
// position that has been quiet for the configured period is evaluated
// against the depth milestones.
func (c *Collector) OnScroll(pos ScrollPosition) {
	c.guard("scroll", func() {
		c.scrollMu.Lock()
		defer c.scrollMu.Unlock()
		c.latestScroll = pos
		if c.scrollTimer == nil {
			c.scrollTimer = time.AfterFunc(c.config.ScrollDebounce, c.scrollSettled)
			return
		}
		c.scrollTimer.Reset(c.config.ScrollDebounce)
	})
}

// scrollSettled evaluates the settled position. Milestones are monotonic:
// a depth below the recorded maximum emits nothing, and each milestone
// fires at most once per page view.
func (c *Collector) scrollSettled() {
	c.guard("scroll_settled", func() {
		c.scrollMu.Lock()
		pos := c.latestScroll
		c.scrollMu.Unlock()

		scrollable := pos.ContentHeight - pos.ViewportHeight
		if scrollable <= 0 {
			return
		}
		percent := int(math.Round(pos.Offset / scrollable * 100))
		if percent > 100 {
			percent = 100
		}

		c.scrollMu.Lock()
		if percent <= c.maxScrollPct {
			c.scrollMu.Unlock()
			return
		}
		c.maxScrollPct = percent

		var crossed []int
		for _, m := range scrollMilestones {
			if percent >= m && !c.milestoneSent[m] {
				c.milestoneSent[m] = true
				crossed = append(crossed, m)
			}
		}
		c.scrollMu.Unlock()

		for _, m := range crossed {
			c.trackEvent(Event{
				EventType:     "scroll_depth",
				EventCategory: CategoryEngagement,
				EventAction:   "scroll",
				EventLabel:    fmt.Sprintf("%d%%", m),
				EventValue:    Float64(float64(m)),
			})
		}
	})
}

// OnVisibilityChange handles the page going to the background and back.
// Dwell time is measured against the start of the current visible
// interval, so time-on-page reports foreground time only.
func (c *Collector) OnVisibilityChange(hidden bool) {
	c.guard("visibility", func() {
		if hidden {
			dwell := c.dwellSeconds()
			c.trackEvent(Event{
				EventType:     "page_hidden",
				EventCategory: CategoryNavigation,
				EventAction:   "hide",
				TimeOnPage:    Float64(dwell),
			})
			return
		}

		c.trackEvent(Event{
			EventType:     "page_visible",
			EventCategory: CategoryNavigation,
			EventAction:   "show",
		})
		c.dwellMu.Lock()
		c.visibleSince = c.clock.Now()
		c.dwellMu.Unlock()
	})
}

// OnError handles an uncaught exception occurrence.
func (c *Collector) OnError(scriptErr ScriptError) {
	c.guard("error", func() {
		c.trackEvent(Event{
			EventType:     "javascript_error",
			EventCategory: CategoryError,
			EventAction:   "error",
			EventLabel:    truncate(scriptErr.Message, maxLabelLength),
			Metadata: map[string]any{
				"filename": scriptErr.File,
				"line":     scriptErr.Line,
				"column":   scriptErr.Column,
				"stack":    scriptErr.Stack,
			},
		})
	})
}

// OnRejection handles an unhandled promise-rejection occurrence.
func (c *Collector) OnRejection(reason string) {
	c.guard("rejection", func() {
		if reason == "" {
			reason = "Unknown error"
		}
		c.trackEvent(Event{
			EventType:     "promise_rejection",
			EventCategory: CategoryError,
			EventAction:   "rejection",
			EventLabel:    truncate(reason, maxLabelLength),
			Metadata: map[string]any{
				"reason": reason,
			},
		})
	})
}

// dwellSeconds returns seconds since the current visible interval began.
func (c *Collector) dwellSeconds() float64 {
	c.dwellMu.Lock()
	defer c.dwellMu.Unlock()
	return c.clock.Now().Sub(c.visibleSince).Seconds()
}

// heartbeat emits a time_on_page event with the current foreground dwell.
func (c *Collector) heartbeat() {
	dwell := c.dwellSeconds()
	c.trackEvent(Event{
		EventType:     "time_on_page",
		EventCategory: CategoryEngagement,
		EventAction:   "time_spent",
		EventValue:    Float64(dwell),
		TimeOnPage:    Float64(dwell),
	})
}
