// An interactive driver for the collector against the local sink server.
// Each command simulates one kind of host-page occurrence.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	pulse "github.com/quizforge/pulse-go"
	"github.com/quizforge/pulse-go/adapters"
)

const chromeOnMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func main() {
	page := &adapters.StaticPageAdapter{
		PageURL:      "http://localhost:8000/quiz/42?utm_source=newsletter&utm_medium=email",
		PageTitle:    "Quiz #42",
		PageReferrer: "http://localhost:8000/",
		Agent:        chromeOnMac,
		Params: map[string]string{
			"utm_source": "newsletter",
			"utm_medium": "email",
		},
	}

	config := pulse.CollectorConfig{
		EventEndpoint:   "http://localhost:3000/api/track-event",
		SessionEndpoint: "http://localhost:3000/api/track-session",
		FlushInterval:   5 * time.Second,
		BatchSize:       5,
	}
	config.Adapters.Page = page
	collector := pulse.NewCollector(config)

	if err := collector.Init(); err != nil {
		fmt.Printf("failed to initialize collector: %v\n", err)
		return
	}

	fmt.Println("Pulse interactive client")
	fmt.Println("commands: click | focus | change | scroll <pct> | hide | show | error | custom | flush | quit")

	scanner := bufio.NewScanner(os.Stdin)
	scrolled := 0.0
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "click":
			collector.OnClick([]pulse.Element{
				{Tag: "span", Text: "Start quiz"},
				{Tag: "button", ID: "start-quiz", Class: "btn btn-primary", Text: "Start quiz"},
			})
		case "focus":
			collector.OnFocus(pulse.FormField{Tag: "input", Name: "topic", Type: "text"})
		case "change":
			collector.OnChange(pulse.FormField{Tag: "input", Name: "topic", Type: "text", HasValue: true})
		case "scroll":
			if len(fields) > 1 {
				fmt.Sscanf(fields[1], "%f", &scrolled)
			} else {
				scrolled += 25
			}
			collector.OnScroll(pulse.ScrollPosition{
				Offset:         scrolled * 20, // content 3000, viewport 1000
				ViewportHeight: 1000,
				ContentHeight:  3000,
			})
		case "hide":
			collector.OnVisibilityChange(true)
		case "show":
			collector.OnVisibilityChange(false)
		case "error":
			collector.OnError(pulse.ScriptError{
				Message: "TypeError: quiz is undefined",
				File:    "app.js",
				Line:    120,
				Column:  8,
			})
		case "custom":
			collector.TrackCustom("quiz_completed", "engagement", "complete", "quiz-42", pulse.Float64(87), map[string]any{
				"questions": 10,
			})
		case "flush":
			collector.Flush()
		case "quit":
			collector.Shutdown()
			// Give the close beacon a moment before the process exits.
			time.Sleep(200 * time.Millisecond)
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}
