// A local ingest sink for manual testing of the collector. It accepts the
// session-open, session-close and event-ingest requests, pretty-prints
// what arrives, and can inject failures to exercise the retry path.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

type sink struct {
	eventCount atomic.Int64
	// failEvery rejects every Nth event with a 500 so the client's
	// re-queue behavior can be watched. 0 disables injection.
	failEvery int64
}

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	s := &sink{}
	if v := os.Getenv("FAIL_EVERY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("invalid FAIL_EVERY value %q: %v", v, err)
		}
		s.failEvery = n
	}

	r := gin.Default()
	r.POST("/api/track-session", s.trackSession)
	r.POST("/api/track-event", s.trackEvent)

	log.Printf("collector sink listening on http://localhost:%s", port)
	log.Printf("  session endpoint: /api/track-session")
	log.Printf("  event endpoint:   /api/track-event")
	if s.failEvery > 0 {
		log.Printf("  failure injection: every %d events", s.failEvery)
	}
	log.Fatal(r.Run(":" + port))
}

// trackSession handles both the open record and the close beacon; the
// beacon path sends no auth header and may omit the content type.
func (s *sink) trackSession(c *gin.Context) {
	var record map[string]any
	if err := c.ShouldBindJSON(&record); err != nil {
		log.Printf("bad session payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if active, ok := record["is_active"].(bool); ok && !active {
		log.Printf("session closed:\n%s", pretty(record))
	} else {
		log.Printf("session opened:\n%s", pretty(record))
	}
	c.Status(http.StatusOK)
}

func (s *sink) trackEvent(c *gin.Context) {
	var record map[string]any
	if err := c.ShouldBindJSON(&record); err != nil {
		log.Printf("bad event payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	n := s.eventCount.Add(1)
	if s.failEvery > 0 && n%s.failEvery == 0 {
		log.Printf("injecting failure for event #%d (%v)", n, record["event_type"])
		c.JSON(http.StatusInternalServerError, gin.H{"error": "injected failure"})
		return
	}

	log.Printf("event #%d (auth=%q):\n%s", n, c.GetHeader("Authorization"), pretty(record))
	c.JSON(http.StatusOK, gin.H{"received": n})
}

func pretty(record map[string]any) string {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "<unprintable>"
	}
	return string(data)
}
