package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"smartwiz/cart"
	"smartwiz/events"
	"smartwiz/models"
)

// EventsController streams cart snapshots as server-sent events
type EventsController struct {
	Store  *cart.Store
	Broker *events.Broker
	Logger *log.Logger
}

// NewEventsController creates a new EventsController
func NewEventsController(store *cart.Store, broker *events.Broker, logger *log.Logger) *EventsController {
	return &EventsController{
		Store:  store,
		Broker: broker,
		Logger: logger,
	}
}

// Stream sends the current cart right away and then every change, until the
// client goes away or the broker is closed.
func (ec *EventsController) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// live feeds outlive the server-wide read and write timeouts
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	var (
		sub     *events.Subscription
		initial []models.LineItem
	)
	ec.Store.View(func(items []models.LineItem) {
		sub = ec.Broker.Subscribe()
		initial = items
	})
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, initial); err != nil {
		ec.Logger.Printf("event stream %s: %v", sub.ID, err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case items, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(w, rc, items); err != nil {
				ec.Logger.Printf("event stream %s: %v", sub.ID, err)
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if err := rc.Flush(); err != nil {
		return fmt.Errorf("flush event: %w", err)
	}
	return nil
}
