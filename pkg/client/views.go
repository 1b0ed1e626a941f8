package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrNotLoaded = errors.New("view not loaded")

// EventDetailView is the state behind a single event page.
//
// IsBooked is advisory. It is derived from the caller's booking list and
// the server still rejects a second booking for the same event.
type EventDetailView struct {
	client  *Client
	eventID string

	mu       sync.Mutex
	Event    *Event
	IsBooked bool
}

func NewEventDetailView(c *Client, eventID string) *EventDetailView {
	return &EventDetailView{client: c, eventID: eventID}
}

// Load fetches the event and, when the client holds a token, the caller's
// bookings to work out IsBooked.
func (v *EventDetailView) Load(ctx context.Context) error {
	event, err := v.client.GetEvent(ctx, v.eventID)
	if err != nil {
		return err
	}

	booked := false
	if v.client.Token() != "" {
		bookings, err := v.client.MyBookings(ctx)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		for _, b := range bookings {
			if b.EventID == event.ID {
				booked = true
				break
			}
		}
	}

	v.mu.Lock()
	v.Event = event
	v.IsBooked = booked
	v.mu.Unlock()
	return nil
}

// Book leaves the view untouched unless the server confirms the booking.
func (v *EventDetailView) Book(ctx context.Context) (*Booking, error) {
	v.mu.Lock()
	loaded := v.Event != nil
	v.mu.Unlock()
	if !loaded {
		return nil, ErrNotLoaded
	}

	booking, err := v.client.BookEvent(ctx, v.eventID)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.IsBooked = true
	if v.Event.AvailableTickets > 0 {
		v.Event.AvailableTickets--
	}
	v.mu.Unlock()
	return booking, nil
}

// Snapshot returns a copy of the displayed state.
func (v *EventDetailView) Snapshot() (Event, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.Event == nil {
		return Event{}, v.IsBooked
	}
	return *v.Event, v.IsBooked
}

// MyBookingsView is the state behind the caller's booking list.
type MyBookingsView struct {
	client *Client

	mu       sync.Mutex
	Bookings []Booking
}

func NewMyBookingsView(c *Client) *MyBookingsView {
	return &MyBookingsView{client: c}
}

func (v *MyBookingsView) Load(ctx context.Context) error {
	bookings, err := v.client.MyBookings(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.Bookings = bookings
	v.mu.Unlock()
	return nil
}

// Reload is Load under the name the screens use after a pull-to-refresh.
func (v *MyBookingsView) Reload(ctx context.Context) error {
	return v.Load(ctx)
}

// Cancel drops the booking from the local list once the server confirms.
// Event inventory shown elsewhere is not refreshed.
func (v *MyBookingsView) Cancel(ctx context.Context, bookingID string) error {
	if _, err := v.client.CancelBooking(ctx, bookingID); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.Bookings[:0]
	for _, b := range v.Bookings {
		if b.ID != bookingID {
			kept = append(kept, b)
		}
	}
	v.Bookings = kept
	return nil
}

func (v *MyBookingsView) List() []Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Booking, len(v.Bookings))
	copy(out, v.Bookings)
	return out
}
