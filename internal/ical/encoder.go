// Package ical renders calendar events as an RFC 5545 document.
package ical

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/terraincognita07/ovumcal/internal/models"
)

const ProductID = "-//ovumcal//Menstrual Cycle Calendar//EN"

var ErrEmptyUID = errors.New("ical: event without uid")

// Encoder turns a sequence of calendar events into artifact bytes.
type Encoder interface {
	Encode(events []models.CalendarEvent) ([]byte, error)
}

type Options struct {
	Name        string
	Description string
	// Stamp is written as DTSTAMP on every event. It must not depend on the
	// wall clock or the output stops being reproducible.
	Stamp time.Time
}

type CalendarEncoder struct {
	options Options
}

func NewEncoder(options Options) *CalendarEncoder {
	return &CalendarEncoder{options: options}
}

func (encoder *CalendarEncoder) Encode(events []models.CalendarEvent) ([]byte, error) {
	calendar := ics.NewCalendar()
	calendar.SetProductId(ProductID)
	calendar.SetCalscale("GREGORIAN")
	calendar.SetMethod(ics.MethodPublish)
	if encoder.options.Name != "" {
		calendar.SetXWRCalName(encoder.options.Name)
	}
	if encoder.options.Description != "" {
		calendar.SetXWRCalDesc(encoder.options.Description)
	}

	stamp := encoder.options.Stamp.UTC()
	for _, event := range events {
		if event.UID == "" {
			return nil, ErrEmptyUID
		}

		entry := calendar.AddEvent(event.UID)
		entry.SetDtStampTime(stamp)
		entry.SetAllDayStartAt(event.Start)
		// DTEND is exclusive for all-day events.
		if event.End.IsZero() {
			entry.SetAllDayEndAt(event.Start.AddDate(0, 0, 1))
		} else {
			entry.SetAllDayEndAt(event.End.AddDate(0, 0, 1))
		}
		entry.SetSummary(event.Title)
		if event.Description != "" {
			entry.SetDescription(event.Description)
		}
		for _, category := range event.Categories {
			entry.AddProperty(ics.ComponentPropertyCategories, category)
		}
		entry.AddProperty(ics.ComponentPropertyTransp, "TRANSPARENT")
	}

	var buffer bytes.Buffer
	// Content lines end in CRLF whatever the host platform.
	if err := calendar.SerializeTo(&buffer, ics.WithNewLineWindows); err != nil {
		return nil, fmt.Errorf("ical: serialize: %w", err)
	}
	return buffer.Bytes(), nil
}
