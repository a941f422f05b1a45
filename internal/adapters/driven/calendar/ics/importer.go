// Package ics imports meetings from iCalendar (.ics) files.
package ics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ical "github.com/arran4/golang-ical"

	"github.com/custodia-labs/autojoin/internal/adapters/driven/calendar"
	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// Ensure Importer implements the interface.
var _ driven.CalendarImporter = (*Importer)(nil)

// Importer reads VEVENTs from one .ics file.
type Importer struct {
	path string
	log  *slog.Logger
}

// NewImporter creates an importer for the file at path.
func NewImporter(path string) *Importer {
	return &Importer{path: path, log: logger.Component("ics")}
}

// Name identifies the source in reports.
func (i *Importer) Name() string {
	return "ics:" + filepath.Base(i.path)
}

// Import parses the file and returns one candidate per event that names
// a supported platform. Events without a start are skipped.
func (i *Importer) Import(ctx context.Context) ([]domain.Meeting, error) {
	f, err := os.Open(i.path)
	if err != nil {
		return nil, fmt.Errorf("open calendar: %w", err)
	}
	defer f.Close()

	cal, err := ical.ParseCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse calendar %s: %w", domain.ErrInvalidInput, i.path, err)
	}

	var meetings []domain.Meeting
	for _, ev := range cal.Events() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, ok := toEvent(ev)
		if !ok {
			i.log.Debug("skipping event without start", slog.String("uid", ev.Id()))
			continue
		}
		m, ok := calendar.ToMeeting(e)
		if !ok {
			i.log.Debug("skipping event without meeting link", slog.String("summary", e.Summary))
			continue
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}

func toEvent(ev *ical.VEvent) (calendar.Event, bool) {
	start, err := ev.GetStartAt()
	if err != nil {
		return calendar.Event{}, false
	}
	e := calendar.Event{
		Summary:       text(ev, ical.ComponentPropertySummary),
		Description:   text(ev, ical.ComponentPropertyDescription),
		Location:      text(ev, ical.ComponentPropertyLocation),
		ConferenceURL: text(ev, ical.ComponentPropertyUrl),
		Start:         start,
		Recurrence:    text(ev, ical.ComponentPropertyRrule),
	}
	if end, err := ev.GetEndAt(); err == nil {
		e.End = end
	}
	return e, true
}

var unescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func text(ev *ical.VEvent, prop ical.ComponentProperty) string {
	p := ev.GetProperty(prop)
	if p == nil {
		return ""
	}
	return unescaper.Replace(p.Value)
}
