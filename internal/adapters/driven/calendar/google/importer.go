package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/autojoin/internal/adapters/driven/calendar"
	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// Ensure Importer implements the interface.
var _ driven.CalendarImporter = (*Importer)(nil)

// Defaults for the import window.
const (
	DefaultCalendarID = "primary"
	DefaultWindow     = 7 * 24 * time.Hour
	pageSize          = 250
)

// Config configures an Importer.
type Config struct {
	// CalendarID selects the calendar. Empty means DefaultCalendarID.
	CalendarID string

	// Window is how far ahead to import. Zero means DefaultWindow.
	Window time.Duration
}

// Importer reads upcoming events from a Google Calendar.
type Importer struct {
	oauth   *oauth2.Config
	tokens  *TokenStore
	cfg     Config
	limiter *rateLimiter
	log     *slog.Logger
	now     func() time.Time

	// clientOptions replaces the authenticated client when set.
	clientOptions []option.ClientOption
}

// NewImporter creates an importer using tokens stored for oauthCfg.ClientID.
func NewImporter(oauthCfg *oauth2.Config, tokens *TokenStore, cfg Config) *Importer {
	if cfg.CalendarID == "" {
		cfg.CalendarID = DefaultCalendarID
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &Importer{
		oauth:   oauthCfg,
		tokens:  tokens,
		cfg:     cfg,
		limiter: newRateLimiter(),
		log:     logger.Component("gcal"),
		now:     time.Now,
	}
}

// Name identifies the source in reports.
func (i *Importer) Name() string {
	return "gcal:" + i.cfg.CalendarID
}

// Import lists single event instances starting within the window and
// returns those carrying a meeting link.
func (i *Importer) Import(ctx context.Context) ([]domain.Meeting, error) {
	svc, err := i.service(ctx)
	if err != nil {
		return nil, err
	}

	now := i.now()
	call := svc.Events.List(i.cfg.CalendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(i.cfg.Window).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(pageSize)

	var meetings []domain.Meeting
	pageToken := ""
	for {
		if err := i.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := call.PageToken(pageToken).Context(ctx).Do()
		if err != nil {
			err = wrapError(err)
			if errors.Is(err, ErrRateLimited) {
				i.limiter.backoff(0)
			}
			return nil, fmt.Errorf("list events: %w", err)
		}

		for _, ev := range resp.Items {
			e, ok := toEvent(ev)
			if !ok {
				i.log.Debug("skipping event", slog.String("id", ev.Id), slog.String("status", ev.Status))
				continue
			}
			m, ok := calendar.ToMeeting(e)
			if !ok {
				continue
			}
			meetings = append(meetings, m)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	i.log.Info("calendar imported", slog.String("calendar", i.cfg.CalendarID), slog.Int("meetings", len(meetings)))
	return meetings, nil
}

func (i *Importer) service(ctx context.Context) (*gcal.Service, error) {
	if len(i.clientOptions) > 0 {
		return gcal.NewService(ctx, i.clientOptions...)
	}
	ts, err := i.tokens.TokenSource(ctx, i.oauth)
	if err != nil {
		return nil, err
	}
	return gcal.NewService(ctx, option.WithTokenSource(ts))
}

// toEvent maps an API event. Cancelled and all-day events are skipped.
// Instances of recurring events are expanded by the API, so they are
// imported as single meetings.
func toEvent(ev *gcal.Event) (calendar.Event, bool) {
	if ev == nil || ev.Status == "cancelled" || ev.Start == nil || ev.Start.DateTime == "" {
		return calendar.Event{}, false
	}
	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return calendar.Event{}, false
	}

	e := calendar.Event{
		Summary:       ev.Summary,
		Description:   ev.Description,
		Location:      ev.Location,
		ConferenceURL: conferenceURL(ev),
		Start:         start,
	}
	if ev.End != nil && ev.End.DateTime != "" {
		if end, err := time.Parse(time.RFC3339, ev.End.DateTime); err == nil {
			e.End = end
		}
	}
	return e, true
}

func conferenceURL(ev *gcal.Event) string {
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return strings.TrimSpace(ev.HangoutLink)
}
