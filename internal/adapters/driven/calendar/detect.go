// Package calendar holds what the calendar importers share: platform
// detection, join detail extraction and deterministic meeting ids.
package calendar

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// DefaultDuration is used for events without an end.
const DefaultDuration = time.Hour

var (
	urlPattern      = regexp.MustCompile(`https?://[^\s<>"'\\]+`)
	zoomIDPattern   = regexp.MustCompile(`/j/(\d{9,11})`)
	zoomPwdPattern  = regexp.MustCompile(`[?&]pwd=([^&\s#]+)`)
	trailingPunctRe = regexp.MustCompile(`[.,;:)\]]+$`)
)

// platformTerms are checked in order; the first platform with a matching
// term wins.
var platformTerms = []struct {
	platform domain.Platform
	terms    []string
	hosts    []string
}{
	{domain.PlatformZoom, []string{"zoom"}, []string{"zoom.us", "zoomgov.com"}},
	{domain.PlatformGoogleMeet, []string{"meet.google", "google meet"}, []string{"meet.google.com"}},
	{domain.PlatformTeams, []string{"teams", "microsoft teams"}, []string{"teams.microsoft.com", "teams.live.com"}},
}

// Event is the importer-neutral view of a calendar entry.
type Event struct {
	Summary     string
	Description string
	Location    string

	// ConferenceURL is a join link the calendar provides directly.
	ConferenceURL string

	Start time.Time
	End   time.Time

	// Recurrence is the recurrence rule, if any.
	Recurrence string
}

// DetectPlatform finds the meeting platform mentioned in texts.
func DetectPlatform(texts ...string) (domain.Platform, bool) {
	joined := strings.ToLower(strings.Join(texts, "\n"))
	for _, p := range platformTerms {
		for _, term := range p.terms {
			if strings.Contains(joined, term) {
				return p.platform, true
			}
		}
	}
	return "", false
}

// ExtractURL returns the first link in texts that points at platform,
// falling back to the first link of any kind.
func ExtractURL(platform domain.Platform, texts ...string) string {
	var first string
	for _, text := range texts {
		for _, raw := range urlPattern.FindAllString(text, -1) {
			u := trailingPunctRe.ReplaceAllString(raw, "")
			if first == "" {
				first = u
			}
			if matchesHost(platform, u) {
				return u
			}
		}
	}
	return first
}

func matchesHost(platform domain.Platform, u string) bool {
	lower := strings.ToLower(u)
	for _, p := range platformTerms {
		if p.platform != platform {
			continue
		}
		for _, host := range p.hosts {
			if strings.Contains(lower, host) {
				return true
			}
		}
	}
	return false
}

// ZoomDetails pulls the meeting number and passcode out of a Zoom link.
func ZoomDetails(u string) (meetingID, password string) {
	if m := zoomIDPattern.FindStringSubmatch(u); m != nil {
		meetingID = m[1]
	}
	if m := zoomPwdPattern.FindStringSubmatch(u); m != nil {
		password = m[1]
	}
	return meetingID, password
}

// MeetingID derives a stable id from the summary and start, so importing
// the same event twice yields the same id.
func MeetingID(summary string, start time.Time) string {
	name := summary + "|" + start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// ToMeeting converts an event into a candidate meeting. Events that name
// no supported platform are reported with ok=false.
func ToMeeting(e Event) (domain.Meeting, bool) {
	platform, ok := DetectPlatform(e.Description, e.Summary, e.Location, e.ConferenceURL)
	if !ok {
		return domain.Meeting{}, false
	}

	url := e.ConferenceURL
	if url == "" || !matchesHost(platform, url) {
		if found := ExtractURL(platform, e.Location, e.Description); found != "" {
			url = found
		}
	}

	duration := DefaultDuration
	if !e.End.IsZero() && !e.End.Before(e.Start) {
		duration = e.End.Sub(e.Start)
	}

	m := domain.Meeting{
		ID:                MeetingID(e.Summary, e.Start),
		Title:             strings.TrimSpace(e.Summary),
		Platform:          platform,
		StartTime:         e.Start,
		Duration:          duration,
		URL:               url,
		Recurring:         e.Recurrence != "",
		RecurrencePattern: e.Recurrence,
	}
	if m.Title == "" {
		m.Title = "Untitled meeting"
	}
	if platform == domain.PlatformZoom {
		m.MeetingID, m.Password = ZoomDetails(url)
	}
	return m, true
}
