package model

type Severity string

const SEVERITY_CRITICAL Severity = "Critical"
const SEVERITY_HIGH Severity = "High"
const SEVERITY_MEDIUM Severity = "Medium"
const SEVERITY_LOW Severity = "Low"
const SEVERITY_INFO Severity = "Info"

// Severities is ordered from most to least severe.
var Severities = []Severity{SEVERITY_CRITICAL, SEVERITY_HIGH, SEVERITY_MEDIUM, SEVERITY_LOW, SEVERITY_INFO}

// Escalate shifts one step toward more severe. Critical stays Critical.
func (s Severity) Escalate() Severity {
	for i, sev := range Severities {
		if sev == s {
			if i == 0 {
				return s
			}
			return Severities[i-1]
		}
	}
	return s
}

const ITEM_TYPE_TRAFFIC string = "TRAFFIC"
const ITEM_TYPE_EMERGENCY string = "EMERGENCY"
const ITEM_TYPE_INFRASTRUCTURE string = "INFRASTRUCTURE"
const ITEM_TYPE_WEATHER string = "WEATHER"
const ITEM_TYPE_AUTOMATION string = "AUTOMATION"

type GeoLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type FeedItem struct {
	Id        string      `json:"id"`
	Type      string      `json:"type"`
	Severity  Severity    `json:"severity"`
	Title     string      `json:"title"`
	Location  string      `json:"location"`
	Coords    GeoLocation `json:"coords"`
	Timestamp int64       `json:"timestamp"`
	Summary   string      `json:"summary,omitempty"`
	Actions   []string    `json:"actions,omitempty"`
}

const EVENTS_LAST_HOUR_SLOTS int = 60

type FeedStats struct {
	Total          int   `json:"total"`
	Critical       int   `json:"critical"`
	High           int   `json:"high"`
	Medium         int   `json:"medium"`
	Low            int   `json:"low"`
	Info           int   `json:"info"`
	EventsLastHour []int `json:"eventsLastHour"`
}

func NewFeedStats() FeedStats {
	return FeedStats{
		EventsLastHour: make([]int, EVENTS_LAST_HOUR_SLOTS),
	}
}

type FeedConfig struct {
	Frequency int  `json:"frequency"`
	Chaos     bool `json:"chaos"`
}

type FeedConfigPatch struct {
	Frequency *int  `json:"frequency"`
	Chaos     *bool `json:"chaos"`
}

type FeedState struct {
	Items  []FeedItem `json:"items"`
	Stats  FeedStats  `json:"stats"`
	Config FeedConfig `json:"config"`
}
