package selector

// ImportanceRequest asks for an importance ranking.
type ImportanceRequest struct {
	// Rooms — candidate rooms in tie-break order; all catalog rooms if absent.
	Rooms []string `json:"rooms"`
	// Ratings — per room, criterion labels overriding the catalog.
	Ratings map[string]map[string]string `json:"ratings"`
}

// NormalizedRequest asks for a normalized ranking.
type NormalizedRequest struct {
	Rooms []string `json:"rooms"`
	// Start — meeting start time "HH:MM"; the current time if empty.
	Start string `json:"start"`
}

// FactsRequest asks for a ranking by fact rules.
type FactsRequest struct {
	Rooms       []string     `json:"rooms"`
	Preferences *Preferences `json:"preferences"`
}

// Preferences are the meeting requirements of a facts request. Absent fields
// take the service defaults: the configured temperature limit, a quiet room
// and a projector.
type Preferences struct {
	MaxTemperature *float64 `json:"max_temp"`
	NeedQuiet      *bool    `json:"need_quiet"`
	NeedProjector  *bool    `json:"need_projector"`
}

// LookupRequest asks for the first sufficiently cool room.
type LookupRequest struct {
	Rooms          []string `json:"rooms"`
	MaxTemperature *float64 `json:"max_temp"`
}

// LookupResult is the room found by Lookup.
type LookupResult struct {
	Room           string  `json:"room"`
	Temperature    float64 `json:"temperature"`
	MaxTemperature float64 `json:"max_temp"`
}
