package events

import "time"

const (
	TypePrefsUpdate     = "prefs.update"
	TypeCacheGeneration = "cache.generation"
)

// Event is the line-JSON message pushed to listeners.
type Event struct {
	Type   string `json:"type"`
	UserID string `json:"user_id,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
	// Generation and Count describe a cache.generation event.
	Generation int       `json:"generation,omitempty"`
	Count      int       `json:"count,omitempty"`
	At         time.Time `json:"at"`
}

func PrefsUpdated(userID, key, value string) Event {
	return Event{Type: TypePrefsUpdate, UserID: userID, Key: key, Value: value, At: time.Now().UTC()}
}

func GenerationCached(gen, count int) Event {
	return Event{Type: TypeCacheGeneration, Generation: gen, Count: count, At: time.Now().UTC()}
}
