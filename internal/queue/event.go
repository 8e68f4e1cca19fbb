// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// SongPlayedEvent is published every time a song's play counter is
// incremented. It carries enough information for downstream consumers to
// log or feed analytics without querying the primary database.
type SongPlayedEvent struct {
	EventID   string `json:"event_id"`
	SongID    uint64 `json:"song_id"`
	Title     string `json:"title"`
	PlayCount uint64 `json:"play_count"`
	PlayedAt  string `json:"played_at"`
}
