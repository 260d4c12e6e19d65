// Package model holds the data types shared by the repository, service and
// handler layers.
package model

import "time"

// NamesTable is the collection every name operation targets.
const NamesTable = "names"

// TimestampLayout renders created_at as ISO-8601 in UTC with millisecond
// precision, e.g. 2024-05-01T12:30:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// NameRecord is one stored name as returned by the list operation.
//
// CreatedAt is passed through as the store reports it.
type NameRecord struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// NewName is the row written by the insert operation.
type NewName struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// FormatTimestamp formats t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
