package models

import "time"

// CallerTypeReport tags caller entries derived from a user's own marked records.
const CallerTypeReport = "report"

// CallRecord is one entry of the call history.
// RingTime and Duration are in milliseconds.
type CallRecord struct {
	ID       int64     `json:"id" yaml:"id"`
	Number   string    `json:"number" yaml:"number"`
	Time     time.Time `json:"time" yaml:"time"`
	RingTime int64     `json:"ring_time" yaml:"ring_time"`
	Duration int64     `json:"duration" yaml:"duration"`
}

// Caller is a known caller. Number is the logical key but is not unique in storage.
type Caller struct {
	ID         int64     `json:"id" yaml:"id"`
	Number     string    `json:"number" yaml:"number"`
	Name       string    `json:"name" yaml:"name"`
	LastUpdate time.Time `json:"last_update" yaml:"last_update"`
	Type       string    `json:"type" yaml:"type"`
	Offline    bool      `json:"offline" yaml:"offline"`
}

// MarkedRecord is a number the user classified (spam, fraud, ...).
type MarkedRecord struct {
	ID       int64     `json:"id" yaml:"id"`
	Number   string    `json:"number" yaml:"number"`
	Type     int       `json:"type" yaml:"type"`
	TypeName string    `json:"type_name" yaml:"type_name"`
	Time     time.Time `json:"time" yaml:"time"`
	Reported bool      `json:"reported" yaml:"reported"`
	Source   string    `json:"source" yaml:"source"`
}

// CallerFromMarked builds a new caller entry from a marked record.
// The result is always a fresh row tagged "report" and never offline,
// whatever the marked record carries.
func CallerFromMarked(m MarkedRecord) Caller {
	return Caller{
		Number:     m.Number,
		Name:       m.TypeName,
		LastUpdate: m.Time,
		Type:       CallerTypeReport,
		Offline:    false,
	}
}

// Stats holds row counts per table.
type Stats struct {
	Calls   int `json:"calls" yaml:"calls"`
	Callers int `json:"callers" yaml:"callers"`
	Marked  int `json:"marked" yaml:"marked"`
}
