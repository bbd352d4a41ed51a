// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Deck           string
	Mode           string
	Questions      int
	Groups         []string
	PersistWeights bool
	CorrectFactor  float64
	WrongFactor    float64
	MinWeight      float64
	MaxWeight      float64
	RecentSize     int
	Seed           int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Deck        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Top         int
}

// SessionStats captures a completed drill round.
type SessionStats struct {
	UUID       string
	StartedAt  time.Time
	EndedAt    time.Time
	Deck       string
	Mode       string
	Questions  int
	Correct    int
	Incorrect  int
	DurationMs int64
}

// CharStats stores per-character outcomes for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Correct    int
	Incorrect  int
	DurationMs int64
}

// WeightEntry is one persisted selector weight.
type WeightEntry struct {
	Char      string
	Weight    float64
	UpdatedAt time.Time
}
