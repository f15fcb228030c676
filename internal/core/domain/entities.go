package domain

import "time"

// Role represents voter role in the system
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// ElectionStatus is the lifecycle position of an election
type ElectionStatus string

const (
	StatusUpcoming ElectionStatus = "upcoming"
	StatusOngoing  ElectionStatus = "ongoing"
	StatusEnded    ElectionStatus = "ended"
)

// FacultyGeneral scopes an election to every voter
const FacultyGeneral = "general"

// rank orders statuses along the only legal path
func (s ElectionStatus) rank() int {
	switch s {
	case StatusUpcoming:
		return 0
	case StatusOngoing:
		return 1
	case StatusEnded:
		return 2
	default:
		return -1
	}
}

// Valid reports whether s is a known status
func (s ElectionStatus) Valid() bool {
	return s.rank() >= 0
}

// Next returns the status that directly follows s, or false when s is terminal
func (s ElectionStatus) Next() (ElectionStatus, bool) {
	switch s {
	case StatusUpcoming:
		return StatusOngoing, true
	case StatusOngoing:
		return StatusEnded, true
	default:
		return "", false
	}
}

// Before reports whether s comes strictly earlier than other
func (s ElectionStatus) Before(other ElectionStatus) bool {
	return s.rank() < other.rank()
}

// Schedule is the time window of an election
type Schedule struct {
	StartDate       time.Time
	DurationMinutes int
}

// EndDate returns start_date + duration
func (s Schedule) EndDate() time.Time {
	return s.StartDate.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// StatusAt derives the status the election should have at now
func (s Schedule) StatusAt(now time.Time) ElectionStatus {
	switch {
	case now.Before(s.StartDate):
		return StatusUpcoming
	case now.Before(s.EndDate()):
		return StatusOngoing
	default:
		return StatusEnded
	}
}

// Due reports whether moving into target is allowed by the clock at now
func (s Schedule) Due(target ElectionStatus, now time.Time) bool {
	switch target {
	case StatusOngoing:
		return !now.Before(s.StartDate)
	case StatusEnded:
		return !now.Before(s.EndDate())
	default:
		return false
	}
}

// Event types published to the fan-out and the live stream
const (
	EventElectionCreated = "election_created"
	EventStatusChanged   = "status_changed"
)

// ElectionEvent is emitted after a committed lifecycle change
type ElectionEvent struct {
	Type       string         `json:"type"`
	ElectionID uint           `json:"election_id"`
	Title      string         `json:"title"`
	FacultyID  string         `json:"faculty_id"`
	From       ElectionStatus `json:"from,omitempty"`
	To         ElectionStatus `json:"to"`
	At         time.Time      `json:"at"`
}

// PushMessage is the payload handed to the push delivery channel
type PushMessage struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// PushOutcome is the per-address result of a batch send
type PushOutcome struct {
	Address string
	OK      bool
	Reason  string
}

// FaceCandidate is a single face the comparison service matched
type FaceCandidate struct {
	Similarity float64
}
