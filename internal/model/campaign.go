// internal/model/campaign.go
package model

import "time"

// Campaign status values
const (
	CampaignScheduled = "Scheduled"
	CampaignRunning   = "Running"
	CampaignCompleted = "Completed"
)

// Step status values
const (
	StepPending   = "Pending"
	StepSent      = "Sent"
	StepWaiting   = "Waiting"
	StepCompleted = "Completed"
	StepError     = "Error"
)

// Recipient status values
const (
	RecipientPending = "Pending"
	RecipientSent    = "Sent"
	RecipientOpened  = "Opened"
	RecipientClicked = "Clicked"
	RecipientError   = "Error"
)

// Step types
const (
	StepTypeSendEmail = "send_email"
	StepTypeWait      = "wait"
)

// Schedule types
const (
	ScheduleNow   = "now"
	ScheduleLater = "later"
)

// Campaign is the aggregate root. Steps and recipients are embedded, never
// shared across campaigns. The whole struct is stored as one JSON document.
type Campaign struct {
	ID           string      `json:"id,omitempty"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	ContactList  string      `json:"contactList,omitempty"`
	ScheduleType string      `json:"scheduleType"`
	ScheduledAt  *time.Time  `json:"scheduledAt,omitempty"`
	Status       string      `json:"status,omitempty"`
	SentDate     *time.Time  `json:"sentDate,omitempty"`
	OpenRate     *float64    `json:"openRate,omitempty"`
	ClickRate    *float64    `json:"clickRate,omitempty"`
	Steps        []Step      `json:"steps"`
	Recipients   []Recipient `json:"recipients,omitempty"`
	CreatedAt    time.Time   `json:"createdAt,omitempty"`
	UpdatedAt    time.Time   `json:"updatedAt,omitempty"`
}

// Step is one ordered action in a campaign. Template is meaningful for
// send_email steps, Duration for wait steps.
type Step struct {
	Type         string        `json:"type"`
	Template     string        `json:"template,omitempty"`
	Duration     string        `json:"duration,omitempty"`
	Status       string        `json:"status,omitempty"`
	SentAt       *time.Time    `json:"sentAt,omitempty"`
	Error        string        `json:"error,omitempty"`
	EmailResults *EmailResults `json:"emailResults,omitempty"`
}

// Recipient is one target address and its per-campaign delivery state.
// OpenedAt/ClickedAt are reserved for open/click tracking and never set here.
type Recipient struct {
	Email     string     `json:"email"`
	Status    string     `json:"status,omitempty"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
	OpenedAt  *time.Time `json:"openedAt,omitempty"`
	ClickedAt *time.Time `json:"clickedAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// EmailResults holds per-step delivery counts.
type EmailResults struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}
