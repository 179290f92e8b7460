package models

import "time"

// Meeting is a scheduled appointment, optionally with a client.
type Meeting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID   uint  `gorm:"index;not null" json:"userId"`
	ClientID *uint `gorm:"index" json:"clientId"`

	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	StartDateTime time.Time `gorm:"index;not null" json:"startDateTime"`
	EndDateTime   time.Time `gorm:"not null" json:"endDateTime"`

	Location    *string       `gorm:"size:255" json:"location"`
	MeetingType MeetingType   `gorm:"size:30;not null" json:"meetingType"`
	MeetingLink *string       `gorm:"size:500" json:"meetingLink"`
	Status      MeetingStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`
}

// GetUserID implements the Ownable interface.
func (m *Meeting) GetUserID() uint {
	return m.UserID
}

// IsUpcoming reports whether the meeting starts after now and is not cancelled.
func (m *Meeting) IsUpcoming(now time.Time) bool {
	return m.Status != MeetingStatusCancelled && m.StartDateTime.After(now)
}
