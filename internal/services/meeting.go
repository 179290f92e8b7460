package services

import (
	"github.com/diewo77/clientpath/internal/models"
)

// Display layouts for upcoming meetings.
const (
	meetingDateLayout = "Mon Jan 2, 2006"
	meetingTimeLayout = "3:04 PM"
)

// NoClient is shown for meetings that have no client attached.
const NoClient = "No Client"

// UpcomingMeeting is a meeting prepared for the dashboard list.
type UpcomingMeeting struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	ClientName  string               `json:"clientName"`
	Date        string               `json:"date"`
	StartTime   string               `json:"startTime"`
	EndTime     string               `json:"endTime"`
	MeetingType string               `json:"meetingType"`
	Location    *string              `json:"location"`
	MeetingLink *string              `json:"meetingLink"`
	Status      models.MeetingStatus `json:"status"`
}

type MeetingFormatter struct{}

// UpcomingView formats m in the meeting's own time zone.
func (MeetingFormatter) UpcomingView(m models.Meeting, clientName string) UpcomingMeeting {
	if clientName == "" {
		clientName = NoClient
	}
	return UpcomingMeeting{
		ID:          m.ID,
		Title:       m.Title,
		ClientName:  clientName,
		Date:        m.StartDateTime.Format(meetingDateLayout),
		StartTime:   m.StartDateTime.Format(meetingTimeLayout),
		EndTime:     m.EndDateTime.Format(meetingTimeLayout),
		MeetingType: m.MeetingType.Label(),
		Location:    m.Location,
		MeetingLink: m.MeetingLink,
		Status:      m.Status,
	}
}
