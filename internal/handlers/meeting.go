package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/metrics"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/services"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/validation"
	"go.uber.org/zap"
)

type MeetingHandler struct {
	base
	format services.MeetingFormatter
	now    func() time.Time
}

func NewMeetingHandler(store storage.Store, lg *zap.SugaredLogger) *MeetingHandler {
	return &MeetingHandler{base: newBase(store, lg), now: time.Now}
}

type meetingRequest struct {
	ClientID      *ID    `json:"clientId"`
	Title         string `json:"title" validate:"required,max=255"`
	Description   string `json:"description"`
	StartDateTime Date   `json:"startDateTime" validate:"required"`
	EndDateTime   Date   `json:"endDateTime" validate:"required"`
	Location      string `json:"location" validate:"max=255"`
	MeetingType   string `json:"meetingType" validate:"required"`
	MeetingLink   string `json:"meetingLink" validate:"max=500"`
}

type meetingPatchRequest struct {
	ClientID      *ID     `json:"clientId" validate:"omitnil,gt=0"`
	Title         *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description   *string `json:"description"`
	StartDateTime *Date   `json:"startDateTime"`
	EndDateTime   *Date   `json:"endDateTime"`
	Location      *string `json:"location" validate:"omitnil,max=255"`
	MeetingType   *string `json:"meetingType"`
	MeetingLink   *string `json:"meetingLink" validate:"omitnil,max=500"`
	Status        *string `json:"status"`
}

type meetingView struct {
	models.Meeting
	ClientName string `json:"clientName"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (h *MeetingHandler) clientName(names *clientNames, m models.Meeting) string {
	if m.ClientID == nil {
		return services.NoClient
	}
	return names.name(*m.ClientID, services.NoClient)
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	meetings, err := h.store.ListMeetings(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_meetings")
		return
	}
	names := h.clientNames(r.Context(), uid)
	out := make([]meetingView, len(meetings))
	for i, m := range meetings {
		out[i] = meetingView{Meeting: m, ClientName: h.clientName(names, m)}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *MeetingHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	meetings, err := h.store.UpcomingMeetings(r.Context(), uid, h.now(), storage.DefaultUpcomingMeetings)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_upcoming_meetings")
		return
	}
	names := h.clientNames(r.Context(), uid)
	out := make([]services.UpcomingMeeting, len(meetings))
	for i, m := range meetings {
		out[i] = h.format.UpcomingView(m, h.clientName(names, m))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := h.store.GetMeeting(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_meeting")
		return
	}
	name := h.clientName(h.clientNames(r.Context(), uid), *m)
	httpx.JSON(w, http.StatusOK, meetingView{Meeting: *m, ClientName: name})
}

// Create always schedules the meeting; the end must come after the start.
func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req meetingRequest
	var meetingType *models.MeetingType
	if !decode(w, r, &req, func(v validation.Violations) {
		h.ownClient(r, uid, nonZero(req.ClientID))(v)
		meetingType = parseEnum(v, "meetingType", optional(req.MeetingType), models.ParseMeetingType)
		if !req.StartDateTime.IsZero() && !req.EndDateTime.After(req.StartDateTime.Time) {
			if _, seen := v["endDateTime"]; !seen {
				v["endDateTime"] = "must_be_after_start"
			}
		}
	}) {
		return
	}
	m := models.Meeting{
		ClientID:      nonZero(req.ClientID),
		Title:         req.Title,
		Description:   req.Description,
		StartDateTime: req.StartDateTime.Time,
		EndDateTime:   req.EndDateTime.Time,
		Location:      optional(req.Location),
		MeetingType:   *meetingType,
		MeetingLink:   optional(req.MeetingLink),
		Status:        models.MeetingStatusScheduled,
	}
	if err := h.store.CreateMeeting(r.Context(), uid, &m); err != nil {
		h.fail(w, r, err, "failed_to_create_meeting")
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req meetingPatchRequest
	var (
		meetingType *models.MeetingType
		status      *models.MeetingStatus
	)
	if !decode(w, r, &req, func(v validation.Violations) {
		h.ownClient(r, uid, req.ClientID.ptr())(v)
		meetingType = parseEnum(v, "meetingType", req.MeetingType, models.ParseMeetingType)
		status = parseEnum(v, "status", req.Status, models.ParseMeetingStatus)
	}) {
		return
	}
	before, err := h.store.GetMeeting(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, "failed_to_update_meeting")
		return
	}
	m, err := h.store.UpdateMeeting(r.Context(), uid, id, storage.MeetingPatch{
		ClientID:      req.ClientID.ptr(),
		Title:         req.Title,
		Description:   req.Description,
		StartDateTime: req.StartDateTime.ptr(),
		EndDateTime:   req.EndDateTime.ptr(),
		Location:      req.Location,
		MeetingType:   meetingType,
		MeetingLink:   req.MeetingLink,
		Status:        status,
	})
	if err != nil {
		h.fail(w, r, err, "failed_to_update_meeting")
		return
	}
	if m.Status != before.Status {
		metrics.RecordTransition(models.EntityMeeting, string(m.Status))
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteMeeting(r.Context(), uid, id); err != nil {
		h.fail(w, r, err, "failed_to_delete_meeting")
		return
	}
	httpx.NoContent(w)
}
