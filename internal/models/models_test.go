package models

import (
	"errors"
	"testing"
	"time"
)

func TestClient_GetUserID(t *testing.T) {
	client := &Client{UserID: 123}
	if got := client.GetUserID(); got != 123 {
		t.Errorf("GetUserID() = %d, want 123", got)
	}
}

func TestClient_FullAddress(t *testing.T) {
	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{
			name: "full address",
			client: Client{
				Address: "123 Main St",
				City:    "Portland",
				State:   "OR",
				ZipCode: "97201",
				Country: "USA",
			},
			want: "123 Main St\nPortland, OR 97201\nUSA",
		},
		{
			name:   "only city",
			client: Client{City: "Portland"},
			want:   "Portland",
		},
		{
			name:   "address and zip",
			client: Client{Address: "1 Loop", ZipCode: "95014"},
			want:   "1 Loop\n95014",
		},
		{
			name:   "empty",
			client: Client{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.FullAddress(); got != tt.want {
				t.Errorf("FullAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvoice_GetUserID(t *testing.T) {
	invoice := &Invoice{UserID: 456}
	if got := invoice.GetUserID(); got != 456 {
		t.Errorf("GetUserID() = %d, want 456", got)
	}
}

func TestInvoice_Status(t *testing.T) {
	tests := []struct {
		name          string
		status        InvoiceStatus
		isPaid        bool
		isOutstanding bool
	}{
		{"draft", InvoiceStatusDraft, false, false},
		{"pending", InvoiceStatusPending, false, true},
		{"sent", InvoiceStatusSent, false, true},
		{"paid", InvoiceStatusPaid, true, false},
		{"overdue", InvoiceStatusOverdue, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Status: tt.status}
			if got := inv.IsPaid(); got != tt.isPaid {
				t.Errorf("IsPaid() = %v, want %v", got, tt.isPaid)
			}
			if got := inv.IsOutstanding(); got != tt.isOutstanding {
				t.Errorf("IsOutstanding() = %v, want %v", got, tt.isOutstanding)
			}
		})
	}
}

func TestInvoice_Items(t *testing.T) {
	invoice := &Invoice{
		Items: []LineItem{
			{Description: "Design", Quantity: 2, UnitPrice: 100},
			{Description: "Hosting", Quantity: 3, UnitPrice: 12.5},
		},
	}
	if got := invoice.ItemsSubtotal(); got != 237.5 {
		t.Errorf("ItemsSubtotal() = %f, want 237.5", got)
	}
	if got := invoice.ProjectName(); got != "Design" {
		t.Errorf("ProjectName() = %q, want Design", got)
	}
	if got := (&Invoice{}).ProjectName(); got != "" {
		t.Errorf("ProjectName() on empty invoice = %q, want empty", got)
	}
}

func TestInvoiceStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to InvoiceStatus
		want     bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusOverdue, true},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusDraft, false},
		{InvoiceStatusPaid, InvoiceStatusDraft, false},
		{InvoiceStatusPaid, InvoiceStatusSent, false},
		{InvoiceStatusDraft, InvoiceStatusOverdue, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContractStatus_Transitions(t *testing.T) {
	if !ContractStatusDraft.CanTransitionTo(ContractStatusSent) {
		t.Error("draft -> sent should be allowed")
	}
	if !ContractStatusSent.CanTransitionTo(ContractStatusSigned) {
		t.Error("sent -> signed should be allowed")
	}
	if ContractStatusDraft.CanTransitionTo(ContractStatusSigned) {
		t.Error("draft -> signed should be rejected")
	}
	if ContractStatusExpired.CanTransitionTo(ContractStatusDraft) {
		t.Error("expired is terminal")
	}
}

func TestProposalStatus_Transitions(t *testing.T) {
	for _, to := range []ProposalStatus{ProposalStatusAccepted, ProposalStatusDeclined, ProposalStatusExpired} {
		if !ProposalStatusSent.CanTransitionTo(to) {
			t.Errorf("sent -> %s should be allowed", to)
		}
	}
	if ProposalStatusDraft.CanTransitionTo(ProposalStatusAccepted) {
		t.Error("draft -> accepted should be rejected")
	}
	if ProposalStatusAccepted.CanTransitionTo(ProposalStatusDeclined) {
		t.Error("accepted is terminal")
	}
}

func TestMeetingStatus_Transitions(t *testing.T) {
	if !MeetingStatusScheduled.CanTransitionTo(MeetingStatusCancelled) {
		t.Error("scheduled -> cancelled should be allowed")
	}
	if !MeetingStatusCancelled.CanTransitionTo(MeetingStatusScheduled) {
		t.Error("cancelled -> scheduled should be allowed")
	}
	if MeetingStatusCompleted.CanTransitionTo(MeetingStatusScheduled) {
		t.Error("completed is terminal")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseInvoiceStatus(" Paid "); err != nil || s != InvoiceStatusPaid {
		t.Errorf("ParseInvoiceStatus() = %q, %v", s, err)
	}
	if _, err := ParseInvoiceStatus("final"); err == nil {
		t.Error("expected error for unknown invoice status")
	}
	if s, err := ParseContractStatus("SIGNED"); err != nil || s != ContractStatusSigned {
		t.Errorf("ParseContractStatus() = %q, %v", s, err)
	}
	if s, err := ParseClientStatus("lead"); err != nil || s != ClientStatusLead {
		t.Errorf("ParseClientStatus() = %q, %v", s, err)
	}
	if _, err := ParseMeetingType("skype"); err == nil {
		t.Error("expected error for unknown meeting type")
	}
}

func TestActivityTypes(t *testing.T) {
	tests := []struct {
		got, want ActivityType
	}{
		{InvoiceStatusPaid.ActivityType(), ActivityInvoicePaid},
		{InvoiceStatusSent.ActivityType(), ActivityInvoiceSent},
		{ContractStatusSigned.ActivityType(), ActivityContractSigned},
		{ProposalStatusDeclined.ActivityType(), ActivityProposalDeclined},
		{MeetingStatusCancelled.ActivityType(), ActivityMeetingCancelled},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("ActivityType() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestTransitionError(t *testing.T) {
	err := &TransitionError{Entity: "invoice", From: "paid", To: "draft"}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("TransitionError should unwrap to ErrInvalidTransition")
	}
	if err.Error() != `invoice: cannot move from "paid" to "draft"` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestMeetingType_Label(t *testing.T) {
	tests := map[MeetingType]string{
		MeetingTypeZoom:           "Zoom Meeting",
		MeetingTypeGoogleMeet:     "Google Meet",
		MeetingTypeMicrosoftTeams: "Microsoft Teams",
		MeetingTypeInPerson:       "In Person",
		MeetingTypePhoneCall:      "Phone Call",
	}
	for mt, want := range tests {
		if got := mt.Label(); got != want {
			t.Errorf("Label(%s) = %q, want %q", mt, got, want)
		}
	}
}

func TestMeeting_IsUpcoming(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		meeting Meeting
		want    bool
	}{
		{"future scheduled", Meeting{StartDateTime: now.Add(time.Hour), Status: MeetingStatusScheduled}, true},
		{"future cancelled", Meeting{StartDateTime: now.Add(time.Hour), Status: MeetingStatusCancelled}, false},
		{"past", Meeting{StartDateTime: now.Add(-time.Hour), Status: MeetingStatusScheduled}, false},
		{"starting now", Meeting{StartDateTime: now, Status: MeetingStatusScheduled}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meeting.IsUpcoming(now); got != tt.want {
				t.Errorf("IsUpcoming() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProposal_Attachments(t *testing.T) {
	id := uint(7)
	p := &Proposal{InvoiceID: &id}
	if !p.HasInvoice() || p.HasContract() {
		t.Errorf("HasInvoice() = %v, HasContract() = %v", p.HasInvoice(), p.HasContract())
	}
}
