package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition is returned when a status change is not allowed by
// the entity's transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError describes a rejected status change.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from %q to %q", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

type transitions[S ~string] map[S][]S

func (t transitions[S]) allows(from, to S) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

func parseStatus[S ~string](kind, raw string, valid func(S) bool) (S, error) {
	s := S(strings.ToLower(strings.TrimSpace(raw)))
	if !valid(s) {
		return "", fmt.Errorf("unknown %s status %q", kind, raw)
	}
	return s, nil
}

// ClientStatus is the relationship state of a client.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusLead     ClientStatus = "lead"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusActive, ClientStatusInactive, ClientStatusLead:
		return true
	}
	return false
}

func ParseClientStatus(raw string) (ClientStatus, error) {
	return parseStatus("client", raw, ClientStatus.Valid)
}

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

var invoiceTransitions = transitions[InvoiceStatus]{
	InvoiceStatusDraft:   {InvoiceStatusPending, InvoiceStatusSent, InvoiceStatusPaid},
	InvoiceStatusPending: {InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusSent, InvoiceStatusPaid},
}

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// CanTransitionTo reports whether the invoice may move from s to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	return invoiceTransitions.allows(s, next)
}

// ActivityType returns the activity logged when an invoice enters s.
func (s InvoiceStatus) ActivityType() ActivityType {
	switch s {
	case InvoiceStatusDraft:
		return ActivityInvoiceDraft
	case InvoiceStatusPending:
		return ActivityInvoicePending
	case InvoiceStatusSent:
		return ActivityInvoiceSent
	case InvoiceStatusPaid:
		return ActivityInvoicePaid
	case InvoiceStatusOverdue:
		return ActivityInvoiceOverdue
	}
	return ""
}

func ParseInvoiceStatus(raw string) (InvoiceStatus, error) {
	return parseStatus("invoice", raw, InvoiceStatus.Valid)
}

// ContractStatus represents the status of a contract.
type ContractStatus string

const (
	ContractStatusDraft   ContractStatus = "draft"
	ContractStatusSent    ContractStatus = "sent"
	ContractStatusSigned  ContractStatus = "signed"
	ContractStatusExpired ContractStatus = "expired"
)

var contractTransitions = transitions[ContractStatus]{
	ContractStatusDraft:  {ContractStatusSent, ContractStatusExpired},
	ContractStatusSent:   {ContractStatusDraft, ContractStatusSigned, ContractStatusExpired},
	ContractStatusSigned: {ContractStatusExpired},
}

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusSent, ContractStatusSigned, ContractStatusExpired:
		return true
	}
	return false
}

func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	return contractTransitions.allows(s, next)
}

func (s ContractStatus) ActivityType() ActivityType {
	switch s {
	case ContractStatusDraft:
		return ActivityContractDraft
	case ContractStatusSent:
		return ActivityContractSent
	case ContractStatusSigned:
		return ActivityContractSigned
	case ContractStatusExpired:
		return ActivityContractExpired
	}
	return ""
}

func ParseContractStatus(raw string) (ContractStatus, error) {
	return parseStatus("contract", raw, ContractStatus.Valid)
}

// ProposalStatus represents the status of a proposal.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusDeclined ProposalStatus = "declined"
	ProposalStatusExpired  ProposalStatus = "expired"
)

var proposalTransitions = transitions[ProposalStatus]{
	ProposalStatusDraft: {ProposalStatusSent, ProposalStatusExpired},
	ProposalStatusSent:  {ProposalStatusAccepted, ProposalStatusDeclined, ProposalStatusExpired},
}

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusSent, ProposalStatusAccepted, ProposalStatusDeclined, ProposalStatusExpired:
		return true
	}
	return false
}

func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	return proposalTransitions.allows(s, next)
}

func (s ProposalStatus) ActivityType() ActivityType {
	switch s {
	case ProposalStatusSent:
		return ActivityProposalSent
	case ProposalStatusAccepted:
		return ActivityProposalAccepted
	case ProposalStatusDeclined:
		return ActivityProposalDeclined
	case ProposalStatusExpired:
		return ActivityProposalExpired
	}
	return ""
}

func ParseProposalStatus(raw string) (ProposalStatus, error) {
	return parseStatus("proposal", raw, ProposalStatus.Valid)
}

// MeetingStatus represents the status of a meeting.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCompleted MeetingStatus = "completed"
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

var meetingTransitions = transitions[MeetingStatus]{
	MeetingStatusScheduled: {MeetingStatusCompleted, MeetingStatusCancelled},
	MeetingStatusCancelled: {MeetingStatusScheduled},
}

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingStatusScheduled, MeetingStatusCompleted, MeetingStatusCancelled:
		return true
	}
	return false
}

func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	return meetingTransitions.allows(s, next)
}

func (s MeetingStatus) ActivityType() ActivityType {
	switch s {
	case MeetingStatusScheduled:
		return ActivityMeetingScheduled
	case MeetingStatusCompleted:
		return ActivityMeetingCompleted
	case MeetingStatusCancelled:
		return ActivityMeetingCancelled
	}
	return ""
}

func ParseMeetingStatus(raw string) (MeetingStatus, error) {
	return parseStatus("meeting", raw, MeetingStatus.Valid)
}

// MeetingType is the medium a meeting takes place over.
type MeetingType string

const (
	MeetingTypeZoom           MeetingType = "zoom"
	MeetingTypeGoogleMeet     MeetingType = "google_meet"
	MeetingTypeMicrosoftTeams MeetingType = "microsoft_teams"
	MeetingTypeInPerson       MeetingType = "in_person"
	MeetingTypePhoneCall      MeetingType = "phone_call"
)

func (t MeetingType) Valid() bool {
	switch t {
	case MeetingTypeZoom, MeetingTypeGoogleMeet, MeetingTypeMicrosoftTeams, MeetingTypeInPerson, MeetingTypePhoneCall:
		return true
	}
	return false
}

// Label returns the human readable name of the meeting type.
func (t MeetingType) Label() string {
	switch t {
	case MeetingTypeZoom:
		return "Zoom Meeting"
	case MeetingTypeGoogleMeet:
		return "Google Meet"
	case MeetingTypeMicrosoftTeams:
		return "Microsoft Teams"
	case MeetingTypeInPerson:
		return "In Person"
	case MeetingTypePhoneCall:
		return "Phone Call"
	}
	return string(t)
}

func ParseMeetingType(raw string) (MeetingType, error) {
	t := MeetingType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown meeting type %q", raw)
	}
	return t, nil
}
