package entities

import (
	"strings"
	"time"
)

const (
	GroupAdmins    = "admins"
	GroupProviders = "providers"
	GroupCustomers = "customers"

	groupStreamPrefix = "group:"
)

// NotificationKind distinguishes booking lifecycle events from
// administrative broadcasts.
type NotificationKind string

const (
	NotificationKindBookingRequested  NotificationKind = "booking_requested"
	NotificationKindBookingTransition NotificationKind = "booking_transition"
	NotificationKindBroadcast         NotificationKind = "broadcast"
)

// Recipient is the owner of a notification stream: either one subject or a
// role group. Sequence numbers are assigned per recipient.
type Recipient struct {
	SubjectID string `json:"subject_id,omitempty"`
	Group     string `json:"group,omitempty"`
	Role      Role   `json:"role"`
}

func SubjectRecipient(subjectID string, role Role) Recipient {
	return Recipient{SubjectID: subjectID, Role: role}
}

func GroupRecipient(group string) Recipient {
	var role Role
	switch group {
	case GroupAdmins:
		role = RoleAdmin
	case GroupProviders:
		role = RoleProvider
	case GroupCustomers:
		role = RoleCustomer
	}
	return Recipient{Group: group, Role: role}
}

func (r Recipient) IsGroup() bool {
	return r.Group != ""
}

// StreamKey is the durable partition key of the recipient's notification log
// and the registry target used for live fan-out.
func (r Recipient) StreamKey() string {
	if r.IsGroup() {
		return GroupStreamKey(r.Group)
	}
	return r.SubjectID
}

func GroupStreamKey(group string) string {
	return groupStreamPrefix + group
}

// RecipientFromStreamKey reverses StreamKey. role is only used for subject
// streams; group streams carry their own role.
func RecipientFromStreamKey(key string, role Role) Recipient {
	if group, ok := strings.CutPrefix(key, groupStreamPrefix); ok {
		return GroupRecipient(group)
	}
	return SubjectRecipient(key, role)
}

func IsGroupStreamKey(key string) bool {
	return strings.HasPrefix(key, groupStreamPrefix)
}

// NotificationDraft is a notification before the store assigned its id and
// sequence number.
type NotificationDraft struct {
	Recipient Recipient
	Kind      NotificationKind
	BookingID string
	State     BookingState
	Summary   string
}

// Notification is a durable record of one deliverable event.
//
// Storage model (DynamoDB):
//   - PK: recipient (stream key)
//   - SK: seq
//
// Sequence numbers are gap-free per recipient. Delivered is advisory and is
// the only attribute written after creation.
type Notification struct {
	ID        string           `json:"id"`
	Sequence  int64            `json:"sequence"`
	Recipient Recipient        `json:"recipient"`
	Kind      NotificationKind `json:"kind"`
	BookingID string           `json:"booking_id,omitempty"`
	State     BookingState     `json:"state,omitempty"`
	Summary   string           `json:"summary"`
	CreatedAt time.Time        `json:"created_at"`
	Delivered bool             `json:"delivered"`
}
