package models

import "time"

// ComplaintStatus is the lifecycle state of a complaint.
type ComplaintStatus string

const (
	StatusNew           ComplaintStatus = "new"
	StatusReferred      ComplaintStatus = "referred"
	StatusResponded     ComplaintStatus = "responded"
	StatusInvestigation ComplaintStatus = "investigation"
	StatusClosed        ComplaintStatus = "closed"
)

// PersianLabel returns the display label shown to end users.
func (s ComplaintStatus) PersianLabel() string {
	switch s {
	case StatusNew:
		return "جدید"
	case StatusReferred:
		return "ارجاع شده"
	case StatusResponded:
		return "پاسخ داده شده"
	case StatusInvestigation:
		return "نقص مدارک / بررسی مجدد"
	case StatusClosed:
		return "مختومه"
	default:
		return string(s)
	}
}

type ComplaintType string

const (
	TypeAgainstExecutor   ComplaintType = "against_executor"
	TypeAgainstSupervisor ComplaintType = "against_supervisor"
	TypeOther             ComplaintType = "other"
)

func (t ComplaintType) IsValid() bool {
	switch t {
	case TypeAgainstExecutor, TypeAgainstSupervisor, TypeOther:
		return true
	default:
		return false
	}
}

// ReferralTarget names which engineer a referral routes to.
type ReferralTarget string

const (
	TargetSupervisor ReferralTarget = "supervisor"
	TargetExecutor   ReferralTarget = "executor"
)

func (t ReferralTarget) IsValid() bool {
	return t == TargetSupervisor || t == TargetExecutor
}

// Attachment is immutable once attached. URL is either an inline data: URL or
// an externally hosted one, depending on the configured upload backend.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Comment is append-only and owned by its parent complaint.
type Comment struct {
	ID          string       `json:"id"`
	Author      User         `json:"author"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// ReferralLog is the append-only audit trail of referrals.
type ReferralLog struct {
	ID         string         `json:"id"`
	Target     ReferralTarget `json:"target"`
	ReferredAt time.Time      `json:"referredAt"`
	ReferredBy User           `json:"referredBy"`
}

// Complaint is the aggregate the lifecycle engine operates on. It is stored
// as one JSON document including its comments and referral history.
//
// Invariants kept by the lifecycle engine:
//   - Status == StatusClosed iff FinalVerdict and ClosedAt are set.
//   - Status == StatusInvestigation iff InvestigationTarget is set.
type Complaint struct {
	ID                   string          `json:"id"`
	GasFileNumber        string          `json:"gasFileNumber"`
	Complainant          User            `json:"complainant"`
	ProjectAddress       string          `json:"projectAddress"`
	ContactPhoneNumber   string          `json:"contactPhoneNumber"`
	Supervisor           *User           `json:"supervisor,omitempty"`
	Executor             *User           `json:"executor,omitempty"`
	ComplaintType        ComplaintType   `json:"complaintType"`
	Description          string          `json:"description"`
	Status               ComplaintStatus `json:"status"`
	Attachments          []Attachment    `json:"attachments"`
	Comments             []Comment       `json:"comments"`
	ReferralHistory      []ReferralLog   `json:"referralHistory"`
	CreatedAt            time.Time       `json:"createdAt"`
	ReferredAt           *time.Time      `json:"referredAt,omitempty"`
	RespondedAt          *time.Time      `json:"respondedAt,omitempty"`
	ClosedAt             *time.Time      `json:"closedAt,omitempty"`
	FinalVerdict         string          `json:"finalVerdict,omitempty"`
	ReferredToSupervisor bool            `json:"referredToSupervisor"`
	ReferredToExecutor   bool            `json:"referredToExecutor"`
	InvestigationTarget  Role            `json:"investigationTarget,omitempty"`
}

func (c *Complaint) IsClosed() bool {
	return c.Status == StatusClosed
}

// ReferredTo reports whether the complaint has been routed to the given target.
func (c *Complaint) ReferredTo(t ReferralTarget) bool {
	if t == TargetSupervisor {
		return c.ReferredToSupervisor
	}
	return c.ReferredToExecutor
}

// ReferralTargetsLabel is the Persian label of the referred parties, the
// conjunction "ناظر و مجری" once both are referred.
func (c *Complaint) ReferralTargetsLabel() string {
	switch {
	case c.ReferredToSupervisor && c.ReferredToExecutor:
		return "ناظر و مجری"
	case c.ReferredToExecutor:
		return "مجری"
	default:
		return "ناظر"
	}
}

// EngineerFor resolves the roster account a referral target points at.
func (c *Complaint) EngineerFor(t ReferralTarget) *User {
	if t == TargetSupervisor {
		return c.Supervisor
	}
	return c.Executor
}
