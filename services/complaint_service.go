package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gas-complaint-server/appstate"
	"gas-complaint-server/models"
	"gas-complaint-server/store"
	"gas-complaint-server/utils"
	ws "gas-complaint-server/websocket"
)

// ComplaintService is the complaint lifecycle engine. It owns every status
// transition, mutates the in-memory state first, persists the delta and then
// fires best-effort notifications. Guard failures come back as explicit
// errors; persistence failures propagate but do not roll back the in-memory
// mutation.
type ComplaintService struct {
	state *appstate.State
	store store.Store
	sms   *SmsService
	hub   *ws.Hub
}

func NewComplaintService(state *appstate.State, st store.Store, sms *SmsService, hub *ws.Hub) *ComplaintService {
	return &ComplaintService{state: state, store: st, sms: sms, hub: hub}
}

// CreateComplaintInput carries the complainant-supplied fields.
type CreateComplaintInput struct {
	GasFileNumber      string
	ProjectAddress     string
	ContactPhoneNumber string
	SupervisorID       string
	ExecutorID         string
	ComplaintType      models.ComplaintType
	Description        string
	Attachments        []models.Attachment
}

// newTrackingCode derives a human-presentable code from the clock, matching
// the C-xxxxxx codes complainants quote on the phone.
func newTrackingCode() string {
	return fmt.Sprintf("C-%06d", time.Now().UnixMilli()%1000000)
}

// Create files a new complaint owned by the actor. The contact phone must be
// a valid mobile number, the project address is mandatory and both engineers
// must resolve against the roster.
func (s *ComplaintService) Create(actor *models.User, in CreateComplaintInput) (*models.Complaint, error) {
	if !utils.ValidatePhoneNumber(in.ContactPhoneNumber) {
		return nil, validationErrorf("contact phone number must be a valid mobile number (e.g. 09123456789)")
	}
	if in.ProjectAddress == "" {
		return nil, validationErrorf("project address is required")
	}
	if !in.ComplaintType.IsValid() {
		return nil, validationErrorf("invalid complaint type %q", in.ComplaintType)
	}

	supervisor, ok := s.state.UserByID(in.SupervisorID)
	if !ok || supervisor.Role != models.RoleSupervisor {
		return nil, validationErrorf("supervisor %q not found in the roster", in.SupervisorID)
	}
	executor, ok := s.state.UserByID(in.ExecutorID)
	if !ok || executor.Role != models.RoleExecutor {
		return nil, validationErrorf("executor %q not found in the roster", in.ExecutorID)
	}

	supervisorRef := supervisor.Public()
	executorRef := executor.Public()
	complaint := models.Complaint{
		ID:                 newTrackingCode(),
		GasFileNumber:      in.GasFileNumber,
		Complainant:        actor.Public(),
		ProjectAddress:     in.ProjectAddress,
		ContactPhoneNumber: in.ContactPhoneNumber,
		Supervisor:         &supervisorRef,
		Executor:           &executorRef,
		ComplaintType:      in.ComplaintType,
		Description:        in.Description,
		Status:             models.StatusNew,
		Attachments:        in.Attachments,
		Comments:           []models.Comment{},
		ReferralHistory:    []models.ReferralLog{},
		CreatedAt:          time.Now(),
	}

	s.state.AddComplaint(complaint)
	if err := s.persist(&complaint); err != nil {
		return &complaint, err
	}

	s.sms.Dispatch(complaint.ContactPhoneNumber, s.sms.Settings().Templates.NewComplaint,
		map[string]string{"id": complaint.ID})
	s.publish(ws.EventComplaintCreated, &complaint, actor)

	return &complaint, nil
}

// Refer routes the complaint to a supervisor or executor. Admin only.
// Referral is idempotent per target: a second refer to an already-referred
// target changes nothing and sends nothing.
func (s *ComplaintService) Refer(actor *models.User, complaintID string, target models.ReferralTarget) (*models.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !target.IsValid() {
		return nil, validationErrorf("invalid referral target %q", target)
	}

	alreadyReferred := false
	updated, err := s.state.UpdateComplaint(complaintID, func(c *models.Complaint) error {
		if c.IsClosed() {
			return ErrComplaintClosed
		}
		if c.ReferredTo(target) {
			alreadyReferred = true
			return nil
		}

		now := time.Now()
		c.Status = models.StatusReferred
		// Leaving Investigation through a referral releases the hold.
		c.InvestigationTarget = ""
		if c.ReferredAt == nil {
			c.ReferredAt = &now
		}
		c.ReferralHistory = append(c.ReferralHistory, models.ReferralLog{
			ID:         uuid.NewString(),
			Target:     target,
			ReferredAt: now,
			ReferredBy: actor.Public(),
		})
		if target == models.TargetSupervisor {
			c.ReferredToSupervisor = true
		} else {
			c.ReferredToExecutor = true
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapStateErr(err)
	}
	if alreadyReferred {
		return &updated, nil
	}

	if err := s.persist(&updated); err != nil {
		return &updated, err
	}

	templates := s.sms.Settings().Templates
	if engineer := updated.EngineerFor(target); engineer != nil {
		s.sms.Dispatch(engineer.PhoneNumber, templates.ReferralToEngineer,
			map[string]string{"id": updated.ID})
	}
	s.sms.Dispatch(updated.ContactPhoneNumber, templates.ReferralNotification,
		map[string]string{"id": updated.ID, "target": updated.ReferralTargetsLabel()})
	s.publish(ws.EventComplaintReferred, &updated, actor)

	return &updated, nil
}

// AddComment appends a response. In Referred/Responded only the referred
// engineer may respond and the complaint moves to Responded. In
// Investigation only the targeted party may respond and the status stays
// Investigation until the admin re-refers or closes.
func (s *ComplaintService) AddComment(actor *models.User, complaintID, text string, attachments []models.Attachment) (*models.Complaint, error) {
	if text == "" {
		return nil, validationErrorf("comment text is required")
	}
	if attachments == nil {
		attachments = []models.Attachment{}
	}

	updated, err := s.state.UpdateComplaint(complaintID, func(c *models.Complaint) error {
		if c.IsClosed() {
			return ErrComplaintClosed
		}

		comment := models.Comment{
			ID:          uuid.NewString(),
			Author:      actor.Public(),
			Text:        text,
			Attachments: attachments,
			CreatedAt:   time.Now(),
		}

		if c.Status == models.StatusInvestigation {
			if actor.Role != c.InvestigationTarget || !s.isParty(c, actor) {
				return ErrForbidden
			}
			// The hold stays open until the admin re-refers or closes.
			c.Comments = append(c.Comments, comment)
			return nil
		}

		if !s.isReferredEngineer(c, actor) {
			return ErrForbidden
		}
		now := time.Now()
		c.Comments = append(c.Comments, comment)
		c.Status = models.StatusResponded
		c.RespondedAt = &now
		return nil
	})
	if err != nil {
		return nil, s.wrapStateErr(err)
	}

	if err := s.persist(&updated); err != nil {
		return &updated, err
	}
	s.publish(ws.EventComplaintResponded, &updated, actor)
	return &updated, nil
}

// ReturnComplaint bounces the complaint into Investigation, naming the role
// that must cure the defect. Admin only.
func (s *ComplaintService) ReturnComplaint(actor *models.User, complaintID, reason string, targetRole models.Role) (*models.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if reason == "" {
		return nil, validationErrorf("a reason for the return is required")
	}
	switch targetRole {
	case models.RoleComplainant, models.RoleSupervisor, models.RoleExecutor:
	default:
		return nil, validationErrorf("invalid investigation target %q", targetRole)
	}

	var targetPhone string
	updated, err := s.state.UpdateComplaint(complaintID, func(c *models.Complaint) error {
		if c.IsClosed() {
			return ErrComplaintClosed
		}

		switch targetRole {
		case models.RoleComplainant:
			targetPhone = c.ContactPhoneNumber
		case models.RoleSupervisor:
			if c.Supervisor != nil {
				targetPhone = c.Supervisor.PhoneNumber
			}
		case models.RoleExecutor:
			if c.Executor != nil {
				targetPhone = c.Executor.PhoneNumber
			}
		}

		c.Comments = append(c.Comments, models.Comment{
			ID:     uuid.NewString(),
			Author: actor.Public(),
			Text: fmt.Sprintf("*** اعلام نقص مدارک / درخواست اطلاعات (مخاطب: %s) ***\n%s",
				targetRole.PersianLabel(), reason),
			Attachments: []models.Attachment{},
			CreatedAt:   time.Now(),
		})
		c.Status = models.StatusInvestigation
		c.InvestigationTarget = targetRole
		return nil
	})
	if err != nil {
		return nil, s.wrapStateErr(err)
	}

	if err := s.persist(&updated); err != nil {
		return &updated, err
	}

	s.sms.Dispatch(targetPhone, s.sms.Settings().Templates.DefectReturn,
		map[string]string{"id": updated.ID})
	s.publish(ws.EventComplaintReturned, &updated, actor)
	return &updated, nil
}

// AddFinalVerdict closes the complaint with the terminal decision. Admin
// only.
func (s *ComplaintService) AddFinalVerdict(actor *models.User, complaintID, verdict string) (*models.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if verdict == "" {
		return nil, validationErrorf("verdict text is required")
	}

	updated, err := s.state.UpdateComplaint(complaintID, func(c *models.Complaint) error {
		if c.IsClosed() {
			return ErrComplaintClosed
		}
		now := time.Now()
		c.FinalVerdict = verdict
		c.ClosedAt = &now
		c.Status = models.StatusClosed
		c.InvestigationTarget = ""
		return nil
	})
	if err != nil {
		return nil, s.wrapStateErr(err)
	}

	if err := s.persist(&updated); err != nil {
		return &updated, err
	}

	s.sms.Dispatch(updated.ContactPhoneNumber, s.sms.Settings().Templates.FinalVerdict,
		map[string]string{"id": updated.ID})
	s.publish(ws.EventComplaintClosed, &updated, actor)
	return &updated, nil
}

// ListFor returns the complaints the viewer is allowed to see: admins see
// everything, complainants their own filings, engineers the cases routed to
// them (by referral or investigation).
func (s *ComplaintService) ListFor(viewer *models.User) []models.Complaint {
	all := s.state.Complaints()
	if viewer.IsAdmin() {
		return all
	}
	var out []models.Complaint
	for _, c := range all {
		if s.canView(&c, viewer) {
			out = append(out, c)
		}
	}
	return out
}

// Get returns a single complaint if the viewer may see it.
func (s *ComplaintService) Get(viewer *models.User, complaintID string) (*models.Complaint, error) {
	c, ok := s.state.ComplaintByID(complaintID)
	if !ok {
		return nil, ErrNotFound
	}
	if !viewer.IsAdmin() && !s.canView(&c, viewer) {
		return nil, ErrForbidden
	}
	return &c, nil
}

// VisibleComments filters at query time: admins see every comment, everyone
// else sees admin-authored comments plus their own. Storage is never
// filtered.
func (s *ComplaintService) VisibleComments(c *models.Complaint, viewer *models.User) []models.Comment {
	if viewer.IsAdmin() {
		return c.Comments
	}
	out := make([]models.Comment, 0, len(c.Comments))
	for _, comment := range c.Comments {
		if comment.Author.Role == models.RoleAdmin || comment.Author.ID == viewer.ID {
			out = append(out, comment)
		}
	}
	return out
}

// CanRespond derives response eligibility; it is never stored. An engineer
// may respond while referred, and the targeted party may respond during an
// investigation. Closed complaints take no responses.
func (s *ComplaintService) CanRespond(c *models.Complaint, u *models.User) bool {
	if c.IsClosed() {
		return false
	}
	if c.Status == models.StatusInvestigation {
		return u.Role == c.InvestigationTarget && s.isParty(c, u)
	}
	if c.Status == models.StatusReferred || c.Status == models.StatusResponded {
		return s.isReferredEngineer(c, u)
	}
	return false
}

// isReferredEngineer reports whether u is the complaint's supervisor or
// executor with the matching referral flag set.
func (s *ComplaintService) isReferredEngineer(c *models.Complaint, u *models.User) bool {
	switch u.Role {
	case models.RoleSupervisor:
		return c.ReferredToSupervisor && c.Supervisor != nil && c.Supervisor.ID == u.ID
	case models.RoleExecutor:
		return c.ReferredToExecutor && c.Executor != nil && c.Executor.ID == u.ID
	default:
		return false
	}
}

// isParty reports whether u is one of the complaint's named participants.
func (s *ComplaintService) isParty(c *models.Complaint, u *models.User) bool {
	switch u.Role {
	case models.RoleAdmin:
		return true
	case models.RoleComplainant:
		return c.Complainant.ID == u.ID
	case models.RoleSupervisor:
		return c.Supervisor != nil && c.Supervisor.ID == u.ID
	case models.RoleExecutor:
		return c.Executor != nil && c.Executor.ID == u.ID
	default:
		return false
	}
}

func (s *ComplaintService) canView(c *models.Complaint, viewer *models.User) bool {
	switch viewer.Role {
	case models.RoleAdmin:
		return true
	case models.RoleComplainant:
		return c.Complainant.ID == viewer.ID
	case models.RoleSupervisor:
		if c.Supervisor == nil || c.Supervisor.ID != viewer.ID {
			return false
		}
		return c.ReferredToSupervisor || c.InvestigationTarget == models.RoleSupervisor
	case models.RoleExecutor:
		if c.Executor == nil || c.Executor.ID != viewer.ID {
			return false
		}
		return c.ReferredToExecutor || c.InvestigationTarget == models.RoleExecutor
	default:
		return false
	}
}

func (s *ComplaintService) persist(c *models.Complaint) error {
	if err := s.store.SaveOne(store.CollectionComplaints, c.ID, c); err != nil {
		return &PersistenceError{Op: "save complaint " + c.ID, Err: err}
	}
	return nil
}

func (s *ComplaintService) wrapStateErr(err error) error {
	if errors.Is(err, appstate.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// publish fans a lifecycle event out to everyone who can see the complaint.
func (s *ComplaintService) publish(eventType string, c *models.Complaint, actor *models.User) {
	if s.hub == nil {
		return
	}
	recipients := []string{c.Complainant.ID}
	for _, admin := range s.state.UsersByRole(models.RoleAdmin) {
		recipients = append(recipients, admin.ID)
	}
	if c.Supervisor != nil && (c.ReferredToSupervisor || c.InvestigationTarget == models.RoleSupervisor) {
		recipients = append(recipients, c.Supervisor.ID)
	}
	if c.Executor != nil && (c.ReferredToExecutor || c.InvestigationTarget == models.RoleExecutor) {
		recipients = append(recipients, c.Executor.ID)
	}

	s.hub.NotifyUsers(recipients, &ws.Event{
		Type:        eventType,
		ComplaintID: c.ID,
		Status:      string(c.Status),
		StatusLabel: c.Status.PersianLabel(),
		ActorID:     actor.ID,
		Timestamp:   time.Now(),
	})
}
