// Package appstate holds the in-memory application state: the user roster,
// the complaint list and the SMS settings. Operations mutate this state
// first and persist afterwards, so the state is the source of truth for
// reads. A single RWMutex guards it; lifecycle and directory services take
// the write path, HTTP reads the read path.
package appstate

import (
	"encoding/json"
	"fmt"
	"sync"

	"gas-complaint-server/models"
	"gas-complaint-server/store"
)

type State struct {
	mu          sync.RWMutex
	users       []models.User
	complaints  []models.Complaint
	smsSettings models.SmsSettings
}

func New() *State {
	return &State{}
}

// Load populates the state from the store once at startup. Missing settings
// fall back to defaults; settings saved by older builds get their template
// gaps filled.
func (s *State) Load(st store.Store, defaults *models.SmsSettings) error {
	rawUsers, err := st.FetchAll(store.CollectionUsers)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	users := make([]models.User, 0, len(rawUsers))
	for _, raw := range rawUsers {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return fmt.Errorf("decode user: %w", err)
		}
		users = append(users, u)
	}

	rawComplaints, err := st.FetchAll(store.CollectionComplaints)
	if err != nil {
		return fmt.Errorf("load complaints: %w", err)
	}
	complaints := make([]models.Complaint, 0, len(rawComplaints))
	for _, raw := range rawComplaints {
		var c models.Complaint
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("decode complaint: %w", err)
		}
		complaints = append(complaints, c)
	}

	settings, err := st.FetchSettings(defaults)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings.FillTemplateDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.complaints = complaints
	s.smsSettings = *settings
	return nil
}

// --- Users ---

func (s *State) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *State) UserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *State) UsersByRole(role models.Role) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// AddUser appends a user; it reports false without mutating when the id is
// already taken.
func (s *State) AddUser(u models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.ID == u.ID {
			return false
		}
	}
	s.users = append(s.users, u)
	return true
}

// UpdateUser applies fn to the user under the write lock and returns the
// updated copy.
func (s *State) UpdateUser(id string, fn func(*models.User) error) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			if err := fn(&s.users[i]); err != nil {
				return models.User{}, err
			}
			return s.users[i], nil
		}
	}
	return models.User{}, ErrNotFound
}

// ReplaceEngineers swaps the engineer subset of the roster for the given
// list, preserving Admin and Complainant accounts, and returns the final
// roster.
func (s *State) ReplaceEngineers(engineers []models.User) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if !u.Role.IsEngineer() {
			kept = append(kept, u)
		}
	}
	s.users = append(kept, engineers...)
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// --- Complaints ---

func (s *State) Complaints() []models.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Complaint, len(s.complaints))
	copy(out, s.complaints)
	return out
}

func (s *State) ComplaintByID(id string) (models.Complaint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.complaints {
		if c.ID == id {
			return c, true
		}
	}
	return models.Complaint{}, false
}

func (s *State) AddComplaint(c models.Complaint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complaints = append(s.complaints, c)
}

// UpdateComplaint applies fn to the complaint under the write lock, keeping
// multi-field transitions atomic, and returns the updated copy.
func (s *State) UpdateComplaint(id string, fn func(*models.Complaint) error) (models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.complaints {
		if s.complaints[i].ID == id {
			if err := fn(&s.complaints[i]); err != nil {
				return models.Complaint{}, err
			}
			return s.complaints[i], nil
		}
	}
	return models.Complaint{}, ErrNotFound
}

// --- SMS settings ---

func (s *State) SmsSettings() models.SmsSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.smsSettings
}

func (s *State) SetSmsSettings(settings models.SmsSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.smsSettings = settings
}
