package services

import (
	"errors"

	"gas-complaint-server/appstate"
	"gas-complaint-server/models"
	"gas-complaint-server/store"
	"gas-complaint-server/utils"
)

// DirectoryService manages the user roster: registration, engineer CRUD,
// batch imports and profile updates. Supervisors and executors are always
// derived views over the roster, never stored separately.
type DirectoryService struct {
	state *appstate.State
	store store.Store
}

func NewDirectoryService(state *appstate.State, st store.Store) *DirectoryService {
	return &DirectoryService{state: state, store: st}
}

// Register creates a complainant account keyed by the national id.
func (s *DirectoryService) Register(fullName, nationalID, password string) (*models.User, error) {
	if fullName == "" {
		return nil, validationErrorf("full name is required")
	}
	if !utils.ValidateNationalID(nationalID) {
		return nil, validationErrorf("national id must be exactly 10 digits")
	}
	if password == "" {
		return nil, validationErrorf("password is required")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           nationalID,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         models.RoleComplainant,
	}
	if !s.state.AddUser(user) {
		return nil, ErrDuplicateUser
	}

	if err := s.persistUser(&user); err != nil {
		return &user, err
	}
	return &user, nil
}

// Authenticate resolves the login name and verifies the password.
func (s *DirectoryService) Authenticate(nationalID, password string) (*models.User, error) {
	user, ok := s.state.UserByID(nationalID)
	if !ok || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// EngineerInput carries the fields of an administrative engineer add.
type EngineerInput struct {
	NationalID  string
	FullName    string
	Role        models.Role
	Email       string
	PhoneNumber string
	Password    string
}

// AddEngineer appends an engineer to the roster. The account has no
// credential until a password is supplied.
func (s *DirectoryService) AddEngineer(in EngineerInput) (*models.User, error) {
	if err := validateEngineerFields(in.FullName, in.NationalID, in.Role, in.PhoneNumber); err != nil {
		return nil, err
	}

	user := models.User{
		ID:          in.NationalID,
		FullName:    in.FullName,
		Role:        in.Role,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if !s.state.AddUser(user) {
		return nil, ErrDuplicateUser
	}
	if err := s.persistUser(&user); err != nil {
		return &user, err
	}
	return &user, nil
}

// UpdateEngineerInput carries a partial engineer edit; nil fields are left
// untouched.
type UpdateEngineerInput struct {
	FullName    *string
	Email       *string
	PhoneNumber *string
	Role        *models.Role
}

// UpdateEngineer merges the partial fields into an existing roster entry.
func (s *DirectoryService) UpdateEngineer(userID string, in UpdateEngineerInput) (*models.User, error) {
	if in.PhoneNumber != nil && *in.PhoneNumber != "" && !utils.ValidatePhoneNumber(*in.PhoneNumber) {
		return nil, validationErrorf("phone number must be a valid mobile number (e.g. 09123456789)")
	}
	if in.Role != nil && !in.Role.IsEngineer() {
		return nil, validationErrorf("role must be supervisor or executor")
	}

	updated, err := s.state.UpdateUser(userID, func(u *models.User) error {
		if in.FullName != nil {
			u.FullName = *in.FullName
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.PhoneNumber != nil {
			u.PhoneNumber = *in.PhoneNumber
		}
		if in.Role != nil {
			u.Role = *in.Role
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, appstate.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.persistUser(&updated); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// EngineerImportRow is one parsed spreadsheet row. Spreadsheet parsing
// happens upstream; by the time rows arrive here they are structured.
type EngineerImportRow struct {
	FullName    string `json:"fullName" binding:"required"`
	ID          string `json:"id" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// ImportEngineers validates the whole batch before touching the roster; the
// first invalid row aborts the import with its index. On success the
// engineer subset of the roster is replaced (Admin and Complainant accounts
// are preserved) and the full roster is bulk-persisted. Engineers that were
// already present keep their credential.
func (s *DirectoryService) ImportEngineers(rows []EngineerImportRow) error {
	if len(rows) == 0 {
		return validationErrorf("import file contains no rows")
	}

	engineers := make([]models.User, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		role := models.Role(row.Role)
		if err := validateEngineerFields(row.FullName, row.ID, role, row.PhoneNumber); err != nil {
			return &BatchError{Row: i, Err: err}
		}
		if seen[row.ID] {
			return &BatchError{Row: i, Err: validationErrorf("duplicate national id %s in batch", row.ID)}
		}
		seen[row.ID] = true

		user := models.User{
			ID:          row.ID,
			FullName:    row.FullName,
			Role:        role,
			Email:       row.Email,
			PhoneNumber: row.PhoneNumber,
		}
		if existing, ok := s.state.UserByID(row.ID); ok && existing.Role.IsEngineer() {
			user.PasswordHash = existing.PasswordHash
			user.Avatar = existing.Avatar
		}
		engineers = append(engineers, user)
	}

	roster := s.state.ReplaceEngineers(engineers)

	items := make([]store.Item, 0, len(roster))
	for i := range roster {
		items = append(items, store.Item{ID: roster[i].ID, Data: roster[i]})
	}
	if err := s.store.SaveAll(store.CollectionUsers, items); err != nil {
		return &PersistenceError{Op: "bulk save users", Err: err}
	}
	return nil
}

// ProfileInput is a self-service profile edit; nil fields are left alone.
type ProfileInput struct {
	FullName *string
	Password *string
	Avatar   *string
}

// UpdateProfile lets the logged-in user change their own name, password or
// avatar.
func (s *DirectoryService) UpdateProfile(userID string, in ProfileInput) (*models.User, error) {
	var hash string
	if in.Password != nil && *in.Password != "" {
		var err error
		hash, err = utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.state.UpdateUser(userID, func(u *models.User) error {
		if in.FullName != nil && *in.FullName != "" {
			u.FullName = *in.FullName
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if in.Avatar != nil {
			u.Avatar = *in.Avatar
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, appstate.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.persistUser(&updated); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// Engineers returns the engineer subset of the roster.
func (s *DirectoryService) Engineers() []models.User {
	out := s.state.UsersByRole(models.RoleSupervisor)
	return append(out, s.state.UsersByRole(models.RoleExecutor)...)
}

func (s *DirectoryService) Supervisors() []models.User {
	return s.state.UsersByRole(models.RoleSupervisor)
}

func (s *DirectoryService) Executors() []models.User {
	return s.state.UsersByRole(models.RoleExecutor)
}

func (s *DirectoryService) UserByID(id string) (models.User, bool) {
	return s.state.UserByID(id)
}

func (s *DirectoryService) persistUser(u *models.User) error {
	if err := s.store.SaveOne(store.CollectionUsers, u.ID, u); err != nil {
		return &PersistenceError{Op: "save user " + u.ID, Err: err}
	}
	return nil
}

func validateEngineerFields(fullName, nationalID string, role models.Role, phone string) error {
	if fullName == "" {
		return validationErrorf("full name is required")
	}
	if !utils.ValidateNationalID(nationalID) {
		return validationErrorf("national id %q must be exactly 10 digits", nationalID)
	}
	if !role.IsEngineer() {
		return validationErrorf("role %q must be supervisor or executor", role)
	}
	if phone != "" && !utils.ValidatePhoneNumber(phone) {
		return validationErrorf("phone number %q must be a valid mobile number", phone)
	}
	return nil
}
