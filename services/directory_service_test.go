package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gas-complaint-server/appstate"
	"gas-complaint-server/models"
	"gas-complaint-server/store"
	"gas-complaint-server/utils"
)

func newDirectoryFixture(t *testing.T) (*DirectoryService, *appstate.State, store.Store) {
	t.Helper()
	st, err := store.OpenLocal(t.TempDir())
	require.NoError(t, err)
	state := appstate.New()
	return NewDirectoryService(state, st), state, st
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, st := newDirectoryFixture(t)

	user, err := svc.Register("علی محمدی", "1234567890", "secret-123")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", user.ID)
	assert.Equal(t, models.RoleComplainant, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret-123", user.PasswordHash)

	// Login works with the registered credential only.
	got, err := svc.Authenticate("1234567890", "secret-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate("1234567890", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("0000000000", "secret-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Registering the same national id again is rejected.
	_, err = svc.Register("شخص دیگر", "1234567890", "other")
	assert.ErrorIs(t, err, ErrDuplicateUser)

	// The account survives through the store, hash included.
	raws, err := st.FetchAll(store.CollectionUsers)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	var stored models.User
	require.NoError(t, json.Unmarshal(raws[0], &stored))
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newDirectoryFixture(t)

	var vErr *ValidationError
	_, err := svc.Register("", "1234567890", "pw")
	require.ErrorAs(t, err, &vErr)
	_, err = svc.Register("نام", "12345", "pw")
	require.ErrorAs(t, err, &vErr)
	_, err = svc.Register("نام", "1234567890", "")
	require.ErrorAs(t, err, &vErr)
}

func TestAddAndUpdateEngineer(t *testing.T) {
	svc, _, _ := newDirectoryFixture(t)

	eng, err := svc.AddEngineer(EngineerInput{
		NationalID:  "1111111111",
		FullName:    "مهندس رضایی",
		Role:        models.RoleSupervisor,
		PhoneNumber: "09121111111",
	})
	require.NoError(t, err)
	assert.Empty(t, eng.PasswordHash, "no credential until a password is supplied")

	var vErr *ValidationError
	_, err = svc.AddEngineer(EngineerInput{NationalID: "2222222222", FullName: "نام", Role: models.RoleAdmin})
	require.ErrorAs(t, err, &vErr, "only engineer roles are allowed")

	newName := "مهندس رضایی نژاد"
	newRole := models.RoleExecutor
	updated, err := svc.UpdateEngineer(eng.ID, UpdateEngineerInput{FullName: &newName, Role: &newRole})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.FullName)
	assert.Equal(t, models.RoleExecutor, updated.Role)
	// Unset fields are left alone.
	assert.Equal(t, "09121111111", updated.PhoneNumber)

	badPhone := "12345"
	_, err = svc.UpdateEngineer(eng.ID, UpdateEngineerInput{PhoneNumber: &badPhone})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.UpdateEngineer("0000000000", UpdateEngineerInput{FullName: &newName})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportEngineersReplacesRoster(t *testing.T) {
	svc, state, st := newDirectoryFixture(t)

	// Existing roster: an admin, a complainant and one engineer with a
	// credential.
	require.True(t, state.AddUser(models.User{ID: "admin", FullName: "مدیر", Role: models.RoleAdmin}))
	_, err := svc.Register("علی محمدی", "1234567890", "pw")
	require.NoError(t, err)
	hash, err := utils.HashPassword("eng-pw")
	require.NoError(t, err)
	require.True(t, state.AddUser(models.User{
		ID: "1111111111", FullName: "مهندس قدیمی", Role: models.RoleSupervisor, PasswordHash: hash,
	}))

	err = svc.ImportEngineers([]EngineerImportRow{
		{FullName: "مهندس قدیمی", ID: "1111111111", Role: "supervisor", PhoneNumber: "09121111111"},
		{FullName: "مجری جدید", ID: "2222222222", Role: "executor"},
	})
	require.NoError(t, err)

	// Admin and complainant survive; the engineer subset is the import.
	users := state.Users()
	require.Len(t, users, 4)
	_, ok := state.UserByID("admin")
	assert.True(t, ok)
	_, ok = state.UserByID("1234567890")
	assert.True(t, ok)

	// The re-imported engineer keeps their credential and gains the phone.
	kept, ok := state.UserByID("1111111111")
	require.True(t, ok)
	assert.Equal(t, hash, kept.PasswordHash)
	assert.Equal(t, "09121111111", kept.PhoneNumber)

	added, ok := state.UserByID("2222222222")
	require.True(t, ok)
	assert.Equal(t, models.RoleExecutor, added.Role)
	assert.Empty(t, added.PasswordHash)

	// The whole roster was bulk-persisted.
	raws, err := st.FetchAll(store.CollectionUsers)
	require.NoError(t, err)
	assert.Len(t, raws, 4)
}

func TestImportEngineersRejectsWholeBatch(t *testing.T) {
	svc, state, _ := newDirectoryFixture(t)

	require.True(t, state.AddUser(models.User{ID: "1111111111", FullName: "قبلی", Role: models.RoleSupervisor}))

	err := svc.ImportEngineers([]EngineerImportRow{
		{FullName: "معتبر", ID: "3333333333", Role: "supervisor"},
		{FullName: "نقش نامعتبر", ID: "4444444444", Role: "Manager"},
	})
	var bErr *BatchError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, 1, bErr.Row)

	// The roster is untouched, valid rows included.
	users := state.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "1111111111", users[0].ID)

	// In-batch duplicates abort too, with the offending row.
	err = svc.ImportEngineers([]EngineerImportRow{
		{FullName: "اول", ID: "5555555555", Role: "executor"},
		{FullName: "دوم", ID: "5555555555", Role: "executor"},
	})
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, 1, bErr.Row)

	err = svc.ImportEngineers(nil)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newDirectoryFixture(t)

	user, err := svc.Register("علی محمدی", "1234567890", "old-pw")
	require.NoError(t, err)

	newName := "علی محمدی نیا"
	newPassword := "new-pw"
	avatar := "data:image/png;base64,abc"
	updated, err := svc.UpdateProfile(user.ID, ProfileInput{
		FullName: &newName,
		Password: &newPassword,
		Avatar:   &avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.FullName)
	assert.Equal(t, avatar, updated.Avatar)

	// The new password is live, the old one is not.
	_, err = svc.Authenticate(user.ID, "new-pw")
	require.NoError(t, err)
	_, err = svc.Authenticate(user.ID, "old-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// An empty password field leaves the credential alone.
	empty := ""
	_, err = svc.UpdateProfile(user.ID, ProfileInput{Password: &empty})
	require.NoError(t, err)
	_, err = svc.Authenticate(user.ID, "new-pw")
	require.NoError(t, err)
}

func TestEngineerViews(t *testing.T) {
	svc, state, _ := newDirectoryFixture(t)

	require.True(t, state.AddUser(models.User{ID: "1111111111", Role: models.RoleSupervisor}))
	require.True(t, state.AddUser(models.User{ID: "2222222222", Role: models.RoleExecutor}))
	require.True(t, state.AddUser(models.User{ID: "admin", Role: models.RoleAdmin}))

	assert.Len(t, svc.Engineers(), 2)
	require.Len(t, svc.Supervisors(), 1)
	assert.Equal(t, "1111111111", svc.Supervisors()[0].ID)
	require.Len(t, svc.Executors(), 1)
	assert.Equal(t, "2222222222", svc.Executors()[0].ID)
}
