package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gas-complaint-server/models"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := OpenLocal(t.TempDir())
	require.NoError(t, err)
	return s
}

func sampleComplaint() models.Complaint {
	created := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	referred := created.Add(time.Hour)
	supervisor := models.User{ID: "1111111111", FullName: "ناظر نمونه", Role: models.RoleSupervisor, PhoneNumber: "09121111111"}
	executor := models.User{ID: "2222222222", FullName: "مجری نمونه", Role: models.RoleExecutor, PhoneNumber: "09122222222"}

	return models.Complaint{
		ID:                 "C-123456",
		GasFileNumber:      "GF-42",
		Complainant:        models.User{ID: "1234567890", FullName: "علی محمدی", Role: models.RoleComplainant},
		ProjectAddress:     "تهران، خیابان آزادی",
		ContactPhoneNumber: "09123456789",
		Supervisor:         &supervisor,
		Executor:           &executor,
		ComplaintType:      models.TypeAgainstSupervisor,
		Description:        "نشتی گاز در محل پروژه",
		Status:             models.StatusReferred,
		Attachments: []models.Attachment{
			{ID: "a1", Name: "photo.jpg", URL: "data:image/jpeg;base64,xyz"},
		},
		Comments: []models.Comment{
			{
				ID:          "cm1",
				Author:      supervisor,
				Text:        "بازدید انجام شد",
				Attachments: []models.Attachment{{ID: "a2", Name: "report.pdf", URL: "https://example.com/report.pdf"}},
				CreatedAt:   referred,
			},
		},
		ReferralHistory: []models.ReferralLog{
			{ID: "r1", Target: models.TargetSupervisor, ReferredAt: referred, ReferredBy: models.User{ID: "admin", Role: models.RoleAdmin}},
		},
		CreatedAt:            created,
		ReferredAt:           &referred,
		ReferredToSupervisor: true,
	}
}

func TestLocalStoreComplaintRoundTrip(t *testing.T) {
	s := newTestStore(t)
	original := sampleComplaint()

	require.NoError(t, s.SaveOne(CollectionComplaints, original.ID, original))

	raws, err := s.FetchAll(CollectionComplaints)
	require.NoError(t, err)
	require.Len(t, raws, 1)

	var loaded models.Complaint
	require.NoError(t, json.Unmarshal(raws[0], &loaded))
	assert.Equal(t, original, loaded)
}

func TestLocalStoreSaveOneUpsert(t *testing.T) {
	s := newTestStore(t)

	first := models.User{ID: "1234567890", FullName: "Before", Role: models.RoleComplainant}
	second := models.User{ID: "0987654321", FullName: "Other", Role: models.RoleSupervisor}
	require.NoError(t, s.SaveOne(CollectionUsers, first.ID, first))
	require.NoError(t, s.SaveOne(CollectionUsers, second.ID, second))

	// Replacing by id must not append a duplicate.
	first.FullName = "After"
	require.NoError(t, s.SaveOne(CollectionUsers, first.ID, first))

	raws, err := s.FetchAll(CollectionUsers)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	var users []models.User
	for _, raw := range raws {
		var u models.User
		require.NoError(t, json.Unmarshal(raw, &u))
		users = append(users, u)
	}
	assert.Equal(t, "After", users[0].FullName)
	assert.Equal(t, "Other", users[1].FullName)
}

func TestLocalStoreSaveAllOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveOne(CollectionUsers, "old", models.User{ID: "old", Role: models.RoleExecutor}))

	replacement := []Item{
		{ID: "u1", Data: models.User{ID: "u1", Role: models.RoleSupervisor}},
		{ID: "u2", Data: models.User{ID: "u2", Role: models.RoleExecutor}},
	}
	require.NoError(t, s.SaveAll(CollectionUsers, replacement))

	raws, err := s.FetchAll(CollectionUsers)
	require.NoError(t, err)
	assert.Len(t, raws, 2)
}

func TestLocalStoreFetchAllEmpty(t *testing.T) {
	s := newTestStore(t)
	raws, err := s.FetchAll(CollectionComplaints)
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestLocalStoreSettings(t *testing.T) {
	s := newTestStore(t)
	def := models.DefaultSmsSettings("", "")

	// No settings saved yet: defaults come back.
	loaded, err := s.FetchSettings(def)
	require.NoError(t, err)
	assert.Equal(t, def, loaded)

	saved := models.DefaultSmsSettings("key-123", "2000660110")
	saved.IsEnabled = false
	saved.Templates.NewComplaint = "کد پیگیری: {id}"
	require.NoError(t, s.SaveSettings(saved))

	loaded, err = s.FetchSettings(def)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}
