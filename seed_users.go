package main

import (
	"log"

	"gas-complaint-server/appstate"
	"gas-complaint-server/models"
	"gas-complaint-server/store"
	"gas-complaint-server/utils"
)

// seedUsers populates the roster on first run so the board is usable out of
// the box: one admin and a demo account per role. Passwords here are
// placeholders for local evaluation; production deployments replace them on
// first login.
func seedUsers(state *appstate.State, st store.Store) error {
	if len(state.Users()) > 0 {
		return nil
	}

	seeds := []struct {
		id       string
		fullName string
		password string
		role     models.Role
	}{
		{"admin", "مدیر سیستم", "admin", models.RoleAdmin},
		{"1234567890", "علی محمدی (شاکی)", "123", models.RoleComplainant},
		{"eng1", "مهندس رضایی (ناظر)", "123", models.RoleSupervisor},
		{"exec1", "شرکت گاز سوزان (مجری)", "123", models.RoleExecutor},
	}

	items := make([]store.Item, 0, len(seeds))
	for _, seed := range seeds {
		hash, err := utils.HashPassword(seed.password)
		if err != nil {
			return err
		}
		user := models.User{
			ID:           seed.id,
			FullName:     seed.fullName,
			PasswordHash: hash,
			Role:         seed.role,
		}
		state.AddUser(user)
		items = append(items, store.Item{ID: user.ID, Data: user})
	}

	if err := st.SaveAll(store.CollectionUsers, items); err != nil {
		return err
	}
	log.Printf("✅ Seeded %d initial users", len(seeds))
	return nil
}
