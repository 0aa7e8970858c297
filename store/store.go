// Package store is the persistence abstraction behind the complaint board.
// Exactly one backend is live for the process lifetime: Postgres when DB_URL
// is configured, otherwise a local file store. Business logic never branches
// on which one it got.
package store

import (
	"encoding/json"
	"log"

	"gas-complaint-server/config"
	"gas-complaint-server/models"
)

// Collection names the three logical collections.
type Collection string

const (
	CollectionUsers      Collection = "users"
	CollectionComplaints Collection = "complaints"
	CollectionSettings   Collection = "settings"
)

// settingsID is the fixed id of the singleton settings document.
const settingsID = "global_sms_settings"

// Item pairs an entity with its id for bulk saves.
type Item struct {
	ID   string
	Data interface{}
}

// Store is the uniform persistence contract. Failures surface as errors so
// callers can report them; they are never swallowed here.
type Store interface {
	// FetchAll returns every document in the collection.
	FetchAll(c Collection) ([]json.RawMessage, error)
	// SaveOne upserts a single document by id (insert-or-replace,
	// last-write-wins).
	SaveOne(c Collection, id string, data interface{}) error
	// SaveAll persists a batch. The local backend overwrites the whole
	// collection; Postgres upserts each row.
	SaveAll(c Collection, items []Item) error
	// FetchSettings loads the singleton settings document, falling back to
	// def when none has been saved yet.
	FetchSettings(def *models.SmsSettings) (*models.SmsSettings, error)
	SaveSettings(s *models.SmsSettings) error
	// Backend names the live implementation, for the health endpoint.
	Backend() string
}

// Open selects and initializes the backend once at startup.
func Open(cfg *config.Config) (Store, error) {
	if cfg.Database.URL != "" {
		s, err := OpenPostgres(cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		log.Println("🔌 Connected to cloud database (Postgres)")
		return s, nil
	}

	s, err := OpenLocal(cfg.Database.DataDir)
	if err != nil {
		return nil, err
	}
	log.Println("💾 Using local file storage")
	return s, nil
}
