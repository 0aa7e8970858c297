package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gas-complaint-server/models"
)

// LocalStore keeps each collection as a single JSON blob on disk, mirroring
// the browser-local fallback of the original system: SaveOne reads the whole
// collection, finds-or-appends by id and rewrites the blob; SaveAll
// overwrites it outright.
type LocalStore struct {
	dir string
	mu  sync.Mutex
}

func OpenLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Backend() string {
	return "local"
}

func (s *LocalStore) path(c Collection) string {
	if c == CollectionSettings {
		return filepath.Join(s.dir, "gas_app_sms_settings.json")
	}
	return filepath.Join(s.dir, "gas_app_"+string(c)+".json")
}

// writeFile writes via a temp file and rename so a crash never leaves a torn
// blob behind.
func (s *LocalStore) writeFile(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *LocalStore) readAll(c Collection) ([]json.RawMessage, error) {
	b, err := os.ReadFile(s.path(c))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c, err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	return items, nil
}

func (s *LocalStore) FetchAll(c Collection) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(c)
}

// idProbe pulls just the id out of a stored document.
type idProbe struct {
	ID string `json:"id"`
}

func (s *LocalStore) SaveOne(c Collection, id string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readAll(c)
	if err != nil {
		return err
	}

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", c, id, err)
	}

	replaced := false
	for i, item := range items {
		var probe idProbe
		if err := json.Unmarshal(item, &probe); err != nil {
			continue
		}
		if probe.ID == id {
			items[i] = b
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, b)
	}

	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := s.writeFile(s.path(c), blob); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	return nil
}

func (s *LocalStore) SaveAll(c Collection, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item.Data)
		if err != nil {
			return fmt.Errorf("marshal %s/%s: %w", c, item.ID, err)
		}
		docs = append(docs, b)
	}
	blob, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := s.writeFile(s.path(c), blob); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	return nil
}

func (s *LocalStore) FetchSettings(def *models.SmsSettings) (*models.SmsSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(CollectionSettings))
	if os.IsNotExist(err) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("read settings: %w", err)
	}
	var settings models.SmsSettings
	if err := json.Unmarshal(b, &settings); err != nil {
		return def, fmt.Errorf("decode settings: %w", err)
	}
	return &settings, nil
}

func (s *LocalStore) SaveSettings(settings *models.SmsSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.writeFile(s.path(CollectionSettings), b); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
