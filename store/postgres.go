package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"gas-complaint-server/models"
)

// row is the uniform shape of every collection table: the entity is kept as
// one JSON document per row, keyed by the entity id.
type row struct {
	ID   string `gorm:"primaryKey;size:64"`
	Data []byte `gorm:"type:jsonb;not null"`
}

// PostgresStore keeps each collection in its own {id, data} table with
// upsert-by-id semantics. No version column: last write wins.
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgres connects, tunes the pool and ensures the collection tables
// exist.
func OpenPostgres(url string) (*PostgresStore, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, c := range []Collection{CollectionUsers, CollectionComplaints, CollectionSettings} {
		if err := db.Table(string(c)).AutoMigrate(&row{}); err != nil {
			return nil, fmt.Errorf("failed to migrate %s table: %w", c, err)
		}
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Backend() string {
	return "postgres"
}

func (s *PostgresStore) FetchAll(c Collection) ([]json.RawMessage, error) {
	var rows []row
	if err := s.db.Table(string(c)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c, err)
	}
	out := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, json.RawMessage(r.Data))
	}
	return out, nil
}

// upsert inserts or replaces by primary key.
var upsertClause = clause.OnConflict{
	Columns:   []clause.Column{{Name: "id"}},
	DoUpdates: clause.AssignmentColumns([]string{"data"}),
}

func (s *PostgresStore) SaveOne(c Collection, id string, data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", c, id, err)
	}
	if err := s.db.Table(string(c)).Clauses(upsertClause).Create(&row{ID: id, Data: b}).Error; err != nil {
		return fmt.Errorf("save %s/%s: %w", c, id, err)
	}
	return nil
}

func (s *PostgresStore) SaveAll(c Collection, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]row, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item.Data)
		if err != nil {
			return fmt.Errorf("marshal %s/%s: %w", c, item.ID, err)
		}
		rows = append(rows, row{ID: item.ID, Data: b})
	}
	if err := s.db.Table(string(c)).Clauses(upsertClause).Create(&rows).Error; err != nil {
		return fmt.Errorf("bulk save %s: %w", c, err)
	}
	return nil
}

func (s *PostgresStore) FetchSettings(def *models.SmsSettings) (*models.SmsSettings, error) {
	var r row
	err := s.db.Table(string(CollectionSettings)).Where("id = ?", settingsID).First(&r).Error
	if err == gorm.ErrRecordNotFound {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("fetch settings: %w", err)
	}
	var settings models.SmsSettings
	if err := json.Unmarshal(r.Data, &settings); err != nil {
		return def, fmt.Errorf("decode settings: %w", err)
	}
	return &settings, nil
}

func (s *PostgresStore) SaveSettings(settings *models.SmsSettings) error {
	return s.SaveOne(CollectionSettings, settingsID, settings)
}
