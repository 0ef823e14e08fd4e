package locker

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentSection is one top-level section of the document stored as a JSON
// payload row. All sections are replaced inside a single transaction per
// mutation, so a reader never observes a half-saved document.
type documentSection struct {
	Name      string         `gorm:"primaryKey;size:32"`
	Payload   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (documentSection) TableName() string { return "document_sections" }

// GormBackend persists the document in PostgreSQL, one row per section.
type GormBackend struct {
	db *gorm.DB
}

// OpenPostgres opens a GORM connection using APP_DATABASE_URL (PostgreSQL URL).
func OpenPostgres(databaseURL string) (*GormBackend, error) {
	dsn := strings.TrimSpace(databaseURL)
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil, errors.New("APP_DATABASE_URL must be a postgres:// or postgresql:// URL")
	}

	// PrepareStmt: true prevents the GORM postgres migrator from forcing simple protocol
	// for "SELECT * FROM table LIMIT 1", which would otherwise trigger "insufficient arguments".
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&documentSection{}); err != nil {
		return nil, err
	}
	return &GormBackend{db: db}, nil
}

func (b *GormBackend) Load() (*Document, error) {
	var sections []documentSection
	if err := b.db.Find(&sections).Error; err != nil {
		return nil, err
	}

	d := NewDocument()
	for _, s := range sections {
		var err error
		switch s.Name {
		case "schemaVersion":
			err = json.Unmarshal(s.Payload, &d.SchemaVersion)
		case "apiKeys":
			err = json.Unmarshal(s.Payload, &d.APIKeys)
		case "projects":
			err = json.Unmarshal(s.Payload, &d.Projects)
		case "settings":
			err = json.Unmarshal(s.Payload, &d.Settings)
		case "registrations":
			err = json.Unmarshal(s.Payload, &d.Registrations)
		}
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (b *GormBackend) Save(d *Document) error {
	sections := map[string]any{
		"schemaVersion": d.SchemaVersion,
		"apiKeys":       d.APIKeys,
		"projects":      d.Projects,
		"settings":      d.Settings,
		"registrations": d.Registrations,
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		for name, section := range sections {
			payload, err := json.Marshal(section)
			if err != nil {
				return err
			}
			row := documentSection{Name: name, Payload: datatypes.JSON(payload)}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *GormBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
