package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is a row of the kv_entries table.
type Entry struct {
	Key       string         `gorm:"column:kv_key;primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"column:value;not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (Entry) TableName() string { return "kv_entries" }

// GormStore keeps entries in a single table; works on postgres, mysql and sqlite.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var rows []Entry
	if err := s.DB.WithContext(ctx).Where("kv_key = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return false, fmt.Errorf("kv get %s: %w", key, err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(rows[0].Value, dst); err != nil {
		return false, fmt.Errorf("kv decode %s: %w", key, err)
	}
	return true, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv encode %s: %w", key, err)
	}
	e := Entry{Key: key, Value: datatypes.JSON(b), UpdatedAt: time.Now()}

	// upsert; mysql ignores Columns and uses ON DUPLICATE KEY
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.DB.WithContext(ctx).Where("kv_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, prefix string) ([]Item, error) {
	var rows []Entry
	err := s.DB.WithContext(ctx).
		Where("kv_key LIKE ? ESCAPE '!'", escapeLike(prefix)+"%").
		Order("kv_key asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("kv list %s: %w", prefix, err)
	}

	out := make([]Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, Item{Key: r.Key, Value: json.RawMessage(r.Value)})
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// '!' instead of '\' keeps the ESCAPE clause identical across dialects.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
