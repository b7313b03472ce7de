// Package store keeps a SQLite history of bridge decisions so the engine can
// report whether they turned out right.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lox/sambridge/internal/fileutil"
	"github.com/lox/sambridge/internal/provider"
)

// ErrNotFound is returned for unknown decision ids
var ErrNotFound = errors.New("decision not found")

// Decision kinds
const (
	KindDeclaration = "declaration"
	KindMove        = "move"
)

// Decision is one answer the bridge gave
type Decision struct {
	ID            string `gorm:"primaryKey;size:36"`
	Kind          string `gorm:"size:16;index"`
	GameID        string `gorm:"size:64;index"`
	PlayerID      int
	Tier          string `gorm:"size:16;index"`
	Provider      string `gorm:"size:64"`
	HandJSON      string `gorm:"type:text"`
	AnswerJSON    string `gorm:"type:text"`
	ShouldDeclare bool
	Probability   float64
	Fallbacks     int
	LatencyNS     int64
	Correct       *bool `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Database wraps the gorm handle. Writes are serialised because SQLite
// allows a single writer.
type Database struct {
	gorm   *gorm.DB
	mu     sync.Mutex
	logger *log.Logger
}

// Open initialises the SQLite database at path
func Open(path string, l *log.Logger) (*Database, error) {
	if l == nil {
		l = log.Default()
	}
	if path != ":memory:" {
		if err := fileutil.EnsureDir(path); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Decision{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	l = l.WithPrefix("store")
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		l.Warn("Enable WAL mode", "error", err)
	}
	return &Database{gorm: db, logger: l}, nil
}

// Close closes the underlying database connection
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordDeclaration stores a bridge declaration
func (d *Database) RecordDeclaration(ctx context.Context, req provider.DeclarationRequest, res provider.DeclarationResult) error {
	hand, err := json.Marshal(req.Hand)
	if err != nil {
		return err
	}
	answer, err := json.Marshal(res.Declaration)
	if err != nil {
		return err
	}
	return d.save(ctx, &Decision{
		ID:            res.ID,
		Kind:          KindDeclaration,
		Tier:          string(res.Tier),
		Provider:      res.Provider,
		HandJSON:      string(hand),
		AnswerJSON:    string(answer),
		ShouldDeclare: res.ShouldDeclare,
		Probability:   res.Probability,
		Fallbacks:     len(res.Fallbacks),
		LatencyNS:     res.Latency.Nanoseconds(),
	})
}

// RecordMove stores a bridge move selection
func (d *Database) RecordMove(ctx context.Context, req provider.MoveRequest, res provider.MoveResult) error {
	hand, err := json.Marshal(req.Record.Hand)
	if err != nil {
		return err
	}
	answer, err := json.Marshal(res.Move)
	if err != nil {
		return err
	}
	return d.save(ctx, &Decision{
		ID:         res.ID,
		Kind:       KindMove,
		GameID:     req.Record.GameID,
		PlayerID:   req.Record.PlayerID,
		Tier:       string(res.Tier),
		Provider:   res.Provider,
		HandJSON:   string(hand),
		AnswerJSON: string(answer),
		Fallbacks:  len(res.Fallbacks),
		LatencyNS:  res.Latency.Nanoseconds(),
	})
}

func (d *Database) save(ctx context.Context, rec *Decision) error {
	if rec.ID == "" {
		return errors.New("decision id is empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.gorm.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("save decision %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads a decision by id
func (d *Database) Get(ctx context.Context, id string) (*Decision, error) {
	var rec Decision
	err := d.gorm.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkOutcome records whether a decision turned out correct
func (d *Database) MarkOutcome(ctx context.Context, id string, correct bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := d.gorm.WithContext(ctx).Model(&Decision{}).Where("id = ?", id).Update("correct", correct)
	if res.Error != nil {
		return fmt.Errorf("mark outcome %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TierAccuracy is the accuracy of one tier's labelled decisions
type TierAccuracy struct {
	Decisions int64   `json:"decisions"`
	Labelled  int64   `json:"labelled"`
	Correct   int64   `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

// Accuracy summarises labelled decisions overall and per tier
type Accuracy struct {
	TierAccuracy
	ByTier map[string]TierAccuracy `json:"by_tier"`
}

// AccuracyStats computes accuracy over every labelled decision
func (d *Database) AccuracyStats(ctx context.Context) (Accuracy, error) {
	var rows []struct {
		Tier         string
		Total        int64
		Labelled     int64
		CorrectCount int64
	}
	err := d.gorm.WithContext(ctx).Model(&Decision{}).
		Select("tier, count(*) AS total, count(correct) AS labelled, " +
			"coalesce(sum(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct_count").
		Group("tier").
		Scan(&rows).Error
	if err != nil {
		return Accuracy{}, fmt.Errorf("accuracy stats: %w", err)
	}

	out := Accuracy{ByTier: map[string]TierAccuracy{}}
	for _, r := range rows {
		t := accuracy(r.Total, r.Labelled, r.CorrectCount)
		out.ByTier[r.Tier] = t
		out.Decisions += t.Decisions
		out.Labelled += t.Labelled
		out.Correct += t.Correct
	}
	out.TierAccuracy = accuracy(out.Decisions, out.Labelled, out.Correct)
	return out, nil
}

func accuracy(total, labelled, correct int64) TierAccuracy {
	t := TierAccuracy{Decisions: total, Labelled: labelled, Correct: correct}
	if labelled > 0 {
		t.Accuracy = float64(correct) / float64(labelled)
	}
	return t
}
