//Package stats keeps a history of finished matches in a sqlite database so
//an installation can show recent results between matches.
package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/srliao/streetfire/pkg/game"
)

//ErrNotFound is returned for an unknown match id
var ErrNotFound = errors.New("match not found")

//MatchRecord is one finished match
type MatchRecord struct {
	ID         string `gorm:"primaryKey;size:36"`
	Label      string `gorm:"index"`
	Winner     int
	P1Hits     int
	P2Hits     int
	P1Blocks   int
	P2Blocks   int
	P1Damage   int
	P2Damage   int
	DurationMS int64
	Ticks      int
	CreatedAt  time.Time     `gorm:"index"`
	Rounds     []RoundRecord `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
}

//RoundRecord is one round of a match
type RoundRecord struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	MatchID    string `gorm:"index;size:36"`
	Round      int
	Winner     int
	Reason     string
	P1HP       int
	P2HP       int
	DurationMS int64
}

var models = []interface{}{
	&MatchRecord{},
	&RoundRecord{},
}

//Recorder writes match results to the database
type Recorder struct {
	Log *zap.SugaredLogger
	db  *gorm.DB
}

//Open opens (or creates) the database at path; an empty path keeps
//everything in memory
func Open(path string, log *zap.SugaredLogger) (*Recorder, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening stats db %q: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing sql interface: %w", err)
	}
	//every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models...); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating stats db: %w", err)
	}
	if path == "" {
		log.Info("using in-memory stats db")
	} else {
		log.Infow("using stats db", "path", path)
	}
	return &Recorder{Log: log, db: db}, nil
}

//Record saves a finished match and returns its id
func (r *Recorder) Record(res game.MatchResult) (string, error) {
	rec := FromResult(res)
	rec.ID = uuid.NewString()
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	})
	if err != nil {
		return "", fmt.Errorf("recording match: %w", err)
	}
	r.Log.Infow("match recorded", "id", rec.ID, "winner", rec.Winner, "rounds", len(rec.Rounds))
	return rec.ID, nil
}

//Recent returns up to n matches, newest first, with their rounds
func (r *Recorder) Recent(n int) ([]MatchRecord, error) {
	var out []MatchRecord
	err := r.db.
		Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("round") }).
		Order("created_at desc").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("loading recent matches: %w", err)
	}
	return out, nil
}

//Get loads a single match by id
func (r *Recorder) Get(id string) (MatchRecord, error) {
	var rec MatchRecord
	err := r.db.
		Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("round") }).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, fmt.Errorf("match %v: %w", id, ErrNotFound)
	}
	return rec, err
}

//Wins counts the matches each player has won
func (r *Recorder) Wins() ([2]int64, error) {
	var w [2]int64
	for i := range w {
		if err := r.db.Model(&MatchRecord{}).Where("winner = ?", i+1).Count(&w[i]).Error; err != nil {
			return w, err
		}
	}
	return w, nil
}

func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

//FromResult flattens a match result into a record without an id
func FromResult(res game.MatchResult) MatchRecord {
	rec := MatchRecord{
		Label:      res.Label,
		Winner:     res.Winner,
		P1Hits:     res.Hits[0],
		P2Hits:     res.Hits[1],
		P1Blocks:   res.Blocks[0],
		P2Blocks:   res.Blocks[1],
		P1Damage:   res.Damage[0],
		P2Damage:   res.Damage[1],
		DurationMS: res.Duration.Milliseconds(),
		Ticks:      res.Ticks,
	}
	for _, rr := range res.Rounds {
		rec.Rounds = append(rec.Rounds, RoundRecord{
			Round:      rr.Round,
			Winner:     rr.Winner,
			Reason:     rr.Reason.String(),
			P1HP:       rr.HP[0],
			P2HP:       rr.HP[1],
			DurationMS: rr.Duration.Milliseconds(),
		})
	}
	return rec
}
