// Package journal appends Báo Sâm declarations and bridge decisions to a JSON
// lines file, the format the training pipeline consumes.
package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/fileutil"
	"github.com/lox/sambridge/internal/provider"
)

// Record kinds
const (
	KindBaoSam      = "bao_sam"
	KindDeclaration = "declaration"
	KindMove        = "move"
)

// Result is the outcome of a Báo Sâm declaration
type Result string

const (
	Success Result = "success"
	Fail    Result = "fail"
)

// BaoSam is one declaration played out at the table
type BaoSam struct {
	GameID   string         `json:"game_id"`
	PlayerID int            `json:"player_id"`
	Hand     cards.Hand     `json:"hand"`
	Sequence []combo.Combo  `json:"sammove_sequence"`
	Result   Result         `json:"result"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// Validate checks the record can be journaled
func (r BaoSam) Validate() error {
	if r.Result != Success && r.Result != Fail {
		return fmt.Errorf("result must be %q or %q, got %q", Success, Fail, r.Result)
	}
	if err := r.Hand.Validate(); err != nil {
		return fmt.Errorf("hand: %w", err)
	}
	return nil
}

// Journal is an append-only JSONL file. It is safe for concurrent use.
type Journal struct {
	path   string
	clock  quartz.Clock
	logger *log.Logger

	mu   sync.Mutex
	file *os.File
	out  *errWriter
	log  zerolog.Logger
}

// Open opens or creates the journal at path
func Open(path string, clock quartz.Clock, logger *log.Logger) (*Journal, error) {
	if logger == nil {
		logger = log.Default()
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if err := fileutil.EnsureDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	out := &errWriter{w: f}
	return &Journal{
		path:   path,
		clock:  clock,
		logger: logger.WithPrefix("journal"),
		file:   f,
		out:    out,
		log:    zerolog.New(out),
	}, nil
}

// Path returns the journal file
func (j *Journal) Path() string {
	return j.path
}

// Close closes the underlying file
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// RecordBaoSam appends a declaration outcome. A sequence that does not use
// exactly the cards of the hand is still recorded, with a warning.
func (j *Journal) RecordBaoSam(rec BaoSam) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	numCards := combo.CardCount(rec.Sequence)
	if numCards != len(rec.Hand) {
		j.logger.Warn("Báo Sâm sequence card count differs from hand",
			"game", rec.GameID,
			"player", rec.PlayerID,
			"sequence_cards", numCards,
			"hand_cards", len(rec.Hand))
	}

	meta := zerolog.Dict()
	for k, v := range rec.Meta {
		if k == "num_combos" || k == "num_cards" {
			continue
		}
		meta = meta.Interface(k, v)
	}
	meta = meta.Int("num_combos", len(rec.Sequence)).Int("num_cards", numCards)

	err := j.write(func(e *zerolog.Event) *zerolog.Event {
		return e.Str("kind", KindBaoSam).
			Str("game_id", rec.GameID).
			Int("player_id", rec.PlayerID).
			Interface("hand", rec.Hand).
			Interface("sammove_sequence", rec.Sequence).
			Str("result", string(rec.Result)).
			Dict("meta", meta)
	})
	if err != nil {
		return err
	}

	j.logger.Info("Logged Báo Sâm declaration", "result", rec.Result, "player", rec.PlayerID, "game", rec.GameID)
	return nil
}

// RecordDeclaration appends a bridge declaration
func (j *Journal) RecordDeclaration(_ context.Context, req provider.DeclarationRequest, res provider.DeclarationResult) error {
	return j.write(func(e *zerolog.Event) *zerolog.Event {
		return e.Str("kind", KindDeclaration).
			Str("id", res.ID).
			Interface("hand", req.Hand).
			Int("player_count", req.PlayerCount).
			Bool("should_declare", res.ShouldDeclare).
			Float64("probability", res.Probability).
			Float64("confidence", res.Confidence).
			Str("reason", res.Reason).
			Str("tier", string(res.Tier)).
			Str("provider", res.Provider).
			Int64("latency_ns", res.Latency.Nanoseconds()).
			Interface("fallbacks", res.Fallbacks)
	})
}

// RecordMove appends a bridge move in the two-stage training layout:
// stage1 is the combo type chosen, stage2 the concrete cards.
func (j *Journal) RecordMove(_ context.Context, req provider.MoveRequest, res provider.MoveResult) error {
	rec := req.Record
	move := res.Move

	var stage1, stage2 *zerolog.Event
	if move.Type == provider.PlayCards {
		stage1 = zerolog.Dict().Str("type", "combo_type").Str("value", move.ComboType)
		stage2 = zerolog.Dict().Str("type", string(move.Type)).
			Interface("cards", move.Cards).
			Str("combo_type", move.ComboType).
			Int("rank_value", move.RankValue)
	} else {
		stage1 = zerolog.Dict().Str("type", "pass").Str("value", "pass")
		stage2 = zerolog.Dict().Str("type", string(move.Type)).Interface("cards", move.Cards)
	}

	return j.write(func(e *zerolog.Event) *zerolog.Event {
		return e.Str("kind", KindMove).
			Str("id", res.ID).
			Str("game_id", rec.GameID).
			Str("game_type", rec.GameType).
			Int("round_id", rec.RoundID).
			Int("turn_id", rec.TurnID).
			Int("player_id", rec.PlayerID).
			Interface("hand", rec.Hand).
			Interface("last_move", rec.LastMove).
			Ints("players_left", rec.PlayersLeft).
			Ints("cards_left", rec.CardsLeft).
			Int("hand_count", len(rec.Hand)).
			Dict("action", zerolog.Dict().Dict("stage1", stage1).Dict("stage2", stage2)).
			Dict("meta", zerolog.Dict().
				Strs("legal_stage1", legalStage1(req.LegalMoves)).
				Interface("legal_stage2", req.LegalMoves)).
			Str("tier", string(res.Tier)).
			Str("provider", res.Provider)
	})
}

func (j *Journal) write(fill func(*zerolog.Event) *zerolog.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.out.err = nil
	fill(j.log.Log()).Time("timestamp", j.clock.Now()).Msg("")
	if j.out.err != nil {
		return fmt.Errorf("append journal: %w", j.out.err)
	}
	return nil
}

// legalStage1 lists the distinct combo types among the legal moves, plus
// pass when passing is allowed.
func legalStage1(moves []provider.Move) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range moves {
		name := ""
		switch {
		case m.Type == provider.PassTurn:
			name = "pass"
		case m.Type == provider.PlayCards && m.ComboType != "":
			name = m.ComboType
		}
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Stats summarises the Báo Sâm declarations in a journal
type Stats struct {
	Total       int     `json:"total_declarations"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
	AvgCombos   float64 `json:"avg_combos_per_declaration"`
	AvgCards    float64 `json:"avg_cards_per_declaration"`
}

// Stats reads the journal back and summarises its Báo Sâm records
func (j *Journal) Stats() (Stats, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return ReadStats(j.path)
}

// ReadStats summarises the Báo Sâm records of the journal at path. A missing
// file has no declarations.
func ReadStats(path string) (Stats, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()
	return readStats(f)
}

func readStats(r io.Reader) (Stats, error) {
	var (
		s                 Stats
		combos, cardCount int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec struct {
			Kind   string `json:"kind"`
			Result Result `json:"result"`
			Meta   struct {
				NumCombos int `json:"num_combos"`
				NumCards  int `json:"num_cards"`
			} `json:"meta"`
		}
		if err := json.Unmarshal(line, &rec); err != nil || rec.Kind != KindBaoSam {
			continue
		}
		s.Total++
		if rec.Result == Success {
			s.Successful++
		}
		combos += rec.Meta.NumCombos
		cardCount += rec.Meta.NumCards
	}
	if err := scanner.Err(); err != nil {
		return Stats{}, fmt.Errorf("read journal: %w", err)
	}

	s.Failed = s.Total - s.Successful
	if s.Total > 0 {
		n := float64(s.Total)
		s.SuccessRate = float64(s.Successful) / n
		s.AvgCombos = float64(combos) / n
		s.AvgCards = float64(cardCount) / n
	}
	return s, nil
}

// errWriter remembers the last write error so a record can report it
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
