package learn

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tidy-go/internal/model"
)

// FeedbackFile is the filename feedback persists under inside the
// learning directory, next to the model.
const FeedbackFile = "feedback.json"

// Reinforcement parameters. A correct prediction counts double so a
// pattern recovers from an occasional miss; the adjustment multiplier
// drifts in small steps and never collapses to zero.
const (
	positiveReinforcement = 2
	negativeReinforcement = 1
	positiveAdjustStep    = 0.05
	negativeAdjustStep    = 0.1
	minAdjustment         = 0.1
	maxAdjustment         = 1.5
)

// PatternFeedback accumulates outcomes for one pattern key and the
// confidence multiplier they have earned.
type PatternFeedback struct {
	Correct    int     `json:"correct"`
	Wrong      int     `json:"wrong"`
	Adjustment float64 `json:"confidence_adj"`
}

// Feedback tracks prediction outcomes per pattern so repeated mistakes
// dampen future confidence. Patterns are keyed "type_<category>" and
// "ext_<extension>".
type Feedback struct {
	Patterns    map[string]*PatternFeedback `json:"patterns"`
	TotalEvents int                         `json:"total_feedback"`
	LastUpdated time.Time                   `json:"last_updated"`
}

// NewFeedback returns empty feedback with no recorded outcomes.
func NewFeedback() *Feedback {
	return &Feedback{Patterns: make(map[string]*PatternFeedback)}
}

func (f *Feedback) pattern(patternType, value string) *PatternFeedback {
	key := patternType + "_" + value
	p, ok := f.Patterns[key]
	if !ok {
		p = &PatternFeedback{Adjustment: 1.0}
		f.Patterns[key] = p
	}
	return p
}

// RecordPositive reinforces a pattern after a confirmed-correct
// prediction, nudging its multiplier up.
func (f *Feedback) RecordPositive(patternType, value string, now time.Time) {
	p := f.pattern(patternType, value)
	p.Correct += positiveReinforcement
	if p.Adjustment += positiveAdjustStep; p.Adjustment > maxAdjustment {
		p.Adjustment = maxAdjustment
	}
	f.TotalEvents++
	f.LastUpdated = now
}

// RecordNegative penalizes a pattern after a wrong prediction, nudging
// its multiplier down.
func (f *Feedback) RecordNegative(patternType, value string, now time.Time) {
	p := f.pattern(patternType, value)
	p.Wrong += negativeReinforcement
	if p.Adjustment -= negativeAdjustStep; p.Adjustment < minAdjustment {
		p.Adjustment = minAdjustment
	}
	f.TotalEvents++
	f.LastUpdated = now
}

// RecordUndo treats an undone organize run as negative feedback: the
// user rejected where those files went. Each record under the
// organized-tree marker penalizes its file-type pattern and, when the
// name carries one, its extension pattern. Returns how many records
// contributed.
func (f *Feedback) RecordUndo(records []*model.FileRecord, now time.Time) int {
	var contributed int
	for _, rec := range records {
		if _, ok := markerDestination(rec.NewPath); !ok {
			continue
		}
		f.RecordNegative("type", rec.FileType, now)
		if ext := strings.ToLower(filepath.Ext(rec.FileName)); ext != "" {
			f.RecordNegative("ext", ext, now)
		}
		contributed++
	}
	return contributed
}

// Adjustment returns the multiplier a pattern has earned, 1.0 when the
// pattern has no feedback yet.
func (f *Feedback) Adjustment(patternType, value string) float64 {
	if p, ok := f.Patterns[patternType+"_"+value]; ok {
		return p.Adjustment
	}
	return 1.0
}

// Apply scales a confidence by the average multiplier of the file's
// type and extension patterns, clamped to [0, 1]. A file with no
// feedback-bearing patterns passes through unchanged.
func (f *Feedback) Apply(confidence float64, meta FileMeta) float64 {
	var sum float64
	var n int
	if meta.FileType != "" {
		sum += f.Adjustment("type", meta.FileType)
		n++
	}
	if meta.FileExt != "" {
		sum += f.Adjustment("ext", meta.FileExt)
		n++
	}
	if n == 0 {
		return confidence
	}
	return Bias(confidence, sum/float64(n))
}

// SaveFeedback writes feedback to dir/feedback.json, creating dir if
// needed.
func SaveFeedback(f *Feedback, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating learning directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding feedback: %w", err)
	}

	path := filepath.Join(dir, FeedbackFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing feedback: %w", err)
	}
	return nil
}

// LoadFeedback reads feedback from dir/feedback.json. Missing or
// unreadable feedback is not an error: adjustment is an optional layer,
// so both cases yield empty feedback.
func LoadFeedback(dir string) *Feedback {
	data, err := os.ReadFile(filepath.Join(dir, FeedbackFile))
	if err != nil {
		return NewFeedback()
	}

	f := NewFeedback()
	if err := json.Unmarshal(data, f); err != nil {
		return NewFeedback()
	}
	if f.Patterns == nil {
		f.Patterns = make(map[string]*PatternFeedback)
	}
	return f
}

// ClearFeedback removes the persisted feedback. Missing files are fine.
func ClearFeedback(dir string) error {
	err := os.Remove(filepath.Join(dir, FeedbackFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing feedback: %w", err)
	}
	return nil
}
