package learn

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Confidence thresholds for bucketing predictions.
const (
	ConfidenceHigh   = 0.8 // safe to auto-organize
	ConfidenceMedium = 0.5 // worth suggesting
)

// MinSamples is the training-set size below which no prediction is made.
const MinSamples = 3

// Per-signal voting weights. A file's type is the strongest signal, its
// extension overlaps with type but catches finer routing, and the
// filename prefix is the weakest but catches user naming habits.
const (
	weightType   = 0.5
	weightExt    = 0.3
	weightPrefix = 0.2
)

// FileMeta describes the file a prediction is requested for.
type FileMeta struct {
	FileName string
	FileType string
	FileExt  string
}

// Prediction is an explainable destination guess.
type Prediction struct {
	Destination string
	Confidence  float64 // 0 to 1
	Reason      string
}

// Level buckets the confidence: "high", "medium" or "low".
func (p *Prediction) Level() string {
	return ConfidenceLevel(p.Confidence)
}

// ConfidenceLevel buckets a confidence score.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= ConfidenceHigh:
		return "high"
	case confidence >= ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

type vote struct {
	destination string
	confidence  float64
	reason      string
	weight      float64
}

// Predict returns the model's best destination guess for a file, or nil
// when the model is undertrained or has no signal for any of the file's
// features. Each contributing signal votes for the destination it has
// seen most, weighted by how reliable that kind of signal is; the final
// confidence is the weighted average of the winning destination's votes.
func (m *Model) Predict(meta FileMeta) *Prediction {
	if m.TotalSamples < MinSamples {
		return nil
	}

	var votes []vote

	if dest, count, total, ok := topCount(m.TypeToDest[meta.FileType]); ok {
		votes = append(votes, vote{
			destination: dest,
			confidence:  float64(count) / float64(total),
			reason:      fmt.Sprintf("based on %d/%d prior %s files moved to %q", count, total, meta.FileType, dest),
			weight:      weightType,
		})
	}

	ext := strings.ToLower(meta.FileExt)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(meta.FileName))
	}
	if ext != "" {
		if dest, count, total, ok := topCount(m.ExtToDest[ext]); ok {
			votes = append(votes, vote{
				destination: dest,
				confidence:  float64(count) / float64(total),
				reason:      fmt.Sprintf("based on %d/%d prior %s files moved to %q", count, total, ext, dest),
				weight:      weightExt,
			})
		}
	}

	prefix := NamePrefix(meta.FileName)
	if dest, count, total, ok := topCount(m.PrefixToDest[prefix]); ok {
		votes = append(votes, vote{
			destination: dest,
			confidence:  float64(count) / float64(total),
			reason:      fmt.Sprintf("files starting with %q usually go to %q (%d/%d)", prefix, dest, count, total),
			weight:      weightPrefix,
		})
	}

	if len(votes) == 0 {
		return nil
	}

	type score struct {
		confidence float64 // sum of confidence*weight
		weight     float64
		reasons    []string
	}
	scores := make(map[string]*score)
	for _, v := range votes {
		s := scores[v.destination]
		if s == nil {
			s = &score{}
			scores[v.destination] = s
		}
		s.confidence += v.confidence * v.weight
		s.weight += v.weight
		s.reasons = append(s.reasons, v.reason)
	}

	var best string
	var bestScore *score
	for dest, s := range scores {
		if bestScore == nil || s.confidence > bestScore.confidence ||
			(s.confidence == bestScore.confidence && dest < best) {
			best = dest
			bestScore = s
		}
	}

	return &Prediction{
		Destination: best,
		Confidence:  bestScore.confidence / bestScore.weight,
		Reason:      strings.Join(bestScore.reasons, "; "),
	}
}

// Bias scales a confidence score by the configured bias multiplier,
// clamped to [0, 1].
func Bias(confidence, bias float64) float64 {
	scaled := confidence * bias
	if scaled < 0 {
		return 0
	}
	if scaled > 1 {
		return 1
	}
	return scaled
}

// topCount returns the most frequent destination in a counter along with
// its count and the counter total. Ties break toward the lexicographically
// smaller destination so predictions are deterministic.
func topCount(counts map[string]int) (dest string, count, total int, ok bool) {
	for d, c := range counts {
		total += c
		if c > count || (c == count && (dest == "" || d < dest)) {
			dest, count = d, c
		}
	}
	return dest, count, total, count > 0
}
