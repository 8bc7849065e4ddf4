package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"monedero/internal"
)

// BatchSimplifier is the AI stage as the orchestrator sees it. It never
// fails and always returns one result per requested id.
type BatchSimplifier interface {
	SimplifyBatch(ctx context.Context, items []internal.BatchItem) map[string]internal.ValidatedAIResult
}

// Labeler sequences the cascade for one import: sanitize, rule-match,
// then a single batched AI call for whatever the rules left unresolved.
type Labeler struct {
	ai  BatchSimplifier
	log zerolog.Logger
}

func NewLabeler(ai BatchSimplifier, log zerolog.Logger) *Labeler {
	return &Labeler{ai: ai, log: log}
}

// LabelLines labels every raw line. Output order and length always match
// the input; unresolvable lines come back with a low-confidence label,
// never an error.
func (l *Labeler) LabelLines(ctx context.Context, rawLines []string) ([]internal.LabeledLine, internal.RunStats) {
	start := time.Now()

	out := make([]internal.LabeledLine, len(rawLines))
	var pending []internal.BatchItem
	pendingIdx := make(map[string]int)

	for i, raw := range rawLines {
		sanitized := Sanitize(raw)
		line := internal.LabeledLine{
			LineNo:    i + 1,
			RawLine:   raw,
			Sanitized: sanitized,
		}

		res := Match(sanitized)
		if res.Matched() {
			line.Simplified = *res.Simplified
			line.Confidence = res.Confidence
			line.MatchedRule = res.MatchedRule
			line.TypeHint = res.TypeHint
			line.Source = internal.SourceRule
			out[i] = line
			continue
		}

		id := uuid.NewString()
		pending = append(pending, internal.BatchItem{ID: id, SanitizedDescription: sanitized})
		pendingIdx[id] = i
		out[i] = line
	}

	if len(pending) > 0 {
		resolved := l.ai.SimplifyBatch(ctx, pending)
		for _, item := range pending {
			i := pendingIdx[item.ID]
			r, ok := resolved[item.ID]
			if !ok {
				// The client contract covers every id; guard anyway.
				simplified, confidence := Fallback(item.SanitizedDescription)
				r = internal.ValidatedAIResult{ID: item.ID, Simplified: simplified, Confidence: confidence, Source: internal.SourceFallback}
			}
			out[i].Simplified = r.Simplified
			out[i].Confidence = r.Confidence
			out[i].Source = r.Source
		}
	}

	stats := internal.RunStats{Total: len(out)}
	for _, line := range out {
		switch line.Source {
		case internal.SourceRule:
			stats.Rule++
		case internal.SourceAI:
			stats.AI++
		case internal.SourceFallback:
			stats.Fallback++
		}
	}

	l.log.Info().
		Int("total", stats.Total).
		Int("rule", stats.Rule).
		Int("ai", stats.AI).
		Int("fallback", stats.Fallback).
		Dur("took", time.Since(start)).
		Msg("labeling run complete")

	return out, stats
}
