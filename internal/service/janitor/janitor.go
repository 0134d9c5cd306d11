// Package janitor runs the retention purges: conversation rows past the
// history horizon and document contexts past their retention window.
package janitor

import (
	"context"
	"errors"

	"github.com/sandevgo/wizzybot/internal/metrics"
	"github.com/sandevgo/wizzybot/pkg/log"
)

type HistoryPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type DocumentPurger interface {
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
}

// Report summarizes one maintenance run.
type Report struct {
	MessagesPurged  int64
	DocumentsPurged int64
}

type Janitor struct {
	history       HistoryPurger
	docs          DocumentPurger
	retentionDays int
}

func New(history HistoryPurger, docs DocumentPurger, retentionDays int) *Janitor {
	return &Janitor{
		history:       history,
		docs:          docs,
		retentionDays: retentionDays,
	}
}

// Run executes both purges. A failure in one does not stop the other;
// the joined error carries whatever went wrong.
func (j *Janitor) Run(ctx context.Context) (Report, error) {
	logger := log.FromCtx(ctx)
	var report Report

	msgs, msgErr := j.history.PurgeExpired(ctx)
	if msgErr == nil {
		report.MessagesPurged = msgs
		metrics.PurgedRowsTotal.WithLabelValues("chat_history").Add(float64(msgs))
	}

	docs, docErr := j.docs.PurgeOlderThan(ctx, j.retentionDays)
	if docErr == nil {
		report.DocumentsPurged = docs
		metrics.PurgedRowsTotal.WithLabelValues("document_contexts").Add(float64(docs))
	}

	if err := errors.Join(msgErr, docErr); err != nil {
		logger.Error().Err(err).Msg("Maintenance run failed")
		return report, err
	}

	logger.Info().
		Int64("messages_purged", report.MessagesPurged).
		Int64("documents_purged", report.DocumentsPurged).
		Msg("Maintenance run finished")
	return report, nil
}
