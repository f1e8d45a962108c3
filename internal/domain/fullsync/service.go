// Package fullsync sweeps every row whose calendar copy is missing and
// republishes it. The synced flag on each row is the system of record;
// this pass is the retry path for provider failures absorbed elsewhere.
package fullsync

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Syncer publishes unsynced rows of one domain and reports counts.
type Syncer interface {
	SyncUnsynced(ctx context.Context) (synced, failed int, err error)
}

// Report summarizes one full-sync pass.
type Report struct {
	CastingsSynced    int `json:"castings_synced"`
	CastingsFailed    int `json:"castings_failed"`
	UnavailableSynced int `json:"unavailable_synced"`
	UnavailableFailed int `json:"unavailable_failed"`
}

// Service handles the full calendar sync pass
type Service struct {
	castings     Syncer
	availability Syncer
}

// NewService creates full sync service
func NewService(castings, availability Syncer) *Service {
	return &Service{castings: castings, availability: availability}
}

// SyncAll publishes every unsynced unavailability marker, then every
// unsynced casting. Unavailability goes first so rebuilt casting
// descriptions see current partner state.
func (s *Service) SyncAll(ctx context.Context) (*Report, error) {
	report := &Report{}

	var err error
	report.UnavailableSynced, report.UnavailableFailed, err = s.availability.SyncUnsynced(ctx)
	if err != nil {
		return nil, err
	}

	report.CastingsSynced, report.CastingsFailed, err = s.castings.SyncUnsynced(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("castings_synced", report.CastingsSynced).
		Int("castings_failed", report.CastingsFailed).
		Int("unavailable_synced", report.UnavailableSynced).
		Int("unavailable_failed", report.UnavailableFailed).
		Msg("full calendar sync finished")

	return report, nil
}
