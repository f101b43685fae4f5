// Package workers holds the background jobs. The orphan sweeper reconciles
// the uploads directory against the database: a DB delete that committed but whose
// file cleanup was interrupted leaves files on disk, and the sweeper is what
// eventually removes them.
package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	mysqlrepo "github.com/munivilla/portal/internal/repositories/mysql"
	"github.com/munivilla/portal/internal/services"
	"github.com/munivilla/portal/internal/storage"
)

// DefaultGrace is how long an unreferenced file is left alone before
// removal, so in-flight uploads are never swept between disk write and row
// insert.
const DefaultGrace = time.Hour

type OrphanSweeper struct {
	cron     *cron.Cron
	store    storage.Store
	archivos mysqlrepo.ArchivoRepository
	log      *logrus.Logger
	grace    time.Duration
	spec     string
}

func NewOrphanSweeper(store storage.Store, archivos mysqlrepo.ArchivoRepository, log *logrus.Logger, intervalMinutes int) *OrphanSweeper {
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	return &OrphanSweeper{
		cron:     cron.New(),
		store:    store,
		archivos: archivos,
		log:      log,
		grace:    DefaultGrace,
		spec:     fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the job and runs one sweep immediately so a crash-heavy
// restart does not wait a full interval for cleanup.
func (s *OrphanSweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.log.WithError(err).Error("orphan sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.WithField("spec", s.spec).Info("orphan sweeper started")

	go func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.log.WithError(err).Error("orphan sweep failed")
		}
	}()
	return nil
}

func (s *OrphanSweeper) Stop() {
	s.cron.Stop()
	s.log.Info("orphan sweeper stopped")
}

// Sweep removes every file in the store that no archivo row references and
// that is older than the grace window. Returns the number removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	urls, err := s.archivos.AllURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("load referenced urls: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if name := services.FilenameFromURL(u); name != "" {
			referenced[name] = struct{}{}
		}
	}

	files, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list store: %w", err)
	}

	cutoff := time.Now().Add(-s.grace)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[f.Name]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Remove(ctx, f.Name); err != nil {
			s.log.WithError(err).WithField("filename", f.Name).Warn("failed to remove orphaned file")
			continue
		}
		removed++
		s.log.WithField("filename", f.Name).Info("removed orphaned file")
	}

	if removed > 0 {
		s.log.WithField("removed", removed).Info("orphan sweep complete")
	}
	return removed, nil
}
