package cron

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/storage"
	"golang.org/x/sync/errgroup"
)

const archiveRoot = "archives"

type RecapJobs struct {
	overtimeService overtime.Service
	files           storage.FileStorage
	workers         int
	now             func() time.Time
}

func NewRecapJobs(overtimeService overtime.Service, files storage.FileStorage, workers int) *RecapJobs {
	if workers < 1 {
		workers = 1
	}
	return &RecapJobs{
		overtimeService: overtimeService,
		files:           files,
		workers:         workers,
		now:             time.Now,
	}
}

func (j *RecapJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("archive_monthly_recaps", interval, j.ArchivePreviousMonth)
}

// ArchivePath is where the XLSX recap of one employee for one month is kept.
func ArchivePath(month, name string) string {
	return path.Join(archiveRoot, month, export.SafeName(name)+"."+string(overtime.ExportXLSX))
}

// ArchivePreviousMonth archives the month before the current one.
func (j *RecapJobs) ArchivePreviousMonth(ctx context.Context) error {
	now := j.now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0).Format("2006-01")
	_, err := j.ArchiveMonth(ctx, month)
	return err
}

// ArchiveMonth writes one XLSX recap per employee of month, skipping files
// that already exist. It returns the number of files written.
func (j *RecapJobs) ArchiveMonth(ctx context.Context, month string) (int, error) {
	slog.Info("Cron: Starting monthly recap archive", "month", month)

	summaries, err := j.overtimeService.ListEmployees(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees for %s: %w", month, err)
	}

	if len(summaries) == 0 {
		slog.Info("Cron: No employees to archive", "month", month)
		return 0, nil
	}

	var written int32
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)

	for _, summary := range summaries {
		name := summary.Name
		g.Go(func() error {
			target := ArchivePath(month, name)

			exists, err := j.files.Exists(gCtx, target)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", target, err)
			}
			if exists {
				slog.Debug("Cron: Archive already present", "path", target)
				return nil
			}

			file, err := j.overtimeService.ExportRecap(gCtx, overtime.ExportRequest{
				Month:  month,
				Name:   name,
				Format: overtime.ExportXLSX,
			})
			if err != nil {
				return fmt.Errorf("failed to export %s for %s: %w", name, month, err)
			}

			if _, err := j.files.Upload(gCtx, bytes.NewReader(file.Data), target, file.ContentType); err != nil {
				return fmt.Errorf("failed to store %s: %w", target, err)
			}

			atomic.AddInt32(&written, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(atomic.LoadInt32(&written)), err
	}

	slog.Info("Cron: Monthly recap archive completed", "month", month, "employees", len(summaries), "written", written)
	return int(written), nil
}
