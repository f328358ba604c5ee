package usecase

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/rtcchoir/choirdesk/internal/observability"
)

const (
	DefaultReconcilerGrace    = 15 * time.Minute
	DefaultReconcilerWarmup   = 1 * time.Minute
	DefaultReconcilerInterval = 1 * time.Hour
)

var (
	reconcilerRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "choirdesk_reconciler_runs_total",
		Help: "Completed orphan sweep runs.",
	})
	reconcilerSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "choirdesk_reconciler_orphans_swept_total",
		Help: "Orphaned photo files deleted by the sweep.",
	})
	reconcilerSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "choirdesk_reconciler_skipped_grace_total",
		Help: "Unreferenced files left alone because they are younger than the grace period.",
	})
	reconcilerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "choirdesk_reconciler_errors_total",
		Help: "Failed listing or delete operations during sweeps.",
	})
)

// Reconciler sweeps the asset bucket for photos no record references anymore.
// Failures here never reach a request; they are logged and counted only.
type Reconciler struct {
	Members MemberStore
	Assets  AssetStore
	Log     *zap.Logger

	// Grace protects a file saved by an in-flight create or update that has
	// not been attached to a record yet: anything younger than Grace is never
	// deleted, even when unreferenced.
	Grace time.Duration
}

func NewReconciler(members MemberStore, assets AssetStore, zap *zap.Logger, grace time.Duration) *Reconciler {
	return &Reconciler{
		Members: members,
		Assets:  assets,
		Log:     zap,
		Grace:   grace,
	}
}

// SweepOnce deletes every stored file that is unreferenced and older than the
// grace period. A referenced file is never deleted.
func (reconciler *Reconciler) SweepOnce(ctx context.Context) error {
	log := observability.WithContext(ctx, reconciler.Log)

	filenames, err := reconciler.Members.ListPhotoFilenames(ctx)
	if err != nil {
		reconcilerErrors.Inc()
		return err
	}

	referenced := make(map[string]bool, len(filenames))
	for _, name := range filenames {
		referenced[name] = true
	}

	objects, err := reconciler.Assets.ListAll(ctx)
	if err != nil {
		reconcilerErrors.Inc()
		return err
	}

	swept := 0
	for _, object := range objects {
		if referenced[object.Name] {
			continue
		}

		if reconciler.Grace > 0 && time.Since(object.LastModified) < reconciler.Grace {
			reconcilerSkipped.Inc()
			continue
		}

		if err := reconciler.Assets.Delete(ctx, object.Name); err != nil {
			reconcilerErrors.Inc()
			log.Warn("failed to delete orphaned photo",
				zap.String("filename", object.Name), zap.Error(err))
			continue
		}

		reconcilerSwept.Inc()
		swept++
		log.Debug("deleted orphaned photo", zap.String("filename", object.Name))
	}

	reconcilerRuns.Inc()
	log.Info("orphan sweep finished",
		zap.Int("referenced", len(referenced)),
		zap.Int("stored", len(objects)),
		zap.Int("swept", swept))

	return nil
}

// Run blocks: one sweep after the warm-up delay, then one per interval until
// the context is cancelled. interval <= 0 means the warm-up sweep only.
func (reconciler *Reconciler) Run(ctx context.Context, warmup time.Duration, interval time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(warmup):
	}

	if err := reconciler.SweepOnce(ctx); err != nil {
		reconciler.Log.Error("orphan sweep failed", zap.Error(err))
	}

	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := reconciler.SweepOnce(ctx); err != nil {
				reconciler.Log.Error("orphan sweep failed", zap.Error(err))
			}
		}
	}
}
