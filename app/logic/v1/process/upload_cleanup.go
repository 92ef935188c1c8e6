package process

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"

	"github.com/askdb-ai/askdb/app/core"
	"github.com/askdb-ai/askdb/pkg/register"
	"github.com/askdb-ai/askdb/pkg/safe"
)

// uploads younger than this are skipped so an in-flight create cannot lose
// its file to the sweeper
const uploadOrphanGrace = time.Hour

func init() {
	register.RegisterFunc(ProcessKey{}, func(p *Process) {
		if _, ok := p.Core().FileStorage().(*core.LocalFileStorage); !ok {
			return
		}

		if _, err := p.Cron().AddFunc("0 3 * * *", func() {
			safe.Run(func() {
				NewUploadCleanupTask(p.Core()).Run(context.Background())
			})
		}); err != nil {
			slog.Error("Failed to schedule upload cleanup", slog.String("error", err.Error()))
		}
	})
}

// UploadCleanupTask removes csv files under the local uploads directory that
// no project references anymore, e.g. leftovers from a crashed delete.
type UploadCleanupTask struct {
	core *core.Core
}

func NewUploadCleanupTask(core *core.Core) *UploadCleanupTask {
	return &UploadCleanupTask{core: core}
}

func (t *UploadCleanupTask) Run(ctx context.Context) {
	paths, err := t.core.Store().ProjectStore().ListCSVPaths(ctx)
	if err != nil {
		slog.Error("Upload cleanup failed to list referenced csv paths", slog.String("error", err.Error()))
		return
	}
	referenced := lo.SliceToMap(paths, func(p string) (string, struct{}) {
		return filepath.Clean(p), struct{}{}
	})

	uploadsDir := filepath.Join(t.core.Cfg().ObjectStorage.LocalPath, "uploads")
	entries, err := os.ReadDir(uploadsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("Upload cleanup failed to read uploads dir",
				slog.String("dir", uploadsDir),
				slog.String("error", err.Error()))
		}
		return
	}

	var removed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		relPath := filepath.Join("uploads", entry.Name())
		if _, ok := referenced[relPath]; ok {
			continue
		}

		if info, err := entry.Info(); err == nil && time.Since(info.ModTime()) < uploadOrphanGrace {
			continue
		}

		if err := t.core.FileStorage().DeleteFile(relPath); err != nil {
			slog.Error("Upload cleanup failed to remove orphan file",
				slog.String("file", relPath),
				slog.String("error", err.Error()))
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("Upload cleanup removed orphan files", slog.Int("removed", removed))
	}
}
