// Package backup keeps a copy of every config document before the upgrade
// rewrites it. The local store writes a sibling .old file once; the optional
// minio store uploads the same document under a per-run prefix.
package backup

import (
	"context"
	"errors"
	"time"

	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/compat/common"
	"go.scnd.dev/open/upgrader/package/project"
	"go.scnd.dev/open/upgrader/package/workspace"
	"go.scnd.dev/open/upgrader/utility/value"
)

type Record struct {
	Store    string
	Source   string
	Location string
	Skipped  bool
}

type Store interface {
	Name() string
	Backup(ctx context.Context, source string) (*Record, error)
}

type Stores []Store

// Backup hands source to every store in order and stops at the first failure.
func (r Stores) Backup(ctx context.Context, source string) ([]*Record, error) {
	records := make([]*Record, 0, len(r))
	for _, store := range r {
		record, err := store.Backup(ctx, source)
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
	return records, nil
}

func New(config *upgrader.Config, ws *workspace.Workspace, paths *project.Paths) (Stores, error) {
	stores := Stores{
		NewLocal(ws, project.BackupSuffix),
	}

	if config.BackupEndpoint == nil || *config.BackupEndpoint == "" {
		return stores, nil
	}
	if config.BackupBucket == nil || *config.BackupBucket == "" {
		return nil, errors.New("backup bucket is required with a backup endpoint")
	}

	client, err := common.Minio(config)
	if err != nil {
		return nil, err
	}

	stores = append(stores, NewMinio(client, *config.BackupBucket, value.RunId(time.Now()), ws, paths))
	return stores, nil
}
