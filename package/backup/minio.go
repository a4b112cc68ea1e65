package backup

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/minio/minio-go/v7"
	"go.scnd.dev/open/upgrader/package/erroring"
	"go.scnd.dev/open/upgrader/package/project"
	"go.scnd.dev/open/upgrader/package/workspace"
	"go.uber.org/zap"
)

// Minio uploads documents to <bucket>/<run id>/<project relative path>.
type Minio struct {
	Client    *minio.Client
	Bucket    string
	RunId     string
	Workspace *workspace.Workspace
	Paths     *project.Paths

	initOnce sync.Once
	initErr  error
}

func NewMinio(client *minio.Client, bucket string, runId string, ws *workspace.Workspace, paths *project.Paths) *Minio {
	return &Minio{
		Client:    client,
		Bucket:    bucket,
		RunId:     runId,
		Workspace: ws,
		Paths:     paths,
	}
}

func (r *Minio) Name() string {
	return "minio"
}

func (r *Minio) Key(source string) string {
	return path.Join(r.RunId, r.Paths.Relative(source))
}

func (r *Minio) ensureBucket(ctx context.Context) error {
	r.initOnce.Do(func() {
		exists, err := r.Client.BucketExists(ctx, r.Bucket)
		if err != nil {
			r.initErr = err
			return
		}
		if exists {
			return
		}
		r.initErr = r.Client.MakeBucket(ctx, r.Bucket, minio.MakeBucketOptions{})
	})
	return r.initErr
}

func (r *Minio) Backup(ctx context.Context, source string) (*Record, error) {
	record := &Record{
		Store:    r.Name(),
		Source:   source,
		Location: fmt.Sprintf("s3://%s/%s", r.Bucket, r.Key(source)),
	}

	content, err := r.Workspace.ReadFile(source)
	if err != nil {
		return nil, err
	}

	r.Workspace.Logger.Debug("upload backup", zap.String("location", record.Location), zap.Bool("dry_run", r.Workspace.DryRun))
	if r.Workspace.DryRun {
		return record, nil
	}

	if err := r.ensureBucket(ctx); err != nil {
		return nil, &erroring.FileOperationError{Op: "prepare bucket for", Source: source, Destination: r.Bucket, Err: err}
	}

	_, err = r.Client.PutObject(ctx, r.Bucket, r.Key(source), bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/yaml",
	})
	if err != nil {
		return nil, &erroring.FileOperationError{Op: "upload", Source: source, Destination: record.Location, Err: err}
	}

	return record, nil
}
