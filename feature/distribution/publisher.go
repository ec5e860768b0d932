package distribution

import (
	"context"
	"fmt"
	"path/filepath"

	"modpack-manager/core/storage"
	"modpack-manager/feature/manifest"
	"modpack-manager/feature/updater"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Publisher uploads built releases to object storage so launchers can pull
// them without access to the build machine.
type Publisher struct {
	client storage.Client
	bucket string
	cfg    updater.Config
	log    *zap.Logger
}

// NewPublisher creates a publisher over the given storage client.
func NewPublisher(client storage.Client, bucket string, cfg updater.Config, log *zap.Logger) *Publisher {
	return &Publisher{client: client, bucket: bucket, cfg: cfg, log: log}
}

// Publish uploads the archive for the given version together with the
// current index. The bucket is created when missing. Both objects are keyed
// under the version so older releases stay downloadable.
func (p *Publisher) Publish(ctx context.Context, version string) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", p.bucket, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
		}
		p.log.Info("created bucket", zap.String("bucket", p.bucket))
	}

	archiveName := version + ".mrpack"
	archivePath := filepath.Join(p.cfg.OutputDir, archiveName)
	objectName := version + "/" + archiveName
	if _, err := p.client.FPutObject(ctx, p.bucket, objectName, archivePath, minio.PutObjectOptions{
		ContentType: "application/zip",
	}); err != nil {
		return fmt.Errorf("failed to upload %s: %w", archiveName, err)
	}

	indexObject := version + "/" + manifest.IndexFileName
	if _, err := p.client.FPutObject(ctx, p.bucket, indexObject, p.cfg.ManifestPath(), minio.PutObjectOptions{
		ContentType: "application/json",
	}); err != nil {
		return fmt.Errorf("failed to upload %s: %w", manifest.IndexFileName, err)
	}

	p.log.Info("published release",
		zap.String("bucket", p.bucket),
		zap.String("version", version),
	)
	return nil
}
