package common

import (
	"fmt"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.scnd.dev/open/upgrader"
)

func Minio(config *upgrader.Config) (*minio.Client, error) {
	// * endpoint may be a bare host or a url
	host := *config.BackupEndpoint
	secure := config.BackupSecure != nil && *config.BackupSecure
	if parsed, err := url.Parse(host); err == nil && parsed.Host != "" {
		host = parsed.Host
		secure = parsed.Scheme == "https"
	}

	accessKey, secretKey := "", ""
	if config.BackupAccessKey != nil {
		accessKey = *config.BackupAccessKey
	}
	if config.BackupSecretKey != nil {
		secretKey = *config.BackupSecretKey
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio: %w", err)
	}

	return client, nil
}
