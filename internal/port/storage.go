package port

import "context"

// ObjectStorage abstracts reading documents from cloud object storage.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// DocumentFetcher retrieves document bytes referenced by URL.
type DocumentFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}
