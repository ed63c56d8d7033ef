package firebase

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"blackmarket-backend/utils"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StorageClient stores product image files. Handlers depend on this
// interface so tests can substitute an in-memory fake.
type StorageClient interface {
	UploadProductImage(ctx context.Context, productID uuid.UUID, file io.Reader, filename, contentType string) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
	// Bucket names the bucket DeleteFile works on.
	Bucket() string
}

// FirebaseStorageClient writes to one Firebase Storage bucket.
type FirebaseStorageClient struct {
	app    *firebase.App
	bucket string
}

func NewStorageClient(app *firebase.App, bucket string) *FirebaseStorageClient {
	return &FirebaseStorageClient{app: app, bucket: bucket}
}

func (f *FirebaseStorageClient) Bucket() string {
	return f.bucket
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(filename, "_")
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}
	return sanitized
}

// productObjectPath groups a product's files under its id.
func productObjectPath(productID uuid.UUID, filename string, now time.Time) string {
	return fmt.Sprintf("products/%s/%d_%s", productID, now.Unix(), sanitizeFilename(filename))
}

func (f *FirebaseStorageClient) bucketHandle(ctx context.Context) (*storage.BucketHandle, error) {
	if f.app == nil {
		return nil, fmt.Errorf("firebase app not initialized")
	}
	if f.bucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	client, err := f.app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return client.Bucket(f.bucket)
}

// UploadProductImage stores the file and returns its public URL.
func (f *FirebaseStorageClient) UploadProductImage(ctx context.Context, productID uuid.UUID, file io.Reader, filename, contentType string) (string, error) {
	bucket, err := f.bucketHandle(ctx)
	if err != nil {
		return "", err
	}

	objectPath := productObjectPath(productID, filename, time.Now())
	obj := bucket.Object(objectPath)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	// Public read so the URL works without authentication.
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		log.Warn().Err(err).Str("object", objectPath).Msg("failed to set public ACL")
	}

	return utils.PublicObjectURL(f.bucket, objectPath), nil
}

// DeleteFile deletes a file given its object path.
func (f *FirebaseStorageClient) DeleteFile(ctx context.Context, objectPath string) error {
	bucket, err := f.bucketHandle(ctx)
	if err != nil {
		return err
	}

	if err := bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}

	log.Info().Str("object", objectPath).Str("bucket", f.bucket).Msg("deleted file")
	return nil
}
