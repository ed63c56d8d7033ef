package handlers

import (
	"context"
	"io"

	"blackmarket-backend/utils"

	"github.com/google/uuid"
)

const testBucket = "test-bucket"

type mockStorage struct {
	UploadProductImageFn func(productID uuid.UUID, filename, contentType string) (string, error)
	DeleteFileFn         func(objectPath string) error
	DeleteFileCalls      []string
	UploadCallCount      int
	UploadedBytes        []byte
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadProductImage(_ context.Context, productID uuid.UUID, file io.Reader, filename, contentType string) (string, error) {
	m.UploadCallCount++
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.UploadedBytes = data
	if m.UploadProductImageFn != nil {
		return m.UploadProductImageFn(productID, filename, contentType)
	}
	return utils.PublicObjectURL(testBucket, "products/"+productID.String()+"/"+filename), nil
}

func (m *mockStorage) DeleteFile(_ context.Context, objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}

func (m *mockStorage) Bucket() string { return testBucket }
