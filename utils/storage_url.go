package utils

import (
	"fmt"
	"strings"
)

const storageURLPrefix = "https://storage.googleapis.com/"

// PublicObjectURL is the public download URL of an object in bucket.
func PublicObjectURL(bucket, objectPath string) string {
	return storageURLPrefix + bucket + "/" + objectPath
}

// ExtractObjectPath returns the object path of a public URL of an object in
// bucket. URLs that point elsewhere, including other buckets, yield an error.
func ExtractObjectPath(bucket, url string) (string, error) {
	if !strings.HasPrefix(url, storageURLPrefix) {
		return "", fmt.Errorf("not a storage URL")
	}

	parts := strings.SplitN(strings.TrimPrefix(url, storageURLPrefix), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid storage URL format")
	}
	if bucket == "" || parts[0] != bucket {
		return "", fmt.Errorf("object belongs to bucket %q", parts[0])
	}
	return parts[1], nil
}
