package blob

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Local stores objects on the local filesystem. It implements the same
// contract as the S3 driver and is used for development and tests.
type Local struct {
	baseDir string
	baseURL string
	secret  []byte
}

// NewLocal returns a Local driver rooted at baseDir. Signed URLs are built on
// baseURL; an empty baseURL yields file:// locations.
func NewLocal(baseDir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return &Local{baseDir: baseDir, baseURL: strings.TrimSuffix(baseURL, "/"), secret: secret}, nil
}

func (l *Local) pathFor(key string) string {
	return filepath.Join(l.baseDir, filepath.FromSlash(key))
}

func (l *Local) location(key string) string {
	if l.baseURL == "" {
		return "file://" + l.pathFor(key)
	}
	return l.baseURL + "/" + key
}

// Upload writes content under a fresh key.
func (l *Local) Upload(ctx context.Context, folder, originalName, contentType string, content []byte) (*UploadResult, error) {
	key := NewKey(folder, originalName)
	p := l.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(p, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return &UploadResult{
		Key:          key,
		Location:     l.location(key),
		OriginalName: originalName,
		Size:         int64(len(content)),
		MimeType:     contentType,
	}, nil
}

// Delete removes the object with the given key, succeeding when it is absent.
func (l *Local) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	exists, err := l.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return os.Remove(l.pathFor(key))
}

// Exists reports whether the key refers to a stored object.
func (l *Local) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(l.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns all keys under the given prefix.
func (l *Local) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(l.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(l.baseDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// SignedURL returns a URL carrying an HMAC signature over key and expiry. It
// is a pure function of key and expiry for a given driver instance.
func (l *Local) SignedURL(ctx context.Context, key string, expireIn time.Duration) (string, error) {
	expiry := time.Now().Add(expireIn).Unix()
	mac := hmac.New(sha256.New, l.secret)
	fmt.Fprintf(mac, "%s|%d", key, expiry)
	sig := hex.EncodeToString(mac.Sum(nil))

	v := url.Values{}
	v.Set("key", key)
	v.Set("expires", strconv.FormatInt(expiry, 10))
	v.Set("sig", sig)
	return l.location(key) + "?" + v.Encode(), nil
}
