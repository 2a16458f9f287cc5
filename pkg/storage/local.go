package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore keeps uploads under basePath/<user>/<id>_<name>, with JSON
// metadata sidecars in a .meta directory per user.
type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating retention directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) Retain(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*Upload, error) {
	uploadID := uuid.New()

	userDir := filepath.Join(s.basePath, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating user directory: %w", err)
	}

	storedName := fmt.Sprintf("%s_%s", uploadID.String()[:8], sanitizeFilename(filename))
	path := filepath.Join(userDir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating retained file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, hasher), bytes.NewReader(data))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing retained file: %w", err)
	}

	upload := &Upload{
		ID:          uploadID,
		UserID:      userID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		Checksum:    hex.EncodeToString(hasher.Sum(nil)),
		Path:        storedName,
		ReceivedAt:  time.Now().UTC(),
	}
	if err := s.saveMetadata(userID, upload); err != nil {
		os.Remove(path)
		return nil, err
	}
	return upload, nil
}

func (s *LocalStore) Open(ctx context.Context, userID, uploadID uuid.UUID) (io.ReadCloser, *Upload, error) {
	upload, err := s.getMetadata(userID, uploadID)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(s.basePath, userID.String(), upload.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("opening retained file: %w", err)
	}
	return f, upload, nil
}

func (s *LocalStore) Delete(ctx context.Context, userID, uploadID uuid.UUID) error {
	upload, err := s.getMetadata(userID, uploadID)
	if err != nil {
		return err
	}
	path := filepath.Join(s.basePath, userID.String(), upload.Path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting retained file: %w", err)
	}
	os.Remove(s.metaPath(userID, uploadID))
	return nil
}

func (s *LocalStore) List(ctx context.Context, userID uuid.UUID) ([]*Upload, error) {
	metaDir := filepath.Join(s.basePath, userID.String(), ".meta")
	entries, err := os.ReadDir(metaDir)
	if os.IsNotExist(err) {
		return []*Upload{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing retained uploads: %w", err)
	}

	uploads := make([]*Upload, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		upload, err := s.getMetadata(userID, id)
		if err != nil {
			continue
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func (s *LocalStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	userDirs, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("listing retention directory: %w", err)
	}

	purged := 0
	for _, dir := range userDirs {
		if !dir.IsDir() {
			continue
		}
		userID, err := uuid.Parse(dir.Name())
		if err != nil {
			continue
		}
		uploads, err := s.List(ctx, userID)
		if err != nil {
			return purged, err
		}
		for _, upload := range uploads {
			if !upload.ReceivedAt.Before(cutoff) {
				continue
			}
			if err := s.Delete(ctx, userID, upload.ID); err != nil {
				return purged, err
			}
			purged++
		}
	}
	return purged, nil
}

func (s *LocalStore) metaPath(userID, uploadID uuid.UUID) string {
	return filepath.Join(s.basePath, userID.String(), ".meta", uploadID.String()+".json")
}

func (s *LocalStore) saveMetadata(userID uuid.UUID, upload *Upload) error {
	metaDir := filepath.Join(s.basePath, userID.String(), ".meta")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(upload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding upload metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(userID, upload.ID), data, 0o644); err != nil {
		return fmt.Errorf("writing upload metadata: %w", err)
	}
	return nil
}

func (s *LocalStore) getMetadata(userID, uploadID uuid.UUID) (*Upload, error) {
	data, err := os.ReadFile(s.metaPath(userID, uploadID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("upload not found: %s", uploadID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading upload metadata: %w", err)
	}
	var upload Upload
	if err := json.Unmarshal(data, &upload); err != nil {
		return nil, fmt.Errorf("decoding upload metadata: %w", err)
	}
	return &upload, nil
}

// sanitizeFilename strips path separators and shell-hostile characters.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
