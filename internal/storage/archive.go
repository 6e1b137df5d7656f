package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path"

	"github.com/hackforge/hackforge/internal/judging"
)

// ScoreArchive writes accepted score payloads into a blob store under a
// content-addressed key, so resubmitting identical content is a no-op and
// every distinct finalized payload stays retrievable.
type ScoreArchive struct {
	Blobs  BlobStore
	Prefix string // e.g. "scores"
}

func NewScoreArchive(bs BlobStore) *ScoreArchive {
	return &ScoreArchive{Blobs: bs, Prefix: "scores"}
}

func (a *ScoreArchive) ArchiveScore(_ context.Context, s judging.Score) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	key := path.Join(a.Prefix, hex.EncodeToString(sum[:])+".json")
	return a.Blobs.Put(key, bytes.NewReader(b))
}
