// Package cache stores AI-generated advice keyed by a fingerprint of the
// observation that produced it.
package cache

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

const keyPrefix = "advice:"

// Entry is a cached AI answer and the model that wrote it.
type Entry struct {
	Advice domain.AdviceDocument `json:"advice"`
	Model  string                `json:"model"`
}

// Store is implemented by RedisStore and MemoryStore.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry) error
}

type fingerprint struct {
	Type    domain.BristolType    `json:"t"`
	Colors  []domain.ColorWarning `json:"c"`
	Volumes []domain.VolumeIssue  `json:"v"`
	Profile *domain.UserProfile   `json:"p,omitempty"`
	Trend   *domain.Trend         `json:"tr,omitempty"`
}

// Key fingerprints everything that goes into the prompt. Equal inputs give
// equal keys; any change to a field gives a different one.
func Key(t domain.BristolType, colors []domain.ColorWarning, volumes []domain.VolumeIssue, profile *domain.UserProfile, trend *domain.Trend) string {
	data, _ := json.Marshal(fingerprint{
		Type:    t,
		Colors:  colors,
		Volumes: volumes,
		Profile: profile,
		Trend:   trend,
	})
	return keyPrefix + strconv.FormatUint(xxhash.Sum64(data), 16)
}
