package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/arendsv/guesthouse-booking/internal/model"
)

// settingsKey is the Redis key holding the room display settings as a
// JSON array.
const settingsKey = "guesthouse:room_settings"

// ErrSettingsUnavailable is returned by Save when no Redis client is
// configured.  Reads degrade to defaults instead.
var ErrSettingsUnavailable = errors.New("settings store unavailable")

// SettingsRepo stores the per-room display settings (names and colors)
// in Redis.  Settings are presentation state consumed by views and
// exports only; the allocator never reads them.  The repo tolerates a
// nil client so the server keeps working without Redis, serving the
// defaults.
type SettingsRepo struct {
	rdb *redis.Client
}

// NewSettingsRepo returns a SettingsRepo backed by the given client,
// which may be nil.
func NewSettingsRepo(rdb *redis.Client) *SettingsRepo { return &SettingsRepo{rdb: rdb} }

// Load returns the stored room settings, or the defaults when Redis is
// absent, the key is unset, or the stored value cannot be decoded.
func (r *SettingsRepo) Load(ctx context.Context) []model.RoomSetting {
	if r.rdb == nil {
		return model.DefaultRoomSettings()
	}
	raw, err := r.rdb.Get(ctx, settingsKey).Bytes()
	if err != nil {
		return model.DefaultRoomSettings()
	}
	var settings []model.RoomSetting
	if err := json.Unmarshal(raw, &settings); err != nil || len(settings) != model.TotalRooms {
		return model.DefaultRoomSettings()
	}
	return settings
}

// Save replaces the stored settings.  The caller must have validated
// the slice (exactly one entry per room).
func (r *SettingsRepo) Save(ctx context.Context, settings []model.RoomSetting) error {
	if r.rdb == nil {
		return ErrSettingsUnavailable
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, settingsKey, raw, 0).Err()
}
