package settingsstore

import (
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/mrlokans/shelfgraph/internal/entities"
)

// Where an effective setting value came from.
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

// SettingsRepository is the key/value storage behind the store.
// Implemented by database/settings.Repository.
type SettingsRepository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Priority: database > environment > default
type SettingsStore struct {
	repo      SettingsRepository
	lookupEnv func(string) (string, bool)
}

func New(repo SettingsRepository) *SettingsStore {
	return &SettingsStore{repo: repo, lookupEnv: os.LookupEnv}
}

// resolve returns the first candidate value accepted by valid, checking the
// database key and then the environment variable. ok is false when neither
// holds a usable value.
func (s *SettingsStore) resolve(key, envVar string, valid func(string) bool) (value, source string, ok bool) {
	setting, err := s.repo.GetSetting(key)
	if err == nil && setting.Value != "" && valid(setting.Value) {
		return setting.Value, SourceDatabase, true
	}

	if envVal, found := s.lookupEnv(envVar); found && envVal != "" && valid(envVal) {
		return envVal, SourceEnvironment, true
	}

	return "", SourceDefault, false
}

func (s *SettingsStore) clear(keys ...string) error {
	for _, key := range keys {
		if err := s.repo.DeleteSetting(key); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

func anyValue(string) bool { return true }
