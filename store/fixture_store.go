package store

import (
	"fmt"
	"sync"

	"github.com/minerva-id/SANCTUARY/db"
	"github.com/minerva-id/SANCTUARY/fixture"
	"github.com/minerva-id/SANCTUARY/jsonx"
	"github.com/minerva-id/SANCTUARY/logx"
)

// FixtureStore persists generated Solidity fixtures keyed by name. Only
// public material passes through here; the store never sees a secret key.
type FixtureStore interface {
	Store(f *fixture.Fixture) error
	StoreBatch(fs []*fixture.Fixture) error
	GetByName(name string) (*fixture.Fixture, error)
	List() ([]*fixture.Fixture, error)
	Delete(name string) error
	MustClose()
}

// GenericFixtureStore provides fixture storage over a DatabaseProvider
type GenericFixtureStore struct {
	mu         sync.RWMutex
	dbProvider db.IterableProvider
}

// NewGenericFixtureStore creates a new fixture store
func NewGenericFixtureStore(dbProvider db.IterableProvider) (*GenericFixtureStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericFixtureStore{
		dbProvider: dbProvider,
	}, nil
}

// Store stores a single fixture in the database
func (fs *GenericFixtureStore) Store(f *fixture.Fixture) error {
	return fs.StoreBatch([]*fixture.Fixture{f})
}

// StoreBatch stores a batch of fixtures atomically
func (fs *GenericFixtureStore) StoreBatch(fixtures []*fixture.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	batch := fs.dbProvider.Batch()
	defer batch.Close()

	for _, f := range fixtures {
		if f.Name == "" {
			return fmt.Errorf("fixture name cannot be empty")
		}
		data, err := jsonx.Marshal(f)
		if err != nil {
			return fmt.Errorf("failed to marshal fixture %s: %w", f.Name, err)
		}
		batch.Put(fs.getDbKey(f.Name), data)
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write fixtures to db: %w", err)
	}
	logx.Info("FIXTURE_STORE", "Stored ", len(fixtures), " fixture(s)")
	return nil
}

// GetByName returns a fixture by name, nil if it does not exist
func (fs *GenericFixtureStore) GetByName(name string) (*fixture.Fixture, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := fs.dbProvider.Get(fs.getDbKey(name))
	if err != nil {
		return nil, fmt.Errorf("could not get fixture %s from db: %w", name, err)
	}
	if data == nil {
		return nil, nil
	}

	var f fixture.Fixture
	if err := jsonx.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixture %s: %w", name, err)
	}
	return &f, nil
}

// List returns all stored fixtures
func (fs *GenericFixtureStore) List() ([]*fixture.Fixture, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var fixtures []*fixture.Fixture
	var iterErr error
	err := fs.dbProvider.IteratePrefix([]byte(PrefixFixture), func(key, value []byte) bool {
		var f fixture.Fixture
		if err := jsonx.Unmarshal(value, &f); err != nil {
			iterErr = fmt.Errorf("failed to unmarshal fixture %s: %w", string(key), err)
			return false
		}
		fixtures = append(fixtures, &f)
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return fixtures, nil
}

// Delete removes a fixture by name
func (fs *GenericFixtureStore) Delete(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.dbProvider.Delete(fs.getDbKey(name))
}

// MustClose closes the underlying provider, panicking on failure
func (fs *GenericFixtureStore) MustClose() {
	if err := fs.dbProvider.Close(); err != nil {
		logx.Error("FIXTURE_STORE", "Failed to close provider:", err)
		panic(err)
	}
}

func (fs *GenericFixtureStore) getDbKey(name string) []byte {
	return []byte(PrefixFixture + name)
}
