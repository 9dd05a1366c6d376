package client

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// DefaultNamespace scopes signature keys when none is configured.
const DefaultNamespace = "chizurashi"

// SignatureStore persists the preferred signature name and a device ID on
// the client's own disk, so the signature survives restarts even when the
// user composes signed out.
type SignatureStore struct {
	db        *badger.DB
	namespace string
	logger    *slog.Logger
}

// OpenSignatureStore opens (or creates) the local store at path.
// An empty namespace falls back to DefaultNamespace.
func OpenSignatureStore(path, namespace string, logger *slog.Logger) (*SignatureStore, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open signature store: %w", err)
	}

	return &SignatureStore{
		db:        db,
		namespace: namespace,
		logger:    logger,
	}, nil
}

// Close closes the underlying database.
func (s *SignatureStore) Close() error {
	return s.db.Close()
}

func (s *SignatureStore) key(slot string) []byte {
	return []byte(s.namespace + "_" + slot)
}

// Signature returns the stored signature name, or "" when none is set.
func (s *SignatureStore) Signature() (string, error) {
	value, err := s.get(s.key("myName"))
	if err != nil {
		return "", fmt.Errorf("read signature: %w", err)
	}
	return value, nil
}

// SetSignature stores the signature name. An empty name clears the slot.
func (s *SignatureStore) SetSignature(name string) error {
	if name == "" {
		if err := s.delete(s.key("myName")); err != nil {
			return fmt.Errorf("clear signature: %w", err)
		}
		return nil
	}
	if err := s.set(s.key("myName"), name); err != nil {
		return fmt.Errorf("store signature: %w", err)
	}
	return nil
}

// DeviceID returns this installation's stable device ID, minting one on
// first call.
func (s *SignatureStore) DeviceID() (string, error) {
	id, err := s.get(s.key("deviceID"))
	if err != nil {
		return "", fmt.Errorf("read device id: %w", err)
	}
	if id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := s.set(s.key("deviceID"), id); err != nil {
		return "", fmt.Errorf("store device id: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("Minted device ID", "device_id", id)
	}
	return id, nil
}

// get retrieves a value by key, returning "" for missing keys.
func (s *SignatureStore) get(key []byte) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	return value, err
}

// set stores a value by key.
func (s *SignatureStore) set(key []byte, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(value))
	})
}

// delete removes a key.
func (s *SignatureStore) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}
