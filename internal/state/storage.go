package state

import (
	"errors"
	"io/fs"

	"github.com/rsenna/gitopolis/internal/registry"
	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
	"github.com/rsenna/gitopolis/internal/repos/shared"
)

const (
	// DefaultStateFileNameConstant is the state document kept in the working directory.
	DefaultStateFileNameConstant = ".gitopolis.toml"

	stateFilePermissionsConstant           fs.FileMode = 0o644
	stateInspectionFailureMessageConstant              = "unable to inspect state file"
	stateReadFailureMessageConstant                    = "unable to read state file"
	stateWriteFailureMessageConstant                   = "unable to write state file"
	fileSystemNotConfiguredMessageConstant             = "state storage requires a filesystem"
	storageNotConfiguredMessageConstant                = "state store requires storage"
)

// ErrFileSystemNotConfigured indicates FileStorage was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)

// ErrStorageNotConfigured indicates Store was constructed without storage.
var ErrStorageNotConfigured = errors.New(storageNotConfiguredMessageConstant)

// FileStorage keeps the state document in a single file.
type FileStorage struct {
	fileSystem shared.FileSystem
	path       string
}

// NewFileStorage constructs storage for the document at path.
func NewFileStorage(fileSystem shared.FileSystem, path string) (*FileStorage, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if len(path) == 0 {
		path = DefaultStateFileNameConstant
	}
	return &FileStorage{fileSystem: fileSystem, path: path}, nil
}

// Path returns the document location.
func (storage *FileStorage) Path() string {
	return storage.path
}

// Exists reports whether the document is present.
func (storage *FileStorage) Exists() (bool, error) {
	_, statError := storage.fileSystem.Stat(storage.path)
	if statError == nil {
		return true, nil
	}
	if errors.Is(statError, fs.ErrNotExist) {
		return false, nil
	}
	return false, repoerrors.NewIOError(storage.path, stateInspectionFailureMessageConstant, statError)
}

// Read returns the raw document.
func (storage *FileStorage) Read() ([]byte, error) {
	document, readError := storage.fileSystem.ReadFile(storage.path)
	if readError != nil {
		return nil, repoerrors.NewIOError(storage.path, stateReadFailureMessageConstant, readError)
	}
	return document, nil
}

// Save replaces the document.
func (storage *FileStorage) Save(document []byte) error {
	if writeError := storage.fileSystem.WriteFile(storage.path, document, stateFilePermissionsConstant); writeError != nil {
		return repoerrors.NewIOError(storage.path, stateWriteFailureMessageConstant, writeError)
	}
	return nil
}

// Store loads and saves registries through a StateStorage.
type Store struct {
	storage shared.StateStorage
	codec   Codec
}

// NewStore constructs a Store over storage.
func NewStore(storage shared.StateStorage) (*Store, error) {
	if storage == nil {
		return nil, ErrStorageNotConfigured
	}
	return &Store{storage: storage, codec: Codec{}}, nil
}

// Load reads the Registry. An absent document is an empty Registry.
func (store *Store) Load() (*registry.Registry, error) {
	exists, existsError := store.storage.Exists()
	if existsError != nil {
		return nil, existsError
	}
	if !exists {
		return registry.New(), nil
	}

	document, readError := store.storage.Read()
	if readError != nil {
		return nil, readError
	}
	return store.codec.Decode(document)
}

// Save writes the Registry.
func (store *Store) Save(reg *registry.Registry) error {
	document, encodeError := store.codec.Encode(reg)
	if encodeError != nil {
		return encodeError
	}
	return store.storage.Save(document)
}
