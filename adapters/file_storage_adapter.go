package adapters

import (
	"encoding/json"
	"os"
	"sync"
)

// FileStorageAdapter is a StorageAdapter backed by a JSON file.
// Suitable as a durable scope for hosts without a database.
type FileStorageAdapter struct {
	mu       sync.Mutex
	filepath string
}

// Ensure FileStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*FileStorageAdapter)(nil)

// NewFileStorageAdapter creates a new FileStorageAdapter instance.
//
// Parameters:
//   - filepath: Path to the file where values will be stored
func NewFileStorageAdapter(filepath string) *FileStorageAdapter {
	return &FileStorageAdapter{filepath: filepath}
}

func (f *FileStorageAdapter) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (f *FileStorageAdapter) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStorageAdapter) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return f.save(values)
}

// Clear removes the storage file.
func (f *FileStorageAdapter) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.filepath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// load reads the backing file. A missing file is an empty store.
func (f *FileStorageAdapter) load() (map[string]string, error) {
	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (f *FileStorageAdapter) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filepath, data, 0644)
}
