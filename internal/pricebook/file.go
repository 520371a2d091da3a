package pricebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Simplici0/plise/internal/pricing"
)

// DefaultFileName is the settings file created beside the executable.
const DefaultFileName = "prices.json"

// DefaultPath returns DefaultFileName in the directory of the running
// executable, or in the working directory when that cannot be resolved.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// FileStore keeps the price book as a JSON document.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the price book. A missing file is created with the defaults.
// Fields absent from the file keep their default values.
func (s *FileStore) Load() (pricing.PriceBook, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		book := pricing.DefaultPriceBook()
		if err := s.Save(book); err != nil {
			return pricing.PriceBook{}, fmt.Errorf("create default price book: %w", err)
		}
		return book, nil
	}
	if err != nil {
		return pricing.PriceBook{}, fmt.Errorf("read price book file: %w", err)
	}

	book := pricing.DefaultPriceBook()
	if err := json.Unmarshal(raw, &book); err != nil {
		return pricing.PriceBook{}, fmt.Errorf("decode price book file %s: %w", s.path, err)
	}
	return book, nil
}

// Save writes the price book through a temporary file so a failed write
// never leaves a truncated document behind.
func (s *FileStore) Save(book pricing.PriceBook) error {
	if err := book.Validate(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return fmt.Errorf("encode price book: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create price book directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prices-*.json")
	if err != nil {
		return fmt.Errorf("create temp price book: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp price book: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp price book: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace price book file: %w", err)
	}
	return nil
}
