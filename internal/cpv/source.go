package cpv

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed data/cpv.json
var embeddedTable []byte

// LoadEntries читает справочник в формате [{"CPV": "...", "DESCRIPCION": "..."}].
func LoadEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode cpv table: %w", err)
	}
	return entries, nil
}

// EmbeddedEntries возвращает встроенный в бинарник справочник.
func EmbeddedEntries() ([]Entry, error) {
	return LoadEntries(bytes.NewReader(embeddedTable))
}

// FileSource возвращает LoadFunc, читающую справочник из файла.
// Пустой путь означает встроенный справочник.
func FileSource(path string) LoadFunc {
	if path == "" {
		return EmbeddedEntries
	}
	return func() ([]Entry, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open cpv table: %w", err)
		}
		defer f.Close()
		return LoadEntries(f)
	}
}
