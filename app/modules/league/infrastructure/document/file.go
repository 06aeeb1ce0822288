package leaguedoc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

// TitleFromPath derives a league title from its file name: the base name
// without extension, with underscores read as spaces.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}

// LoadFile reads the league document at path.
func (c Codec) LoadFile(path string) (*leaguedomain.League, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open league file: %w", err)
	}
	defer f.Close()

	l, err := c.Decode(bufio.NewReader(f), TitleFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l, nil
}

// SaveFile writes l to exactly path. The document is written to a temporary
// file in the same directory and renamed over path, so readers never observe a
// partial file.
func (c Codec) SaveFile(path string, l *leaguedomain.League) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary league file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = c.Encode(w, l); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("failed to write league file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync league file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close league file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace league file: %w", err)
	}
	return nil
}

// LoadFile reads a league document with the default codec.
func LoadFile(path string) (*leaguedomain.League, error) {
	return DefaultCodec.LoadFile(path)
}

// SaveFile writes a league document with the default codec.
func SaveFile(path string, l *leaguedomain.League) error {
	return DefaultCodec.SaveFile(path, l)
}
