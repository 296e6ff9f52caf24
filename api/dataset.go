package api

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/qyinm/zodiactui/dto"
	"github.com/qyinm/zodiactui/types"
)

//go:embed data/zodiacs.json
var defaultData []byte

// Dataset holds the catalogue served by the API. Reloads replace it
// wholesale; readers always see either the old or the new catalogue.
type Dataset struct {
	mu        sync.RWMutex
	catalogue types.Catalogue
	path      string
}

// NewDataset loads the dataset at path, or the built-in twelve signs when
// path is empty.
func NewDataset(path string) (*Dataset, error) {
	d := &Dataset{path: path}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Path returns the file backing the dataset, or "" for the built-in data.
func (d *Dataset) Path() string {
	return d.path
}

// Catalogue returns the current catalogue.
func (d *Dataset) Catalogue() types.Catalogue {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.catalogue
}

// Reload re-reads the backing file. On error the current catalogue is kept.
func (d *Dataset) Reload() error {
	var (
		raw    = defaultData
		format = ".json"
	)
	if d.path != "" {
		b, err := os.ReadFile(d.path)
		if err != nil {
			return fmt.Errorf("read dataset: %w", err)
		}
		raw = b
		format = strings.ToLower(filepath.Ext(d.path))
	}

	entries, err := ParseEntries(raw, format)
	if err != nil {
		return fmt.Errorf("parse dataset %s: %w", d.describe(), err)
	}
	catalogue, err := types.NewCatalogue(entries)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", d.describe(), err)
	}

	d.mu.Lock()
	d.catalogue = catalogue
	d.mu.Unlock()
	return nil
}

func (d *Dataset) describe() string {
	if d.path == "" {
		return "(built-in)"
	}
	return d.path
}

// ParseEntries decodes a list of entries. format is a file extension:
// ".yaml" and ".yml" decode YAML, anything else decodes JSON.
func ParseEntries(raw []byte, format string) ([]types.Entry, error) {
	var items []dto.Entry
	switch format {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
	default:
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
	}
	for i, it := range items {
		if strings.TrimSpace(string(it.ID)) == "" {
			return nil, fmt.Errorf("entry %d (%q) has no id", i, it.Name)
		}
	}
	return dto.ToEntries(items), nil
}
