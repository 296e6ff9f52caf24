package dto

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

type Entry struct {
	ID            ID       `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Symbol        string   `json:"symbol" yaml:"symbol"`
	DateRange     string   `json:"dateRange" yaml:"dateRange"`
	Element       string   `json:"element" yaml:"element"`
	RulingPlanet  string   `json:"rulingPlanet" yaml:"rulingPlanet"`
	Personality   []string `json:"personality" yaml:"personality"`
	Strengths     []string `json:"strengths" yaml:"strengths"`
	Weaknesses    []string `json:"weaknesses" yaml:"weaknesses"`
	Compatibility []string `json:"compatibility" yaml:"compatibility"`
	Origin        string   `json:"origin" yaml:"origin"`
}

// ID is an entry id that decodes from either a JSON string or a JSON number.
// It always encodes as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", b)
	}
	*id = ID(b)
	return nil
}

func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", node.Line)
	}
	*id = ID(node.Value)
	return nil
}
