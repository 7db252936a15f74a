package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bespaarwijzer/backend/internal/domain"
)

// recordFile is the wrapped form of a records document
type recordFile struct {
	Products []domain.ProductRecord `json:"products" yaml:"products"`
}

// loadRecords reads promotion records from a JSON or YAML file
func loadRecords(path string) ([]domain.ProductRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".json":
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported records format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

func decodeJSON(data []byte) ([]domain.ProductRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var records []domain.ProductRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode json records: %w", err)
		}
		return records, nil
	}

	var file recordFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return nil, fmt.Errorf("decode json records: %w", err)
	}
	return file.Products, nil
}

func decodeYAML(data []byte) ([]domain.ProductRecord, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode yaml records: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var records []domain.ProductRecord
		if err := node.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode yaml records: %w", err)
		}
		return records, nil
	}

	var file recordFile
	if err := node.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode yaml records: %w", err)
	}
	return file.Products, nil
}
