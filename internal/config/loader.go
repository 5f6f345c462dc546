package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// LoadFile loads a policy document from an HCL or JSON file. The format is
// chosen by extension; unknown extensions try HCL first, then JSON.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy document: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".hcl":
		return LoadHCL(data, path)
	case ".json":
		return LoadJSON(data)
	default:
		doc, hclErr := LoadHCL(data, path)
		if hclErr == nil {
			return doc, nil
		}
		if doc, jsonErr := LoadJSON(data); jsonErr == nil {
			return doc, nil
		}
		return nil, hclErr
	}
}

// LoadHCL decodes a policy document from HCL bytes.
func LoadHCL(data []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse error: %s", diags.Error())
	}

	var doc Document
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode policy document: %s", diags.Error())
	}
	return &doc, nil
}

// LoadJSON decodes a policy document from JSON bytes. Unknown fields are
// rejected so typos fail loudly instead of silently disabling a feature.
func LoadJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode policy document: %w", err)
	}
	return &doc, nil
}

// Load sniffs the format of raw bytes: a leading '{' means JSON, anything
// else is treated as HCL. Used by the HTTP compile endpoint where there is
// no filename.
func Load(data []byte, name string) (*Document, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return LoadJSON(data)
	}
	if name == "" {
		name = "policy.hcl"
	}
	return LoadHCL(data, name)
}
