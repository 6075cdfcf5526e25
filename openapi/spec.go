// Package openapi builds, serializes and indexes the OpenAPI 3.0 document
// describing a Matomo instance's API surface.
package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/FGRibreau/mcp-matomo/schema"
)

// Spec is the OpenAPI 3.0 document root.
type Spec struct {
	OpenAPI    string      `json:"openapi"`
	Info       Info        `json:"info"`
	Servers    []Server    `json:"servers"`
	Paths      *Paths      `json:"paths"`
	Components *Components `json:"components,omitempty"`
	Tags       []Tag       `json:"tags,omitempty"`
}

type Info struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version"`
	Contact     *Contact `json:"contact,omitempty"`
	License     *License `json:"license,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type PathItem struct {
	Get  *Operation `json:"get,omitempty"`
	Post *Operation `json:"post,omitempty"`
}

type Operation struct {
	OperationID string                `json:"operationId"`
	Summary     string                `json:"summary,omitempty"`
	Description string                `json:"description,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty"`
	Responses   map[string]Response   `json:"responses"`
	Security    []map[string][]string `json:"security,omitempty"`
}

type Parameter struct {
	Name        string          `json:"name"`
	In          string          `json:"in"`
	Description string          `json:"description,omitempty"`
	Required    bool            `json:"required"`
	Schema      ParameterSchema `json:"schema"`
	Example     any             `json:"example,omitempty"`
}

type ParameterSchema struct {
	Type    string   `json:"type"`
	Format  string   `json:"format,omitempty"`
	Default any      `json:"default,omitempty"`
	Enum    []string `json:"enum,omitempty"`
}

type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema  *schema.Schema `json:"schema"`
	Example any            `json:"example,omitempty"`
}

type Components struct {
	Schemas         map[string]*schema.Schema `json:"schemas,omitempty"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes,omitempty"`
}

type SecurityScheme struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Name        string `json:"name,omitempty"`
	In          string `json:"in,omitempty"`
	Scheme      string `json:"scheme,omitempty"`
}

type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Paths is an insertion-ordered path-to-item map. encoding/json sorts map
// keys, which would scramble the generated document, so (un)marshalling is
// done by hand. Setting an existing key overwrites in place and keeps the
// original position.
type Paths struct {
	keys  []string
	items map[string]*PathItem
}

// NewPaths returns an empty ordered path map.
func NewPaths() *Paths {
	return &Paths{items: make(map[string]*PathItem)}
}

// Set inserts or replaces the item for key.
func (p *Paths) Set(key string, item *PathItem) {
	if p.items == nil {
		p.items = make(map[string]*PathItem)
	}
	if _, exists := p.items[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.items[key] = item
}

// Get returns the item for key, or nil.
func (p *Paths) Get(key string) *PathItem {
	if p == nil {
		return nil
	}
	return p.items[key]
}

// Len returns the number of paths.
func (p *Paths) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the path keys in insertion order. The returned slice must
// not be modified.
func (p *Paths) Keys() []string {
	if p == nil {
		return nil
	}
	return p.keys
}

func (p *Paths) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(p.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Paths) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("paths: expected object, got %v", tok)
	}

	p.keys = nil
	p.items = make(map[string]*PathItem)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("paths: expected string key, got %v", tok)
		}
		var item PathItem
		if err := dec.Decode(&item); err != nil {
			return fmt.Errorf("paths: decoding %q: %w", key, err)
		}
		p.Set(key, &item)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// BaseURL returns the first server URL, or "".
func (s *Spec) BaseURL() string {
	if len(s.Servers) == 0 {
		return ""
	}
	return s.Servers[0].URL
}

// LoadFile reads a previously generated document from disk.
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec %s: %w", path, err)
	}
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing spec %s: %w", path, err)
	}
	return &spec, nil
}

// WriteFile serializes the document to disk as indented JSON.
func (s *Spec) WriteFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing spec %s: %w", path, err)
	}
	return nil
}
