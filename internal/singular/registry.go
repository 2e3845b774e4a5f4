package singular

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrSubcompositionNotFound is returned when neither a slug nor a raw
// subcomposition ID matches the registry.
var ErrSubcompositionNotFound = errors.New("subcomposition not found")

// ErrFieldNotFound is returned when a subcomposition has no such field.
var ErrFieldNotFound = errors.New("field not found")

// FieldMeta describes one controllable field on a subcomposition.
type FieldMeta struct {
	ID   string
	Type string
}

// Subcomposition is one controllable node discovered in the app model.
type Subcomposition struct {
	ID     string
	Name   string
	Slug   string
	Fields map[string]FieldMeta
}

// Registry indexes the discovered subcompositions by slug and by raw ID.
// It is rebuilt wholesale from the control app model; reads are cheap.
type Registry struct {
	mu       sync.RWMutex
	bySlug   map[string]*Subcomposition
	idToSlug map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bySlug:   map[string]*Subcomposition{},
		idToSlug: map[string]string{},
	}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a subcomposition name into a URL-safe key.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.Trim(slugUnsafe.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "item"
	}
	return s
}

// Rebuild replaces the registry contents from a freshly fetched model.
func (r *Registry) Rebuild(model any) {
	bySlug := map[string]*Subcomposition{}
	idToSlug := map[string]string{}

	for _, node := range flattenNodes(model) {
		id, _ := node["id"].(string)
		name, hasName := node["name"].(string)
		rawFields, hasModel := node["model"].([]any)
		if id == "" || !hasName || !hasModel {
			continue
		}

		slug := Slugify(name)
		base := slug
		for i := 2; ; i++ {
			existing, taken := bySlug[slug]
			if !taken || existing.ID == id {
				break
			}
			slug = base + "-" + strconv.Itoa(i)
		}

		fields := map[string]FieldMeta{}
		for _, rawField := range rawFields {
			fieldNode, ok := rawField.(map[string]any)
			if !ok {
				continue
			}
			fieldID, _ := fieldNode["id"].(string)
			if fieldID == "" {
				continue
			}
			fieldType, _ := fieldNode["type"].(string)
			fields[fieldID] = FieldMeta{ID: fieldID, Type: strings.ToLower(fieldType)}
		}

		bySlug[slug] = &Subcomposition{ID: id, Name: name, Slug: slug, Fields: fields}
		idToSlug[id] = slug
	}

	r.mu.Lock()
	r.bySlug = bySlug
	r.idToSlug = idToSlug
	r.mu.Unlock()
}

// flattenNodes walks the model tree collecting every object node,
// descending into subcomposition child collections.
func flattenNodes(node any) []map[string]any {
	var out []map[string]any
	switch n := node.(type) {
	case map[string]any:
		out = append(out, n)
		for _, key := range []string{"subcompositions", "Subcompositions"} {
			if children, ok := n[key].([]any); ok {
				for _, child := range children {
					out = append(out, flattenNodes(child)...)
				}
			}
		}
	case []any:
		for _, el := range n {
			out = append(out, flattenNodes(el)...)
		}
	}
	return out
}

// Find resolves a slug or a raw subcomposition ID.
func (r *Registry) Find(keyOrID string) (Subcomposition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if sub, ok := r.bySlug[keyOrID]; ok {
		return *sub, nil
	}
	if slug, ok := r.idToSlug[keyOrID]; ok {
		return *r.bySlug[slug], nil
	}
	return Subcomposition{}, ErrSubcompositionNotFound
}

// Field resolves a field on a subcomposition found by slug or ID.
func (r *Registry) Field(keyOrID, fieldID string) (Subcomposition, FieldMeta, error) {
	sub, err := r.Find(keyOrID)
	if err != nil {
		return Subcomposition{}, FieldMeta{}, err
	}
	meta, ok := sub.Fields[fieldID]
	if !ok {
		return Subcomposition{}, FieldMeta{}, ErrFieldNotFound
	}
	return sub, meta, nil
}

// List returns every subcomposition sorted by slug.
func (r *Registry) List() []Subcomposition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Subcomposition, 0, len(r.bySlug))
	for _, sub := range r.bySlug {
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Len reports how many subcompositions are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySlug)
}

// CoerceValue converts a raw query-string value into the type the field
// expects. With asString set, the raw string is passed through untouched.
func CoerceValue(meta FieldMeta, raw string, asString bool) any {
	if asString {
		return raw
	}
	switch meta.Type {
	case "number", "range", "slider":
		if strings.Contains(raw, ".") {
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				return f
			}
			return raw
		}
		if i, err := strconv.Atoi(raw); err == nil {
			return i
		}
		return raw
	case "checkbox", "toggle", "bool", "boolean":
		switch strings.ToLower(raw) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	default:
		return raw
	}
}
