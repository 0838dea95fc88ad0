package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
)

// IndexMetadata describes the document schema of one index.
type IndexMetadata struct {
	Schema ObjectType
}

// FieldType is the type of a mapped field: PrimitiveType, DateTimeType or
// ObjectType.
type FieldType interface {
	fieldType()
}

// PrimitiveType is a scalar field type, named as the cluster names it
// (keyword, long, boolean, ...).
type PrimitiveType struct {
	Name string
}

// DateTimeType is a date field with its ordered list of format patterns.
// An empty Formats list means the cluster's default date format applies.
type DateTimeType struct {
	Formats []string
}

// ObjectType is a nested object with its mapped sub-fields, ordered by name.
type ObjectType struct {
	Fields []Field
}

// Field is one named entry of an object mapping.
type Field struct {
	Name string
	Type FieldType
}

func (PrimitiveType) fieldType() {}
func (DateTimeType) fieldType()  {}
func (ObjectType) fieldType()    {}

// dateFormatSeparator splits the cluster's multi-format date pattern string.
const dateFormatSeparator = "||"

// Indexes lists all index names in ascending order.
func (c *Client) Indexes(ctx context.Context) ([]string, error) {
	res, err := c.os.Cat.Indices(
		c.os.Cat.Indices.WithContext(ctx),
		c.os.Cat.Indices.WithFormat("json"),
		c.os.Cat.Indices.WithH("index"),
		c.os.Cat.Indices.WithS("index:asc"),
	)
	body, err := c.readResponse(res, err)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Index string `json:"index"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Index)
	}
	return names, nil
}

// IndexMetadata fetches the mapping of index and decodes it into a field
// schema tree.
func (c *Client) IndexMetadata(ctx context.Context, index string) (*IndexMetadata, error) {
	res, err := c.os.Indices.GetMapping(
		c.os.Indices.GetMapping.WithContext(ctx),
		c.os.Indices.GetMapping.WithIndex(index),
	)
	body, err := c.readResponse(res, err)
	if err != nil {
		return nil, err
	}

	var root map[string]struct {
		Mappings map[string]json.RawMessage `json:"mappings"`
	}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}
	entry, ok := root[index]
	if !ok {
		return nil, errors.Join(ErrInvalidResponse, errors.New("index missing from mapping response"))
	}

	properties, ok := entry.Mappings["properties"]
	if !ok {
		// Older clusters supported multiple "type" mappings per index and
		// nest the real mapping one level deeper. Unwrap exactly one layer.
		properties, err = unwrapTypeMapping(entry.Mappings)
		if err != nil {
			return nil, errors.Join(ErrInvalidResponse, err)
		}
	}

	schema, err := parseObjectType(properties)
	if err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}
	return &IndexMetadata{Schema: *schema}, nil
}

func unwrapTypeMapping(mappings map[string]json.RawMessage) (json.RawMessage, error) {
	keys := slices.Sorted(maps.Keys(mappings))
	if len(keys) == 0 {
		return nil, errors.New("mapping has no properties")
	}
	var wrapped struct {
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(mappings[keys[0]], &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Properties == nil {
		return nil, errors.New("mapping has no properties")
	}
	return wrapped.Properties, nil
}

// parseObjectType walks a "properties" object recursively. Fields come out
// ordered by name so that equal mappings always decode to equal trees.
func parseObjectType(raw json.RawMessage) (*ObjectType, error) {
	var properties map[string]json.RawMessage
	if err := json.Unmarshal(raw, &properties); err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(properties))
	for _, name := range slices.Sorted(maps.Keys(properties)) {
		var mapped struct {
			Type       string          `json:"type"`
			Format     string          `json:"format"`
			Properties json.RawMessage `json:"properties"`
		}
		if err := json.Unmarshal(properties[name], &mapped); err != nil {
			return nil, err
		}

		switch {
		case mapped.Type == "date":
			var formats []string
			if mapped.Format != "" {
				formats = strings.Split(mapped.Format, dateFormatSeparator)
			}
			fields = append(fields, Field{Name: name, Type: DateTimeType{Formats: formats}})
		case mapped.Type != "":
			fields = append(fields, Field{Name: name, Type: PrimitiveType{Name: mapped.Type}})
		case mapped.Properties != nil:
			nested, err := parseObjectType(mapped.Properties)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: name, Type: *nested})
		}
	}
	return &ObjectType{Fields: fields}, nil
}
