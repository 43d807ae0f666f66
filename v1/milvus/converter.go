package milvus

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// record is an entry mapped onto the collection's write schema: primary key,
// vector field, and the flattened property map.
type record struct {
	pk         int64
	vector     []float32
	properties map[string]any
}

// entryToRecord converts a generic entry into the Milvus write schema.
//
// The id must be a decimal string: Milvus keys records with an int64 primary
// key, and an unparsable id is a conversion failure that aborts the entry
// before any backend call. The property map is seeded from the entry metadata
// (timestamps coerced to RFC3339 strings, Milvus has no timestamp column
// type), then the chunk type and content are set last so chunk-derived fields
// always win over same-named metadata.
func entryToRecord(entry vectorstore.Entry, cfg *Config) (record, error) {
	pk, err := strconv.ParseInt(entry.ID, 10, 64)
	if err != nil {
		return record{}, fmt.Errorf("%w: entry id %q is not a valid int64 key", vectorstore.ErrConversion, entry.ID)
	}

	properties := make(map[string]any, len(entry.Metadata)+2)
	for k, v := range entry.Metadata {
		properties[k] = coerceMetadataValue(v)
	}
	properties[TypeField] = entry.Chunk.Type
	properties[cfg.ChunkField] = entry.Chunk.Content

	return record{pk: pk, vector: entry.Embedding, properties: properties}, nil
}

// coerceMetadataValue converts timestamps to their canonical string form;
// everything else passes through unchanged.
func coerceMetadataValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

// recordColumns lays a record out as typed SDK columns for a single-row
// upsert. Property columns are emitted in sorted key order so requests are
// deterministic. A property whose type has no Milvus column equivalent is a
// conversion failure.
func recordColumns(rec record, cfg *Config) ([]entity.Column, error) {
	columns := make([]entity.Column, 0, len(rec.properties)+2)
	columns = append(columns,
		entity.NewColumnInt64(cfg.PrimaryField, []int64{rec.pk}),
		entity.NewColumnFloatVector(cfg.VectorField, len(rec.vector), [][]float32{rec.vector}),
	)

	keys := make([]string, 0, len(rec.properties))
	for k := range rec.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col, err := propertyColumn(k, rec.properties[k])
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func propertyColumn(name string, value any) (entity.Column, error) {
	switch v := value.(type) {
	case string:
		return entity.NewColumnVarChar(name, []string{v}), nil
	case bool:
		return entity.NewColumnBool(name, []bool{v}), nil
	case int:
		return entity.NewColumnInt64(name, []int64{int64(v)}), nil
	case int32:
		return entity.NewColumnInt64(name, []int64{int64(v)}), nil
	case int64:
		return entity.NewColumnInt64(name, []int64{v}), nil
	case float32:
		return entity.NewColumnFloat(name, []float32{v}), nil
	case float64:
		return entity.NewColumnDouble(name, []float64{v}), nil
	default:
		return nil, fmt.Errorf("%w: metadata field %q has unsupported type %T", vectorstore.ErrConversion, name, value)
	}
}

// matchFromRow builds a generic match from one backend result row.
//
// Every projected field is looked up with presence-check-with-default
// semantics: the output schema legitimately varies by index configuration, so
// an absent field substitutes the documented default for its declared kind
// instead of failing the query. The score passes through verbatim; its scale
// is backend-defined.
func matchFromRow(id string, row map[string]any, score float32, cfg *Config) vectorstore.Match {
	match := vectorstore.Match{
		ID:        id,
		Score:     score,
		Embedding: floatVectorField(row, cfg.VectorField),
		Chunk: vectorstore.Chunk{
			Type:    stringField(row, TypeField),
			Content: stringField(row, cfg.ChunkField),
		},
	}

	if len(cfg.AdditionalFields) > 0 {
		match.Metadata = make(map[string]any, len(cfg.AdditionalFields))
		for _, name := range cfg.AdditionalFields {
			match.Metadata[name] = fieldOrDefault(row, name, cfg.fieldKind(name))
		}
	}
	return match
}

func fieldOrDefault(row map[string]any, name string, kind FieldKind) any {
	switch kind {
	case FieldKindFloat:
		return float64Field(row, name)
	case FieldKindInt:
		return int64Field(row, name)
	case FieldKindBool:
		v, _ := row[name].(bool)
		return v
	case FieldKindFloatVector:
		return floatVectorField(row, name)
	default:
		return stringField(row, name)
	}
}

func stringField(row map[string]any, name string) string {
	if v, ok := row[name].(string); ok {
		return v
	}
	return ""
}

func float64Field(row map[string]any, name string) float64 {
	switch v := row[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func int64Field(row map[string]any, name string) int64 {
	switch v := row[name].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func floatVectorField(row map[string]any, name string) []float32 {
	if v, ok := row[name].([]float32); ok {
		return v
	}
	return nil
}
