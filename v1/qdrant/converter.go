package qdrant

import (
	"strconv"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// entryToPoint maps an entry onto the Qdrant point model. Metadata becomes
// the payload, with the chunk written last so its type and content keys win
// over colliding metadata keys.
func entryToPoint(entry vectorstore.Entry, cfg *Config) *qdrant.PointStruct {
	payload := make(map[string]any, len(entry.Metadata)+2)
	for key, value := range entry.Metadata {
		payload[key] = coercePayloadValue(value)
	}
	payload[TypeField] = entry.Chunk.Type
	payload[cfg.ChunkField] = entry.Chunk.Content

	return &qdrant.PointStruct{
		Id:      pointID(entry.ID),
		Vectors: qdrant.NewVectors(entry.Embedding...),
		Payload: qdrant.NewValueMap(payload),
	}
}

// pointID chooses the numeric id form when the entry id is a plain unsigned
// integer, the UUID form otherwise. Qdrant accepts no other id shapes.
func pointID(id string) *qdrant.PointId {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n)
	}
	return qdrant.NewID(id)
}

func idString(id *qdrant.PointId) string {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10)
	case *qdrant.PointId_Uuid:
		return v.Uuid
	default:
		return ""
	}
}

// coercePayloadValue normalizes values without a native payload representation
// before they are handed to the SDK's value map builder.
func coercePayloadValue(value any) any {
	if ts, ok := value.(time.Time); ok {
		return ts.UTC().Format(time.RFC3339)
	}
	return value
}

// matchFromPoint maps a scored point back onto the generic result model.
// Absent payload keys fall back to zero values, so partially populated
// collections remain readable.
func matchFromPoint(point *qdrant.ScoredPoint, cfg *Config) vectorstore.Match {
	payload := point.GetPayload()

	match := vectorstore.Match{
		ID: idString(point.GetId()),
		Chunk: vectorstore.Chunk{
			Type:    stringValue(payload[TypeField]),
			Content: stringValue(payload[cfg.ChunkField]),
		},
		Embedding: point.GetVectors().GetVector().GetData(),
		Score:     point.GetScore(),
	}

	if len(cfg.AdditionalFields) > 0 {
		match.Metadata = make(map[string]any, len(cfg.AdditionalFields))
		for _, field := range cfg.AdditionalFields {
			match.Metadata[field] = anyValue(payload[field])
		}
	}
	return match
}

func stringValue(v *qdrant.Value) string {
	if v == nil {
		return ""
	}
	return v.GetStringValue()
}

// anyValue unwraps a payload value into a plain Go value. Nested structures
// unwrap recursively.
func anyValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = anyValue(item)
		}
		return out
	case *qdrant.Value_StructValue:
		fields := kind.StructValue.GetFields()
		out := make(map[string]any, len(fields))
		for key, item := range fields {
			out[key] = anyValue(item)
		}
		return out
	default:
		return nil
	}
}
