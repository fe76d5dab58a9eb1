package builtin

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/go-json-experiment/json"
	goyaml "github.com/goccy/go-yaml"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// Decoder turns an encoded string into raw bytes (contentEncoding).
type Decoder func(string) ([]byte, error)

// MediaTypeParser turns raw bytes into a Go value (contentMediaType).
type MediaTypeParser func([]byte) (any, error)

// DefaultDecoders mirrors the teacher's Compiler.Decoders default set.
var DefaultDecoders = map[string]Decoder{
	"base64": base64.StdEncoding.DecodeString,
}

// DefaultMediaTypes mirrors the teacher's Compiler.MediaTypes default set,
// swapping its JSON branch for the go-json-experiment decoder already wired
// for the rest of the module and keeping XML/YAML as-is.
var DefaultMediaTypes = map[string]MediaTypeParser{
	"application/json": func(b []byte) (any, error) {
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("content is not valid JSON: %w", err)
		}
		return v, nil
	},
	"application/xml": func(b []byte) (any, error) {
		var v any
		if err := xml.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("content is not valid XML: %w", err)
		}
		return v, nil
	},
	"application/yaml": func(b []byte) (any, error) {
		var v any
		if err := goyaml.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("content is not valid YAML: %w", err)
		}
		return v, nil
	},
}

// ContentKeyword implements contentEncoding/contentMediaType/contentSchema
// (§name-contentencoding, §name-contentmediatype, §name-contentschema) as a
// joint keyword, since decoding for contentSchema depends on the other two.
type ContentKeyword struct {
	encoding     string
	hasEncoding  bool
	mediaType    string
	hasMediaType bool
	schema       keyword.Handle
	hasSchema    bool

	decoders   map[string]Decoder
	mediaTypes map[string]MediaTypeParser
}

func (k *ContentKeyword) Kind() []string {
	return []string{"contentEncoding", "contentMediaType", "contentSchema"}
}

func (k *ContentKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok || !isSchemaLike(obj["contentSchema"]) {
		return nil
	}
	return []pointer.Pointer{{"contentSchema"}}
}

func (k *ContentKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	enc, hasEnc := asString(obj["contentEncoding"])
	mt, hasMT := asString(obj["contentMediaType"])
	if !hasEnc && !hasMT && !isSchemaLike(obj["contentSchema"]) {
		return nil, false
	}
	out := &ContentKeyword{
		encoding: enc, hasEncoding: hasEnc,
		mediaType: mt, hasMediaType: hasMT,
		decoders: DefaultDecoders, mediaTypes: DefaultMediaTypes,
	}
	if v, ok := ctx.GlobalState().Get(DecodersStateKey); ok {
		if m, ok := v.(map[string]Decoder); ok {
			out.decoders = m
		}
	}
	if v, ok := ctx.GlobalState().Get(MediaTypesStateKey); ok {
		if m, ok := v.(map[string]MediaTypeParser); ok {
			out.mediaTypes = m
		}
	}
	if isSchemaLike(obj["contentSchema"]) {
		if h, ok := lookupChild(ctx, pointer.Pointer{"contentSchema"}); ok {
			out.schema, out.hasSchema = h, true
		}
	}
	return out, true
}

// DecodersStateKey/MediaTypesStateKey are the GlobalState keys a dialect's
// construction code sets to extend the decoder/media-type tables.
const (
	DecodersStateKey   = "builtin.decoders"
	MediaTypesStateKey = "builtin.mediaTypes"
)

func (k *ContentKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	s, ok := asString(instance)
	if !ok {
		return nil, nil
	}

	raw := []byte(s)
	if k.hasEncoding {
		dec, known := k.decoders[k.encoding]
		if !known {
			return output.NewError(loc, kwLoc, abs, fmt.Sprintf("unsupported contentEncoding '%s'", k.encoding)), nil
		}
		decoded, err := dec(s)
		if err != nil {
			return output.NewError(loc, kwLoc, abs, fmt.Sprintf("value is not valid '%s' content: %s", k.encoding, err)), nil
		}
		raw = decoded
	}

	var parsed any = string(raw)
	if k.hasMediaType {
		parse, known := k.mediaTypes[k.mediaType]
		if !known {
			return output.NewError(loc, kwLoc, abs, fmt.Sprintf("unsupported contentMediaType '%s'", k.mediaType)), nil
		}
		v, err := parse(raw)
		if err != nil {
			return output.NewError(loc, kwLoc, abs, err.Error()), nil
		}
		parsed = v
	}

	if !k.hasSchema {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	child, err := ctx.EvaluateHandle(k.schema, parsed, pointer.Pointer{}, pointer.Pointer{"contentSchema"})
	if err != nil {
		return nil, err
	}
	if child != nil && !child.Valid {
		return output.NewError(loc, kwLoc, abs, "decoded content does not match contentSchema"), nil
	}
	return output.NewAnnotation(loc, kwLoc, abs, true), nil
}

var _ keyword.SubschemaDiscoverer = (*ContentKeyword)(nil)
