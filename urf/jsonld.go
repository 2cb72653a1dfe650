package urf

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	ld "github.com/piprate/json-gold/ld"
)

const xsdNamespace = "http://www.w3.org/2001/XMLSchema#"

// JSONLDOptions configures JSON-LD export.
type JSONLDOptions struct {
	// BaseIRI resolves relative IRIs during processing.
	BaseIRI string
	// ProcessingMode controls JSON-LD version semantics: "json-ld-1.0"
	// or "json-ld-1.1".
	ProcessingMode string
	// CompactContext, when set, compacts the expanded output against
	// this context.
	CompactContext interface{}
	// CompactArrays controls compaction of single-element arrays.
	CompactArrays bool
}

// JSONLDProcessor exposes the JSON-LD algorithms the export needs.
type JSONLDProcessor interface {
	Expand(ctx context.Context, input interface{}, opts JSONLDOptions) (interface{}, error)
	Compact(ctx context.Context, input interface{}, context interface{}, opts JSONLDOptions) (interface{}, error)
}

type defaultJSONLDProcessor struct{}

// NewJSONLDProcessor returns the default JSON-LD processor.
func NewJSONLDProcessor() JSONLDProcessor {
	return &defaultJSONLDProcessor{}
}

func (p *defaultJSONLDProcessor) Expand(ctx context.Context, input interface{}, opts JSONLDOptions) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	proc := ld.NewJsonLdProcessor()
	return proc.Expand(input, newGoldOptions(opts))
}

func (p *defaultJSONLDProcessor) Compact(ctx context.Context, input interface{}, context interface{}, opts JSONLDOptions) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	proc := ld.NewJsonLdProcessor()
	return proc.Compact(input, context, newGoldOptions(opts))
}

func newGoldOptions(opts JSONLDOptions) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	if opts.ProcessingMode != "" {
		goldOpts.ProcessingMode = opts.ProcessingMode
	}
	goldOpts.CompactArrays = opts.CompactArrays
	return goldOpts
}

// ExportJSONLD renders a resource graph as JSON-LD: expanded form by
// default, compacted against JSONLDOptions.CompactContext when one is
// supplied. Anonymous resources become blank nodes; IRI, email,
// telephone, and UUID literals become node references.
func ExportJSONLD(ctx context.Context, resources []*Resource, opts JSONLDOptions) (interface{}, error) {
	return ExportJSONLDWith(ctx, NewJSONLDProcessor(), resources, opts)
}

// ExportJSONLDWith is ExportJSONLD using a caller-supplied processor.
func ExportJSONLDWith(ctx context.Context, proc JSONLDProcessor, resources []*Resource, opts JSONLDOptions) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ex := &jsonldExport{blanks: map[*Resource]string{}}
	graph := make([]interface{}, 0, len(resources))
	for _, r := range resources {
		node, err := ex.node(r)
		if err != nil {
			return nil, err
		}
		graph = append(graph, node)
	}
	expanded, err := proc.Expand(ctx, graph, opts)
	if err != nil {
		return nil, err
	}
	if opts.CompactContext == nil {
		return expanded, nil
	}
	return proc.Compact(ctx, expanded, opts.CompactContext, opts)
}

type jsonldExport struct {
	blanks map[*Resource]string
}

func (ex *jsonldExport) nodeID(r *Resource) string {
	if tag, ok := r.Tag(); ok {
		return tag.String()
	}
	if id, ok := ex.blanks[r]; ok {
		return id
	}
	id := "_:b" + strconv.Itoa(len(ex.blanks))
	ex.blanks[r] = id
	return id
}

func (ex *jsonldExport) node(r *Resource) (map[string]interface{}, error) {
	node := map[string]interface{}{"@id": ex.nodeID(r)}
	if typeTag, ok := r.TypeTag(); ok {
		node["@type"] = typeTag.String()
	}
	for _, prop := range r.Properties() {
		values := make([]interface{}, 0, len(prop.Values))
		for _, value := range prop.Values {
			converted, err := ex.value(value)
			if err != nil {
				return nil, err
			}
			values = append(values, converted)
		}
		node[prop.Tag.String()] = values
	}
	return node, nil
}

func (ex *jsonldExport) value(v Value) (interface{}, error) {
	switch value := v.(type) {
	case Bool:
		return bool(value), nil
	case Integer:
		return int64(value), nil
	case Real:
		return float64(value), nil
	case Decimal:
		return typedLiteral(value.Value.String(), xsdNamespace+"decimal"), nil
	case String:
		return string(value), nil
	case Character:
		return string(rune(value)), nil
	case Binary:
		encoded := base64.StdEncoding.EncodeToString(value)
		return typedLiteral(encoded, xsdNamespace+"base64Binary"), nil
	case IRI:
		return nodeReference(string(value)), nil
	case Email:
		return nodeReference("mailto:" + string(value)), nil
	case Telephone:
		return nodeReference("tel:" + string(value)), nil
	case UUID:
		return nodeReference("urn:uuid:" + value.String()), nil
	case Regexp:
		return string(value), nil
	case Temporal:
		return typedLiteral(value.Text, temporalDatatype(value.Shape)), nil
	case List:
		items, err := ex.values(value)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"@list": items}, nil
	case Set:
		return ex.values(value)
	case Map:
		// No JSON-LD analog; carried as document notation under an
		// ad-hoc datatype.
		text, err := FormatValue(value)
		if err != nil {
			return nil, err
		}
		return typedLiteral(text, AdHocNamespace+"Map"), nil
	case *Resource:
		return nodeReference(ex.nodeID(value)), nil
	default:
		return nil, fmt.Errorf("urf: cannot export %T", v)
	}
}

func (ex *jsonldExport) values(items []Value) ([]interface{}, error) {
	converted := make([]interface{}, 0, len(items))
	for _, item := range items {
		c, err := ex.value(item)
		if err != nil {
			return nil, err
		}
		converted = append(converted, c)
	}
	return converted, nil
}

func typedLiteral(value, datatype string) map[string]interface{} {
	return map[string]interface{}{"@value": value, "@type": datatype}
}

func nodeReference(iri string) map[string]interface{} {
	return map[string]interface{}{"@id": iri}
}

func temporalDatatype(shape TemporalShape) string {
	switch shape {
	case ShapeYear:
		return xsdNamespace + "gYear"
	case ShapeYearMonth:
		return xsdNamespace + "gYearMonth"
	case ShapeMonthDay:
		return xsdNamespace + "gMonthDay"
	case ShapeLocalDate:
		return xsdNamespace + "date"
	case ShapeLocalTime:
		return xsdNamespace + "time"
	default:
		return xsdNamespace + "dateTime"
	}
}
