package urf

// Processor receives graph-construction calls from a producer: the
// document parser or the tabular importer. Implementations own the
// graph they build.
type Processor interface {
	// DeclareResource registers (or returns the existing) identity for a
	// tag. Declaring the same tag twice yields the same resource. A nil
	// tag declares a fresh anonymous resource.
	DeclareResource(tag *Tag, typeTag *Tag) (*Resource, error)

	// ProcessStatement attaches a property value to the subject. When
	// plural is set the value is appended to the property's ordered
	// sequence; otherwise a property that already has a value is an
	// error.
	ProcessStatement(subject *Resource, property Tag, plural bool, value Value) error
}

// GraphProcessor builds a resource graph. Resources are resolved by tag
// equality: a resource referenced by tag before (or instead of) being
// described resolves to the same in-memory instance. A GraphProcessor
// is owned by one producer for the lifetime of one parse.
type GraphProcessor struct {
	byTag map[string]*Resource
	order []*Resource
}

// NewGraphProcessor returns an empty processor.
func NewGraphProcessor() *GraphProcessor {
	return &GraphProcessor{byTag: map[string]*Resource{}}
}

// DeclareResource implements Processor.
func (g *GraphProcessor) DeclareResource(tag *Tag, typeTag *Tag) (*Resource, error) {
	if tag == nil {
		r := NewResource()
		if typeTag != nil {
			r.SetTypeTag(*typeTag)
		}
		g.order = append(g.order, r)
		return r, nil
	}
	if existing, ok := g.byTag[tag.String()]; ok {
		if typeTag != nil {
			if _, has := existing.TypeTag(); !has {
				existing.SetTypeTag(*typeTag)
			}
		}
		return existing, nil
	}
	r := NewResource()
	r.SetTag(*tag)
	if typeTag != nil {
		r.SetTypeTag(*typeTag)
	}
	g.byTag[tag.String()] = r
	g.order = append(g.order, r)
	return r, nil
}

// ProcessStatement implements Processor.
func (g *GraphProcessor) ProcessStatement(subject *Resource, property Tag, plural bool, value Value) error {
	if plural {
		return subject.AddPropertyValue(property, value)
	}
	if _, ok := subject.PropertyValue(property); ok {
		return &duplicatePropertyError{property: property}
	}
	subject.SetPropertyValue(property, value)
	return nil
}

// Lookup returns the resource declared for a tag, if any.
func (g *GraphProcessor) Lookup(tag Tag) (*Resource, bool) {
	r, ok := g.byTag[tag.String()]
	return r, ok
}

// Result returns every declared resource in first-seen order.
func (g *GraphProcessor) Result() []*Resource {
	return g.order
}

type duplicatePropertyError struct {
	property Tag
}

func (e *duplicatePropertyError) Error() string {
	return ErrDuplicateProperty.Error() + ": " + e.property.String()
}

func (e *duplicatePropertyError) Unwrap() error { return ErrDuplicateProperty }
