package urf

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	columnIdentityMarker = '#'
	columnIgnoreMarker   = '!'
	columnTypeDelimiter  = ':'
)

// Column is one header cell of a tabular import, parsed as a miniature
// handle expression: `#name` or `#name:Type` designates the identity
// column, `!` an ignored column, `name:Type` a typed reference column,
// and a trailing `+` a plural property.
type Column struct {
	Name     string
	TypeName string
	Identity bool
	Ignored  bool
	Plural   bool

	tag     Tag
	typeTag Tag
}

// ImportOptions configures a tabular import.
type ImportOptions struct {
	// Namespaces supplies alias bindings for handle resolution in
	// header cells.
	Namespaces *Namespaces

	// Logger receives per-row diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Importer synthesizes one subject resource per data row and drives a
// Processor with the same declaration and statement calls as the
// document parser. An Importer is single-use.
type Importer struct {
	proc    Processor
	ns      *Namespaces
	log     *zap.Logger
	started bool
	used    bool
	columns []Column
	byID    map[string]*Resource
}

// NewImporter returns an importer driving proc with default options.
func NewImporter(proc Processor) *Importer {
	return NewImporterWithOptions(proc, ImportOptions{})
}

// NewImporterWithOptions returns an importer driving proc.
func NewImporterWithOptions(proc Processor, opts ImportOptions) *Importer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{
		proc: proc,
		ns:   opts.Namespaces,
		log:  log,
		byID: map[string]*Resource{},
	}
}

// Columns returns the parsed header columns. It is only defined once
// Import has read the header row.
func (im *Importer) Columns() ([]Column, error) {
	if !im.started {
		return nil, ErrImporterNotStarted
	}
	return im.columns, nil
}

// Import reads a header row and data rows and returns the subject
// declared for each data row, in row order. A failed import returns no
// partial result; the error names the failing row.
func (im *Importer) Import(r io.Reader) ([]*Resource, error) {
	if im.used {
		return nil, ErrImporterReused
	}
	im.used = true

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("urf: empty tabular input")
	}
	if err != nil {
		return nil, fmt.Errorf("urf: reading header: %w", err)
	}
	if err := im.parseHeader(header); err != nil {
		return nil, err
	}
	im.started = true

	var subjects []*Resource
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			return subjects, nil
		}
		if err != nil {
			return nil, fmt.Errorf("urf: row %d: %w", row, err)
		}
		subject, err := im.importRow(row, record)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
}

func (im *Importer) parseHeader(header []string) error {
	identity := -1
	im.columns = make([]Column, len(header))
	for i, cell := range header {
		col, err := parseColumn(strings.TrimSpace(cell), im.ns)
		if err != nil {
			return fmt.Errorf("urf: header column %d: %w", i+1, err)
		}
		if col.Identity {
			if identity >= 0 {
				return fmt.Errorf("%w: more than one identity column", ErrInvalidHandle)
			}
			identity = i
		}
		im.columns[i] = col
	}
	return nil
}

func parseColumn(cell string, ns *Namespaces) (Column, error) {
	if cell == "" || cell[0] == columnIgnoreMarker {
		return Column{Ignored: true}, nil
	}
	var col Column
	if cell[0] == columnIdentityMarker {
		col.Identity = true
		cell = cell[1:]
	}
	if i := strings.IndexByte(cell, columnTypeDelimiter); i >= 0 {
		col.TypeName = cell[i+1:]
		cell = cell[:i]
	}
	col.Plural = strings.HasSuffix(cell, string(pluralMarker))
	col.Name = strings.TrimSuffix(cell, string(pluralMarker))
	if !IsName(col.Name) {
		return Column{}, fmt.Errorf("%w: %q is not a column name", ErrInvalidHandle, col.Name)
	}
	if col.Identity && col.Plural {
		return Column{}, fmt.Errorf("%w: identity column %q cannot be plural", ErrInvalidHandle, col.Name)
	}
	if !col.Identity {
		tag, err := TagFromHandle(col.Name, ns)
		if err != nil {
			return Column{}, err
		}
		col.tag = tag
	}
	if col.TypeName != "" {
		typeTag, err := TagFromHandle(col.TypeName, ns)
		if err != nil {
			return Column{}, err
		}
		col.typeTag = typeTag
	}
	return col, nil
}

func (im *Importer) importRow(row int, record []string) (*Resource, error) {
	subject, id, err := im.declareRowSubject(row, record)
	if err != nil {
		return nil, err
	}
	for i, col := range im.columns {
		if col.Ignored || col.Identity {
			continue
		}
		cell := strings.TrimSpace(record[i])
		if cell == "" {
			continue
		}
		value, err := im.cellValue(row, col, cell)
		if err != nil {
			return nil, err
		}
		if err := im.proc.ProcessStatement(subject, col.tag, col.Plural, value); err != nil {
			return nil, fmt.Errorf("urf: row %d: %w", row, err)
		}
	}
	im.log.Debug("imported row",
		zap.Int("row", row),
		zap.String("id", id))
	return subject, nil
}

// declareRowSubject declares the row's subject: an instance tag when
// the identity column is typed, a blank tag carrying the row's ID when
// it is not, and a generated blank tag when no identity column exists.
func (im *Importer) declareRowSubject(row int, record []string) (*Resource, string, error) {
	identity := -1
	for i, col := range im.columns {
		if col.Identity {
			identity = i
			break
		}
	}
	if identity < 0 {
		blank := GenerateBlankTag("")
		subject, err := im.proc.DeclareResource(&blank, nil)
		if err != nil {
			return nil, "", fmt.Errorf("urf: row %d: %w", row, err)
		}
		return subject, "", nil
	}

	col := im.columns[identity]
	id := strings.TrimSpace(record[identity])
	if !IsID(id) {
		return nil, "", fmt.Errorf("urf: row %d: %w: %q is not a valid ID", row, ErrInvalidTag, id)
	}
	var subject *Resource
	var err error
	if col.TypeName != "" {
		var tag Tag
		tag, err = TagForInstance(col.typeTag, id)
		if err == nil {
			subject, err = im.proc.DeclareResource(&tag, &col.typeTag)
		}
	} else {
		blank := GenerateBlankTag(id)
		subject, err = im.proc.DeclareResource(&blank, nil)
	}
	if err != nil {
		return nil, "", fmt.Errorf("urf: row %d: %w", row, err)
	}
	im.byID[id] = subject
	return subject, id, nil
}

// cellValue turns one data cell into a value. A typed column holds the
// ID of another row's subject; an untyped column holds a literal in
// document notation, falling back to a plain string when the cell does
// not read as one.
func (im *Importer) cellValue(row int, col Column, cell string) (Value, error) {
	if col.TypeName != "" {
		if !IsID(cell) {
			return nil, fmt.Errorf("urf: row %d: %w: %q is not a valid ID", row, ErrInvalidTag, cell)
		}
		// A row declared under this ID wins, whatever the shape of its
		// own identity column; otherwise the reference resolves by
		// instance tag, forward references included.
		if existing, ok := im.byID[cell]; ok {
			return existing, nil
		}
		tag, err := TagForInstance(col.typeTag, cell)
		if err != nil {
			return nil, fmt.Errorf("urf: row %d: %w", row, err)
		}
		ref, err := im.proc.DeclareResource(&tag, &col.typeTag)
		if err != nil {
			return nil, fmt.Errorf("urf: row %d: %w", row, err)
		}
		return ref, nil
	}
	return cellLiteral(cell), nil
}

func cellLiteral(cell string) Value {
	c := newCursor(cell)
	value, err := readLiteral(c)
	if err != nil || !c.eof() {
		return String(cell)
	}
	return value
}
