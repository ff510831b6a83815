package orm

import (
	"database/sql"
	"database/sql/driver"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"ormlab/internal/errors"

	"gorm.io/gorm/schema"
)

const tagName = "orm"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AssocKind tells to-one and to-many associations apart.
type AssocKind int

const (
	ToOne AssocKind = iota + 1
	ToMany
)

// Cascade is a set of lifecycle operations propagated along an association.
type Cascade uint8

const (
	CascadePersist Cascade = 1 << iota
	CascadeRemove
	CascadeMerge

	CascadeNone Cascade = 0
	CascadeAll          = CascadePersist | CascadeRemove | CascadeMerge
)

func (c Cascade) has(flag Cascade) bool {
	return c&flag == flag
}

// InheritanceStrategy selects how a type hierarchy is laid out in tables.
type InheritanceStrategy int

const (
	// SingleTable stores every subtype in the root table, told apart by the discriminator column.
	SingleTable InheritanceStrategy = iota + 1
	// Joined stores base columns in the root table and subtype columns in one table per subtype.
	Joined
	// TablePerClass stores each subtype in its own table duplicating the base columns.
	TablePerClass
)

func (s InheritanceStrategy) String() string {
	switch s {
	case SingleTable:
		return "single-table"
	case Joined:
		return "joined"
	case TablePerClass:
		return "table-per-class"
	default:
		return "none"
	}
}

// FieldMeta describes one scalar column.
type FieldMeta struct {
	Name          string // dotted path from the owning struct, e.g. "Address.City"
	Column        string
	Index         []int
	Type          reflect.Type
	PrimaryKey    bool
	AutoIncrement bool
	Updatable     bool
	Subtype       *SubtypeMeta
}

// AssocMeta describes an association field.
type AssocMeta struct {
	Name          string
	Owner         *EntityMeta
	Kind          AssocKind
	Column        string // foreign key column of an owning to-one
	MappedBy      string
	Cascade       Cascade
	OrphanRemoval bool
	NotNull       bool
	BatchSize     int
	Index         []int

	targetType reflect.Type
	target     *EntityMeta
	inverseOf  *AssocMeta
}

// Owning reports whether this side carries the foreign key.
func (a *AssocMeta) Owning() bool {
	return a.Kind == ToOne && a.MappedBy == ""
}

// Target returns the associated entity metadata.
func (a *AssocMeta) Target() *EntityMeta {
	return a.target
}

// SubtypeMeta describes one concrete payload of a hierarchy.
type SubtypeMeta struct {
	Tag    string
	Name   string
	Type   reflect.Type
	Table  string
	Fields []*FieldMeta
}

// Hierarchy is attached to the root of an inheritance tree.
type Hierarchy struct {
	Strategy InheritanceStrategy
	Column   string
	Subtypes []*SubtypeMeta

	variantIndex []int
	byTag        map[string]*SubtypeMeta
	byType       map[reflect.Type]*SubtypeMeta
	byName       map[string]*SubtypeMeta
}

// Subtype returns the subtype registered under a Go type name.
func (h *Hierarchy) Subtype(name string) (*SubtypeMeta, bool) {
	sub, ok := h.byName[name]

	return sub, ok
}

type columnKind int

const (
	colField columnKind = iota
	colForeignKey
	colDiscriminator
	colSubtype
)

// column is one persisted state column other than the primary key.
type column struct {
	kind  columnKind
	name  string
	field *FieldMeta
	assoc *AssocMeta
	sub   *SubtypeMeta
}

// EntityMeta is the mapping of one registered entity type.
type EntityMeta struct {
	Name      string
	Type      reflect.Type
	Table     string
	ID        *FieldMeta
	Fields    []*FieldMeta
	Assocs    []*AssocMeta
	Hierarchy *Hierarchy

	columns      []*column
	fieldsByName map[string]*FieldMeta
	embedded     map[string]*embeddedGroup
	assocsByName map[string]*AssocMeta

	beforeInsert bool
	beforeUpdate bool
}

// Assoc returns the association declared by the named field.
func (m *EntityMeta) Assoc(name string) (*AssocMeta, bool) {
	a, ok := m.assocsByName[name]

	return a, ok
}

// Field returns the scalar field at a dotted path, searching subtype payloads last.
func (m *EntityMeta) Field(path string) (*FieldMeta, error) {
	if f, ok := m.fieldsByName[path]; ok {
		return f, nil
	}
	if m.Hierarchy == nil {
		return nil, errors.Wrapf(ErrUnknownPath, "%s has no field %q", m.Name, path)
	}

	var found *FieldMeta
	for _, sub := range m.Hierarchy.Subtypes {
		for _, f := range sub.Fields {
			if f.Name != path {
				continue
			}
			if found != nil {
				return nil, errors.Wrapf(ErrUnknownPath, "%s.%s is ambiguous across subtypes", m.Name, path)
			}
			found = f
		}
	}
	if found == nil {
		return nil, errors.Wrapf(ErrUnknownPath, "%s has no field %q", m.Name, path)
	}

	return found, nil
}

// embeddedGroup is the set of columns flattened from one embedded value.
// depth is the length of the index path that reaches the embedded struct.
type embeddedGroup struct {
	depth  int
	fields []*FieldMeta
}

type beforeInserter interface {
	BeforeInsert()
}

type beforeUpdater interface {
	BeforeUpdate()
}

// keyIndexes maps registered struct types to the index path of their primary
// key, so resolved references can report their key without a session.
var keyIndexes sync.Map

var (
	beforeInsertType = reflect.TypeFor[beforeInserter]()
	beforeUpdateType = reflect.TypeFor[beforeUpdater]()
	timeType         = reflect.TypeFor[time.Time]()
	variantType      = reflect.TypeFor[Variant]()
	valuerType       = reflect.TypeFor[driver.Valuer]()
	scannerType      = reflect.TypeFor[sql.Scanner]()
	refAccessType    = reflect.TypeFor[refAccess]()
	collAccessType   = reflect.TypeFor[collectionAccess]()
)

// Registry holds entity mappings. Entities are registered once at start-up;
// the registry is read-only afterwards and safe to share between sessions.
type Registry struct {
	mu     sync.RWMutex
	naming schema.NamingStrategy
	byType map[reflect.Type]*EntityMeta
	byName map[string]*EntityMeta
}

// NewRegistry returns an empty registry using singular snake_case names.
func NewRegistry() *Registry {
	return &Registry{
		naming: schema.NamingStrategy{SingularTable: true},
		byType: make(map[reflect.Type]*EntityMeta),
		byName: make(map[string]*EntityMeta),
	}
}

// RegisterOption customizes a registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	table    string
	strategy InheritanceStrategy
	subtypes []SubtypeSpec
}

// SubtypeSpec declares a payload type of an inheritance hierarchy.
type SubtypeSpec struct {
	tag   string
	table string
	typ   reflect.Type
}

// Subtype declares T as a concrete payload stored under discriminator tag.
// table is used by the Joined and TablePerClass strategies.
func Subtype[T any](tag, table string) SubtypeSpec {
	return SubtypeSpec{tag: tag, table: table, typ: reflect.TypeFor[T]()}
}

// WithTable overrides the table name.
func WithTable(name string) RegisterOption {
	return func(o *registerOptions) {
		o.table = name
	}
}

// WithInheritance maps the entity as the root of a hierarchy.
func WithInheritance(strategy InheritanceStrategy, subtypes ...SubtypeSpec) RegisterOption {
	return func(o *registerOptions) {
		o.strategy = strategy
		o.subtypes = subtypes
	}
}

// Register maps T, which must be a struct type.
func Register[T any](r *Registry, opts ...RegisterOption) error {
	_, err := r.register(reflect.TypeFor[T](), opts...)

	return err
}

// MustRegister is Register for package-level setup code.
func MustRegister[T any](r *Registry, opts ...RegisterOption) {
	if err := Register[T](r, opts...); err != nil {
		panic(err)
	}
}

func (r *Registry) register(t reflect.Type, opts ...RegisterOption) (*EntityMeta, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrMapping, "%s is not a struct", t)
	}

	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byType[t]; ok {
		return nil, errors.Wrapf(ErrMapping, "%s registered twice", t.Name())
	}

	meta := &EntityMeta{
		Name:         t.Name(),
		Type:         t,
		Table:        o.table,
		fieldsByName: make(map[string]*FieldMeta),
		embedded:     make(map[string]*embeddedGroup),
		assocsByName: make(map[string]*AssocMeta),
	}
	if meta.Table == "" {
		meta.Table = r.naming.TableName(t.Name())
	}

	p := parser{naming: r.naming, meta: meta}
	if err := p.parseStruct(t, nil, "", ""); err != nil {
		return nil, err
	}
	if err := p.finishIdentity(); err != nil {
		return nil, err
	}
	if err := p.finishHierarchy(o); err != nil {
		return nil, err
	}
	if err := meta.buildColumns(); err != nil {
		return nil, err
	}

	ptr := reflect.PointerTo(t)
	meta.beforeInsert = ptr.Implements(beforeInsertType)
	meta.beforeUpdate = ptr.Implements(beforeUpdateType)

	r.byType[t] = meta
	r.byName[meta.Name] = meta
	keyIndexes.Store(t, meta.ID.Index)

	return meta, nil
}

// Validate resolves association targets and inverse sides. The engine calls it
// once when it is created.
func (r *Registry) Validate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, meta := range r.byType {
		for _, a := range meta.Assocs {
			target, ok := r.byType[a.targetType]
			if !ok {
				return errors.Wrapf(ErrMapping, "%s.%s targets unregistered type %s", meta.Name, a.Name, a.targetType)
			}
			a.target = target
		}
	}

	for _, meta := range r.byType {
		for _, a := range meta.Assocs {
			if a.MappedBy == "" {
				continue
			}
			inv, ok := a.target.assocsByName[a.MappedBy]
			if !ok || !inv.Owning() || inv.targetType != meta.Type {
				return errors.Wrapf(ErrMapping, "%s.%s: mappedBy %s.%s must be an owning reference to %s",
					meta.Name, a.Name, a.target.Name, a.MappedBy, meta.Name)
			}
			a.inverseOf = inv
		}
	}

	return nil
}

// Entities returns every registered mapping.
func (r *Registry) Entities() []*EntityMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*EntityMeta, 0, len(r.byType))
	for _, m := range r.byType {
		out = append(out, m)
	}

	return out
}

func (r *Registry) metaOf(t reflect.Type) (*EntityMeta, error) {
	r.mu.RLock()
	meta, ok := r.byType[t]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrMapping, "%s is not a registered entity", t)
	}

	return meta, nil
}

func (r *Registry) metaByName(name string) (*EntityMeta, error) {
	r.mu.RLock()
	meta, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrMapping, "%s is not a registered entity", name)
	}

	return meta, nil
}

// metaOfValue accepts a non-nil pointer to a registered struct.
func (r *Registry) metaOfValue(entity any) (*EntityMeta, reflect.Value, error) {
	rv := reflect.ValueOf(entity)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, reflect.Value{}, errors.Wrapf(ErrMapping, "expected a non-nil struct pointer, got %T", entity)
	}

	meta, err := r.metaOf(rv.Elem().Type())
	if err != nil {
		return nil, reflect.Value{}, err
	}

	return meta, rv, nil
}

type parser struct {
	naming schema.NamingStrategy
	meta   *EntityMeta

	variantIndex  []int
	discriminator string
}

func (p *parser) parseStruct(t reflect.Type, index []int, namePrefix, columnPrefix string) error {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		raw := f.Tag.Get(tagName)
		if raw == "-" {
			continue
		}
		settings := schema.ParseTagSetting(raw, ";")
		idx := append(append([]int{}, index...), f.Index...)
		ptr := reflect.PointerTo(f.Type)

		switch {
		case ptr.Implements(refAccessType):
			if err := p.addAssoc(f, idx, settings, ToOne, namePrefix); err != nil {
				return err
			}
		case ptr.Implements(collAccessType):
			if err := p.addAssoc(f, idx, settings, ToMany, namePrefix); err != nil {
				return err
			}
		case f.Type == variantType:
			if namePrefix != "" || p.variantIndex != nil {
				return errors.Wrapf(ErrMapping, "%s.%s: a hierarchy needs exactly one top-level Variant", p.meta.Name, f.Name)
			}
			p.variantIndex = idx
			p.discriminator = settings["DISCRIMINATOR"]
			if p.discriminator == "" {
				p.discriminator = "dtype"
			}
		case f.Anonymous && isCompositeStruct(f.Type):
			if err := p.parseStruct(f.Type, idx, namePrefix, columnPrefix); err != nil {
				return err
			}
		case isCompositeStruct(f.Type):
			name := namePrefix + f.Name
			start := len(p.meta.Fields)
			if err := p.parseStruct(f.Type, idx, name+".", columnPrefix+settings["EMBEDDEDPREFIX"]); err != nil {
				return err
			}
			p.meta.embedded[name] = &embeddedGroup{
				depth:  len(idx),
				fields: append([]*FieldMeta{}, p.meta.Fields[start:]...),
			}
		default:
			field, err := p.scalar(f, idx, settings, namePrefix, columnPrefix)
			if err != nil {
				return err
			}
			p.meta.Fields = append(p.meta.Fields, field)
			p.meta.fieldsByName[field.Name] = field
		}
	}

	return nil
}

func (p *parser) scalar(f reflect.StructField, idx []int, settings map[string]string, namePrefix, columnPrefix string) (*FieldMeta, error) {
	col := settings["COLUMN"]
	if col == "" {
		col = p.naming.ColumnName("", f.Name)
	}
	col = columnPrefix + col
	if !identPattern.MatchString(col) {
		return nil, errors.Wrapf(ErrMapping, "%s.%s: invalid column name %q", p.meta.Name, f.Name, col)
	}

	_, pk := settings["PRIMARYKEY"]
	if _, ok := settings["PRIMARY_KEY"]; ok {
		pk = true
	}
	_, auto := settings["AUTOINCREMENT"]

	return &FieldMeta{
		Name:          namePrefix + f.Name,
		Column:        col,
		Index:         idx,
		Type:          f.Type,
		PrimaryKey:    pk,
		AutoIncrement: auto,
		Updatable:     !strings.EqualFold(settings["UPDATABLE"], "false"),
	}, nil
}

func (p *parser) addAssoc(f reflect.StructField, idx []int, settings map[string]string, kind AssocKind, namePrefix string) error {
	if namePrefix != "" {
		return errors.Wrapf(ErrMapping, "%s.%s: associations inside embedded values are not supported", p.meta.Name, f.Name)
	}

	a := &AssocMeta{
		Name:     f.Name,
		Owner:    p.meta,
		Kind:     kind,
		MappedBy: settings["MAPPEDBY"],
		Index:    idx,
	}
	if kind == ToOne {
		a.targetType = reflect.New(f.Type).Interface().(refAccess).refTarget()
	} else {
		a.targetType = reflect.New(f.Type).Interface().(collectionAccess).collectionElem()
		if a.MappedBy == "" {
			return errors.Wrapf(ErrMapping, "%s.%s: collections must declare mappedBy", p.meta.Name, f.Name)
		}
	}

	if a.Owning() {
		a.Column = settings["JOINCOLUMN"]
		if a.Column == "" {
			a.Column = p.naming.ColumnName("", f.Name) + "_id"
		}
		if !identPattern.MatchString(a.Column) {
			return errors.Wrapf(ErrMapping, "%s.%s: invalid join column %q", p.meta.Name, f.Name, a.Column)
		}
	}

	if spec, ok := settings["CASCADE"]; ok {
		c, err := parseCascade(spec)
		if err != nil {
			return errors.Wrapf(err, "%s.%s", p.meta.Name, f.Name)
		}
		a.Cascade = c
	}
	if _, ok := settings["ORPHANREMOVAL"]; ok {
		a.OrphanRemoval = true
	}
	if _, ok := settings["NOTNULL"]; ok {
		a.NotNull = true
	}
	if size, ok := settings["BATCHSIZE"]; ok {
		n, err := strconv.Atoi(size)
		if err != nil || n < 0 {
			return errors.Wrapf(ErrMapping, "%s.%s: invalid batchSize %q", p.meta.Name, f.Name, size)
		}
		a.BatchSize = n
	}

	p.meta.Assocs = append(p.meta.Assocs, a)
	p.meta.assocsByName[a.Name] = a

	return nil
}

func parseCascade(spec string) (Cascade, error) {
	var c Cascade
	for _, part := range strings.Split(spec, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "persist":
			c |= CascadePersist
		case "remove":
			c |= CascadeRemove
		case "merge":
			c |= CascadeMerge
		case "all":
			c |= CascadeAll
		case "", "none":
		default:
			return 0, errors.Wrapf(ErrMapping, "unknown cascade %q", part)
		}
	}

	return c, nil
}

func (p *parser) finishIdentity() error {
	meta := p.meta
	for _, f := range meta.Fields {
		if !f.PrimaryKey {
			continue
		}
		if meta.ID != nil {
			return errors.Wrapf(ErrMapping, "%s: composite primary keys are not supported", meta.Name)
		}
		meta.ID = f
	}
	if meta.ID == nil {
		if f, ok := meta.fieldsByName["ID"]; ok {
			f.PrimaryKey = true
			meta.ID = f
		}
	}
	if meta.ID == nil {
		return errors.Wrapf(ErrMapping, "%s has no primary key", meta.Name)
	}
	meta.ID.Updatable = false

	return nil
}

func (p *parser) finishHierarchy(o registerOptions) error {
	meta := p.meta
	if o.strategy == 0 {
		if p.variantIndex != nil {
			return errors.Wrapf(ErrMapping, "%s declares a Variant but no inheritance strategy", meta.Name)
		}

		return nil
	}
	if p.variantIndex == nil {
		return errors.Wrapf(ErrMapping, "%s: inheritance needs a Variant field", meta.Name)
	}
	if len(o.subtypes) == 0 {
		return errors.Wrapf(ErrMapping, "%s: inheritance without subtypes", meta.Name)
	}
	if o.strategy == TablePerClass && meta.ID.AutoIncrement {
		return errors.Wrapf(ErrMapping, "%s: table-per-class hierarchies need pre-assigned keys", meta.Name)
	}

	h := &Hierarchy{
		Strategy:     o.strategy,
		Column:       p.discriminator,
		variantIndex: p.variantIndex,
		byTag:        make(map[string]*SubtypeMeta),
		byType:       make(map[reflect.Type]*SubtypeMeta),
		byName:       make(map[string]*SubtypeMeta),
	}
	if !identPattern.MatchString(h.Column) {
		return errors.Wrapf(ErrMapping, "%s: invalid discriminator column %q", meta.Name, h.Column)
	}

	for _, spec := range o.subtypes {
		if spec.typ.Kind() != reflect.Struct {
			return errors.Wrapf(ErrMapping, "%s: subtype %s is not a struct", meta.Name, spec.typ)
		}
		if !identPattern.MatchString(spec.tag) {
			return errors.Wrapf(ErrMapping, "%s: invalid discriminator value %q", meta.Name, spec.tag)
		}
		if _, dup := h.byTag[spec.tag]; dup {
			return errors.Wrapf(ErrMapping, "%s: discriminator %q used twice", meta.Name, spec.tag)
		}

		sub := &SubtypeMeta{Tag: spec.tag, Name: spec.typ.Name(), Type: spec.typ, Table: spec.table}
		if sub.Table == "" {
			sub.Table = p.naming.TableName(sub.Name)
		}
		if o.strategy != SingleTable && !identPattern.MatchString(sub.Table) {
			return errors.Wrapf(ErrMapping, "%s: invalid subtype table %q", meta.Name, sub.Table)
		}

		sp := parser{naming: p.naming, meta: &EntityMeta{
			Name:         sub.Name,
			fieldsByName: make(map[string]*FieldMeta),
			embedded:     make(map[string]*embeddedGroup),
			assocsByName: make(map[string]*AssocMeta),
		}}
		if err := sp.parseStruct(spec.typ, nil, "", ""); err != nil {
			return err
		}
		if len(sp.meta.Assocs) > 0 || sp.variantIndex != nil {
			return errors.Wrapf(ErrMapping, "%s: subtype payloads hold scalar columns only", sub.Name)
		}
		for _, f := range sp.meta.Fields {
			f.Subtype = sub
		}
		sub.Fields = sp.meta.Fields

		h.Subtypes = append(h.Subtypes, sub)
		h.byTag[sub.Tag] = sub
		h.byType[sub.Type] = sub
		h.byName[sub.Name] = sub
	}
	meta.Hierarchy = h

	return nil
}

func (m *EntityMeta) buildColumns() error {
	seen := map[string]string{m.ID.Column: m.ID.Name}
	add := func(c *column, owner string) error {
		if prev, dup := seen[c.name]; dup && m.sharesTable(c) {
			return errors.Wrapf(ErrMapping, "%s: column %q mapped by both %s and %s", m.Name, c.name, prev, owner)
		}
		seen[c.name] = owner
		m.columns = append(m.columns, c)

		return nil
	}

	for _, f := range m.Fields {
		if f == m.ID {
			continue
		}
		if err := add(&column{kind: colField, name: f.Column, field: f}, f.Name); err != nil {
			return err
		}
	}
	for _, a := range m.Assocs {
		if !a.Owning() {
			continue
		}
		if err := add(&column{kind: colForeignKey, name: a.Column, assoc: a}, a.Name); err != nil {
			return err
		}
	}
	if h := m.Hierarchy; h != nil {
		if err := add(&column{kind: colDiscriminator, name: h.Column}, "discriminator"); err != nil {
			return err
		}
		for _, sub := range h.Subtypes {
			for _, f := range sub.Fields {
				if err := add(&column{kind: colSubtype, name: f.Column, field: f, sub: sub}, sub.Name+"."+f.Name); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// sharesTable reports whether a column lands in a table that other columns of
// the same name could also occupy.
func (m *EntityMeta) sharesTable(c *column) bool {
	if m.Hierarchy == nil || c.kind != colSubtype {
		return true
	}

	return m.Hierarchy.Strategy != Joined
}

// isCompositeStruct reports whether t should be flattened rather than stored
// as a single column.
func isCompositeStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	if t.Implements(valuerType) || reflect.PointerTo(t).Implements(scannerType) {
		return false
	}

	return true
}
