package orm

import (
	"fmt"
	"reflect"
	"strings"

	"ormlab/internal/errors"
	"ormlab/internal/orm/store"
)

type pathKind int

const (
	pathColumn pathKind = iota
	pathEntity
	pathEmbedded
)

type pathRef struct {
	kind  pathKind
	sql   string
	info  *aliasInfo
	field *FieldMeta
	group *embeddedGroup
	cols  []string
}

// aliasInfo is an entity bound to an alias in some query scope.
type aliasInfo struct {
	name     string
	meta     *EntityMeta
	subAlias map[*SubtypeMeta]string
	join     *joinPlan
}

type joinPlan struct {
	spec   *joinSpec
	parent *aliasInfo
	assoc  *AssocMeta
	info   *aliasInfo
}

type scope struct {
	parent  *scope
	aliases map[string]*aliasInfo
}

type entityLayout struct {
	info   *aliasInfo
	meta   *EntityMeta
	offset int
}

func (l *entityLayout) width() int {
	return 1 + len(l.meta.columns)
}

type fetchPlan struct {
	parent int
	child  int
	assoc  *AssocMeta
}

type compiled struct {
	sql     string
	args    []any
	layouts []*entityLayout
	fetches []*fetchPlan
	widths  []int
	groups  []*embeddedGroup
}

// compiler renders query specs into '?'-parameterized SQL. It is used once.
type compiler struct {
	reg     *Registry
	dialect store.Dialect
	scope   *scope
	sb      *strings.Builder
	args    []any
	used    map[*aliasInfo]bool
}

func newCompiler(reg *Registry, dialect store.Dialect) *compiler {
	return &compiler{
		reg:     reg,
		dialect: dialect,
		sb:      &strings.Builder{},
		used:    make(map[*aliasInfo]bool),
	}
}

func (c *compiler) lookup(alias string) (*aliasInfo, error) {
	for s := c.scope; s != nil; s = s.parent {
		if info, ok := s.aliases[alias]; ok {
			c.used[info] = true

			return info, nil
		}
	}

	return nil, errors.Wrapf(ErrUnknownPath, "unknown alias %q", alias)
}

// resolve maps a path to SQL. Associations are only traversed to their key;
// anything deeper needs a join.
func (c *compiler) resolve(path string) (pathRef, error) {
	alias, rest, _ := strings.Cut(path, ".")
	info, err := c.lookup(alias)
	if err != nil {
		return pathRef{}, err
	}
	meta := info.meta

	if rest == "" {
		return pathRef{kind: pathEntity, sql: info.name + "." + meta.ID.Column, info: info}, nil
	}

	if f, err := meta.Field(rest); err == nil {
		return pathRef{kind: pathColumn, sql: c.fieldSQL(info, f), info: info, field: f}, nil
	}

	if g, ok := meta.embedded[rest]; ok {
		cols := make([]string, len(g.fields))
		for i, f := range g.fields {
			cols[i] = info.name + "." + f.Column
		}

		return pathRef{kind: pathEmbedded, info: info, group: g, cols: cols}, nil
	}

	head, tail, _ := strings.Cut(rest, ".")
	if a, ok := meta.assocsByName[head]; ok {
		if a.Owning() && (tail == "" || tail == a.target.ID.Name) {
			return pathRef{kind: pathColumn, sql: info.name + "." + a.Column, info: info}, nil
		}

		return pathRef{}, errors.Wrapf(ErrUnknownPath, "%s: join %s.%s to reach %s", path, alias, head, tail)
	}

	return pathRef{}, errors.Wrapf(ErrUnknownPath, "%s: %s has no field %q", path, meta.Name, rest)
}

func (c *compiler) fieldSQL(info *aliasInfo, f *FieldMeta) string {
	if f.Subtype != nil {
		if sa, ok := info.subAlias[f.Subtype]; ok {
			return sa + "." + f.Column
		}
	}

	return info.name + "." + f.Column
}

func (c *compiler) columnSQL(info *aliasInfo, col *column) string {
	if col.kind == colSubtype {
		if sa, ok := info.subAlias[col.sub]; ok {
			return sa + "." + col.name
		}
	}

	return info.name + "." + col.name
}

// bindValue emits a placeholder. Entity pointers bind their key.
func (c *compiler) bindValue(v any) error {
	c.sb.WriteByte('?')
	if v == nil {
		c.args = append(c.args, nil)

		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
		if meta, err := c.reg.metaOf(rv.Elem().Type()); err == nil {
			if !meta.hasKey(rv.Elem()) {
				return errors.Wrapf(ErrTransientReference, "%s has no key yet", meta.Name)
			}
			c.args = append(c.args, meta.keyOf(rv.Elem()))

			return nil
		}
	}
	c.args = append(c.args, columnValue(rv))

	return nil
}

func (c *compiler) newAlias(s *scope, name string, meta *EntityMeta) (*aliasInfo, error) {
	if _, dup := s.aliases[name]; dup || name == "" {
		return nil, errors.Wrapf(ErrUnsupported, "alias %q is empty or declared twice", name)
	}

	info := &aliasInfo{name: name, meta: meta}
	if h := meta.Hierarchy; h != nil && h.Strategy == Joined {
		info.subAlias = make(map[*SubtypeMeta]string, len(h.Subtypes))
		for i, sub := range h.Subtypes {
			info.subAlias[sub] = fmt.Sprintf("%s_s%d", name, i)
		}
	}
	s.aliases[name] = info

	return info, nil
}

func (c *compiler) rootMeta(spec *querySpec) (*EntityMeta, error) {
	if spec.root != nil {
		return spec.root, nil
	}

	return c.reg.metaOf(spec.rootType)
}

// bind opens a scope for spec. Callers must popScope when done.
func (c *compiler) bind(spec *querySpec) (*aliasInfo, []*joinPlan, error) {
	meta, err := c.rootMeta(spec)
	if err != nil {
		return nil, nil, err
	}

	s := &scope{parent: c.scope, aliases: make(map[string]*aliasInfo)}
	c.scope = s

	root, err := c.newAlias(s, spec.alias, meta)
	if err != nil {
		return nil, nil, err
	}

	plans := make([]*joinPlan, 0, len(spec.joins))
	for _, js := range spec.joins {
		plan := &joinPlan{spec: js}
		var target *EntityMeta

		if js.entity != "" {
			if js.fetch {
				return nil, nil, errors.Wrapf(ErrUnsupported, "fetch join on unrelated entity %s", js.entity)
			}
			if target, err = c.reg.metaByName(js.entity); err != nil {
				return nil, nil, err
			}
		} else {
			parentAlias, name, ok := strings.Cut(js.path, ".")
			parent, found := s.aliases[parentAlias]
			if !ok || !found {
				return nil, nil, errors.Wrapf(ErrUnknownPath, "join path %q", js.path)
			}
			a, found := parent.meta.assocsByName[name]
			if !found {
				return nil, nil, errors.Wrapf(ErrUnknownPath, "%s has no association %q", parent.meta.Name, name)
			}
			plan.parent = parent
			plan.assoc = a
			target = a.target
		}

		info, err := c.newAlias(s, js.alias, target)
		if err != nil {
			return nil, nil, err
		}
		info.join = plan
		plan.info = info
		plans = append(plans, plan)
	}

	return root, plans, nil
}

func (c *compiler) popScope() {
	c.scope = c.scope.parent
}

func (c *compiler) tableExpr(info *aliasInfo) string {
	meta := info.meta
	h := meta.Hierarchy
	if h == nil || h.Strategy != TablePerClass {
		return meta.Table + " " + info.name
	}

	branches := make([]string, len(h.Subtypes))
	for i, sub := range h.Subtypes {
		cols := []string{meta.ID.Column}
		for _, col := range meta.columns {
			switch {
			case col.kind == colDiscriminator:
				cols = append(cols, "'"+sub.Tag+"' AS "+col.name)
			case col.kind == colSubtype && col.sub != sub:
				cols = append(cols, "NULL AS "+col.name)
			default:
				cols = append(cols, col.name)
			}
		}
		branches[i] = "SELECT " + strings.Join(cols, ", ") + " FROM " + sub.Table
	}

	return "(" + strings.Join(branches, " UNION ALL ") + ") " + info.name
}

func (c *compiler) subtypeJoins(info *aliasInfo) string {
	h := info.meta.Hierarchy
	if h == nil || h.Strategy != Joined {
		return ""
	}

	var sb strings.Builder
	id := info.meta.ID.Column
	for _, sub := range h.Subtypes {
		sa := info.subAlias[sub]
		fmt.Fprintf(&sb, " LEFT JOIN %s %s ON %s.%s = %s.%s", sub.Table, sa, sa, id, info.name, id)
	}

	return sb.String()
}

func (c *compiler) writeFrom(root *aliasInfo, plans []*joinPlan, include func(*joinPlan) bool) error {
	c.sb.WriteString(" FROM " + c.tableExpr(root) + c.subtypeJoins(root))

	for _, p := range plans {
		if include != nil && !include(p) {
			continue
		}
		if p.spec.kind == leftJoin {
			c.sb.WriteString(" LEFT JOIN ")
		} else {
			c.sb.WriteString(" JOIN ")
		}
		c.sb.WriteString(c.tableExpr(p.info) + " ON ")

		switch {
		case p.assoc == nil:
			if err := p.spec.on.render(c); err != nil {
				return err
			}
		case p.assoc.Owning():
			fmt.Fprintf(c.sb, "%s.%s = %s.%s", p.info.name, p.info.meta.ID.Column, p.parent.name, p.assoc.Column)
		default:
			fmt.Fprintf(c.sb, "%s.%s = %s.%s", p.info.name, p.assoc.inverseOf.Column, p.parent.name, p.parent.meta.ID.Column)
		}
		c.sb.WriteString(c.subtypeJoins(p.info))
	}

	return nil
}

func (c *compiler) writePredicates(keyword string, preds []Predicate) error {
	if len(preds) == 0 {
		return nil
	}
	c.sb.WriteString(keyword)
	for i, p := range preds {
		if i > 0 {
			c.sb.WriteString(" AND ")
		}
		if err := p.render(c); err != nil {
			return err
		}
	}

	return nil
}

func (c *compiler) writeExprs(keyword string, exprs []Expr) error {
	if len(exprs) == 0 {
		return nil
	}
	c.sb.WriteString(keyword)
	for i, e := range exprs {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		if err := e.render(c); err != nil {
			return err
		}
	}

	return nil
}

// writeBody renders FROM through HAVING.
func (c *compiler) writeBody(spec *querySpec, root *aliasInfo, plans []*joinPlan, include func(*joinPlan) bool) error {
	if err := c.writeFrom(root, plans, include); err != nil {
		return err
	}
	if err := c.writePredicates(" WHERE ", spec.where); err != nil {
		return err
	}
	if err := c.writeExprs(" GROUP BY ", spec.groupBy); err != nil {
		return err
	}

	return c.writePredicates(" HAVING ", spec.having)
}

func (c *compiler) writeTail(spec *querySpec, root *aliasInfo) error {
	if len(spec.orderBy) > 0 {
		c.sb.WriteString(" ORDER BY ")
		for i, o := range spec.orderBy {
			if i > 0 {
				c.sb.WriteString(", ")
			}
			if err := o.render(c); err != nil {
				return err
			}
		}
	}

	window, args := c.dialect.Paginate(spec.limit, spec.offset)
	c.sb.WriteString(window)
	c.args = append(c.args, args...)

	lockAlias := root.name
	if h := root.meta.Hierarchy; h != nil && h.Strategy == TablePerClass {
		lockAlias = ""
	}
	c.sb.WriteString(c.dialect.LockClause(spec.lock, lockAlias))

	return nil
}

func (c *compiler) selectKeyword(spec *querySpec) string {
	if spec.distinct {
		return "SELECT DISTINCT "
	}

	return "SELECT "
}

// selectEntities renders a select of the root entity plus every fetch join.
func (c *compiler) selectEntities(spec *querySpec) (*compiled, error) {
	root, plans, err := c.bind(spec)
	if err != nil {
		return nil, err
	}
	defer c.popScope()

	out := &compiled{layouts: []*entityLayout{{info: root, meta: root.meta}}}
	offset := out.layouts[0].width()
	for _, p := range plans {
		if !p.spec.fetch {
			continue
		}
		parent := -1
		for i, l := range out.layouts {
			if l.info == p.parent {
				parent = i
			}
		}
		if parent < 0 {
			return nil, errors.Wrapf(ErrUnsupported, "fetch join %s goes through an alias that is not fetched", p.spec.path)
		}
		l := &entityLayout{info: p.info, meta: p.info.meta, offset: offset}
		offset += l.width()
		out.layouts = append(out.layouts, l)
		out.fetches = append(out.fetches, &fetchPlan{parent: parent, child: len(out.layouts) - 1, assoc: p.assoc})
	}

	c.sb.WriteString(c.selectKeyword(spec))
	for i, l := range out.layouts {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		cols := []string{l.info.name + "." + l.meta.ID.Column}
		for _, col := range l.meta.columns {
			cols = append(cols, c.columnSQL(l.info, col))
		}
		c.sb.WriteString(strings.Join(cols, ", "))
	}

	if err := c.writeBody(spec, root, plans, nil); err != nil {
		return nil, err
	}
	if err := c.writeTail(spec, root); err != nil {
		return nil, err
	}

	out.sql, out.args = c.sb.String(), c.args

	return out, nil
}

// selectExprs renders a projection. Embedded values expand to one column per field.
func (c *compiler) selectExprs(spec *querySpec, exprs []Expr) (*compiled, error) {
	if len(exprs) == 0 {
		return nil, errors.Wrap(ErrUnsupported, "projection without expressions")
	}

	root, plans, err := c.bind(spec)
	if err != nil {
		return nil, err
	}
	defer c.popScope()

	out := &compiled{}
	c.sb.WriteString(c.selectKeyword(spec))
	for i, e := range exprs {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		if pe, ok := e.(pathExpr); ok {
			ref, err := c.resolve(pe.path)
			if err != nil {
				return nil, err
			}
			if ref.kind == pathEmbedded {
				c.sb.WriteString(strings.Join(ref.cols, ", "))
				out.widths = append(out.widths, len(ref.cols))
				out.groups = append(out.groups, ref.group)

				continue
			}
		}
		if err := e.render(c); err != nil {
			return nil, err
		}
		out.widths = append(out.widths, 1)
		out.groups = append(out.groups, nil)
	}

	if err := c.writeBody(spec, root, plans, nil); err != nil {
		return nil, err
	}
	if err := c.writeTail(spec, root); err != nil {
		return nil, err
	}

	out.sql, out.args = c.sb.String(), c.args

	return out, nil
}

// count renders the total-row statement for a page. Only joins that filter
// are kept: inner joins and outer joins referenced by a predicate. When a kept
// join can multiply rows the root key is counted distinctly.
func (c *compiler) count(spec *querySpec) (*compiled, error) {
	root, plans, err := c.bind(spec)
	if err != nil {
		return nil, err
	}
	defer c.popScope()

	if len(spec.groupBy) > 0 {
		c.sb.WriteString("SELECT COUNT(*) FROM (SELECT ")
		if err := c.writeExprs("", spec.groupBy); err != nil {
			return nil, err
		}
		if err := c.writeBody(spec, root, plans, nil); err != nil {
			return nil, err
		}
		c.sb.WriteString(") grouped")

		return &compiled{sql: c.sb.String(), args: c.args}, nil
	}

	used, err := c.referenced(spec)
	if err != nil {
		return nil, err
	}

	keep := make(map[*joinPlan]bool, len(plans))
	for i := len(plans) - 1; i >= 0; i-- {
		p := plans[i]
		if p.spec.kind == innerJoin || used[p.info] || keep[p] {
			keep[p] = true
			for parent := p.parent; parent != nil && parent.join != nil; parent = parent.join.parent {
				keep[parent.join] = true
			}
		}
	}

	multiplies := spec.distinct
	for p := range keep {
		if p.assoc == nil || p.assoc.Kind == ToMany {
			multiplies = true
		}
	}

	if multiplies {
		fmt.Fprintf(c.sb, "SELECT COUNT(DISTINCT %s.%s)", root.name, root.meta.ID.Column)
	} else {
		c.sb.WriteString("SELECT COUNT(*)")
	}
	if err := c.writeBody(spec, root, plans, func(p *joinPlan) bool { return keep[p] }); err != nil {
		return nil, err
	}

	return &compiled{sql: c.sb.String(), args: c.args}, nil
}

// referenced renders the predicates into a scratch buffer to learn which
// aliases they touch.
func (c *compiler) referenced(spec *querySpec) (map[*aliasInfo]bool, error) {
	sb, args, used := c.sb, c.args, c.used
	c.sb, c.args, c.used = &strings.Builder{}, nil, make(map[*aliasInfo]bool)
	defer func() {
		c.sb, c.args = sb, args
	}()

	if err := c.writePredicates(" WHERE ", spec.where); err != nil {
		return nil, err
	}
	if err := c.writePredicates(" HAVING ", spec.having); err != nil {
		return nil, err
	}

	touched := c.used
	for info := range touched {
		used[info] = true
	}
	c.used = used

	return touched, nil
}

func (c *compiler) subselect(sq *Subquery) (string, []any, error) {
	sb, args := c.sb, c.args
	c.sb, c.args = &strings.Builder{}, nil
	defer func() {
		c.sb, c.args = sb, args
	}()

	root, plans, err := c.bind(sq.spec)
	if err != nil {
		return "", nil, err
	}
	defer c.popScope()

	c.sb.WriteString("SELECT ")
	sel := sq.sel
	if sel == nil {
		sel = P(sq.spec.alias)
	}
	if err := sel.render(c); err != nil {
		return "", nil, err
	}
	if err := c.writeBody(sq.spec, root, plans, nil); err != nil {
		return "", nil, err
	}

	return c.sb.String(), c.args, nil
}

// checkFetchPagination rejects a window over a to-many fetch join without
// compiling or running anything.
func (r *Registry) checkFetchPagination(spec *querySpec) error {
	if !spec.paginated() {
		return nil
	}

	root := spec.root
	if root == nil {
		var err error
		if root, err = r.metaOf(spec.rootType); err != nil {
			return err
		}
	}

	aliases := map[string]*EntityMeta{spec.alias: root}
	for _, js := range spec.joins {
		if js.entity != "" {
			if m, err := r.metaByName(js.entity); err == nil {
				aliases[js.alias] = m
			}

			continue
		}
		parentAlias, name, _ := strings.Cut(js.path, ".")
		parent, ok := aliases[parentAlias]
		if !ok {
			continue
		}
		a, ok := parent.assocsByName[name]
		if !ok {
			continue
		}
		if js.fetch && a.Kind == ToMany {
			return errors.Wrapf(ErrInvalidFetchPagination, "fetch join %s with offset/limit", js.path)
		}
		aliases[js.alias] = a.target
	}

	return nil
}
