package orm

import (
	"reflect"
	"strings"

	"ormlab/internal/errors"
)

// Expr is a scalar expression in a query: a path, a bound value, arithmetic,
// an aggregate, a CASE or a scalar subquery.
type Expr interface {
	render(c *compiler) error
}

// Predicate is a boolean expression usable in Where, Having and ON clauses.
type Predicate interface {
	Expr
	predicate()
}

type pathExpr struct {
	path string
}

// P references an alias, a field path ("m.Address.City") or an owning
// association's key ("o.Member" or "o.Member.ID").
func P(path string) Expr {
	return pathExpr{path: path}
}

func (p pathExpr) render(c *compiler) error {
	ref, err := c.resolve(p.path)
	if err != nil {
		return err
	}
	if ref.kind == pathEmbedded {
		return errors.Wrapf(ErrUnsupported, "%s is an embedded value; select it through SelectInto", p.path)
	}
	c.sb.WriteString(ref.sql)

	return nil
}

type valueExpr struct {
	v any
}

// V binds a value. Registered entity pointers bind their primary key.
func V(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}

	return valueExpr{v: v}
}

func (v valueExpr) render(c *compiler) error {
	return c.bindValue(v.v)
}

type binaryExpr struct {
	op   string
	l, r Expr
}

func (b binaryExpr) render(c *compiler) error {
	c.sb.WriteByte('(')
	if err := b.l.render(c); err != nil {
		return err
	}
	c.sb.WriteString(" " + b.op + " ")
	if err := b.r.render(c); err != nil {
		return err
	}
	c.sb.WriteByte(')')

	return nil
}

// Plus is l + r.
func Plus(l Expr, r any) Expr { return binaryExpr{op: "+", l: l, r: V(r)} }

// Minus is l - r.
func Minus(l Expr, r any) Expr { return binaryExpr{op: "-", l: l, r: V(r)} }

// Times is l * r.
func Times(l Expr, r any) Expr { return binaryExpr{op: "*", l: l, r: V(r)} }

type aggregateExpr struct {
	fn       string
	e        Expr
	distinct bool
}

func (a aggregateExpr) render(c *compiler) error {
	c.sb.WriteString(a.fn + "(")
	if a.distinct {
		c.sb.WriteString("DISTINCT ")
	}
	if err := a.e.render(c); err != nil {
		return err
	}
	c.sb.WriteByte(')')

	return nil
}

func Count(e Expr) Expr         { return aggregateExpr{fn: "COUNT", e: e} }
func CountDistinct(e Expr) Expr { return aggregateExpr{fn: "COUNT", e: e, distinct: true} }
func Sum(e Expr) Expr           { return aggregateExpr{fn: "SUM", e: e} }
func Avg(e Expr) Expr           { return aggregateExpr{fn: "AVG", e: e} }
func Min(e Expr) Expr           { return aggregateExpr{fn: "MIN", e: e} }
func Max(e Expr) Expr           { return aggregateExpr{fn: "MAX", e: e} }

// WhenClause is one branch of a CASE expression.
type WhenClause struct {
	cond Predicate
	then Expr
}

// When pairs a condition with its result.
func When(cond Predicate, then any) WhenClause {
	return WhenClause{cond: cond, then: V(then)}
}

// CaseExpr is a searched CASE expression.
type CaseExpr struct {
	whens []WhenClause
	els   Expr
}

// Case builds CASE WHEN ... THEN ... END.
func Case(whens ...WhenClause) *CaseExpr {
	return &CaseExpr{whens: whens}
}

// Else sets the fallback result.
func (e *CaseExpr) Else(v any) *CaseExpr {
	e.els = V(v)

	return e
}

func (e *CaseExpr) render(c *compiler) error {
	if len(e.whens) == 0 {
		return errors.Wrap(ErrUnsupported, "CASE without WHEN")
	}
	c.sb.WriteString("CASE")
	for _, w := range e.whens {
		c.sb.WriteString(" WHEN ")
		if err := w.cond.render(c); err != nil {
			return err
		}
		c.sb.WriteString(" THEN ")
		if err := w.then.render(c); err != nil {
			return err
		}
	}
	if e.els != nil {
		c.sb.WriteString(" ELSE ")
		if err := e.els.render(c); err != nil {
			return err
		}
	}
	c.sb.WriteString(" END")

	return nil
}

type comparison struct {
	op   string
	l, r Expr
}

func (comparison) predicate() {}

func (p comparison) render(c *compiler) error {
	if err := p.l.render(c); err != nil {
		return err
	}
	c.sb.WriteString(" " + p.op + " ")

	return p.r.render(c)
}

// Eq compares l = r. r may be a value, a registered entity or an Expr.
func Eq(l Expr, r any) Predicate { return comparison{op: "=", l: l, r: V(r)} }
func Ne(l Expr, r any) Predicate { return comparison{op: "<>", l: l, r: V(r)} }
func Lt(l Expr, r any) Predicate { return comparison{op: "<", l: l, r: V(r)} }
func Le(l Expr, r any) Predicate { return comparison{op: "<=", l: l, r: V(r)} }
func Gt(l Expr, r any) Predicate { return comparison{op: ">", l: l, r: V(r)} }
func Ge(l Expr, r any) Predicate { return comparison{op: ">=", l: l, r: V(r)} }

// Like matches a pattern with % and _ wildcards.
func Like(l Expr, pattern string) Predicate {
	return comparison{op: "LIKE", l: l, r: V(pattern)}
}

// StartsWith matches values beginning with prefix.
func StartsWith(l Expr, prefix string) Predicate {
	r := strings.NewReplacer("%", "", "_", "")

	return comparison{op: "LIKE", l: l, r: V(r.Replace(prefix) + "%")}
}

type between struct {
	e, lo, hi Expr
}

func (between) predicate() {}

func (p between) render(c *compiler) error {
	if err := p.e.render(c); err != nil {
		return err
	}
	c.sb.WriteString(" BETWEEN ")
	if err := p.lo.render(c); err != nil {
		return err
	}
	c.sb.WriteString(" AND ")

	return p.hi.render(c)
}

// Between is lo <= e <= hi.
func Between(e Expr, lo, hi any) Predicate {
	return between{e: e, lo: V(lo), hi: V(hi)}
}

type membership struct {
	e      Expr
	values []any
	sub    *Subquery
	not    bool
}

func (membership) predicate() {}

func (p membership) render(c *compiler) error {
	if p.sub == nil && len(p.values) == 0 {
		if p.not {
			c.sb.WriteString("1 = 1")
		} else {
			c.sb.WriteString("1 = 0")
		}

		return nil
	}

	if err := p.e.render(c); err != nil {
		return err
	}
	if p.not {
		c.sb.WriteString(" NOT")
	}
	c.sb.WriteString(" IN ")

	if p.sub != nil {
		return p.sub.render(c)
	}

	c.sb.WriteByte('(')
	for i, v := range p.values {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		if err := c.bindValue(v); err != nil {
			return err
		}
	}
	c.sb.WriteByte(')')

	return nil
}

// In tests membership in a list of values, a single slice, or a subquery.
func In(e Expr, values ...any) Predicate {
	return membership{e: e, values: flattenValues(values), sub: subqueryArg(values)}
}

// NotIn negates In.
func NotIn(e Expr, values ...any) Predicate {
	return membership{e: e, values: flattenValues(values), sub: subqueryArg(values), not: true}
}

func subqueryArg(values []any) *Subquery {
	if len(values) == 1 {
		if sq, ok := values[0].(*Subquery); ok {
			return sq
		}
	}

	return nil
}

func flattenValues(values []any) []any {
	if len(values) != 1 {
		return values
	}
	if _, ok := values[0].(*Subquery); ok {
		return nil
	}

	rv := reflect.ValueOf(values[0])
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return values
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out
}

type nullCheck struct {
	e   Expr
	not bool
}

func (nullCheck) predicate() {}

func (p nullCheck) render(c *compiler) error {
	if err := p.e.render(c); err != nil {
		return err
	}
	if p.not {
		c.sb.WriteString(" IS NOT NULL")
	} else {
		c.sb.WriteString(" IS NULL")
	}

	return nil
}

func IsNull(e Expr) Predicate    { return nullCheck{e: e} }
func IsNotNull(e Expr) Predicate { return nullCheck{e: e, not: true} }

type junction struct {
	op    string
	preds []Predicate
}

func (junction) predicate() {}

func (p junction) render(c *compiler) error {
	preds := compact(p.preds)
	if len(preds) == 0 {
		if p.op == "AND" {
			c.sb.WriteString("1 = 1")
		} else {
			c.sb.WriteString("1 = 0")
		}

		return nil
	}

	c.sb.WriteByte('(')
	for i, pred := range preds {
		if i > 0 {
			c.sb.WriteString(" " + p.op + " ")
		}
		if err := pred.render(c); err != nil {
			return err
		}
	}
	c.sb.WriteByte(')')

	return nil
}

// And joins predicates; nil entries are skipped so optional filters compose.
func And(preds ...Predicate) Predicate { return junction{op: "AND", preds: preds} }

// Or joins predicates; nil entries are skipped.
func Or(preds ...Predicate) Predicate { return junction{op: "OR", preds: preds} }

func compact(preds []Predicate) []Predicate {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}

	return out
}

type negation struct {
	p Predicate
}

func (negation) predicate() {}

func (n negation) render(c *compiler) error {
	c.sb.WriteString("NOT (")
	if err := n.p.render(c); err != nil {
		return err
	}
	c.sb.WriteByte(')')

	return nil
}

func Not(p Predicate) Predicate { return negation{p: p} }

type exists struct {
	sub *Subquery
}

func (exists) predicate() {}

func (p exists) render(c *compiler) error {
	c.sb.WriteString("EXISTS ")

	return p.sub.render(c)
}

// Exists is true when the subquery returns a row.
func Exists(sub *Subquery) Predicate { return exists{sub: sub} }

type typeFilter struct {
	alias    string
	subtypes []string
}

func (typeFilter) predicate() {}

func (p typeFilter) render(c *compiler) error {
	info, err := c.lookup(p.alias)
	if err != nil {
		return err
	}
	h := info.meta.Hierarchy
	if h == nil {
		return errors.Wrapf(ErrUnsupported, "%s is not part of a hierarchy", info.meta.Name)
	}

	tags := make([]any, 0, len(p.subtypes))
	for _, name := range p.subtypes {
		sub, ok := h.byName[name]
		if !ok {
			return errors.Wrapf(ErrUnknownPath, "%s has no subtype %s", info.meta.Name, name)
		}
		tags = append(tags, sub.Tag)
	}

	return membership{e: rawExpr(info.name + "." + h.Column), values: tags}.render(c)
}

// TypeIn keeps rows of alias whose concrete subtype is one of subtypes
// (subtype struct names).
func TypeIn(alias string, subtypes ...string) Predicate {
	return typeFilter{alias: alias, subtypes: subtypes}
}

// Treat narrows alias to subtype for pred, which may reference subtype fields.
func Treat(alias, subtype string, pred Predicate) Predicate {
	return And(TypeIn(alias, subtype), pred)
}

type rawExpr string

func (r rawExpr) render(c *compiler) error {
	c.sb.WriteString(string(r))

	return nil
}

type nullOrder int

const (
	nullsDefault nullOrder = iota
	nullsFirst
	nullsLast
)

// Order is one ORDER BY item.
type Order struct {
	e     Expr
	desc  bool
	nulls nullOrder
}

func Asc(e Expr) Order  { return Order{e: e} }
func Desc(e Expr) Order { return Order{e: e, desc: true} }

// NullsFirst places NULLs before other values.
func (o Order) NullsFirst() Order {
	o.nulls = nullsFirst

	return o
}

// NullsLast places NULLs after other values.
func (o Order) NullsLast() Order {
	o.nulls = nullsLast

	return o
}

func (o Order) render(c *compiler) error {
	if err := o.e.render(c); err != nil {
		return err
	}
	if o.desc {
		c.sb.WriteString(" DESC")
	} else {
		c.sb.WriteString(" ASC")
	}
	switch o.nulls {
	case nullsFirst:
		c.sb.WriteString(" NULLS FIRST")
	case nullsLast:
		c.sb.WriteString(" NULLS LAST")
	}

	return nil
}
