package orm

import (
	"context"
	"reflect"

	"ormlab/internal/errors"
)

// lazySource is the unresolved state of a Ref. For an owning reference key is
// the target key; for an inverse one it is the owner key and inverse names the
// owning association on the target.
type lazySource struct {
	s       *Session
	epoch   uint64
	target  *EntityMeta
	key     any
	inverse *AssocMeta
	via     *AssocMeta
}

func (l *lazySource) resolve(ctx context.Context) (any, error) {
	s := l.s
	if s.epoch != l.epoch || !s.state.open() {
		return nil, errors.Wrapf(ErrDetached, "placeholder %s#%v outlived its transaction", l.target.Name, l.key)
	}

	var ptr any
	var err error
	if l.inverse != nil {
		ptr, err = s.resolveInverse(ctx, l)
	} else {
		ptr, err = s.resolveKey(ctx, l.target, l.key, l.via)
	}
	if err != nil {
		return nil, err
	}
	s.stats.PlaceholdersResolved++

	return ptr, nil
}

// lazyRef builds an owning placeholder and queues its key for batch loading.
func (s *Session) lazyRef(target *EntityMeta, key any, via *AssocMeta) *lazySource {
	if _, ok := s.identities.get(target, key); !ok {
		s.pending.addRef(target, key)
	}

	return &lazySource{s: s, epoch: s.epoch, target: target, key: key, via: via}
}

// resolveKey returns the managed instance for (meta, key), loading it together
// with up to batch-1 other pending keys of the same type when it is missing.
func (s *Session) resolveKey(ctx context.Context, meta *EntityMeta, key any, via *AssocMeta) (any, error) {
	if ptr, ok := s.identities.get(meta, key); ok {
		if err := s.checkStale(ptr); err != nil {
			return nil, err
		}

		return ptr, nil
	}

	keys := s.pending.takeRefs(meta, key, s.batchSize(via), s.identities)
	if _, err := s.loadWhere(ctx, meta, In(P("x"), keys...)); err != nil {
		return nil, err
	}

	ptr, ok := s.identities.get(meta, key)
	if !ok {
		return nil, errors.Wrapf(ErrEntityNotFound, "%s#%v", meta.Name, key)
	}

	return ptr, nil
}

func (s *Session) resolveInverse(ctx context.Context, l *lazySource) (any, error) {
	found, err := s.loadWhere(ctx, l.target, Eq(P("x."+l.inverse.Name), l.key))
	if err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], s.checkStale(found[0])
	default:
		return nil, errors.Wrapf(ErrNonUniqueResult, "%s.%s of %v", l.target.Name, l.inverse.Name, l.key)
	}
}

func (s *Session) batchSize(via *AssocMeta) int {
	n := s.engine.opts.BatchFetchSize
	if via != nil && via.BatchSize > 0 {
		n = via.BatchSize
	}

	return max(n, 1)
}

// loadCollection fills coll, and up to batch-1 other unloaded collections of
// the same role, with one select.
func (s *Session) loadCollection(ctx context.Context, coll collectionAccess) error {
	b := coll.binding()
	if !b.live() {
		return errors.Wrapf(ErrDetached, "collection %s.%s outlived its transaction", b.assoc.Owner.Name, b.assoc.Name)
	}

	a := b.assoc
	batch := s.pending.takeColls(a, coll, s.batchSize(a))
	keys := make([]any, len(batch))
	for i, c := range batch {
		keys[i] = c.binding().ownerKey
	}

	inv := a.inverseOf
	children, err := s.loadWhere(ctx, a.target, In(P("x."+inv.Name), keys...))
	if err != nil {
		return err
	}

	groups := make(map[any][]any, len(batch))
	for _, child := range children {
		ownerKey, ok := s.ownerKeyOf(reflect.ValueOf(child).Elem(), inv)
		if ok {
			groups[ownerKey] = append(groups[ownerKey], child)
		}
	}

	for _, c := range batch {
		c.collectionFill(groups[c.binding().ownerKey])
		s.stats.CollectionsLoaded++
	}

	return nil
}

// ownerKeyOf reads the key an owning reference currently points at.
func (s *Session) ownerKeyOf(v reflect.Value, owning *AssocMeta) (any, bool) {
	ptr, lazy := refOf(v, owning).refValue()
	if lazy != nil {
		return lazy.key, true
	}
	if ptr == nil {
		return nil, false
	}
	tv := reflect.ValueOf(ptr).Elem()
	if !owning.target.hasKey(tv) {
		return nil, false
	}

	return owning.target.keyOf(tv), true
}

// belongsTo reports whether child is a member of the unloaded collection bound
// by b, going by its owning reference or the owner it was loaded with.
func (s *Session) belongsTo(b *collectionBinding, child any) bool {
	inv := b.assoc.inverseOf
	if key, ok := s.ownerKeyOf(reflect.ValueOf(child).Elem(), inv); ok && equalValues(key, b.ownerKey) {
		return true
	}
	if !b.live() {
		return false
	}

	e := s.tracker.get(child)
	if e == nil || e.snapshot == nil {
		return false
	}
	for i, col := range e.meta.columns {
		if col.kind == colForeignKey && col.assoc == inv {
			return equalValues(e.snapshot[i], b.ownerKey)
		}
	}

	return false
}

// GetReference returns a placeholder for (T, key) without touching the store.
// Within one transaction the same identity always yields the same *Ref, and
// the ref is already resolved when the instance is managed.
func GetReference[T any](s *Session, key any) (*Ref[T], error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	meta, err := s.engine.registry.metaOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	nk, err := meta.normalizeKey(key)
	if err != nil {
		return nil, err
	}

	id := identity{meta: meta, key: nk}
	if r, ok := s.refs[id]; ok {
		return r.(*Ref[T]), nil
	}

	r := &Ref[T]{}
	if ptr, ok := s.identities.get(meta, nk); ok {
		r.value = ptr.(*T)
	} else {
		r.lazy = s.lazyRef(meta, nk, nil)
	}
	s.refs[id] = r

	return r, nil
}

// Find returns the managed instance for (T, key), loading it on a miss.
func Find[T any](ctx context.Context, s *Session, key any) (*T, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	meta, err := s.engine.registry.metaOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	nk, err := meta.normalizeKey(key)
	if err != nil {
		return nil, err
	}

	if ptr, ok := s.identities.get(meta, nk); ok {
		if e := s.tracker.get(ptr); e != nil && e.status == statusRemoved {
			return nil, errors.Wrapf(ErrEntityNotFound, "%s#%v is scheduled for removal", meta.Name, nk)
		}
		if err := s.checkStale(ptr); err != nil {
			return nil, err
		}

		return ptr.(*T), nil
	}

	if _, err := s.loadWhere(ctx, meta, Eq(P("x"), nk)); err != nil {
		return nil, err
	}
	ptr, ok := s.identities.get(meta, nk)
	if !ok {
		return nil, errors.Wrapf(ErrEntityNotFound, "%s#%v", meta.Name, nk)
	}

	return ptr.(*T), nil
}

// pendingLoads queues unresolved identities and unloaded collections so that
// resolving one can batch-load its siblings.
type pendingLoads struct {
	refs  map[*EntityMeta][]any
	colls map[*AssocMeta][]collectionAccess
}

func newPendingLoads() *pendingLoads {
	return &pendingLoads{
		refs:  make(map[*EntityMeta][]any),
		colls: make(map[*AssocMeta][]collectionAccess),
	}
}

func (p *pendingLoads) addRef(meta *EntityMeta, key any) {
	for _, k := range p.refs[meta] {
		if k == key {
			return
		}
	}
	p.refs[meta] = append(p.refs[meta], key)
}

func (p *pendingLoads) dropRef(meta *EntityMeta, key any) {
	keys := p.refs[meta]
	for i, k := range keys {
		if k == key {
			p.refs[meta] = append(keys[:i:i], keys[i+1:]...)

			return
		}
	}
}

// takeRefs returns key plus up to size-1 queued keys that are still unmapped.
func (p *pendingLoads) takeRefs(meta *EntityMeta, key any, size int, im *identityMap) []any {
	out := []any{key}
	rest := p.refs[meta][:0:0]
	for _, k := range p.refs[meta] {
		if k == key {
			continue
		}
		if _, mapped := im.get(meta, k); mapped {
			continue
		}
		if len(out) < size {
			out = append(out, k)

			continue
		}
		rest = append(rest, k)
	}
	p.refs[meta] = rest

	return out
}

func (p *pendingLoads) addColl(a *AssocMeta, c collectionAccess) {
	p.colls[a] = append(p.colls[a], c)
}

func (p *pendingLoads) dropColl(c collectionAccess) {
	b := c.binding()
	if b == nil {
		return
	}
	list := p.colls[b.assoc]
	for i, x := range list {
		if x == c {
			p.colls[b.assoc] = append(list[:i:i], list[i+1:]...)

			return
		}
	}
}

// takeColls returns coll plus up to size-1 other still-unloaded collections of
// the same role.
func (p *pendingLoads) takeColls(a *AssocMeta, coll collectionAccess, size int) []collectionAccess {
	out := []collectionAccess{coll}
	var rest []collectionAccess
	for _, c := range p.colls[a] {
		if c == coll || c.collectionLoaded() {
			continue
		}
		if len(out) < size {
			out = append(out, c)

			continue
		}
		rest = append(rest, c)
	}
	p.colls[a] = rest

	return out
}
