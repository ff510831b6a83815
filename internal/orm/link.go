package orm

// Link points child's owning reference at parent and moves child from the
// previous parent's inverse collection to parent's, keeping both sides of the
// association in step. Assigning only the owning reference is allowed but
// leaves the inverse collections stale until they are reloaded.
func Link[C, P any](child *C, owning *Ref[P], parent *P, inverse func(*P) *Collection[C]) {
	if old := currentTarget(owning); old != nil && old != parent {
		inverse(old).detach(child)
	}
	owning.Set(parent)
	if parent != nil {
		inverse(parent).Add(child)
	}
}

// Unlink clears child's owning reference and drops child from the previous
// parent's collection. The child is not treated as an orphan.
func Unlink[C, P any](child *C, owning *Ref[P], inverse func(*P) *Collection[C]) {
	if old := currentTarget(owning); old != nil {
		inverse(old).detach(child)
	}
	owning.Clear()
}

// LinkOne is Link for one-to-one associations with an inverse reference.
func LinkOne[A, B any](a *A, owning *Ref[B], b *B, inverse func(*B) *Ref[A]) {
	if old := currentTarget(owning); old != nil && old != b {
		inverse(old).Clear()
	}
	owning.Set(b)
	if b != nil {
		inverse(b).Set(a)
	}
}

// currentTarget returns the referenced instance when it is in memory, without
// loading it.
func currentTarget[T any](r *Ref[T]) *T {
	if r.lazy == nil {
		return r.value
	}

	l := r.lazy
	if l.inverse != nil || l.s.epoch != l.epoch || !l.s.state.open() {
		return nil
	}
	if ptr, ok := l.s.identities.get(l.target, l.key); ok {
		return ptr.(*T)
	}

	return nil
}
