package llvm

// lifetime tracks whether the LLVM object that owns a family of handles is
// still alive.  Lifetimes form a tree rooted at a context: a module's lifetime
// is a child of its context's lifetime, and a handle is only usable while its
// lifetime and all of that lifetime's ancestors are alive.
type lifetime struct {
	parent *lifetime

	// what describes the owner for error messages, eg. `module "m"`.
	what string

	// ctx is the context at the root of the tree.  It is nil for the root
	// lifetime of a context during its construction.
	ctx *Context

	dead bool

	// movable is set on the lifetime of a block created outside any function.
	// The lifetime is moved under the module the block is appended to.
	movable bool
}

// newLifetime creates a new lifetime nested inside parent.
func newLifetime(parent *lifetime, what string) *lifetime {
	lt := &lifetime{parent: parent, what: what}
	if parent != nil {
		lt.ctx = parent.ctx
	}

	return lt
}

// moveUnder makes parent the new parent of a movable lifetime.  It does
// nothing for other lifetimes.
func (lt *lifetime) moveUnder(parent *lifetime) {
	if lt.movable {
		lt.parent = parent
	}
}

// end marks the owner of the lifetime as disposed.
func (lt *lifetime) end() {
	lt.dead = true
}

// alive returns whether the lifetime and all its ancestors are alive.
func (lt *lifetime) alive() bool {
	return lt.check("") == nil
}

// check returns an error naming op if the lifetime is no longer alive.  A nil
// lifetime is always alive: it is used for handles that LLVM owns globally.
func (lt *lifetime) check(op string) error {
	for l := lt; l != nil; l = l.parent {
		if l.dead {
			return &OpError{Op: op, Err: ErrDisposed, Detail: l.what + " was disposed"}
		}
	}

	return nil
}

// mustBeAlive panics if the lifetime is no longer alive.  It guards every
// foreign call made by accessor methods which have no error result.
func (lt *lifetime) mustBeAlive() {
	if err := lt.check("use of handle"); err != nil {
		panic(err)
	}
}

// root returns the context lifetime at the root of the tree.
func (lt *lifetime) root() *lifetime {
	if lt == nil {
		return nil
	}

	for lt.parent != nil {
		lt = lt.parent
	}

	return lt
}

// context returns the context at the root of the tree.
func (lt *lifetime) context() *Context {
	if lt == nil {
		return nil
	}

	return lt.ctx
}
