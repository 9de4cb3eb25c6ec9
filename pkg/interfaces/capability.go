package interfaces

import "context"

// EditCapability decides whether the current caller may enter edit mode and
// persist content changes. Host applications supply their own implementation
// backed by sessions, roles, or whatever policy they run; the library never
// invents role semantics of its own.
type EditCapability interface {
	CanEdit(ctx context.Context) bool
}

// EditCapabilityFunc adapts a plain predicate into an EditCapability.
type EditCapabilityFunc func(ctx context.Context) bool

// CanEdit implements EditCapability.
func (f EditCapabilityFunc) CanEdit(ctx context.Context) bool {
	if f == nil {
		return false
	}
	return f(ctx)
}

// AllowAll grants the edit capability unconditionally. This matches the
// permissive default of early deployments; production hosts should inject a
// real predicate instead.
func AllowAll() EditCapability {
	return EditCapabilityFunc(func(context.Context) bool { return true })
}

// DenyAll refuses the edit capability unconditionally.
func DenyAll() EditCapability {
	return EditCapabilityFunc(func(context.Context) bool { return false })
}
