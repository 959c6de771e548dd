package hooks

import "context"

type runningKey struct{}

type running struct {
	name   string
	parent *running
}

// WithAction marks ctx as executing the named action. Hosts that dispatch
// actions through their own machinery call this before invoking callbacks.
func WithAction(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	parent, _ := ctx.Value(runningKey{}).(*running)
	return context.WithValue(ctx, runningKey{}, &running{name: name, parent: parent})
}

// Doing reports whether ctx is inside the named action, at any nesting depth.
func Doing(ctx context.Context, name string) bool {
	if ctx == nil {
		return false
	}
	current, _ := ctx.Value(runningKey{}).(*running)
	for ; current != nil; current = current.parent {
		if current.name == name {
			return true
		}
	}
	return false
}
