package field

import "context"

// ValueFactory creates values bound to a single item. Contributors receive one
// through FilterFields so their fields can format input names and read
// current values.
type ValueFactory struct {
	backend Backend
	itemID  int
}

// NewValueFactory binds a factory to itemID.
func NewValueFactory(backend Backend, itemID int) *ValueFactory {
	return &ValueFactory{backend: backend, itemID: itemID}
}

// ItemID returns the bound item id as given, without validation.
func (f *ValueFactory) ItemID() int {
	return f.itemID
}

// Create builds a Value for name. sanitize may be nil.
func (f *ValueFactory) Create(ctx context.Context, name string, sanitize Sanitizer) *Value {
	return NewValue(ctx, f.backend, name, f.itemID, sanitize)
}
