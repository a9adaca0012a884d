package extension

import (
	"reflect"

	"github.com/viant/x"
)

// Types registers action Go types by name. Registering a type lets string
// patterns refer to actions by type name.
type Types struct {
	x.Registry
}

// Register adds an action type to the registry.
func (t *Types) Register(actionType *x.Type) {
	t.Registry.Register(actionType)
}

// Lookup returns a registered action type or nil.
func (t *Types) Lookup(name string) *x.Type {
	return t.Registry.Lookup(name)
}

// Matches reports whether the action's dynamic type is registered under
// name. Pointer indirection on the action is ignored.
func (t *Types) Matches(name string, action interface{}) bool {
	registered := t.Lookup(name)
	if registered == nil || action == nil {
		return false
	}
	actual := reflect.TypeOf(action)
	for actual.Kind() == reflect.Ptr {
		actual = actual.Elem()
	}
	expect := registered.Type
	for expect != nil && expect.Kind() == reflect.Ptr {
		expect = expect.Elem()
	}
	return actual == expect
}

// NewTypes creates a type registry.
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{Registry: *x.NewRegistry(options...)}
}
