package matcher

import (
	"reflect"

	"github.com/viant/toolbox"
)

// Typed is implemented by actions that carry an explicit type tag.
type Typed interface {
	Type() string
}

// TypeOf derives the type string of an action: the Typed interface when
// implemented, the "type" entry of a map action, or an exported Type
// string field. Actions without a recognisable tag yield "".
func TypeOf(action interface{}) string {
	switch actual := action.(type) {
	case Typed:
		return actual.Type()
	case map[string]interface{}:
		if value, ok := actual["type"]; ok {
			return toolbox.AsString(value)
		}
		return ""
	case map[string]string:
		return actual["type"]
	}
	value := reflect.ValueOf(action)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return ""
	}
	field := value.FieldByName("Type")
	if !field.IsValid() || field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}
