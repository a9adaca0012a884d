package execution

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Meta identifies a procedure for diagnostics: its name and source
// location.
type Meta struct {
	Name     string
	Location string
}

func (m Meta) String() string {
	if m.Location == "" {
		return m.Name
	}
	return fmt.Sprintf("%s %s", m.Name, m.Location)
}

// metaOf derives a Meta from a procedure function via its runtime
// symbol; non-function values fall back to a generic name.
func metaOf(fn interface{}) Meta {
	if fn == nil {
		return Meta{Name: "anonymous"}
	}
	if _, ok := fn.(Iterator); ok {
		return Meta{Name: "iterator"}
	}
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func {
		return Meta{Name: "anonymous"}
	}
	pc := runtime.FuncForPC(value.Pointer())
	if pc == nil {
		return Meta{Name: "anonymous"}
	}
	name := pc.Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	file, line := pc.FileLine(value.Pointer())
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}
	return Meta{Name: name, Location: fmt.Sprintf("%s:%d", file, line)}
}
