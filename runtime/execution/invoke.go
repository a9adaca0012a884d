package execution

import (
	"fmt"
	"reflect"

	"github.com/viant/structology/conv"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()
var yieldType = reflect.TypeOf((*Yield)(nil))
var nodeCallbackType = reflect.TypeOf((*NodeCallback)(nil))

// converter adapts loosely-typed arguments (maps, scalars) into the
// invoked function's parameter types.
var converter = newConverter()

func newConverter() *conv.Converter {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return conv.NewConverter(options)
}

// invoke calls fn with args, capturing panics as errors. Results map as:
// no outputs -> nil; a trailing error output is split off; a single
// remaining output becomes the value.
func invoke(fn interface{}, args []interface{}) (result interface{}, err error) {
	value := reflect.ValueOf(fn)
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, fmt.Errorf("cannot invoke %T: not a function", fn)
	}
	in, err := adaptArgs(value.Type(), args, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			if failure, ok := rec.(error); ok {
				err = failure
				return
			}
			err = fmt.Errorf("%v", rec)
		}
	}()
	return mapOutputs(value.Call(in))
}

// invokeCPS calls a node-style fn whose trailing parameter accepts the
// completion callback.
func invokeCPS(fn interface{}, args []interface{}, cb *NodeCallback) (err error) {
	value := reflect.ValueOf(fn)
	if !value.IsValid() || value.Kind() != reflect.Func {
		return fmt.Errorf("cannot invoke %T: not a function", fn)
	}
	fnType := value.Type()
	if fnType.NumIn() == 0 || !nodeCallbackType.AssignableTo(fnType.In(fnType.NumIn()-1)) {
		return fmt.Errorf("cps function %T must accept a trailing *execution.NodeCallback", fn)
	}
	in, err := adaptArgs(fnType, args, cb)
	if err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			if failure, ok := rec.(error); ok {
				err = failure
				return
			}
			err = fmt.Errorf("%v", rec)
		}
	}()
	value.Call(in)
	return nil
}

// adaptArgs converts args to fnType's parameter types; a non-nil
// trailing value is appended verbatim (the cps callback).
func adaptArgs(fnType reflect.Type, args []interface{}, trailing interface{}) ([]reflect.Value, error) {
	if trailing != nil {
		args = append(append([]interface{}{}, args...), trailing)
	}
	numIn := fnType.NumIn()
	if fnType.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("expected at least %d arguments, got %d", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("expected %d arguments, got %d", numIn, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		if fnType.IsVariadic() && i >= numIn-1 {
			paramType = fnType.In(numIn - 1).Elem()
		} else {
			paramType = fnType.In(i)
		}
		value, err := adaptArg(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = value
	}
	return in, nil
}

func adaptArg(arg interface{}, paramType reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(paramType), nil
	}
	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(paramType) {
		return value, nil
	}
	if value.Type().ConvertibleTo(paramType) && paramType.Kind() != reflect.String {
		return value.Convert(paramType), nil
	}
	instance := reflect.New(paramType)
	if err := converter.Convert(arg, instance.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot convert %T to %s: %w", arg, paramType, err)
	}
	return instance.Elem(), nil
}

func mapOutputs(out []reflect.Value) (interface{}, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type().Implements(errorType) {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1]
		if last.Type().Implements(errorType) {
			if err := asError(last); err != nil {
				return nil, err
			}
			out = out[:len(out)-1]
		}
		if len(out) == 1 {
			return out[0].Interface(), nil
		}
		values := make([]interface{}, len(out))
		for i := range out {
			values[i] = out[i].Interface()
		}
		return values, nil
	}
}

func asError(value reflect.Value) error {
	if value.IsNil() {
		return nil
	}
	return value.Interface().(error)
}

// procIterator recognises procedure-shaped functions (first parameter
// *Yield) and wraps them into a routine without starting them.
func procIterator(fn interface{}, args []interface{}) (Iterator, bool) {
	if body, ok := fn.(Proc); ok && len(args) == 0 {
		return NewRoutine(body), true
	}
	if body, ok := fn.(func(*Yield) (interface{}, error)); ok && len(args) == 0 {
		return NewRoutine(body), true
	}
	value := reflect.ValueOf(fn)
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, false
	}
	fnType := value.Type()
	if fnType.NumIn() == 0 || fnType.In(0) != yieldType {
		return nil, false
	}
	return NewRoutine(func(y *Yield) (interface{}, error) {
		in, err := adaptArgs(fnType, append([]interface{}{y}, args...), nil)
		if err != nil {
			return nil, err
		}
		return mapOutputs(value.Call(in))
	}), true
}

// createTaskIterator turns the target of a fork/call into an iterator: a
// ready iterator is used as-is, a procedure-shaped function becomes a
// routine, and a plain function is invoked (a synchronous panic surfaces
// into an iterator that re-throws on first advance).
func createTaskIterator(fn interface{}, args []interface{}) Iterator {
	if it, ok := fn.(Iterator); ok {
		return it
	}
	if it, ok := procIterator(fn, args); ok {
		return it
	}
	result, err := invoke(fn, args)
	if err != nil {
		return &errorIterator{err: err}
	}
	if it, ok := result.(Iterator); ok {
		return it
	}
	return &resultIterator{result: result}
}
