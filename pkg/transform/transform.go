package transform

import (
	"fmt"
	"os"

	"github.com/dop251/goja"
	"github.com/naruebet-orgl/sqlsift/pkg/sink"
)

// Script is a user-supplied JavaScript row hook. The script must define
//
//	function transform(table, row) { ... }
//
// where row maps column names to string values (null for SQL NULL). Returning
// null or false drops the row, returning true keeps it unchanged, returning
// an object rewrites fields by column name.
//
// A Script is bound to a single goja runtime and must only be used from one
// goroutine; the extractor is single-threaded by construction.
type Script struct {
	vm *goja.Runtime
	fn goja.Callable
}

func Compile(src string) (*Script, error) {
	vm := goja.New()
	if _, err := vm.RunString(src); err != nil {
		return nil, fmt.Errorf("transform script does not compile: %w", err)
	}

	fn, ok := goja.AssertFunction(vm.Get("transform"))
	if !ok {
		return nil, fmt.Errorf("transform script must define a transform(table, row) function")
	}

	return &Script{vm: vm, fn: fn}, nil
}

func Load(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read transform script %s: %w", path, err)
	}
	return Compile(string(src))
}

func (s *Script) Apply(table string, columns []string, row sink.Row) (sink.Row, bool, error) {
	obj := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		if row[i] != nil {
			obj[col] = *row[i]
		} else {
			obj[col] = nil
		}
	}

	res, err := s.fn(goja.Undefined(), s.vm.ToValue(table), s.vm.ToValue(obj))
	if err != nil {
		return nil, false, fmt.Errorf("transform(%s): %w", table, err)
	}

	if res == nil || goja.IsNull(res) || goja.IsUndefined(res) {
		return nil, false, nil
	}
	if b, ok := res.Export().(bool); ok {
		return row, b, nil
	}

	out, ok := res.Export().(map[string]interface{})
	if !ok {
		return nil, false, fmt.Errorf("transform(%s) returned %T, want object, boolean or null", table, res.Export())
	}

	rewritten := make(sink.Row, len(columns))
	for i, col := range columns {
		v, present := out[col]
		if !present || v == nil {
			continue
		}
		text := fmt.Sprintf("%v", v)
		rewritten[i] = &text
	}
	return rewritten, true, nil
}
