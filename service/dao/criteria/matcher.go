package criteria

import (
	"github.com/viant/saga/service/dao"
)

// FilterByKind reports whether a record with the given effect kind
// passes the supplied parameters. An empty parameter set matches
// everything.
func FilterByKind(kind string, parameters []*dao.Parameter) bool {
	switch len(parameters) {
	case 0:
		return true
	case 1:
		if parameters[0].Name == "Kind" {
			switch actual := parameters[0].Value.(type) {
			case string:
				return kind == actual
			case []string:
				for _, s := range actual {
					if kind == s {
						return true
					}
				}
				return false
			}
		}
	}
	return true
}
