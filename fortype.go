package flog

import (
	"reflect"

	"github.com/tcallahan/flog/internal/cache"
)

// Resolved type names are cached; reflection runs once per type.
var typeNames = cache.NewLRU[reflect.Type, string](1024)

// ForType returns a logger named after T, so all of a component's records
// share one name regardless of which file they come from:
//
//	logger := flog.ForType[OrderService](base)
//
// The name is T's package path and type name, e.g.
// "github.com/acme/billing.OrderService", which scope level maps match by
// prefix like any other logger name. Pointer types name their element.
func ForType[T any](logger *Logger) *Logger {
	return logger.WithName(TypeName[T]())
}

// TypeName returns the qualified name used by ForType for T.
func TypeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return typeNames.GetOrCreate(t, func() string { return qualifiedName(t) })
}

func qualifiedName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	// Builtins and anonymous types have no package path.
	return t.String()
}
