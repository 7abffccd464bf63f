package mondoc

import (
	"github.com/arlev/mondoc/ir"
	"github.com/arlev/mondoc/storage"
)

// mapType maps a primitive type descriptor to its storage field. It is total
// over the supported kind set and pure: the same descriptor always maps to
// the same field. Every numeric format collapses to the single numeric
// storage type; the source dialect draws no precision distinction and
// neither do we.
func mapType(p *ir.Property) (*storage.Field, error) {
	switch p.Type {
	case "number":
		switch p.Format {
		case "integer", "long", "float", "double":
			return storage.Scalar(storage.TypeNumber), nil
		default:
			return nil, Errorf(CodeUnrecognizedFormat, "unrecognized number format %q", p.Format)
		}
	case "integer", "long", "float", "double":
		return storage.Scalar(storage.TypeNumber), nil
	case "string", "password":
		return storage.Scalar(storage.TypeString), nil
	case "boolean":
		return storage.Scalar(storage.TypeBoolean), nil
	case "date", "dateTime":
		return storage.Scalar(storage.TypeDate), nil
	case "array":
		if p.Items == nil {
			return nil, Errorf(CodeUnrecognizedType, "array property without items")
		}
		elem, err := mapType(p.Items)
		if err != nil {
			return nil, err
		}
		return storage.Array(elem), nil
	default:
		return nil, Errorf(CodeUnrecognizedType, "unrecognized property type %q", p.Type)
	}
}
