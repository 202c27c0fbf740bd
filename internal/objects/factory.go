package objects

import "fmt"

// Parse dispatches on the type tag read from an object's framing header and
// reconstructs the corresponding variant from its payload. This is the
// single match point the store's loader uses instead of virtual dispatch.
func Parse(kind Kind, payload []byte) (Object, error) {
	switch kind {
	case KindBlob:
		return ParseBlob(payload), nil
	case KindTree:
		return ParseTree(payload)
	case KindCommit:
		return ParseCommit(payload)
	default:
		return nil, fmt.Errorf("objects: unknown type tag %q", kind)
	}
}
