package objects

// Blob holds the exact bytes of one file. Its serialization is the content
// verbatim; nothing is added or stripped.
type Blob struct {
	data []byte
	id   ObjectID
}

// NewBlob constructs a Blob from raw file content and computes its identity.
// Two blobs built from equal byte sequences always have equal identity.
func NewBlob(data []byte) *Blob {
	b := &Blob{data: append([]byte(nil), data...)}
	b.id = identityOf(KindBlob, b.data)
	return b
}

func (b *Blob) Kind() Kind     { return KindBlob }
func (b *Blob) ID() ObjectID   { return b.id }
func (b *Blob) Payload() []byte { return b.data }

// Data returns the blob's raw content. Callers must not mutate the result.
func (b *Blob) Data() []byte { return b.data }

// ParseBlob reconstructs a Blob from its payload (the framed content minus
// the header, as returned by a store read). The payload is taken verbatim.
func ParseBlob(payload []byte) *Blob {
	return NewBlob(payload)
}
