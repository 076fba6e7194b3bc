package store

// Identifiable is implemented by domain records that carry a store identity.
type Identifiable interface {
	SetID(id string)
}

type normalizer interface {
	Normalize()
}

// DecodeAll decodes docs into records of type T, assigning each record the
// document's store identity and normalizing it when T supports that. A
// document that fails to decode aborts the whole batch with an *OpError.
func DecodeAll[T any, PT interface {
	*T
	Identifiable
}](backend, collection string, docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.Decode(&v); err != nil {
			return nil, &OpError{Backend: backend, Op: "decode", Collection: collection, Err: err}
		}
		PT(&v).SetID(doc.ID())
		if n, ok := any(PT(&v)).(normalizer); ok {
			n.Normalize()
		}
		out = append(out, v)
	}
	return out, nil
}
