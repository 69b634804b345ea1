package fieldkind

// Kind is a closed enumeration of schema field value kinds
type Kind string

const (
	Text         Kind = "text"
	TextArea     Kind = "textArea"
	RichText     Kind = "richText"
	Number       Kind = "number"
	Boolean      Kind = "boolean"
	Date         Kind = "date"
	Select       Kind = "select"
	Media        Kind = "media"
	MediaList    Kind = "mediaList"
	Relation     Kind = "relation"
	RelationList Kind = "relationList"
	Repeater     Kind = "repeater"
	Custom       Kind = "custom"
)

// Definition describes how values of a kind behave
type Definition struct {
	// Default is the empty value a new record is initialized with
	Default interface{}
	// ArrayLike kinds always serialize to an array; wrong-shaped stored
	// values are coerced, never rejected
	ArrayLike bool
}

// Registry is an immutable kind lookup table, constructed once at
// process start and passed by reference
type Registry struct {
	defs map[Kind]Definition
}

// NewRegistry builds the registry with the full closed kind set
func NewRegistry() *Registry {
	return &Registry{defs: map[Kind]Definition{
		Text:         {Default: ""},
		TextArea:     {Default: ""},
		RichText:     {Default: ""},
		Number:       {Default: nil},
		Boolean:      {Default: false},
		Date:         {Default: nil},
		Select:       {Default: []interface{}{}, ArrayLike: true},
		Media:        {Default: nil},
		MediaList:    {Default: []interface{}{}, ArrayLike: true},
		Relation:     {Default: nil},
		RelationList: {Default: []interface{}{}, ArrayLike: true},
		Repeater:     {Default: []interface{}{}, ArrayLike: true},
		Custom:       {Default: nil},
	}}
}

// Lookup returns the definition for a kind
func (r *Registry) Lookup(k Kind) (Definition, bool) {
	def, ok := r.defs[k]
	return def, ok
}

// Known reports whether k is part of the closed kind set
func (r *Registry) Known(k Kind) bool {
	_, ok := r.defs[k]
	return ok
}

// Default returns the empty value for a kind (nil for unknown kinds)
func (r *Registry) Default(k Kind) interface{} {
	return r.defs[k].Default
}

// IsArrayLike reports whether values of k always serialize to an array
func (r *Registry) IsArrayLike(k Kind) bool {
	return r.defs[k].ArrayLike
}

// Normalize applies the kind's normalization rule to a stored value.
// Array-like kinds coerce nil to [], a scalar to a single-element array,
// and pass arrays through unchanged. Other kinds pass through as stored.
func (r *Registry) Normalize(k Kind, value interface{}) interface{} {
	def, ok := r.defs[k]
	if !ok || !def.ArrayLike {
		return value
	}
	switch v := value.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		return v
	default:
		return []interface{}{v}
	}
}
