package rdf

// TermKind distinguishes IRIs from literals
type TermKind int

const (
	KindIRI TermKind = iota
	KindLiteral
)

// Term is one node of a statement: an IRI or a literal value
type Term struct {
	Kind     TermKind `json:"-"`
	Value    string   `json:"value"`
	Datatype string   `json:"datatype,omitempty"` // Literals only; "" means plain string
}

// IRI constructs an IRI term
func IRI(value string) Term {
	return Term{Kind: KindIRI, Value: value}
}

// Literal constructs a plain string literal
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// TypedLiteral constructs a literal with an explicit datatype IRI
func TypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsIRI reports whether the term is an IRI
func (t Term) IsIRI() bool {
	return t.Kind == KindIRI
}

// key returns a collision-free map key for the term
func (t Term) key() string {
	if t.Kind == KindIRI {
		return "i|" + t.Value
	}
	return "l|" + t.Datatype + "|" + t.Value
}

// Statement is one subject-predicate-object fact
type Statement struct {
	Subject   string
	Predicate string
	Object    Term
}

// Key returns a collision-free map key for the statement
func (s Statement) Key() string {
	return s.Subject + "|" + s.Predicate + "|" + s.Object.key()
}
