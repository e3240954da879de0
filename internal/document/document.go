package document

// Type selects which extraction rule-set and which search index a
// document belongs to.
type Type string

const (
	TypePolicy Type = "policy"
	TypeClaim  Type = "claim"
)

// Valid reports whether t is one of the known document types.
func (t Type) Valid() bool {
	return t == TypePolicy || t == TypeClaim
}

// Document is the unit of ingestion: extracted text plus enough
// identity to build citation records from its chunks.
type Document struct {
	ID         string
	SourceFile string
	Type       Type
	Content    string
	PageCount  int
}
