package models

// PostType discriminates the two post variants a vote, flag or
// reputation event can attach to.
type PostType int16

const (
	PostTypeQuestion PostType = 1
	PostTypeAnswer   PostType = 2
)

// String returns the lowercase name used on the wire and in logs
func (t PostType) String() string {
	switch t {
	case PostTypeQuestion:
		return "question"
	case PostTypeAnswer:
		return "answer"
	default:
		return "unknown"
	}
}

// PostRef is a typed reference to a question or answer. Ledger rows
// carry a PostRef instead of a runtime type registry.
type PostRef struct {
	Type PostType
	ID   int64
}

// Post is the capability shared by Question and Answer: the counters the
// action coordinator mutates and the ownership data the rules consult.
type Post interface {
	Ref() PostRef
	PostAuthorID() int64
	PostScore() int
	PostFlagCount() int
	PostDeleted() bool
}
