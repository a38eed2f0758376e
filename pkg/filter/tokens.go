package filter

type Token int

const (
	illegal Token = iota
	eol
	and
	or
	equal
	gte
	greater
	lte
	less
	notEqual
	like
	notLike
	lbracket
	rbracket
	stringLit
	regexLit
	size
	field
)

var tokenNames = map[Token]string{
	illegal:   "illegal",
	eol:       "eol",
	and:       "and",
	or:        "or",
	equal:     "equal",
	gte:       "gte",
	greater:   "greater",
	lte:       "lte",
	less:      "less",
	notEqual:  "notEqual",
	like:      "like",
	notLike:   "notLike",
	lbracket:  "lbracket",
	rbracket:  "rbracket",
	stringLit: "stringLit",
	regexLit:  "regexLit",
	size:      "size",
	field:     "field",
}

func (t Token) String() string {
	return tokenNames[t]
}

var tokenSql = map[Token]string{
	and:      "AND",
	or:       "OR",
	equal:    "=",
	gte:      ">=",
	greater:  ">",
	lte:      "<=",
	less:     "<",
	notEqual: "!=",
}

// Sql returns the SQL operator of t. like and notLike are rendered as regexp_matches calls.
func (t Token) Sql() string {
	return tokenSql[t]
}
