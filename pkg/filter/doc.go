// Package filter parses the filter expressions accepted by the export history
// and turns them into SQL WHERE clauses.
//
// Grammar
//
//	expression  : term ( "or" term )* ;
//	term        : factor ( "and" factor )* ;
//	factor      : comparison | "(" expression ")" ;
//	comparison  : FIELD ( "=" | "!=" | "<" | "<=" | ">" | ">=" ) value
//	            | FIELD ( "~" | "!~" ) REGEX ;
//	value       : STRING | SIZE ;
//
//	FIELD  : [a-zA-Z_]+ ;
//	REGEX  : '/' ( '\/' | . )*? '/' ;
//	STRING : "'" .+? "'" | "\"" .+? "\"" ;
//	SIZE   : [0-9]+ ( '.' [0-9]+ )? ( 'KB' | 'MB' | 'GB' | 'TB' )? ;
//
// Fields
//
//	┌───────────────┬───────────────┬──────────────────────────────┐
//	│ Field         │ Column        │ Example                      │
//	├───────────────┼───────────────┼──────────────────────────────┤
//	│ kind          │ kind          │ kind = 'pdf'                 │
//	│ filename      │ filename      │ filename ~ /^Q3/             │
//	│ assessment_id │ assessment_id │ assessment_id = 'a1b2'       │
//	│ content_type  │ content_type  │ content_type != 'text/html'  │
//	│ size          │ size          │ size > 1.5MB                 │
//	│ created_at    │ created_at    │ created_at >= '2026-01-01'   │
//	└───────────────┴───────────────┴──────────────────────────────┘
//
// Sizes are compared in bytes, units are powers of 1024. Unknown fields are
// rejected when parsing so the generated SQL only references known columns.
//
// Usage:
//
//	expr, err := filter.Parse([]byte("kind = 'pdf' and size > 1MB"))
//	if err != nil {
//	    return err
//	}
//	builder = builder.Where(expr.Sql())
package filter
