package rules

import "github.com/aqasim81/scriptdb/internal/parser"

// objectName returns the identifier at word i, stepping over an
// IF [NOT] EXISTS clause.
func objectName(stmt parser.Statement, i int) string {
	if i < len(stmt.Words) && stmt.Words[i] == "IF" {
		i++
		if i < len(stmt.Words) && stmt.Words[i] == "NOT" {
			i++
		}

		i++ // EXISTS
	}

	return stmt.Ident(i)
}

// createTarget reports the object kind and the index of the word after it
// for CREATE [TEMP] [UNIQUE|VIRTUAL] TABLE|INDEX|VIEW|TRIGGER.
func createTarget(stmt parser.Statement) (string, int, bool) {
	if !stmt.HasPrefix("CREATE") {
		return "", 0, false
	}

	i := 1
	for i < len(stmt.Words) {
		switch w := stmt.Words[i]; w {
		case "TEMP", "TEMPORARY", "UNIQUE", "VIRTUAL":
			i++
		case "TABLE", "INDEX", "VIEW", "TRIGGER":
			return w, i + 1, true
		default:
			return "", 0, false
		}
	}

	return "", 0, false
}

// alterTable returns the table name and the index of the first word of the
// ALTER TABLE action.
func alterTable(stmt parser.Statement) (string, int, bool) {
	if !stmt.HasPrefix("ALTER", "TABLE") || len(stmt.Words) < 4 { //nolint:mnd // ALTER TABLE name action
		return "", 0, false
	}

	return stmt.Ident(2), 3, true //nolint:mnd // word after the table name
}

// hasWord reports whether word appears in stmt's leading words at or after i.
func hasWord(stmt parser.Statement, i int, word string) bool {
	for ; i < len(stmt.Words); i++ {
		if stmt.Words[i] == word {
			return true
		}
	}

	return false
}
