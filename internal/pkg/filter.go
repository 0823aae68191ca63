package pkg

import (
	"database/sql/driver"
	"regexp"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/domain"
)

// FoldFunc is a SQLite scalar function that lowercases its argument with
// full Unicode case mapping. SQLite's built-in LOWER only folds ASCII.
const FoldFunc = "leadboard_fold"

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(FoldFunc, 1, fold)
}

func fold(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// validColumn matches a bare or table-qualified column name.
var validColumn = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where returns a GORM scope that ANDs preds onto the query. Predicates with
// an invalid column name or an unknown operator are skipped, as are In
// predicates without values.
func Where(preds []domain.Predicate) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, p := range preds {
			if !validColumn.MatchString(p.Column) || len(p.Values) == 0 {
				continue
			}
			switch p.Op {
			case domain.OpEq:
				db = db.Where(p.Column+" = ?", p.Values[0])
			case domain.OpIn:
				db = db.Where(p.Column+" IN ?", p.Values)
			case domain.OpContainsFold:
				s, ok := p.Values[0].(string)
				if !ok {
					continue
				}
				db = db.Where(containsFoldClause(dialectName(db), p.Column), ContainsPattern(s))
			}
		}
		return db
	}
}

// containsFoldClause is a case-insensitive LIKE on column for the named
// dialect. Both sides are folded by the database so that the pattern and the
// stored value go through the same case mapping.
func containsFoldClause(dialect, column string) string {
	switch dialect {
	case "postgres":
		return column + ` ILIKE ? ESCAPE '\'`
	case "sqlite":
		return FoldFunc + "(" + column + ") LIKE " + FoldFunc + `(?) ESCAPE '\'`
	default:
		return "LOWER(" + column + `) LIKE LOWER(?) ESCAPE '\'`
	}
}

func dialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return ""
	}
	return db.Dialector.Name()
}

// ContainsPattern turns s into a LIKE pattern matching any value that
// contains s literally. Case folding is left to the query.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
