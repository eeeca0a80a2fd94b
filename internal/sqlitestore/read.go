package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/buildsignal/statusstore/internal/ident"
	"github.com/buildsignal/statusstore/internal/types"
)

// hookTypeSeparator is the separator GROUP_CONCAT uses by default when it
// joins a commit's hook types into one SQL-side string; splitHookTypes
// splits on it. Fixed as "," per spec.md §9: clients parse it, so it is a
// wire contract, not an implementation detail.
const hookTypeSeparator = ","

// aggregateQuery builds the SQL text shared by TotalAggregates and
// IntervalAggregates (spec.md §4.5). The range bounds appear as two `?`
// placeholders that the caller binds to from and to. interval is 0 for
// the total (ungrouped-by-time) case.
func aggregateQuery(table string, columns []types.Column, groupBy []string, interval int64) (string, error) {
	if len(columns) == 0 {
		return "", errEmptyColumns()
	}
	if err := ident.Validate(table); err != nil {
		return "", errInvalidIdentifier(err)
	}
	for _, c := range columns {
		if err := ident.Validate(c.Name); err != nil {
			return "", errInvalidIdentifier(err)
		}
	}
	if err := ident.ValidateAll(groupBy); err != nil {
		return "", errInvalidIdentifier(err)
	}

	projection := make([]string, 0, len(columns)+len(groupBy)+1)
	for _, c := range columns {
		switch c.AggFunc {
		case types.AggCount:
			projection = append(projection, fmt.Sprintf("COUNT(%s)", ident.Quote(c.Name)))
		default:
			projection = append(projection, fmt.Sprintf("AVG(%s)", ident.Quote(c.Name)))
		}
	}
	for _, g := range groupBy {
		projection = append(projection, ident.Quote(g))
	}
	if interval > 0 {
		projection = append(projection, fmt.Sprintf("(CAST(timestamp / %d AS INTEGER) * %d) AS interval", interval, interval))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE timestamp >= ? AND timestamp <= ?",
		strings.Join(projection, ", "), ident.Quote(table))

	groupTerms := make([]string, 0, len(groupBy)+1)
	for _, g := range groupBy {
		groupTerms = append(groupTerms, ident.Quote(g))
	}
	if interval > 0 {
		groupTerms = append(groupTerms, "interval")
	}
	if len(groupTerms) > 0 {
		query += " GROUP BY " + strings.Join(groupTerms, ", ")
	}
	if interval > 0 {
		query += " ORDER BY interval ASC"
	}
	return query, nil
}

func scanAggregateRows(rows *sql.Rows, numValues, numGroups int, hasInterval bool) ([]types.AggregateRow, error) {
	defer func() { _ = rows.Close() }()

	var out []types.AggregateRow
	for rows.Next() {
		groups := make([]string, numGroups)
		groupPtrs := make([]interface{}, numGroups)
		for i := range groups {
			groupPtrs[i] = &groups[i]
		}
		var interval int64
		dest := make([]interface{}, 0, numValues+numGroups+1)
		nullableValues := make([]sql.NullFloat64, numValues)
		for i := range nullableValues {
			dest = append(dest, &nullableValues[i])
		}
		for i := range groupPtrs {
			dest = append(dest, groupPtrs[i])
		}
		if hasInterval {
			dest = append(dest, &interval)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errStorage("scan aggregate row", err)
		}

		row := types.AggregateRow{
			Values: make([]*float64, numValues),
			Groups: groups,
		}
		for i, nv := range nullableValues {
			if nv.Valid {
				v := nv.Float64
				row.Values[i] = &v
			}
		}
		if hasInterval {
			row.IntervalStart = interval
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errStorage("iterate aggregate rows", err)
	}
	return out, nil
}

// isAllNullRow reports whether every aggregate value in row is null, the
// signature of the single spurious row SQLite returns for an ungrouped
// aggregate over an empty range.
func isAllNullRow(row types.AggregateRow) bool {
	for _, v := range row.Values {
		if v != nil {
			return false
		}
	}
	return true
}

// TotalAggregates runs the ungrouped-by-time aggregate query (spec.md
// §4.5). An ungrouped, all-null result row is suppressed to zero rows.
func (p *Pool) TotalAggregates(ctx context.Context, repositoryID, table string, columns []types.Column, from, to int64, groupBy []string) ([]types.AggregateRow, error) {
	if to-from <= 0 {
		return nil, errInvalidTimeRange(from, to)
	}
	query, err := aggregateQuery(table, columns, groupBy, 0)
	if err != nil {
		return nil, err
	}
	db, err := p.readDB(repositoryID)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, errStorage("query total aggregates", err)
	}
	result, err := scanAggregateRows(rows, len(columns), len(groupBy), false)
	if err != nil {
		return nil, err
	}
	if len(groupBy) == 0 && len(result) == 1 && isAllNullRow(result[0]) {
		return []types.AggregateRow{}, nil
	}
	return result, nil
}

// IntervalAggregates runs the bucketed aggregate query (spec.md §4.5),
// ordering rows by bucket start ascending.
func (p *Pool) IntervalAggregates(ctx context.Context, repositoryID, table string, columns []types.Column, from, to int64, groupBy []string, intervalType types.IntervalType) ([]types.AggregateRow, error) {
	timeRange := to - from
	if timeRange <= 0 {
		return nil, errInvalidTimeRange(from, to)
	}
	interval := timeRange / intervalType.Buckets()
	if interval <= 0 {
		interval = 1
	}
	query, err := aggregateQuery(table, columns, groupBy, interval)
	if err != nil {
		return nil, err
	}
	db, err := p.readDB(repositoryID)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, errStorage("query interval aggregates", err)
	}
	return scanAggregateRows(rows, len(columns), len(groupBy), true)
}

// lastImportTimestamp returns the maximum timestamp recorded in the imports
// table, or (0, false) if no import has ever completed.
func lastImportTimestamp(ctx context.Context, db *sql.DB) (int64, bool, error) {
	var ts sql.NullInt64
	err := db.QueryRowContext(ctx, `SELECT MAX(timestamp) FROM imports`).Scan(&ts)
	if err != nil {
		return 0, false, errStorage("query last import", err)
	}
	if !ts.Valid {
		return 0, false, nil
	}
	return ts.Int64, true, nil
}

// GetHookedCommitsSinceLastImport returns distinct commits touched by hooks
// in (last_import, until] (spec.md §4.7/§9 open question (a): until is
// inclusive, the import watermark is exclusive). A repository with no
// import marker yet returns NotInitialized, which the RPC layer maps to
// FailedPrecondition to signal "bootstrap import needed".
func (p *Pool) GetHookedCommitsSinceLastImport(ctx context.Context, repositoryID string, until int64) ([]types.HookedCommit, error) {
	db, err := p.readDB(repositoryID)
	if err != nil {
		return nil, err
	}
	lastImport, ok, err := lastImportTimestamp(ctx, db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotInitialized(repositoryID)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT "commit", GROUP_CONCAT(DISTINCT type) AS types
		FROM hooks
		WHERE timestamp > ? AND timestamp <= ?
		GROUP BY "commit"
	`, lastImport, until)
	if err != nil {
		return nil, errStorage("query hooked commits", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.HookedCommit
	for rows.Next() {
		var commit, rawTypes string
		if err := rows.Scan(&commit, &rawTypes); err != nil {
			return nil, errStorage("scan hooked commit", err)
		}
		out = append(out, types.HookedCommit{
			Commit: commit,
			Types:  splitHookTypes(rawTypes),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errStorage("iterate hooked commits", err)
	}
	return out, nil
}

func splitHookTypes(raw string) []types.Source {
	parts := strings.Split(raw, hookTypeSeparator)
	out := make([]types.Source, 0, len(parts))
	for _, p := range parts {
		var n int32
		if _, err := fmt.Sscanf(p, "%d", &n); err == nil {
			out = append(out, types.Source(n))
		}
	}
	return out
}
