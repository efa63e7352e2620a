package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// QueryModels returns the models matching filter, ordered by name and
// capped at filter.MaxResults (defaultMaxResults when unset), each with
// its full parameter set loaded. Name and type comparisons are case-insensitive
// (COLLATE NOCASE, enforced by the schema); NamePattern is a SQL LIKE
// pattern ('%' / '_' wildcards).
func (s *Store) QueryModels(ctx context.Context, filter ModelFilter) ([]ModelResult, error) {
	q := sq.Select("id", "name", "type", "source_file", "line_number").
		From("models").
		PlaceholderFormat(sq.Question)

	if filter.Type != "" {
		q = q.Where(sq.Eq{"type": filter.Type})
	}
	if filter.NamePattern != "" {
		q = q.Where(sq.Like{"name": filter.NamePattern})
	}
	for _, rng := range filter.Ranges {
		q = q.Where(buildRangeExists(rng))
	}

	q = q.OrderBy("name").Limit(uint64(resolveMaxResults(filter.MaxResults)))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build model query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run model query: %w", err)
	}
	defer rows.Close()

	var results []ModelResult
	var ids []string
	for rows.Next() {
		var id string
		var m ModelResult
		if err := rows.Scan(&id, &m.Name, &m.Type, &m.SourceFile, &m.Line); err != nil {
			return nil, fmt.Errorf("failed to scan model row: %w", err)
		}
		ids = append(ids, id)
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating model rows: %w", err)
	}

	for i, id := range ids {
		params, err := s.loadParameters(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load parameters for %s: %w", results[i].Name, err)
		}
		results[i].Params = params
	}

	return results, nil
}

// buildRangeExists composes one EXISTS subquery per parameter range
// predicate, so an arbitrary number of predicates can be ANDed into a
// single model query rather than limiting a caller to one numeric
// constraint at a time.
func buildRangeExists(rng ParameterRangePredicate) sq.Sqlizer {
	sub := sq.Select("1").
		From("parameters p").
		Where("p.model_id = models.id").
		Where(sq.Eq{"p.name": rng.Name}).
		Where(sq.Eq{"p.parameter_type": "NUMERIC"})

	if rng.Min != nil {
		sub = sub.Where(sq.GtOrEq{"p.numeric_value": *rng.Min})
	}
	if rng.Max != nil {
		sub = sub.Where(sq.LtOrEq{"p.numeric_value": *rng.Max})
	}

	subSQL, subArgs, _ := sub.PlaceholderFormat(sq.Question).ToSql()
	return sq.Expr(fmt.Sprintf("EXISTS (%s)", subSQL), subArgs...)
}

// loadParameters fetches all parameter name/value pairs for a model,
// keyed by parameter name.
func (s *Store) loadParameters(ctx context.Context, modelID string) (ParameterResult, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM parameters WHERE model_id = ?", modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(ParameterResult)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		result[name] = value
	}
	return result, rows.Err()
}

// QuerySubcircuits returns the subcircuits matching filter's name
// pattern, case-insensitively, ordered by name and capped at
// filter.MaxResults (defaultMaxResults when unset).
func (s *Store) QuerySubcircuits(ctx context.Context, filter SubcircuitFilter) ([]SubcircuitResult, error) {
	q := sq.Select("name", "content", "source_file", "line_number").
		From("subcircuits").
		PlaceholderFormat(sq.Question)

	if filter.NamePattern != "" {
		q = q.Where(sq.Like{"name": filter.NamePattern})
	}
	q = q.OrderBy("name").Limit(uint64(resolveMaxResults(filter.MaxResults)))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build subcircuit query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run subcircuit query: %w", err)
	}
	defer rows.Close()

	var results []SubcircuitResult
	for rows.Next() {
		var r SubcircuitResult
		if err := rows.Scan(&r.Name, &r.Content, &r.SourceFile, &r.Line); err != nil {
			return nil, fmt.Errorf("failed to scan subcircuit row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcircuit rows: %w", err)
	}
	return results, nil
}

func resolveMaxResults(requested int) int {
	if requested <= 0 {
		return defaultMaxResults
	}
	return requested
}
