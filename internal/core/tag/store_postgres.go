// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tagraph/internal/platform/database/schema"
	"github.com/taibuivan/tagraph/internal/platform/dberr"
	"github.com/taibuivan/tagraph/internal/platform/postgres"
	"github.com/taibuivan/tagraph/internal/search"
	"github.com/taibuivan/tagraph/pkg/slice"
)

// RelinkerFactory binds the tagging store to a transaction.
type RelinkerFactory func(q postgres.Querier) ImageRelinker

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db       *pgxpool.Pool
	relinker RelinkerFactory
}

// NewPostgresRepository creates a repository. relinker builds the tagging
// side of every transaction opened through InTx.
func NewPostgresRepository(db *pgxpool.Pool, relinker RelinkerFactory) *PostgresRepository {
	return &PostgresRepository{db: db, relinker: relinker}
}

// # Column Helpers

// tagColumns renders the column list scanned by [scanTag], qualified by alias.
func tagColumns(alias string) string {
	columns := schema.CoreTag.Columns()
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}

// scanTag reads one row selected with [tagColumns], plus any extra targets
// selected before the tag columns.
func scanTag(row pgx.Row, extra ...any) (*Tag, error) {
	tag := &Tag{}
	targets := append(extra,
		&tag.ID, &tag.Name, &tag.Slug, &tag.Namespace, &tag.NameInNamespace, &tag.Category,
		&tag.Description, &tag.ImagesCount, &tag.AliasedTagID, &tag.CreatedAt, &tag.UpdatedAt,
	)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return tag, nil
}

func collectTags(rows pgx.Rows) ([]*Tag, error) {
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Tag")
		}
		tags = append(tags, tag)
	}

	return tags, dberr.Wrap(rows.Err(), "Tag")
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "Tag")
		}
		ids = append(ids, id)
	}

	return ids, dberr.Wrap(rows.Err(), "Tag")
}

func tagIDs(tags []*Tag) []int64 {
	return slice.Map(tags, func(t *Tag) int64 { return t.ID })
}

// # Preloading

// loadByIDs fetches tags without relations.
func loadByIDs(context context.Context, q postgres.Querier, ids []int64) ([]*Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s t WHERE t.%s = ANY($1)`,
		tagColumns("t"), schema.CoreTag.Table, schema.CoreTag.ID)

	rows, err := q.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return collectTags(rows)
}

// loadEdges runs a query selecting (owner id, tag columns) for owners in ids
// and groups the tags by owner.
func loadEdges(context context.Context, q postgres.Querier, query string, ids []int64) (map[int64][]*Tag, error) {
	edges := make(map[int64][]*Tag, len(ids))
	if len(ids) == 0 {
		return edges, nil
	}

	rows, err := q.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	defer rows.Close()

	for rows.Next() {
		var owner int64
		tag, err := scanTag(rows, &owner)
		if err != nil {
			return nil, dberr.Wrap(err, "Tag")
		}
		edges[owner] = append(edges[owner], tag)
	}

	return edges, dberr.Wrap(rows.Err(), "Tag")
}

var (
	impliedQuery = fmt.Sprintf(`
		SELECT ti.%s, %s
		FROM %s ti
		JOIN %s t ON t.%s = ti.%s
		WHERE ti.%s = ANY($1)
		ORDER BY t.%s`,
		schema.TagImplication.TagID, tagColumns("t"),
		schema.TagImplication.Table,
		schema.CoreTag.Table, schema.CoreTag.ID, schema.TagImplication.ImpliedTagID,
		schema.TagImplication.TagID,
		schema.CoreTag.Name,
	)

	impliedByQuery = fmt.Sprintf(`
		SELECT ti.%s, %s
		FROM %s ti
		JOIN %s t ON t.%s = ti.%s
		WHERE ti.%s = ANY($1)
		ORDER BY t.%s`,
		schema.TagImplication.ImpliedTagID, tagColumns("t"),
		schema.TagImplication.Table,
		schema.CoreTag.Table, schema.CoreTag.ID, schema.TagImplication.TagID,
		schema.TagImplication.ImpliedTagID,
		schema.CoreTag.Name,
	)

	aliasesQuery = fmt.Sprintf(`
		SELECT t.%s, %s
		FROM %s t
		WHERE t.%s = ANY($1)
		ORDER BY t.%s`,
		schema.CoreTag.AliasedTagID, tagColumns("t"),
		schema.CoreTag.Table,
		schema.CoreTag.AliasedTagID,
		schema.CoreTag.Name,
	)
)

// preloadResolution attaches alias targets and implied tags, including the
// implied tags of alias targets, since semantics follow the target.
func preloadResolution(context context.Context, q postgres.Querier, tags []*Tag) error {
	var targetIDs []int64
	for _, tag := range tags {
		if tag.AliasedTagID != nil {
			targetIDs = append(targetIDs, *tag.AliasedTagID)
		}
	}

	targets, err := loadByIDs(context, q, slice.Unique(targetIDs))
	if err != nil {
		return err
	}

	targetByID := make(map[int64]*Tag, len(targets))
	for _, target := range targets {
		targetByID[target.ID] = target
	}

	all := slices.Concat(tags, targets)
	implied, err := loadEdges(context, q, impliedQuery, tagIDs(all))
	if err != nil {
		return err
	}

	for _, tag := range all {
		tag.ImpliedTags = implied[tag.ID]
	}
	for _, tag := range tags {
		if tag.AliasedTagID != nil {
			tag.AliasedTag = targetByID[*tag.AliasedTagID]
		}
	}

	return nil
}

// preloadFull attaches every relation shown on a tag page or search document.
func preloadFull(context context.Context, q postgres.Querier, tags []*Tag) error {
	if err := preloadResolution(context, q, tags); err != nil {
		return err
	}

	ids := tagIDs(tags)

	impliedBy, err := loadEdges(context, q, impliedByQuery, ids)
	if err != nil {
		return err
	}

	aliases, err := loadEdges(context, q, aliasesQuery, ids)
	if err != nil {
		return err
	}

	for _, tag := range tags {
		tag.ImpliedByTags = impliedBy[tag.ID]
		tag.Aliases = aliases[tag.ID]
	}

	return nil
}

// # Reads

// FindByNames loads tags by normalized name with resolution relations.
func (repository *PostgresRepository) FindByNames(context context.Context, names []string) ([]*Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s t WHERE t.%s = ANY($1)`,
		tagColumns("t"), schema.CoreTag.Table, schema.CoreTag.Name)

	rows, err := repository.db.Query(context, query, names)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}

	tags, err := collectTags(rows)
	if err != nil {
		return nil, err
	}

	if err := preloadResolution(context, repository.db, tags); err != nil {
		return nil, err
	}

	return tags, nil
}

// GetByID returns one tag with every relation.
func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Tag, error) {
	return repository.getOne(context, schema.CoreTag.ID, id)
}

// GetBySlug returns one tag with every relation.
func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Tag, error) {
	return repository.getOne(context, schema.CoreTag.Slug, slug)
}

func (repository *PostgresRepository) getOne(context context.Context, column string, value any) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s t WHERE t.%s = $1`,
		tagColumns("t"), schema.CoreTag.Table, column)

	tag, err := scanTag(repository.db.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}

	if err := preloadFull(context, repository.db, []*Tag{tag}); err != nil {
		return nil, err
	}

	return tag, nil
}

/*
List returns a page of tags ordered by popularity, then name.

Description: Filters are appended to the WHERE clause dynamically and the total
is computed with a window function so a single round-trip serves both the page
and the pagination metadata.

Returns:
  - []*Tag: The page, without relations
  - int: Total number of tags matching the filter
  - error: Wrapped database errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Tag, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT COUNT(*) OVER() AS total_count, %s FROM %s t WHERE TRUE`,
		tagColumns("t"), schema.CoreTag.Table))

	if filter.Namespace != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTag.Namespace, argID))
		args = append(args, filter.Namespace)
		argID++
	}

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTag.Category, argID))
		args = append(args, filter.Category)
		argID++
	}

	if filter.NamePrefix != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s LIKE $%d || '%%'", schema.CoreTag.Name, argID))
		args = append(args, escapeLike(filter.NamePrefix))
		argID++
	}

	if filter.OnlyAliases {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s IS NOT NULL", schema.CoreTag.AliasedTagID))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s DESC, t.%s ASC LIMIT $%d OFFSET $%d",
		schema.CoreTag.ImagesCount, schema.CoreTag.Name, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Tag")
	}
	defer rows.Close()

	total := 0
	tags := make([]*Tag, 0, limit)
	for rows.Next() {
		tag, err := scanTag(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Tag")
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Tag")
	}

	return tags, total, nil
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

// # Writes

// Create inserts a tag and fills its id and timestamps.
func (repository *PostgresRepository) Create(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s`,
		schema.CoreTag.Table,
		schema.CoreTag.Name, schema.CoreTag.Slug, schema.CoreTag.Namespace,
		schema.CoreTag.NameInNamespace, schema.CoreTag.Category, schema.CoreTag.Description,
		schema.CoreTag.ID, schema.CoreTag.CreatedAt, schema.CoreTag.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		tag.Name, tag.Slug, tag.Namespace, tag.NameInNamespace, tag.Category, tag.Description,
	).Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Tag")
	}

	return nil
}

// UpdateAttributes patches free-form attributes. Nil leaves a field unchanged.
func (repository *PostgresRepository) UpdateAttributes(context context.Context, id int64, description, category *string) (*Tag, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s), %s = COALESCE($3, %s), %s = NOW()
		WHERE %s = $1`,
		schema.CoreTag.Table,
		schema.CoreTag.Description, schema.CoreTag.Description,
		schema.CoreTag.Category, schema.CoreTag.Category,
		schema.CoreTag.UpdatedAt,
		schema.CoreTag.ID,
	)

	result, err := repository.db.Exec(context, query, id, description, category)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	if result.RowsAffected() == 0 {
		return nil, dberr.Wrap(pgx.ErrNoRows, "Tag")
	}

	return repository.GetByID(context, id)
}

// # Search Documents

// LoadDocuments reads tag documents for the reindex workers. Missing ids are
// omitted so the worker deletes their documents.
func (repository *PostgresRepository) LoadDocuments(context context.Context, ids []int64) ([]*search.Document, error) {
	tags, err := loadByIDs(context, repository.db, ids)
	if err != nil {
		return nil, err
	}

	if err := preloadFull(context, repository.db, tags); err != nil {
		return nil, err
	}

	return slice.Map(tags, Document), nil
}

// # Transactions

// InTx runs fn in a SERIALIZABLE transaction.
func (repository *PostgresRepository) InTx(context context.Context, fn func(tx Tx) error) error {
	return postgres.InTx(context, repository.db, postgres.SerializableTx, func(transaction pgx.Tx) error {
		return fn(&postgresTx{tx: transaction, images: repository.relinker(transaction)})
	})
}

// postgresTx implements [Tx] over one pgx transaction.
type postgresTx struct {
	tx     pgx.Tx
	images ImageRelinker
}

func (transaction *postgresTx) Images() ImageRelinker {
	return transaction.images
}

func (transaction *postgresTx) GetForUpdate(context context.Context, id int64) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s t WHERE t.%s = $1 FOR UPDATE`,
		tagColumns("t"), schema.CoreTag.Table, schema.CoreTag.ID)

	tag, err := scanTag(transaction.tx.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}

	if tag.AliasedTagID != nil {
		targets, err := loadByIDs(context, transaction.tx, []int64{*tag.AliasedTagID})
		if err != nil {
			return nil, err
		}
		if len(targets) == 1 {
			tag.AliasedTag = targets[0]
		}
	}

	return tag, nil
}

func (transaction *postgresTx) FindByName(context context.Context, name string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s t WHERE t.%s = $1`,
		tagColumns("t"), schema.CoreTag.Table, schema.CoreTag.Name)

	tag, err := scanTag(transaction.tx.QueryRow(context, query, name))
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}

	return tag, nil
}

func (transaction *postgresTx) FindByNames(context context.Context, names []string) ([]*Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s t WHERE t.%s = ANY($1)`,
		tagColumns("t"), schema.CoreTag.Table, schema.CoreTag.Name)

	rows, err := transaction.tx.Query(context, query, names)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return collectTags(rows)
}

// tagSetColumn is one array column holding tag ids.
type tagSetColumn struct {
	table     string
	idColumn  string
	column    string
	updatedAt string
}

var tagSetColumns = []tagSetColumn{
	{schema.UserFilter.Table, schema.UserFilter.ID, schema.UserFilter.HiddenTagIDs, schema.UserFilter.UpdatedAt},
	{schema.UserFilter.Table, schema.UserFilter.ID, schema.UserFilter.SpoileredTagIDs, schema.UserFilter.UpdatedAt},
	{schema.UserAccount.Table, schema.UserAccount.ID, schema.UserAccount.WatchedTagIDs, schema.UserAccount.UpdatedAt},
}

/*
RewriteTagSets rewrites every tag id array that holds source.

Description: Matching rows are locked and read, rewritten in Go through
[RewriteTagSet] so ordering rules live in one place, then written back in a
single pgx batch per column.
*/
func (transaction *postgresTx) RewriteTagSets(context context.Context, source, target int64) error {
	for _, set := range tagSetColumns {
		selectQuery := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s @> ARRAY[$1]::BIGINT[] FOR UPDATE`,
			set.idColumn, set.column, set.table, set.column)

		rows, err := transaction.tx.Query(context, selectQuery, source)
		if err != nil {
			return dberr.Wrap(err, "Tag set")
		}

		updates := make(map[int64][]int64)
		for rows.Next() {
			var id int64
			var ids []int64
			if err := rows.Scan(&id, &ids); err != nil {
				rows.Close()
				return dberr.Wrap(err, "Tag set")
			}
			updates[id] = RewriteTagSet(ids, source, target)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return dberr.Wrap(err, "Tag set")
		}

		if len(updates) == 0 {
			continue
		}

		updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
			set.table, set.column, set.updatedAt, set.idColumn)

		batch := &pgx.Batch{}
		for id, ids := range updates {
			batch.Queue(updateQuery, id, ids)
		}

		if err := transaction.tx.SendBatch(context, batch).Close(); err != nil {
			return dberr.Wrap(fmt.Errorf("postgres: failed to rewrite %s.%s: %w", set.table, set.column, err), "Tag set")
		}
	}

	return nil
}

func (transaction *postgresTx) RepointReferences(context context.Context, source, target int64) error {
	for _, ref := range []struct{ table, column, updatedAt string }{
		{schema.UserLink.Table, schema.UserLink.TagID, schema.UserLink.UpdatedAt},
		{schema.DnpEntry.Table, schema.DnpEntry.TagID, schema.DnpEntry.UpdatedAt},
	} {
		query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
			ref.table, ref.column, ref.updatedAt, ref.column)

		if _, err := transaction.tx.Exec(context, query, source, target); err != nil {
			return dberr.Wrap(err, "Tag reference")
		}
	}

	return nil
}

func (transaction *postgresTx) FlattenAliases(context context.Context, source, target int64) ([]int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.CoreTag.Table, schema.CoreTag.AliasedTagID, schema.CoreTag.UpdatedAt,
		schema.CoreTag.AliasedTagID, schema.CoreTag.ID)

	rows, err := transaction.tx.Query(context, query, source, target)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return collectIDs(rows)
}

func (transaction *postgresTx) MoveImpliedBy(context context.Context, source, target int64) ([]int64, error) {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`,
		schema.TagImplication.Table, schema.TagImplication.ImpliedTagID, schema.TagImplication.TagID)

	rows, err := transaction.tx.Query(context, deleteQuery, source)
	if err != nil {
		return nil, dberr.Wrap(err, "Implication")
	}

	implying, err := collectIDs(rows)
	if err != nil || len(implying) == 0 {
		return implying, err
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT x, $2 FROM unnest($1::BIGINT[]) AS x
		WHERE x <> $2
		ON CONFLICT DO NOTHING`,
		schema.TagImplication.Table, schema.TagImplication.TagID, schema.TagImplication.ImpliedTagID)

	if _, err := transaction.tx.Exec(context, insertQuery, implying, target); err != nil {
		return nil, dberr.Wrap(err, "Implication")
	}

	return implying, nil
}

func (transaction *postgresTx) AliasIDs(context context.Context, id int64) ([]int64, error) {
	return transaction.ids(context, fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		schema.CoreTag.ID, schema.CoreTag.Table, schema.CoreTag.AliasedTagID, schema.CoreTag.ID), id)
}

func (transaction *postgresTx) ImpliedIDs(context context.Context, id int64) ([]int64, error) {
	return transaction.ids(context, fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		schema.TagImplication.ImpliedTagID, schema.TagImplication.Table,
		schema.TagImplication.TagID, schema.TagImplication.ImpliedTagID), id)
}

func (transaction *postgresTx) ImpliedByIDs(context context.Context, id int64) ([]int64, error) {
	return transaction.ids(context, fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		schema.TagImplication.TagID, schema.TagImplication.Table,
		schema.TagImplication.ImpliedTagID, schema.TagImplication.TagID), id)
}

func (transaction *postgresTx) ids(context context.Context, query string, args ...any) ([]int64, error) {
	rows, err := transaction.tx.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return collectIDs(rows)
}

// ReplaceImplications clears the edges of id and batch inserts the new set.
func (transaction *postgresTx) ReplaceImplications(context context.Context, id int64, implied []int64) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.TagImplication.Table, schema.TagImplication.TagID)

	if _, err := transaction.tx.Exec(context, deleteQuery, id); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to clear implications: %w", err), "Implication")
	}

	if len(implied) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.TagImplication.Table, schema.TagImplication.TagID, schema.TagImplication.ImpliedTagID)

	batch := &pgx.Batch{}
	for _, impliedID := range implied {
		batch.Queue(insertQuery, id, impliedID)
	}

	if err := transaction.tx.SendBatch(context, batch).Close(); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to batch insert implications: %w", err), "Implication")
	}

	return nil
}

func (transaction *postgresTx) SetImagesCount(context context.Context, id int64, count int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.CoreTag.Table, schema.CoreTag.ImagesCount, schema.CoreTag.UpdatedAt, schema.CoreTag.ID)

	if _, err := transaction.tx.Exec(context, query, id, count); err != nil {
		return dberr.Wrap(err, "Tag")
	}
	return nil
}

func (transaction *postgresTx) Retire(context context.Context, source, target int64) error {
	retireQuery := fmt.Sprintf(`UPDATE %s SET %s = 0, %s = $2, %s = NOW() WHERE %s = $1`,
		schema.CoreTag.Table, schema.CoreTag.ImagesCount, schema.CoreTag.AliasedTagID,
		schema.CoreTag.UpdatedAt, schema.CoreTag.ID)

	if _, err := transaction.tx.Exec(context, retireQuery, source, target); err != nil {
		return dberr.Wrap(err, "Tag")
	}

	return transaction.ReplaceImplications(context, source, nil)
}

func (transaction *postgresTx) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTag.Table, schema.CoreTag.ID)

	result, err := transaction.tx.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Tag")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Tag")
	}

	return nil
}
