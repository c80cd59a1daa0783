package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	itemsTable      = "kv_items"
	itemKeyColumn   = "item_key"
	itemValueColumn = "item_value"
	updatedAtColumn = "updated_at"

	upsertItemSuffix = "ON CONFLICT(item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at"
)

func buildGetItemQuery(key string) (string, []any, error) {
	return sq.Select(itemValueColumn).
		From(itemsTable).
		Where(sq.Eq{itemKeyColumn: key}).
		Limit(1).
		ToSql()
}

func buildSetItemQuery(key, value string, at time.Time) (string, []any, error) {
	return sq.Insert(itemsTable).
		Columns(itemKeyColumn, itemValueColumn, updatedAtColumn).
		Values(key, value, at).
		Suffix(upsertItemSuffix).
		ToSql()
}

func buildRemoveItemQuery(key string) (string, []any, error) {
	return sq.Delete(itemsTable).
		Where(sq.Eq{itemKeyColumn: key}).
		ToSql()
}
