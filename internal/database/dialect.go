package database

import (
	"strings"
)

// Dialect はドライバーごとのSQLの差異を吸収します。
// クエリは PostgreSQL 形式のプレースホルダー ($1, $2, ...) で記述します。
type Dialect struct {
	Name string

	positional bool // true の場合 $n を ? に置き換える
	schema     string
}

var (
	Postgres = Dialect{Name: "postgres", schema: postgresSchema}
	SQLite   = Dialect{Name: "sqlite", positional: true, schema: sqliteSchema}
)

// Rebind は $n 形式のプレースホルダーをドライバーが受け付ける形式に変換します。
// 各プレースホルダーはクエリ中に番号順に1回ずつ現れる前提です。
func (d Dialect) Rebind(query string) string {
	if !d.positional || !strings.Contains(query, "$") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		ch := query[i]
		if ch == '$' && i+1 < len(query) && isDigit(query[i+1]) {
			b.WriteByte('?')
			for i+1 < len(query) && isDigit(query[i+1]) {
				i++
			}
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
