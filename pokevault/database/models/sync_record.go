package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// SyncRecord is one row of the durable-write log. The drain worker appends a
// record after every successful upsert so a desynced client can be reconciled
// against what actually reached storage.
type SyncRecord struct {
	bun.BaseModel `bun:"table:sync_log,alias:sl"`

	ID        int64           `bun:"id,pk,autoincrement"`
	Key       string          `bun:"key,notnull"`
	Operation string          `bun:"operation,notnull"`
	Payload   json.RawMessage `bun:"payload,type:jsonb"`
	Attempts  int             `bun:"attempts,notnull,default:0"`
	FlushedAt time.Time       `bun:"flushed_at,notnull"`
}
