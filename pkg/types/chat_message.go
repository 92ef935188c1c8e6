package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type MessageUserRole string

const (
	USER_ROLE_USER      MessageUserRole = "user"
	USER_ROLE_ASSISTANT MessageUserRole = "assistant"
)

// ChatMessage is one immutable turn in a session ledger. Ledger order is
// the database-assigned Seq; appends are plain inserts, never rewrites.
type ChatMessage struct {
	ID        string          `json:"id" db:"id"`
	SessionID string          `json:"session_id" db:"session_id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Role      MessageUserRole `json:"role" db:"role"`
	Content   string          `json:"content" db:"content"`
	SQLQuery  string          `json:"sql_query,omitempty" db:"sql_query"`
	Result    QueryResult     `json:"result,omitempty" db:"query_result"`
	SendTime  int64           `json:"send_time" db:"send_time"`
	Seq       int64           `json:"seq" db:"seq"`
}

// QueryResult holds the normalized tabular result as raw JSON. It is either
// an array of row-objects or an array of row-arrays; renderers tell the two
// apart by checking whether the first row is itself an array.
type QueryResult json.RawMessage

func (r QueryResult) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *QueryResult) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

func (r QueryResult) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return []byte(r), nil
}

func (r *QueryResult) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		*r = append((*r)[0:0], src...)
		return nil
	case string:
		*r = QueryResult(src)
		return nil
	case nil:
		*r = nil
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to QueryResult", src)
}
