package sqlite

import (
	"github.com/xraph/grove"
)

// kvModel is one row of orderflow_kv. Times are unix milliseconds so that
// expiry comparisons stay integer comparisons.
type kvModel struct {
	grove.BaseModel `grove:"table:orderflow_kv"`

	Key       string `grove:"key,pk"`
	Value     []byte `grove:"value,notnull"`
	ExpiresAt *int64 `grove:"expires_at"`
	UpdatedAt int64  `grove:"updated_at,notnull"`
}

func (m *kvModel) expired(nowMs int64) bool {
	return m.ExpiresAt != nil && nowMs >= *m.ExpiresAt
}
