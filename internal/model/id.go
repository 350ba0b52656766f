package model

import (
	"strings"

	"github.com/google/uuid"
)

// Entity id prefixes. Generated ids keep the "cl"-style prefix convention of
// the original data set so existing identifiers remain distinguishable from
// human-chosen slugs (see tenant.ResolveIdentifier).
const (
	WorkspacePrefix  = "cl"
	UserPrefix       = "cu"
	OrderPrefix      = "co"
	ClientPrefix     = "cc"
	DefectCodePrefix = "cd"
)

// NewID returns a prefixed opaque identifier, e.g. "cl6f1a...". The result
// is always at least 20 characters long.
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.New().String(), "-", "")
}
