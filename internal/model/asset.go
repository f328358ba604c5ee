package model

import (
	"io"
	"time"
)

// AssetObject is one stored photo as seen by the reconciler: the generated
// filename plus the storage timestamp the grace-period check runs against.
type AssetObject struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// AssetContent carries the bytes of one stored photo out of the asset store.
// Body must be closed by the caller.
type AssetContent struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}
