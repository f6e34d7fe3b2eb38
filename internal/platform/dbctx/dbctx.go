package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/fotherbys-backend/internal/platform/ctxutil"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context { return Context{Ctx: ctx} }

// DB returns the transaction when one is open, otherwise root, bound to the request context.
func (c Context) DB(root *gorm.DB) *gorm.DB {
	t := c.Tx
	if t == nil {
		t = root
	}
	return t.WithContext(ctxutil.Default(c.Ctx))
}
