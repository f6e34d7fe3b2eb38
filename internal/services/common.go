package services

import (
	"context"
	"time"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/modules/access"
	"github.com/yungbote/fotherbys-backend/internal/platform/ctxutil"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

// Clock supplies "now"; tests pin it.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().UTC() }

func (c Clock) now() time.Time {
	if c == nil {
		return SystemClock()
	}
	return c().UTC()
}

func (c Clock) today() time.Time { return types.CalendarDay(c.now()) }

func actorFrom(ctx context.Context) access.Actor {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return access.Actor{}
	}
	return access.Actor{ClientID: rd.ClientID, IsStaff: rd.IsStaff}
}

// LotEventPublisher fans lifecycle events out to other processes.
type LotEventPublisher interface {
	Publish(ctx context.Context, evt types.LotEvent) error
}

type noopLotEventPublisher struct{}

func NewNoopLotEventPublisher() LotEventPublisher { return noopLotEventPublisher{} }

func (noopLotEventPublisher) Publish(context.Context, types.LotEvent) error { return nil }

func publishLotEvent(ctx context.Context, pub LotEventPublisher, log *logger.Logger, evt types.LotEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(context.WithoutCancel(ctx), evt); err != nil {
		log.Warn("Failed to publish lot event (ignored)", "event", evt.Type, "lot_id", evt.LotID, "error", err)
	}
}
