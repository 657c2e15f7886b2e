package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/clipperhub/barbershop-platform/internal/logger"
)

type Event struct {
	BarbershopID uint
	ActionType   string
	Description  string
	Amount       *float64
	Metadata     any
}

// Dispatcher records business events off the request path. Lifecycle
// operations never go through here: their activity rows must commit with the
// state change, so they are written inside the same transaction instead.
type Dispatcher struct {
	recorder *Recorder
	queue    chan Event
}

func NewDispatcher(recorder *Recorder) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		queue:    make(chan Event, 100),
	}
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.recorder.Record(
			context.Background(),
			ev.BarbershopID,
			ev.ActionType,
			ev.Description,
			ev.Amount,
			ev.Metadata,
		); err != nil {
			logger.Error("activity record failed",
				zap.Uint("barbershop_id", ev.BarbershopID),
				zap.String("action_type", ev.ActionType),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks the caller; a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		logger.Warn("activity queue full, dropping event",
			zap.String("action_type", ev.ActionType))
	}
}
