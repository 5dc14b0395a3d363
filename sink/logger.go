package sink

import (
	"go.uber.org/zap"

	"github.com/nutsalhan87/zond"
)

// Logger writes a summary line for every delivered batch, which keeps
// flush behavior visible without persisting anything.
type Logger struct {
	log *zap.Logger
}

// NewLogger returns a Logger writing through log. A nil log falls back
// to zap.NewNop.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

func (l *Logger) Consume(id uint64, batch []zond.Event) {
	kinds := make([]string, len(batch))
	for i, ev := range batch {
		kinds[i] = ev.Op.Kind()
	}
	l.log.Info("batch flushed",
		zap.Uint64("instance", id),
		zap.Int("events", len(batch)),
		zap.Strings("ops", kinds),
	)
}

var _ zond.Consumer = (*Logger)(nil)
