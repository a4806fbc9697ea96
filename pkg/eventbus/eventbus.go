package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Wildcard: имя подписки, которая получает все события.
const Wildcard = "*"

const listenerTimeout = time.Minute

// Event представляет собой любое событие в системе.
type Event interface {
	Name() string
}

// Listener: обработчик событий.
type Listener func(ctx context.Context, event Event) error

// Publisher: то, что нужно сервисам от шины.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	inflight  sync.WaitGroup
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

// Subscribe подписывает слушателя на событие (или на Wildcard).
func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish вызывает подписчиков в отдельных горутинах и не ждёт их.
// Ошибки слушателей только логируются.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	eventName := event.Name()
	targets := make([]Listener, 0, len(b.listeners[eventName])+len(b.listeners[Wildcard]))
	targets = append(targets, b.listeners[eventName]...)
	targets = append(targets, b.listeners[Wildcard]...)
	b.mu.RUnlock()

	for _, listener := range targets {
		b.inflight.Add(1)
		go func(l Listener) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("Паника в обработчике события", zap.String("event", eventName), zap.Any("panic", r))
				}
			}()

			// Контекст запроса уже может быть отменён, поэтому берём новый.
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), listenerTimeout)
			defer cancel()

			if err := l(ctxWithTimeout, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait ждёт завершения уже запущенных обработчиков, но не дольше ctx.
func (b *Bus) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
