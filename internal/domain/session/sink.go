package session

import "github.com/athebyme/catalog-manager/internal/domain/models"

// ChangeSink получает уведомления об изменениях хранилища
// Вызывается синхронно внутри Dispatch; реализации не должны вызывать Dispatch
type ChangeSink interface {
	HandleChange(event models.ChangeEvent)
}

// ChangeSinkFunc адаптер функции к ChangeSink
type ChangeSinkFunc func(event models.ChangeEvent)

// HandleChange реализация ChangeSink
func (f ChangeSinkFunc) HandleChange(event models.ChangeEvent) {
	f(event)
}

// ChangeSinks цепочка приемников, вызываемых по порядку
type ChangeSinks []ChangeSink

// HandleChange реализация ChangeSink
func (c ChangeSinks) HandleChange(event models.ChangeEvent) {
	for _, sink := range c {
		if sink != nil {
			sink.HandleChange(event)
		}
	}
}
