package models

// ChangeType тип изменения записи в хранилище
type ChangeType string

const (
	ChangeCreate ChangeType = "create"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// ChangeEvent представляет уведомление об успешной мутации хранилища
type ChangeEvent struct {
	ID        string     `json:"id"`
	Type      ChangeType `json:"change_type"`
	ProductID string     `json:"product_id"`
	Before    *Product   `json:"before,omitempty"`
	After     *Product   `json:"after,omitempty"`
	Revision  uint64     `json:"revision"`
	ChangedAt int64      `json:"changed_at"`
}
