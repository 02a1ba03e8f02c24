// Package session обрабатывает намерения пользователя и поддерживает состояние страницы каталога
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/internal/domain/store"
	"github.com/athebyme/catalog-manager/internal/domain/validator"
	"github.com/athebyme/catalog-manager/internal/domain/view"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoPendingDelete = errors.New("no pending delete for product")
	ErrUnknownIntent   = errors.New("unknown intent")
	ErrInvalidPageSize = errors.New("page size is not one of the allowed options")
	ErrFormNotOpen     = errors.New("no open form to submit")
	ErrFormMismatch    = errors.New("submission does not match the open form")
)

// FormState состояние модальной формы
type FormState struct {
	Open   bool                       `json:"open"`
	Mode   models.FormMode            `json:"mode,omitempty"`
	Fields models.FormFields          `json:"fields"`
	Errors validator.ValidationErrors `json:"errors,omitempty"`
}

// State снимок состояния страницы после обработки намерения
type State struct {
	View          view.Result `json:"view"`
	Form          FormState   `json:"form"`
	PendingDelete string      `json:"pending_delete,omitempty"`
	Revision      uint64      `json:"revision"`

	PageSizeOptions []int `json:"page_size_options,omitempty"`
}

// Options начальные параметры представления
type Options struct {
	PageSize int
	// PageSizeOptions допустимые размеры страницы; пустой список снимает ограничение
	PageSizeOptions []int
	SortField     models.SortField
	SortDirection models.SortDirection

	// OnValidationFailed вызывается, когда отправленная форма не прошла проверку
	OnValidationFailed func(errs validator.ValidationErrors)
}

// Session единая точка обработки намерений
// Dispatch сериализуется мьютексом: одновременно обрабатывается одно намерение
type Session struct {
	mu sync.Mutex

	store     *store.Store
	validator *validator.Validator
	sink      ChangeSink
	opts      Options

	params        models.ViewParams
	form          FormState
	pendingDelete string
	state         State
}

// New создает сессию и регистрирует ее единственным наблюдателем хранилища
func New(st *store.Store, v *validator.Validator, sink ChangeSink, opts Options) *Session {
	if v == nil {
		v = validator.New()
	}

	params := models.DefaultViewParams(opts.PageSize)
	if opts.SortField.Valid() {
		params.SortField = opts.SortField
	}
	if opts.SortDirection == models.SortDesc {
		params.SortDirection = models.SortDesc
	}

	s := &Session{
		store:     st,
		validator: v,
		sink:      sink,
		opts:      opts,
		params:    params,
	}
	st.SetObserver(s)
	s.recompute()

	return s
}

// StoreChanged реализует store.Observer
// Вызывается из Dispatch под удерживаемым мьютексом, поэтому сам его не берет
func (s *Session) StoreChanged(event models.ChangeEvent) {
	if s.sink != nil {
		s.sink.HandleChange(event)
	}
}

// State возвращает текущее состояние без изменений
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch обрабатывает одно намерение и возвращает пересчитанное состояние
// При ошибке состояние остается прежним и возвращается вместе с ошибкой
func (s *Session) Dispatch(intent Intent) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(intent)
	s.recompute()

	return s.state, err
}

func (s *Session) apply(intent Intent) error {
	switch in := intent.(type) {
	case SortBy:
		if s.params.SortField == in.Field && s.params.SortDirection == models.SortAsc {
			s.params.SortDirection = models.SortDesc
		} else {
			s.params.SortField = in.Field
			s.params.SortDirection = models.SortAsc
		}

	case SetSearchText:
		s.params.SearchText = in.Text
		s.params.Page = 0

	case SetCategory:
		s.params.Category = in.CatID
		s.params.Page = 0

	case ClearFilters:
		s.params.SearchText = ""
		s.params.Category = ""
		s.params.Page = 0

	case SetPage:
		s.params.Page = in.Page

	case SetPageSize:
		if !s.pageSizeAllowed(in.Size) {
			return fmt.Errorf("failed to set page size %d: %w", in.Size, ErrInvalidPageSize)
		}
		s.params.PageSize = in.Size
		s.params.Page = 0

	case RequestCreate:
		s.form = FormState{Open: true, Mode: models.FormCreate}

	case RequestEdit:
		product, ok := s.store.Get(in.ProductID)
		if !ok {
			return fmt.Errorf("failed to open edit form for %s: %w", in.ProductID, ErrProductNotFound)
		}
		s.form = FormState{Open: true, Mode: models.FormEdit, Fields: models.FieldsOf(product)}

	case SubmitForm:
		return s.submit(in)

	case CancelForm:
		s.form = FormState{}

	case RequestDelete:
		if _, ok := s.store.Get(in.ProductID); !ok {
			return fmt.Errorf("failed to request delete of %s: %w", in.ProductID, ErrProductNotFound)
		}
		s.pendingDelete = in.ProductID

	case ConfirmDelete:
		if s.pendingDelete == "" || s.pendingDelete != in.ProductID {
			return fmt.Errorf("failed to confirm delete of %s: %w", in.ProductID, ErrNoPendingDelete)
		}
		s.store.Delete(in.ProductID)
		s.pendingDelete = ""

	case CancelDelete:
		s.pendingDelete = ""

	default:
		return fmt.Errorf("failed to dispatch %T: %w", intent, ErrUnknownIntent)
	}

	return nil
}

// submit сохраняет открытую форму; запись для редактирования задает только форма
func (s *Session) submit(in SubmitForm) error {
	if !s.form.Open {
		return fmt.Errorf("failed to submit form: %w", ErrFormNotOpen)
	}

	mode := s.form.Mode
	if mode == "" {
		mode = models.FormCreate
	}
	if in.Mode != "" && in.Mode != mode {
		return fmt.Errorf("failed to submit %s form as %s: %w", mode, in.Mode, ErrFormMismatch)
	}

	fields := in.Fields
	if mode == models.FormEdit {
		editing := s.form.Fields.ProductID
		if fields.ProductID != "" && fields.ProductID != editing {
			return fmt.Errorf("failed to submit edit of %s with productId %s: %w", editing, fields.ProductID, ErrFormMismatch)
		}
		fields.ProductID = editing
	}

	product, errs := s.validator.Validate(fields, mode)
	if errs != nil {
		s.form = FormState{Open: true, Mode: mode, Fields: fields, Errors: errs}
		if s.opts.OnValidationFailed != nil {
			s.opts.OnValidationFailed(errs)
		}
		return nil
	}

	if mode == models.FormEdit {
		if !s.store.Update(product) {
			s.form = FormState{Open: true, Mode: mode, Fields: fields}
			return fmt.Errorf("failed to update %s: %w", product.ProductID, ErrProductNotFound)
		}
	} else {
		s.store.Create(product)
	}

	s.form = FormState{}
	return nil
}

func (s *Session) pageSizeAllowed(size int) bool {
	if len(s.opts.PageSizeOptions) == 0 {
		return true
	}
	for _, option := range s.opts.PageSizeOptions {
		if option == size {
			return true
		}
	}
	return false
}

func (s *Session) recompute() {
	snapshot, revision := s.store.Snapshot()
	s.state = State{
		View:            view.Derive(snapshot, s.params),
		Form:            s.form,
		PendingDelete:   s.pendingDelete,
		Revision:        revision,
		PageSizeOptions: s.opts.PageSizeOptions,
	}
}
