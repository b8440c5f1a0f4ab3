package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"teamhub/internal/model"
)

// MemberRepository описывает контракт Record API для стора участников.
type MemberRepository interface {
	ListPage(ctx context.Context, page int) (model.MemberPage, error)
	GetByID(ctx context.Context, id int) (model.Member, error)
	Create(ctx context.Context, in model.MemberInput) (model.CreatedMember, error)
	Update(ctx context.Context, id int, in model.MemberInput) (model.UpdatedMember, error)
	Delete(ctx context.Context, id int) error
}

// RecordState: снимок стора участников.
type RecordState struct {
	Members      []model.Member `json:"members"`
	Selected     *model.Member  `json:"selected"`
	CurrentPage  int            `json:"current_page"`
	TotalPages   int            `json:"total_pages"`
	TotalMembers int            `json:"total_members"`
	List         OpStatus       `json:"list"`
	Detail       OpStatus       `json:"detail"`
	Create       OpStatus       `json:"create"`
	Update       OpStatus       `json:"update"`
	Delete       OpStatus       `json:"delete"`
}

// RecordStore держит текущую страницу участников, выбранного участника
// и независимые флаги пяти операций над Record API.
//
// Создание и обновление не меняют загруженный список: после них нужно заново вызвать FetchList.
// Операции между собой не сериализуются, в общем поле списка побеждает последний применённый результат.
type RecordStore struct {
	mu   sync.Mutex
	repo MemberRepository
	log  *slog.Logger

	members      []model.Member
	selected     *model.Member
	currentPage  int
	totalPages   int
	totalMembers int
	epoch        uint64

	list   opSlot
	detail opSlot
	create opSlot
	update opSlot
	remove opSlot
}

// NewRecordStore создаёт пустой стор участников.
func NewRecordStore(repo MemberRepository, log *slog.Logger) *RecordStore {
	return &RecordStore{
		repo:        repo,
		log:         log,
		members:     []model.Member{},
		currentPage: 1,
		totalPages:  1,
		list:        opSlot{latestOnly: true},
		detail:      opSlot{latestOnly: true},
	}
}

// Snapshot возвращает копию текущего состояния.
func (s *RecordStore) Snapshot() RecordState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := RecordState{
		Members:      append([]model.Member(nil), s.members...),
		CurrentPage:  s.currentPage,
		TotalPages:   s.totalPages,
		TotalMembers: s.totalMembers,
		List:         s.list.OpStatus,
		Detail:       s.detail.OpStatus,
		Create:       s.create.OpStatus,
		Update:       s.update.OpStatus,
		Delete:       s.remove.OpStatus,
	}
	if st.Members == nil {
		st.Members = []model.Member{}
	}
	if s.selected != nil {
		m := *s.selected
		st.Selected = &m
	}
	return st
}

// FetchList загружает страницу page и заменяет ею список и пагинацию.
// При ошибке ранее загруженный список сохраняется.
func (s *RecordStore) FetchList(ctx context.Context, page int) (model.MemberPage, error) {
	if page < 1 {
		appErr := ErrValidation("page must be a positive number")
		s.mu.Lock()
		s.list.fail(appErr.Message)
		s.mu.Unlock()
		return model.MemberPage{}, appErr
	}

	s.mu.Lock()
	t := s.list.begin(s.epoch)
	s.mu.Unlock()

	res, err := s.repo.ListPage(ctx, page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.list.finish(ctx, t, s.epoch) {
		return model.MemberPage{}, ErrCancelled(ctx.Err())
	}
	if err != nil {
		appErr := recordError(err, "Failed to fetch members")
		s.log.Error("fetch members failed", slog.Int("page", page), slog.Any("err", err))
		s.list.Err = appErr.Message
		return model.MemberPage{}, appErr
	}

	// Страница за пределами выборки нарушила бы инвариант 1 <= page <= total_pages
	totalPages := max(res.TotalPages, 1)
	if res.Page < 1 || res.Page > totalPages {
		appErr := ErrNotFound(fmt.Sprintf("page %d is out of range", page))
		s.list.Err = appErr.Message
		return model.MemberPage{}, appErr
	}

	s.members = append([]model.Member(nil), res.Members...)
	s.currentPage = res.Page
	s.totalPages = totalPages
	s.totalMembers = res.Total
	res.TotalPages = totalPages
	return res, nil
}

// FetchDetail загружает участника по строковому ID. Нечисловой ID отклоняется до сетевого вызова.
func (s *RecordStore) FetchDetail(ctx context.Context, rawID string) (model.Member, error) {
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || id <= 0 {
		appErr := ErrValidation("Invalid member ID")
		s.mu.Lock()
		s.detail.fail(appErr.Message)
		s.mu.Unlock()
		return model.Member{}, appErr
	}

	s.mu.Lock()
	t := s.detail.begin(s.epoch)
	s.mu.Unlock()

	m, err := s.repo.GetByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.detail.finish(ctx, t, s.epoch) {
		return model.Member{}, ErrCancelled(ctx.Err())
	}
	if err != nil {
		appErr := recordError(err, "Failed to fetch member details")
		s.detail.Err = appErr.Message
		return model.Member{}, appErr
	}

	s.selected = &m
	return m, nil
}

// Create создаёт участника. Загруженный список не меняется.
func (s *RecordStore) Create(ctx context.Context, in model.MemberInput) (model.CreatedMember, error) {
	s.mu.Lock()
	t := s.create.begin(s.epoch)
	s.mu.Unlock()

	created, err := s.repo.Create(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.create.finish(ctx, t, s.epoch) {
		return model.CreatedMember{}, ErrCancelled(ctx.Err())
	}
	if err != nil {
		appErr := recordError(err, "Failed to create member")
		s.log.Error("create member failed", slog.Any("err", err))
		s.create.Err = appErr.Message
		return model.CreatedMember{}, appErr
	}
	return created, nil
}

// Update заменяет поля участника. Загруженный список не меняется.
func (s *RecordStore) Update(ctx context.Context, id int, in model.MemberInput) (model.UpdatedMember, error) {
	if id <= 0 {
		appErr := ErrValidation("Invalid member ID")
		s.mu.Lock()
		s.update.fail(appErr.Message)
		s.mu.Unlock()
		return model.UpdatedMember{}, appErr
	}

	s.mu.Lock()
	t := s.update.begin(s.epoch)
	s.mu.Unlock()

	updated, err := s.repo.Update(ctx, id, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.update.finish(ctx, t, s.epoch) {
		return model.UpdatedMember{}, ErrCancelled(ctx.Err())
	}
	if err != nil {
		appErr := recordError(err, "Failed to update member")
		s.log.Error("update member failed", slog.Int("id", id), slog.Any("err", err))
		s.update.Err = appErr.Message
		return model.UpdatedMember{}, appErr
	}
	return updated, nil
}

// Delete удаляет участника и убирает его из загруженного списка.
// Итоги пагинации не пересчитываются.
func (s *RecordStore) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		appErr := ErrValidation("Invalid member ID")
		s.mu.Lock()
		s.remove.fail(appErr.Message)
		s.mu.Unlock()
		return appErr
	}

	s.mu.Lock()
	t := s.remove.begin(s.epoch)
	s.mu.Unlock()

	err := s.repo.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.remove.finish(ctx, t, s.epoch) {
		return ErrCancelled(ctx.Err())
	}
	if err != nil {
		appErr := recordError(err, "Failed to delete member")
		s.log.Error("delete member failed", slog.Int("id", id), slog.Any("err", err))
		s.remove.Err = appErr.Message
		return appErr
	}

	kept := make([]model.Member, 0, len(s.members))
	for _, m := range s.members {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.members = kept
	return nil
}

// Search фильтрует загруженную страницу по имени и email без учёта регистра.
// Пустой запрос возвращает всю страницу.
func (s *RecordStore) Search(term string) []model.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterMembers(s.members, term)
}

// FilterMembers отбирает участников, у которых имя или email содержит term без учёта регистра.
func FilterMembers(members []model.Member, term string) []model.Member {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		if needle == "" ||
			strings.Contains(strings.ToLower(m.FullName()), needle) ||
			strings.Contains(strings.ToLower(m.Email), needle) {
			out = append(out, m)
		}
	}
	return out
}

// SetCurrentPage передвигает курсор страницы без сетевого вызова.
func (s *RecordStore) SetCurrentPage(page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 || page > s.totalPages {
		return ErrValidation(fmt.Sprintf("page must be between 1 and %d", s.totalPages))
	}
	s.currentPage = page
	return nil
}

// Abandon отбрасывает результаты всех незавершённых операций.
func (s *RecordStore) Abandon() {
	s.mu.Lock()
	s.epoch++
	s.mu.Unlock()
}
