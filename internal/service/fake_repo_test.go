package service

import (
	"context"
	"emotioncolor/internal/entity"
	"emotioncolor/internal/model"
	"errors"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"
)

type colorKey struct {
	userID  uint
	emotion string
}

type endpointKey struct {
	endpoint string
	method   string
}

// fakeRepository is an in-memory model.Repository.
type fakeRepository struct {
	mu        sync.Mutex
	nextID    uint
	users     map[uint]*entity.DbUser
	roles     map[uint]string
	questions map[uint]*entity.DbSecurityQuestion
	colors    map[colorKey]string
	userUsage map[uint]int64
	endpoints map[endpointKey]int64

	// failWith makes every call return the error
	failWith error
	// roleErr makes only GetUserRole fail
	roleErr error
}

var _ model.Repository = (*fakeRepository)(nil)

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:     map[uint]*entity.DbUser{},
		roles:     map[uint]string{},
		questions: map[uint]*entity.DbSecurityQuestion{},
		colors:    map[colorKey]string{},
		userUsage: map[uint]int64{},
		endpoints: map[endpointKey]int64{},
	}
}

func (r *fakeRepository) findByEmail(email string) *entity.DbUser {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u
		}
	}
	return nil
}

func (r *fakeRepository) RegisterUser(_ context.Context, user *entity.DbUser, role string, question *entity.DbSecurityQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if r.findByEmail(user.Email) != nil {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	if role != "" {
		r.roles[user.ID] = role
	}
	if question != nil {
		question.UserID = user.ID
		q := *question
		r.questions[user.ID] = &q
	}
	return nil
}

func (r *fakeRepository) UpdateUser(_ context.Context, id uint, updates entity.UserUpdates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.PasswordHash != nil {
		u.PasswordHash = *updates.PasswordHash
	}
	return nil
}

func (r *fakeRepository) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	u := r.findByEmail(email)
	if u == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeRepository) GetUserByID(_ context.Context, id uint) (*entity.DbUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeRepository) ListUsers(_ context.Context, _ *entity.UserQuery) ([]entity.UserWithRole, *entity.Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, nil, r.failWith
	}
	users := make([]entity.UserWithRole, 0, len(r.users))
	for id, u := range r.users {
		users = append(users, entity.UserWithRole{ID: id, Email: u.Email, Role: r.roles[id]})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, &entity.Meta{Page: 1, PageSize: 20, Total: int64(len(users))}, nil
}

func (r *fakeRepository) CountUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), r.failWith
}

func (r *fakeRepository) GetUserRole(_ context.Context, userID uint) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return "", r.failWith
	}
	if r.roleErr != nil {
		return "", r.roleErr
	}
	role, ok := r.roles[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *fakeRepository) AssignUserRole(_ context.Context, userID uint, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.roles[userID] = role
	return nil
}

func (r *fakeRepository) GetSecurityQuestionByEmail(_ context.Context, email string) (*entity.DbSecurityQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	u := r.findByEmail(email)
	if u == nil {
		return nil, gorm.ErrRecordNotFound
	}
	q, ok := r.questions[u.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *q
	return &copied, nil
}

func (r *fakeRepository) ListColors(_ context.Context, userID uint) ([]entity.DbUserColor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	colors := make([]entity.DbUserColor, 0)
	for k, v := range r.colors {
		if k.userID == userID {
			colors = append(colors, entity.DbUserColor{UserID: userID, Emotion: k.emotion, Color: v})
		}
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i].Emotion < colors[j].Emotion })
	return colors, nil
}

func (r *fakeRepository) CreateColor(_ context.Context, color *entity.DbUserColor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	key := colorKey{color.UserID, color.Emotion}
	if _, ok := r.colors[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.colors[key] = color.Color
	return nil
}

func (r *fakeRepository) UpdateColor(_ context.Context, userID uint, emotion string, updates entity.ColorUpdates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	key := colorKey{userID, emotion}
	if _, ok := r.colors[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.Color != nil {
		r.colors[key] = *updates.Color
	}
	return nil
}

func (r *fakeRepository) DeleteColor(_ context.Context, userID uint, emotion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	key := colorKey{userID, emotion}
	if _, ok := r.colors[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.colors, key)
	return nil
}

func (r *fakeRepository) IncrementAPIUsage(_ context.Context, userID uint, endpoint, method string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if userID == 0 {
		return errors.New("invalid usage record")
	}
	r.userUsage[userID]++
	r.endpoints[endpointKey{endpoint, strings.ToUpper(method)}]++
	return nil
}

func (r *fakeRepository) ListUserUsage(_ context.Context) ([]entity.UserUsageItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	items := make([]entity.UserUsageItem, 0, len(r.users))
	for id, u := range r.users {
		items = append(items, entity.UserUsageItem{UserID: id, Email: u.Email, Role: r.roles[id], APICount: r.userUsage[id]})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].APICount != items[j].APICount {
			return items[i].APICount > items[j].APICount
		}
		return items[i].UserID < items[j].UserID
	})
	return items, nil
}

func (r *fakeRepository) ListEndpointUsage(_ context.Context) ([]entity.EndpointUsageItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	items := make([]entity.EndpointUsageItem, 0, len(r.endpoints))
	for k, v := range r.endpoints {
		items = append(items, entity.EndpointUsageItem{Endpoint: k.endpoint, Method: k.method, RequestCount: v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].RequestCount != items[j].RequestCount {
			return items[i].RequestCount > items[j].RequestCount
		}
		return items[i].Endpoint+items[i].Method < items[j].Endpoint+items[j].Method
	})
	return items, nil
}
