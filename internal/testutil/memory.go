// Package testutil テスト用のインメモリリポジトリ。
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SketchShifter/comment_widget_backend/internal/models"
	"github.com/SketchShifter/comment_widget_backend/internal/repository"
	"github.com/SketchShifter/comment_widget_backend/internal/schema"
)

// MemoryStore comments / likes を保持するテスト用ストア。
// SchemaReady が false の間はすべての操作が schema.ErrMissingRelation を返す
type MemoryStore struct {
	mu sync.Mutex

	SchemaReady bool
	EnsureCalls int
	NeverReady  bool  // EnsureSchema を呼んでもテーブルが作られない
	LatestErr   error // 連投制限の確認で返すエラー
	comments    map[string]models.Comment
	likes       map[[2]string]models.Like
}

// NewMemoryStore テーブル作成済みのストアを作成
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		SchemaReady: true,
		comments:    map[string]models.Comment{},
		likes:       map[[2]string]models.Like{},
	}
}

// Repositories ストアをリポジトリ一式として返す
func (s *MemoryStore) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Comments: &memoryComments{s},
		Likes:    &memoryLikes{s},
	}
}

// EnsureSchema schema.Ensurer の実装
func (s *MemoryStore) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EnsureCalls++
	if !s.NeverReady {
		s.SchemaReady = true
	}
	return nil
}

// DropSchema schema.Manager の実装
func (s *MemoryStore) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SchemaReady = false
	s.comments = map[string]models.Comment{}
	s.likes = map[[2]string]models.Like{}
	return nil
}

// Comment 保存されているコメントを返す
func (s *MemoryStore) Comment(id string) (models.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	return c, ok
}

// PutComment コメントを直接保存する
func (s *MemoryStore) PutComment(c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[c.ID] = c
}

func (s *MemoryStore) ready() error {
	if !s.SchemaReady {
		return schema.ErrMissingRelation
	}
	return nil
}

type memoryComments struct {
	s *MemoryStore
}

func (m *memoryComments) Create(ctx context.Context, comment *models.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.ready(); err != nil {
		return err
	}
	if _, ok := m.s.comments[comment.ID]; ok {
		return errors.New("duplicate comment id")
	}
	m.s.comments[comment.ID] = *comment
	return nil
}

func (m *memoryComments) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.ready(); err != nil {
		return nil, err
	}
	c, ok := m.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memoryComments) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.ready(); err != nil {
		return err
	}
	delete(m.s.comments, id)
	return nil
}

func (m *memoryComments) ListByPage(ctx context.Context, pageID string, page, limit int) ([]models.Comment, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.ready(); err != nil {
		return nil, 0, err
	}

	var matched []models.Comment
	for _, c := range m.s.comments {
		if c.PageID == pageID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []models.Comment{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *memoryComments) LatestCreatedAtByIP(ctx context.Context, ip string) (*time.Time, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.LatestErr != nil {
		return nil, m.s.LatestErr
	}
	if err := m.s.ready(); err != nil {
		return nil, err
	}

	var latest *time.Time
	for _, c := range m.s.comments {
		if c.IP != ip {
			continue
		}
		if latest == nil || c.CreatedAt.After(*latest) {
			t := c.CreatedAt
			latest = &t
		}
	}
	return latest, nil
}

type memoryLikes struct {
	s *MemoryStore
}

func (m *memoryLikes) Exists(ctx context.Context, pageID, ip string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.ready(); err != nil {
		return false, err
	}
	_, ok := m.s.likes[[2]string{pageID, ip}]
	return ok, nil
}

func (m *memoryLikes) Create(ctx context.Context, like *models.Like) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.ready(); err != nil {
		return err
	}
	key := [2]string{like.PageID, like.IP}
	if _, ok := m.s.likes[key]; ok {
		return errors.New("duplicate like")
	}
	m.s.likes[key] = *like
	return nil
}

func (m *memoryLikes) Delete(ctx context.Context, pageID, ip string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.ready(); err != nil {
		return err
	}
	delete(m.s.likes, [2]string{pageID, ip})
	return nil
}

func (m *memoryLikes) CountByPage(ctx context.Context, pageID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.ready(); err != nil {
		return 0, err
	}
	var count int64
	for key := range m.s.likes {
		if key[0] == pageID {
			count++
		}
	}
	return count, nil
}
