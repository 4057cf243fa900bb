package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type exportDownload struct {
	fileName  string
	data      []byte
	rows      int
	expiresAt time.Time
}

// exportDownloadStore 已生成的导出文件（内存中，按 token 一次性下载）
type exportDownloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
	now   func() time.Time
}

func newExportDownloadStore() *exportDownloadStore {
	return &exportDownloadStore{
		items: make(map[string]exportDownload),
		now:   time.Now,
	}
}

func (s *exportDownloadStore) put(fileName string, data []byte, rows int, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = uuid.NewString()
	s.items[token] = exportDownload{
		fileName:  fileName,
		data:      data,
		rows:      rows,
		expiresAt: now.Add(ttl),
	}
	return token
}

func (s *exportDownloadStore) get(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	v, ok := s.items[token]
	if !ok {
		return exportDownload{}, false
	}
	return v, true
}

func (s *exportDownloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

func (s *exportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
