// Package datastore 为前端类客户端（仪表盘、前台终端）提供服务端数据的
// 本地缓存：整表拉取、失败时保留旧数据、变更通知和内存中的跨表拼接。
package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Tenant 租户集合中的一行
type Tenant struct {
	TenantID uint   `json:"tenant_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Status   string `json:"status"`
	RoomID   *uint  `json:"room_id"`
}

// Room 房间集合中的一行
type Room struct {
	RoomID           uint   `json:"room_id"`
	RoomNumber       string `json:"room_number"`
	Building         string `json:"building"`
	Capacity         int    `json:"capacity"`
	CurrentOccupants int    `json:"current_occupants"`
}

// Visitor 访客集合中的一行
type Visitor struct {
	VisitorID      uint   `json:"visitor_id"`
	TenantID       uint   `json:"tenant_id"`
	FullName       string `json:"full_name"`
	ContactNumber  string `json:"contact_number"`
	Purpose        string `json:"purpose"`
	ExpectedDate   string `json:"expected_date"`
	ExpectedTime   string `json:"expected_time"`
	ApprovalStatus string `json:"approval_status"`
}

// VisitorLog 出入记录集合中的一行
type VisitorLog struct {
	LogID        uint       `json:"log_id"`
	VisitorID    uint       `json:"visitor_id"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	IDLeft       string     `json:"id_left"`
	ProcessedBy  uint       `json:"processed_by"`
}

// VisitorDetails 访客与租户、房间、最近出入记录的拼接视图
type VisitorDetails struct {
	Visitor
	TenantName string      `json:"tenant_name"`
	RoomNumber string      `json:"room_number"`
	Building   string      `json:"building"`
	CheckedIn  bool        `json:"checked_in"`
	LastLog    *VisitorLog `json:"last_log,omitempty"`
}

// apiEnvelope 服务端统一响应格式
type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Store 按集合持有服务端数据的本地副本。每次成功刷新整体替换对应集合
// 并递增代号，拼接结果按代号记忆化，代号不变时不重算
type Store struct {
	client *resty.Client

	mu         sync.RWMutex
	tenants    []Tenant
	rooms      []Room
	visitors   []Visitor
	logs       []VisitorLog
	generation uint64
	syncErr    error

	// 记忆化的拼接结果及其生成时的代号
	detailsGen uint64
	details    []VisitorDetails

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int

	refreshing chan struct{}
}

// New 创建一个指向服务端的数据缓存
func New(baseURL, token string) *Store {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetAuthToken(token).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Store{
		client:      client,
		subscribers: make(map[int]func()),
		refreshing:  make(chan struct{}, 1),
	}
}

// SetToken 更新请求使用的令牌
func (s *Store) SetToken(token string) {
	s.client.SetAuthToken(token)
}

// Subscribe 注册数据变更回调，返回取消函数
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// notify 触发所有订阅者
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// fetch 获取一个集合并解析响应信封
func (s *Store) fetch(ctx context.Context, path string, dest interface{}) error {
	resp, err := s.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode())
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if envelope.Data == nil {
		return nil
	}
	return json.Unmarshal(envelope.Data, dest)
}

// RefreshAll 拉取全部四个集合并整体替换本地副本。任一集合拉取失败时
// 整次刷新放弃，保留上一次成功的数据
func (s *Store) RefreshAll(ctx context.Context) error {
	var (
		tenants  []Tenant
		rooms    []Room
		visitors []Visitor
		logs     []VisitorLog
	)

	var tenantPage struct {
		Data []Tenant `json:"data"`
	}
	if err := s.fetch(ctx, "/api/tenants?page=1&page_size=100", &tenantPage); err != nil {
		return s.recordSyncError(err)
	}
	tenants = tenantPage.Data

	if err := s.fetch(ctx, "/api/admin/rooms", &rooms); err != nil {
		return s.recordSyncError(err)
	}
	if err := s.fetch(ctx, "/api/visitors", &visitors); err != nil {
		return s.recordSyncError(err)
	}
	if err := s.fetch(ctx, "/api/visitor-logs", &logs); err != nil {
		return s.recordSyncError(err)
	}

	s.mu.Lock()
	s.tenants = tenants
	s.rooms = rooms
	s.visitors = visitors
	s.logs = logs
	s.generation++
	s.syncErr = nil
	s.mu.Unlock()

	s.notify()
	return nil
}

// recordSyncError 记录同步失败，本地数据保持不变
func (s *Store) recordSyncError(err error) error {
	s.mu.Lock()
	s.syncErr = err
	s.mu.Unlock()
	return err
}

// LastSyncError 返回最近一次刷新的错误，成功刷新后为nil
func (s *Store) LastSyncError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncErr
}

// Generation 返回当前数据代号
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Tenants 返回租户集合的副本
func (s *Store) Tenants() []Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tenant, len(s.tenants))
	copy(out, s.tenants)
	return out
}

// Rooms 返回房间集合的副本
func (s *Store) Rooms() []Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// Visitors 返回访客集合的副本
func (s *Store) Visitors() []Visitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Visitor, len(s.visitors))
	copy(out, s.visitors)
	return out
}

// Logs 返回出入记录集合的副本
func (s *Store) Logs() []VisitorLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]VisitorLog, len(s.logs))
	copy(out, s.logs)
	return out
}

// AllVisitorsWithDetails 返回访客与租户、房间、最近出入记录的拼接视图。
// 结果按数据代号记忆化，数据未变化时直接返回上次的拼接结果
func (s *Store) AllVisitorsWithDetails() []VisitorDetails {
	s.mu.RLock()
	if s.details != nil && s.detailsGen == s.generation {
		cached := s.details
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	// 拿写锁后重查，避免并发重算
	if s.details != nil && s.detailsGen == s.generation {
		return s.details
	}

	tenantsByID := make(map[uint]Tenant, len(s.tenants))
	for _, t := range s.tenants {
		tenantsByID[t.TenantID] = t
	}
	roomsByID := make(map[uint]Room, len(s.rooms))
	for _, r := range s.rooms {
		roomsByID[r.RoomID] = r
	}
	lastLogByVisitor := make(map[uint]VisitorLog, len(s.logs))
	for _, l := range s.logs {
		prev, seen := lastLogByVisitor[l.VisitorID]
		if !seen || laterLog(l, prev) {
			lastLogByVisitor[l.VisitorID] = l
		}
	}

	details := make([]VisitorDetails, 0, len(s.visitors))
	for _, v := range s.visitors {
		d := VisitorDetails{Visitor: v}
		if t, ok := tenantsByID[v.TenantID]; ok {
			d.TenantName = t.FullName
			if t.RoomID != nil {
				if r, ok := roomsByID[*t.RoomID]; ok {
					d.RoomNumber = r.RoomNumber
					d.Building = r.Building
				}
			}
		}
		if l, ok := lastLogByVisitor[v.VisitorID]; ok {
			lcopy := l
			d.LastLog = &lcopy
			d.CheckedIn = l.CheckInTime != nil && l.CheckOutTime == nil
		}
		details = append(details, d)
	}

	s.details = details
	s.detailsGen = s.generation
	return details
}

// laterLog 判断a是否比b更新
func laterLog(a, b VisitorLog) bool {
	switch {
	case a.CheckInTime == nil:
		return false
	case b.CheckInTime == nil:
		return true
	default:
		return a.CheckInTime.After(*b.CheckInTime)
	}
}

// Poll 按间隔刷新数据直到上下文取消。上一次刷新尚未完成时跳过本次
// 触发；刷新失败只保留旧数据，等待下一个周期重试
func (s *Store) Poll(ctx context.Context, interval time.Duration, onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case s.refreshing <- struct{}{}:
				go func() {
					defer func() { <-s.refreshing }()
					if err := s.RefreshAll(ctx); err != nil && onError != nil {
						onError(err)
					}
				}()
			default:
				// 上一次刷新还在进行，跳过本次触发
			}
		}
	}
}
