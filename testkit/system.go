package testkit

import (
	"sync"

	"github.com/ceyewan/levelconf/logging"
)

// 记录的调用类型
const (
	OpRefresh = "refresh"
	OpSet     = "set"
)

// Call 一次对日志后端的调用
type Call struct {
	Op    string
	Name  string
	Level logging.Level
}

// RecordingSystem 记录所有调用的 logging.System 替身
//
// Levels 保存最近一次 SetLogLevel 的结果，Refresh 会清空它。
type RecordingSystem struct {
	name string

	mu     sync.Mutex
	calls  []Call
	levels map[string]logging.Level

	// RefreshErr 非 nil 时 Refresh 返回该错误
	RefreshErr error
	// RefreshHook 在每次 Refresh 时调用，返回非 nil 时 Refresh 返回该错误
	RefreshHook func() error
	// SetErr 返回非 nil 时 SetLogLevel 返回该错误，且不记录级别
	SetErr func(name string, level logging.Level) error
}

var _ logging.System = (*RecordingSystem)(nil)

// NewRecordingSystem 创建指定名称的记录后端
func NewRecordingSystem(name string) *RecordingSystem {
	return &RecordingSystem{name: name, levels: make(map[string]logging.Level)}
}

func (s *RecordingSystem) Name() string {
	return s.name
}

func (s *RecordingSystem) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: OpRefresh})
	if s.RefreshErr != nil {
		return s.RefreshErr
	}
	if s.RefreshHook != nil {
		if err := s.RefreshHook(); err != nil {
			return err
		}
	}
	s.levels = make(map[string]logging.Level)
	return nil
}

func (s *RecordingSystem) SetLogLevel(name string, level logging.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: OpSet, Name: name, Level: level})
	if s.SetErr != nil {
		if err := s.SetErr(name, level); err != nil {
			return err
		}
	}
	s.levels[name] = level
	return nil
}

// Calls 返回调用记录的副本
func (s *RecordingSystem) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// SetCalls 返回 SetLogLevel 调用记录
func (s *RecordingSystem) SetCalls() []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == OpSet {
			out = append(out, c)
		}
	}
	return out
}

// Levels 返回当前记录的级别
func (s *RecordingSystem) Levels() map[string]logging.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]logging.Level, len(s.levels))
	for k, v := range s.levels {
		out[k] = v
	}
	return out
}

// Reset 清空调用记录
func (s *RecordingSystem) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}
