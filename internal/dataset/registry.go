package dataset

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory 按注入的运行环境构造一个适配器实例。
type Factory func(env Env) (Adapter, error)

// Registration 将适配器的静态元信息与工厂函数绑定在一起。
type Registration struct {
	Meta Metadata
	New  Factory
}

var globalRegistry = newRegistry()

type registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]Registration)}
}

// Register 将适配器加入全局注册表，重复键会返回错误。
func Register(reg Registration) error {
	return globalRegistry.register(reg)
}

// MustRegister 在注册失败时 panic，适合适配器 init() 中调用。
func MustRegister(reg Registration) {
	if err := Register(reg); err != nil {
		panic(err)
	}
}

// Resolve 返回指定键的适配器注册信息。
func Resolve(key string) (Registration, bool) {
	return globalRegistry.resolve(key)
}

// List 返回按键排序的注册信息列表。
func List() []Registration {
	return globalRegistry.list()
}

// Keys 返回所有已注册数据集的键值，供 CLI 与配置校验使用。
func Keys() []string {
	items := List()
	result := make([]string, len(items))
	for i, reg := range items {
		result[i] = reg.Meta.Key
	}
	return result
}

func (r *registry) normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (r *registry) register(reg Registration) error {
	key := r.normalizeKey(reg.Meta.Key)
	if key == "" {
		return fmt.Errorf("dataset key is required")
	}
	if reg.New == nil {
		return fmt.Errorf("dataset %s: factory is required", key)
	}
	reg.Meta.Key = key

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("dataset %s already registered", key)
	}
	r.entries[key] = reg
	return nil
}

func (r *registry) resolve(key string) (Registration, bool) {
	if key == "" {
		return Registration{}, false
	}
	normalized := r.normalizeKey(key)

	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[normalized]
	return reg, ok
}

func (r *registry) list() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Registration, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.entries[key])
	}
	return result
}
