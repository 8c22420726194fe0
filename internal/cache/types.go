package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry 单条缓存记录，写入后视为不可变，仅缓存自身持有
type entry struct {
	key       string
	value     any
	createdAt time.Time
}

// Stats 缓存统计信息
type Stats struct {
	Size       int     `json:"size"`        // 当前条目数
	MaxSize    int     `json:"max_size"`    // 容量上限
	Hits       int64   `json:"hits"`        // 命中次数
	Misses     int64   `json:"misses"`      // 未命中次数
	HitRate    float64 `json:"hit_rate"`    // 命中率（百分比）
	TTLSeconds int64   `json:"ttl_seconds"` // 过期时间
}

// Cache 分析结果缓存：固定容量 + TTL + LRU淘汰
//
// 所有读写都在同一把互斥锁内完成，临界区只有哈希查找和链表操作，
// 不会在持锁期间做任何I/O。外部AI调用必须发生在锁外：先 Get，
// 未命中时在锁外完成计算，再 Set 写回。两个并发请求可能对同一指纹
// 各调用一次外部模型，后写的 Set 覆盖先写的，这是接受的设计取舍。
type Cache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // Front为最近使用，Back为最久未用
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64

	now func() time.Time // 测试用可注入时钟
}
