package cache

import (
	"container/list"
	"log"
	"time"
)

// New 创建缓存实例，容量与TTL在生命周期内固定
func New(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get 查询缓存的分析结果
//
// 纯查找，不触发任何外部调用。未命中或已过期计入misses并返回false；
// 命中时条目被标记为最近使用并计入hits。画像无法序列化时返回错误，
// 与未命中是两种不同的结果。
func (c *Cache) Get(image []byte, profile map[string]any) (any, bool, error) {
	key, err := Fingerprint(image, profile)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false, nil
	}

	ent := el.Value.(*entry)

	// 过期条目在查询时惰性删除，绝不返回给调用方
	if c.now().Sub(ent.createdAt) > c.ttl {
		c.removeElement(el)
		c.misses++
		log.Printf("[Cache] 条目已过期: %s...", shortKey(key))
		return nil, false, nil
	}

	c.order.MoveToFront(el)
	c.hits++
	log.Printf("[Cache] HIT %s... (hits: %d)", shortKey(key), c.hits)
	return ent.value, true, nil
}

// Set 写入分析结果，容量已满时先淘汰最久未用的条目
func (c *Cache) Set(image []byte, profile map[string]any, result any) error {
	key, err := Fingerprint(image, profile)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 正常情况下最多淘汰一条，循环只是容量被意外超出时的兜底
	for len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	el := c.order.PushFront(&entry{key: key, value: result, createdAt: c.now()})
	c.items[key] = el
	log.Printf("[Cache] 已缓存 %s... (size: %d)", shortKey(key), len(c.items))
	return nil
}

// Clear 清空全部条目，命中统计保留
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
	log.Printf("[Cache] 缓存已清空")
}

// Stats 获取统计快照
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}

	return Stats{
		Size:       len(c.items),
		MaxSize:    c.maxSize,
		Hits:       c.hits,
		Misses:     c.misses,
		HitRate:    hitRate,
		TTLSeconds: int64(c.ttl / time.Second),
	}
}

// evictOldest 淘汰最久未用的条目，调用方必须持锁
func (c *Cache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	ent := el.Value.(*entry)
	c.removeElement(el)
	log.Printf("[Cache] 淘汰最旧条目: %s...", shortKey(ent.key))
}

// removeElement 从链表和索引中移除条目，调用方必须持锁
func (c *Cache) removeElement(el *list.Element) {
	ent := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, ent.key)
}

func shortKey(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}
