package archive

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"lukechampine.com/blake3"

	appconfig "skinglow-go/internal/config"
)

const (
	uploadQueueSize = 64
	uploadTimeout   = 30 * time.Second
	connectTimeout  = 10 * time.Second
)

// uploader 归档器只依赖存储端的上传与存在性检查，便于测试注入
type uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) bool
}

type uploadTask struct {
	key  string
	data []byte
}

// Archiver 异步图片归档器。队列满时直接丢弃，归档失败不影响主流程
type Archiver struct {
	client uploader
	prefix string

	// mu保护tasks的关闭：Archive持读锁入队，Stop持写锁后关闭
	mu     sync.RWMutex
	closed bool
	tasks  chan uploadTask
	wg     sync.WaitGroup

	uploaded atomic.Int64
	deduped  atomic.Int64
	dropped  atomic.Int64
	failed   atomic.Int64
}

// HashImage 计算归档键用的图片内容哈希
func HashImage(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NewArchiver 创建归档器并启动上传协程，桶不可达时返回错误
func NewArchiver(cfg *appconfig.ArchiveConfig) (*Archiver, error) {
	client, err := NewS3Client(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.TestConnection(ctx); err != nil {
		return nil, err
	}

	return newArchiver(client, cfg.Prefix), nil
}

func newArchiver(client uploader, prefix string) *Archiver {
	a := &Archiver{
		client: client,
		prefix: prefix,
		tasks:  make(chan uploadTask, uploadQueueSize),
	}
	a.wg.Add(1)
	go a.uploadLoop()
	return a
}

// Archive 将图片排队归档，返回内容哈希。队列满时丢弃任务
func (a *Archiver) Archive(userID string, image []byte) string {
	hash := HashImage(image)

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return hash
	}

	key := fmt.Sprintf("%s/%s/%s.jpg", a.prefix, userID, hash)
	select {
	case a.tasks <- uploadTask{key: key, data: image}:
	default:
		a.dropped.Add(1)
		log.Printf("[Archive] 上传队列已满，丢弃: %s", key)
	}
	return hash
}

func (a *Archiver) uploadLoop() {
	defer a.wg.Done()
	for task := range a.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)

		// 键按内容寻址，已存在的对象不必重传
		if a.client.Exists(ctx, task.key) {
			cancel()
			a.deduped.Add(1)
			continue
		}

		err := a.client.Upload(ctx, task.key, task.data, "image/jpeg")
		cancel()

		if err != nil {
			a.failed.Add(1)
			log.Printf("[Archive] 上传失败 %s: %v", task.key, err)
			continue
		}
		a.uploaded.Add(1)
	}
}

// Stats 归档统计
func (a *Archiver) Stats() map[string]int64 {
	return map[string]int64{
		"uploaded": a.uploaded.Load(),
		"deduped":  a.deduped.Load(),
		"dropped":  a.dropped.Load(),
		"failed":   a.failed.Load(),
		"queued":   int64(len(a.tasks)),
	}
}

// Stop 停止接收新任务并等待已排队的上传完成
func (a *Archiver) Stop() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	close(a.tasks)
	a.wg.Wait()
	log.Printf("[Archive] 已停止，累计上传 %d，去重 %d，丢弃 %d，失败 %d",
		a.uploaded.Load(), a.deduped.Load(), a.dropped.Load(), a.failed.Load())
}
