package compression

import (
	"compress/gzip"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// Compressor 定义压缩器接口
type Compressor interface {
	Compress(w io.Writer) (io.WriteCloser, error)
}

// Encoding 压缩编码名
type Encoding string

const (
	EncodingGzip   Encoding = "gzip"
	EncodingBrotli Encoding = "br"
)

// Config 压缩配置
type Config struct {
	GzipLevel   int
	BrotliLevel int
}

// DefaultConfig 默认压缩级别
var DefaultConfig = Config{
	GzipLevel:   gzip.DefaultCompression,
	BrotliLevel: 4,
}

// Manager 根据Accept-Encoding选择压缩器
type Manager struct {
	gzip   Compressor
	brotli Compressor
}

// NewManager 创建压缩管理器
func NewManager(cfg Config) *Manager {
	return &Manager{
		gzip:   newGzipCompressor(cfg.GzipLevel),
		brotli: newBrotliCompressor(cfg.BrotliLevel),
	}
}

// SelectCompressor 优先brotli，其次gzip
func (m *Manager) SelectCompressor(acceptEncoding string) (Compressor, Encoding) {
	if strings.Contains(acceptEncoding, string(EncodingBrotli)) {
		return m.brotli, EncodingBrotli
	}
	if strings.Contains(acceptEncoding, string(EncodingGzip)) {
		return m.gzip, EncodingGzip
	}
	return nil, ""
}

type gzipCompressor struct {
	level int
}

func newGzipCompressor(level int) *gzipCompressor {
	if level < gzip.DefaultCompression || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &gzipCompressor{level: level}
}

func (g *gzipCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, g.level)
}

type brotliCompressor struct {
	level int
}

func newBrotliCompressor(level int) *brotliCompressor {
	if level < 0 || level > 11 {
		level = brotli.DefaultCompression
	}
	return &brotliCompressor{level: level}
}

func (b *brotliCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriterLevel(w, b.level), nil
}
