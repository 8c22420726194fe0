package middleware

import (
	"bufio"
	"io"
	"mime"
	"net/http"
	"strings"

	"skinglow-go/internal/compression"
)

const compressBufferSize = 32 * 1024

// compressWriter 按需包裹压缩写入器的ResponseWriter
type compressWriter struct {
	http.ResponseWriter
	compressor compression.Compressor
	writer     io.WriteCloser
	buffered   *bufio.Writer
	wrote      bool
	compressed bool
}

// Compression 响应压缩中间件，brotli优先于gzip
func Compression(manager *compression.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			compressor, encoding := manager.SelectCompressor(r.Header.Get("Accept-Encoding"))
			if compressor == nil {
				next.ServeHTTP(w, r)
				return
			}

			cw := &compressWriter{
				ResponseWriter: w,
				compressor:     compressor,
			}
			cw.Header().Set("Content-Encoding", string(encoding))
			cw.Header().Add("Vary", "Accept-Encoding")

			defer func() {
				if cw.writer != nil {
					if cw.buffered != nil {
						cw.buffered.Flush()
					}
					cw.writer.Close()
				}
			}()

			next.ServeHTTP(cw, r)
		})
	}
}

func (cw *compressWriter) WriteHeader(statusCode int) {
	if cw.wrote {
		return
	}
	cw.wrote = true

	if !compressibleStatus(statusCode) || !compressibleType(cw.Header().Get("Content-Type")) {
		cw.Header().Del("Content-Encoding")
		cw.ResponseWriter.WriteHeader(statusCode)
		return
	}

	cw.compressed = true
	// 压缩后原始长度失效
	cw.Header().Del("Content-Length")
	cw.ResponseWriter.WriteHeader(statusCode)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.wrote {
		cw.WriteHeader(http.StatusOK)
	}
	if !cw.compressed {
		return cw.ResponseWriter.Write(b)
	}

	if cw.writer == nil {
		w, err := cw.compressor.Compress(cw.ResponseWriter)
		if err != nil {
			return 0, err
		}
		cw.writer = w
		cw.buffered = bufio.NewWriterSize(w, compressBufferSize)
	}
	return cw.buffered.Write(b)
}

func (cw *compressWriter) Flush() {
	if cw.buffered != nil {
		cw.buffered.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func compressibleStatus(status int) bool {
	return status == http.StatusOK ||
		status == http.StatusCreated ||
		status == http.StatusAccepted
}

func compressibleType(contentType string) bool {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mimeType, "text/") ||
		mimeType == "application/json" ||
		mimeType == "application/javascript" ||
		mimeType == "image/svg+xml"
}
