package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestSelectCompressorPrefersBrotli(t *testing.T) {
	m := NewManager(DefaultConfig)

	c, enc := m.SelectCompressor("gzip, deflate, br")
	if c == nil || enc != EncodingBrotli {
		t.Errorf("encoding = %s, want br", enc)
	}

	c, enc = m.SelectCompressor("gzip, deflate")
	if c == nil || enc != EncodingGzip {
		t.Errorf("encoding = %s, want gzip", enc)
	}

	c, enc = m.SelectCompressor("identity")
	if c != nil || enc != "" {
		t.Error("no match should return nil compressor")
	}
}

func TestGzipRoundTrip(t *testing.T) {
	m := NewManager(DefaultConfig)
	c, _ := m.SelectCompressor("gzip")

	var buf bytes.Buffer
	w, err := c.Compress(&buf)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`{"status":"ok"}`))
	w.Close()

	r, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	out, _ := io.ReadAll(r)
	if string(out) != `{"status":"ok"}` {
		t.Errorf("decompressed = %q", out)
	}
}

func TestBrotliRoundTrip(t *testing.T) {
	m := NewManager(DefaultConfig)
	c, _ := m.SelectCompressor("br")

	var buf bytes.Buffer
	w, err := c.Compress(&buf)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`{"status":"ok"}`))
	w.Close()

	out, _ := io.ReadAll(brotli.NewReader(&buf))
	if string(out) != `{"status":"ok"}` {
		t.Errorf("decompressed = %q", out)
	}
}
