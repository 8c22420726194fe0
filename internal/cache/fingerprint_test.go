package cache

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"skinglow-go/internal/constants"
	apperrors "skinglow-go/internal/errors"
)

func TestFingerprintDeterministic(t *testing.T) {
	image := []byte("some image payload")
	profile := map[string]any{"age": 30, "gender": "male"}

	k1, err := Fingerprint(image, profile)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := Fingerprint(image, profile)
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 {
		t.Errorf("same inputs produced different keys: %s vs %s", k1, k2)
	}
}

func TestFingerprintFormat(t *testing.T) {
	key, err := Fingerprint([]byte("img"), map[string]any{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(key, "_")
	if len(parts) != 2 {
		t.Fatalf("key format = %q, want imageHash_profileHash", key)
	}
	for _, p := range parts {
		if len(p) != 32 {
			t.Errorf("hash segment %q is not 32 hex chars", p)
		}
	}
}

func TestFingerprintProfileOrderIndependent(t *testing.T) {
	// map遍历顺序随机，同内容不同构造顺序必须得到同一key
	image := []byte("img")
	p1 := map[string]any{}
	p1["age"] = 25
	p1["gender"] = "female"
	p1["diet"] = "vegan"
	p2 := map[string]any{}
	p2["diet"] = "vegan"
	p2["gender"] = "female"
	p2["age"] = 25

	k1, _ := Fingerprint(image, p1)
	k2, _ := Fingerprint(image, p2)
	if k1 != k2 {
		t.Errorf("insertion order changed key: %s vs %s", k1, k2)
	}
}

func TestFingerprintDifferentProfiles(t *testing.T) {
	image := []byte("img")
	k1, _ := Fingerprint(image, map[string]any{"age": 25})
	k2, _ := Fingerprint(image, map[string]any{"age": 26})
	if k1 == k2 {
		t.Error("different profiles must produce different keys")
	}
}

func TestFingerprintNullVsAbsent(t *testing.T) {
	// 显式null与缺省字段是不同的画像
	image := []byte("img")
	k1, _ := Fingerprint(image, map[string]any{"age": 25, "diet": nil})
	k2, _ := Fingerprint(image, map[string]any{"age": 25})
	if k1 == k2 {
		t.Error("explicit null and absent key should differ")
	}
}

func TestFingerprintEmptyImage(t *testing.T) {
	k1, err := Fingerprint(nil, map[string]any{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	k2, err := Fingerprint([]byte{}, map[string]any{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 {
		t.Error("nil and empty image should fingerprint identically")
	}
}

func TestFingerprintSampledCollision(t *testing.T) {
	// 两张图片首尾采样窗口内完全一致、中间不同时指纹相同，
	// 这是采样方案已知且接受的取舍
	n := constants.FingerprintSampleSize
	img1 := make([]byte, 3*n)
	img2 := make([]byte, 3*n)
	for i := range img1 {
		img1[i] = byte(i % 251)
		img2[i] = byte(i % 251)
	}
	for i := n; i < 2*n; i++ {
		img2[i] = ^img2[i]
	}
	if bytes.Equal(img1, img2) {
		t.Fatal("test images must differ in the middle")
	}

	profile := map[string]any{"age": 30}
	k1, _ := Fingerprint(img1, profile)
	k2, _ := Fingerprint(img2, profile)
	if k1 != k2 {
		t.Error("images identical in head and tail windows should collide")
	}
}

func TestFingerprintShortImage(t *testing.T) {
	// 小于两个采样窗口的图片整体参与哈希，内容不同则key不同
	short1 := []byte("short image one")
	short2 := []byte("short image two")
	profile := map[string]any{"age": 30}

	k1, err := Fingerprint(short1, profile)
	if err != nil {
		t.Fatal(err)
	}
	k2, _ := Fingerprint(short2, profile)
	if k1 == k2 {
		t.Error("different short images must not collide")
	}
}

func TestFingerprintUnserializableProfile(t *testing.T) {
	_, err := Fingerprint([]byte("img"), map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatal("expected error for unserializable profile")
	}
	if !errors.Is(err, apperrors.ErrUnserializableProfile) {
		t.Errorf("error = %v, want ErrUnserializableProfile", err)
	}
}
