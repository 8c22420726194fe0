package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"skinglow-go/internal/constants"
	apperrors "skinglow-go/internal/errors"
)

// Fingerprint 由图片字节和用户画像生成稳定的组合键
//
// 图片只采样首尾各10KB再做MD5，避免对整张图做摘要；画像经JSON序列化
// 后同样做MD5，encoding/json对map按键名排序输出，字段顺序不影响结果。
// 这里只要求缓存键的稳定性，不是安全摘要，首尾窗口之外的差异可能
// 产生相同的键，属于接受的近似。
//
// 画像中值为nil的字段会序列化为null并参与哈希，显式null与字段缺失
// 产生不同的指纹。
func Fingerprint(image []byte, profile map[string]any) (string, error) {
	imageHash := hashBytes(sampleImage(image))

	data, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnserializableProfile, err)
	}
	profileHash := hashBytes(data)

	return imageHash + "_" + profileHash, nil
}

// sampleImage 截取首尾各一个窗口拼接为采样
// 图片短于两个窗口时首尾重叠甚至整体重复，空输入返回空采样，均为合法结果
func sampleImage(image []byte) []byte {
	window := constants.FingerprintSampleSize

	head := image
	if len(head) > window {
		head = image[:window]
	}
	tail := image
	if len(tail) > window {
		tail = image[len(image)-window:]
	}

	sample := make([]byte, 0, len(head)+len(tail))
	sample = append(sample, head...)
	sample = append(sample, tail...)
	return sample
}

func hashBytes(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
