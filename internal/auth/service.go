package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// CurrentUser 通过令牌验证出的当前用户
type CurrentUser struct {
	UID           string `json:"uid"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
}

type cachedVerification struct {
	user      *CurrentUser
	expiresAt time.Time
}

// Service 令牌验证服务。
// 调用Google tokeninfo接口验证ID token，验证结果按令牌自身有效期缓存
type Service struct {
	httpClient *http.Client
	verified   sync.Map // map[token]cachedVerification
	stopClean  chan struct{}
	cleanWG    sync.WaitGroup
}

// NewService 创建令牌验证服务
func NewService() *Service {
	s := &Service{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		stopClean:  make(chan struct{}),
	}
	s.startCleanupTask()
	return s
}

// tokeninfo响应，字段均为字符串
type tokenInfoResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Exp           string `json:"exp"`
	Error         string `json:"error_description"`
}

// VerifyToken 验证ID token并返回用户信息
func (s *Service) VerifyToken(ctx context.Context, token string) (*CurrentUser, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	// 缓存命中且未过期则直接返回
	if v, ok := s.verified.Load(token); ok {
		cached := v.(cachedVerification)
		if time.Now().Before(cached.expiresAt) {
			return cached.user, nil
		}
		s.verified.Delete(token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		tokenInfoURL+"?id_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("read tokeninfo response: %w", err)
	}

	var info tokenInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parse tokeninfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || info.Sub == "" {
		if info.Error != "" {
			return nil, fmt.Errorf("invalid token: %s", info.Error)
		}
		return nil, fmt.Errorf("invalid token (status %d)", resp.StatusCode)
	}

	user := &CurrentUser{
		UID:           info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		Name:          info.Name,
		Picture:       info.Picture,
	}

	// 按令牌自身有效期缓存验证结果
	expiresAt := time.Now().Add(5 * time.Minute)
	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err == nil {
		tokenExp := time.Unix(exp, 0)
		if tokenExp.After(time.Now()) {
			expiresAt = tokenExp
		}
	}
	s.verified.Store(token, cachedVerification{user: user, expiresAt: expiresAt})

	log.Printf("[Auth] 令牌验证成功: uid=%s", shortUID(user.UID))
	return user, nil
}

// startCleanupTask 定期清理过期的验证缓存
func (s *Service) startCleanupTask() {
	s.cleanWG.Add(1)
	go func() {
		defer s.cleanWG.Done()
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				now := time.Now()
				s.verified.Range(func(key, value interface{}) bool {
					if now.After(value.(cachedVerification).expiresAt) {
						s.verified.Delete(key)
					}
					return true
				})
			case <-s.stopClean:
				return
			}
		}
	}()
}

// Stop 停止验证服务
func (s *Service) Stop() {
	close(s.stopClean)
	s.cleanWG.Wait()
}

func shortUID(uid string) string {
	if len(uid) > 8 {
		return uid[:8]
	}
	return uid
}
