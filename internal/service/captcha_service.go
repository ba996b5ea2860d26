package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/zipcart/internal/cache"
	"github.com/zipcart/internal/config"
	"github.com/zipcart/internal/constants"

	"github.com/mojocn/base64Captcha"
)

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 验证码服务
// 按场景开关决定是否需要验证码，挑战答案优先落 Redis，未启用时退回进程内存储。
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu    sync.Mutex
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: normalizeCaptchaConfig(cfg)}
}

func normalizeCaptchaConfig(cfg config.CaptchaConfig) config.CaptchaConfig {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case constants.CaptchaProviderImage:
		cfg.Provider = constants.CaptchaProviderImage
	default:
		cfg.Provider = constants.CaptchaProviderNone
	}
	if cfg.Image.Length < 4 || cfg.Image.Length > 8 {
		cfg.Image.Length = 5
	}
	if cfg.Image.Width <= 0 {
		cfg.Image.Width = 240
	}
	if cfg.Image.Height <= 0 {
		cfg.Image.Height = 80
	}
	if cfg.Image.NoiseCount < 0 {
		cfg.Image.NoiseCount = 0
	}
	if cfg.Image.ShowLine <= 0 {
		cfg.Image.ShowLine = base64Captcha.OptionShowHollowLine
	}
	if cfg.Image.ExpireSeconds <= 0 {
		cfg.Image.ExpireSeconds = 300
	}
	if cfg.Image.MaxStore <= 0 {
		cfg.Image.MaxStore = 10240
	}
	return cfg
}

// Enabled 判断某场景是否需要验证码
func (s *CaptchaService) Enabled(scene string) bool {
	if s == nil || s.cfg.Provider == constants.CaptchaProviderNone {
		return false
	}
	switch scene {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	case constants.CaptchaSceneRegister:
		return s.cfg.Scenes.Register
	default:
		return false
	}
}

// PublicSetting 下发给前端的公开配置
func (s *CaptchaService) PublicSetting() map[string]interface{} {
	return map[string]interface{}{
		"provider": s.cfg.Provider,
		"scenes": map[string]bool{
			constants.CaptchaSceneLogin:    s.Enabled(constants.CaptchaSceneLogin),
			constants.CaptchaSceneRegister: s.Enabled(constants.CaptchaSceneRegister),
		},
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if s.cfg.Provider != constants.CaptchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}

	driver := base64Captcha.NewDriverString(
		s.cfg.Image.Height,
		s.cfg.Image.Width,
		s.cfg.Image.NoiseCount,
		s.cfg.Image.ShowLine,
		s.cfg.Image.Length,
		"0123456789abcdefghijklmnopqrstuvwxyz",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码，场景未启用时直接放行
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.Enabled(scene) {
		return nil
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.ensureStore().Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store
	}
	ttl := time.Duration(s.cfg.Image.ExpireSeconds) * time.Second
	if cache.Enabled() {
		s.store = &redisCaptchaStore{ttl: ttl}
	} else {
		s.store = base64Captcha.NewMemoryStore(s.cfg.Image.MaxStore, ttl)
	}
	return s.store
}

// redisCaptchaStore 把验证码答案放进 Redis，多实例部署时共享
type redisCaptchaStore struct {
	ttl time.Duration
}

func captchaKey(id string) string {
	return "captcha:" + id
}

func (s *redisCaptchaStore) Set(id string, value string) error {
	return cache.SetJSON(context.Background(), captchaKey(id), value, s.ttl)
}

func (s *redisCaptchaStore) Get(id string, clear bool) string {
	var value string
	hit, err := cache.GetJSON(context.Background(), captchaKey(id), &value)
	if err != nil || !hit {
		return ""
	}
	if clear {
		_ = cache.Del(context.Background(), captchaKey(id))
	}
	return value
}

func (s *redisCaptchaStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	if stored == "" {
		return false
	}
	return strings.EqualFold(stored, strings.TrimSpace(answer))
}
