package public

import (
	"errors"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCaptchaSetting 获取验证码公开配置
func (h *Handler) GetCaptchaSetting(c *gin.Context) {
	if h.CaptchaService == nil {
		response.Success(c, gin.H{"provider": "none"})
		return
	}
	response.Success(c, h.CaptchaService.PublicSetting())
}

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "验证码服务不可用", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			respondError(c, response.CodeBadRequest, "验证码未启用", nil)
		default:
			respondError(c, response.CodeInternal, "验证码生成失败", err)
		}
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
