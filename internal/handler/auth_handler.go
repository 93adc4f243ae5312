package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"guard_bot_server/internal/config"
	"guard_bot_server/pkg/errorx"
	"guard_bot_server/pkg/util/jwt"
)

// AuthHandler 管理端认证 Handler
// 管理端只有一个管理员身份，凭口令换取 Token
type AuthHandler struct {
	conf *config.Config
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(conf *config.Config) *AuthHandler {
	return &AuthHandler{conf: conf}
}

// tokenRequest 获取 Token 请求参数
type tokenRequest struct {
	Secret string `json:"secret" binding:"required"` // 管理端口令
}

// refreshRequest 刷新 Token 请求参数
type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// tokenRespond Token 响应
type tokenRespond struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// GetToken 管理端登录，校验口令后签发 Token
// POST /auth/token
func (h *AuthHandler) GetToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	// 口令只存 bcrypt 哈希，配置文件里不出现明文
	if err := bcrypt.CompareHashAndPassword(
		[]byte(h.conf.AdminConfig.SecretHash), []byte(req.Secret)); err != nil {
		zap.L().Warn("管理端口令校验失败", zap.String("ip", c.ClientIP()))
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "口令错误"))
		return
	}

	accessToken, err := jwt.GenerateAccessToken(h.conf.BotConfig.ModeratorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	refreshToken, _, err := jwt.GenerateRefreshToken(h.conf.BotConfig.ModeratorId)
	if err != nil {
		HandleError(c, err)
		return
	}

	HandleSuccess(c, tokenRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// RefreshToken 用 Refresh Token 换取新的 Access Token
// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	claims, err := jwt.ParseToken(req.RefreshToken)
	if err != nil || claims.Subject != "refresh_token" {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "Refresh Token 无效，请重新登录"))
		return
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	refreshToken, _, err := jwt.GenerateRefreshToken(claims.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}

	HandleSuccess(c, tokenRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
