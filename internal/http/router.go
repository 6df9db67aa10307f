package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/benbaruka/sms-portal-sub004/internal/http/handlers"
	"github.com/benbaruka/sms-portal-sub004/internal/http/middleware"
)

// BuildRouter mounts the onboarding and admin routes on a new gin engine
func BuildRouter(oh *handlers.OnboardingHandlers, ah *handlers.AdminHandlers, ph *handlers.PolicyHandlers, session gin.HandlerFunc, otpLimiter *middleware.RateLimiter, jwtmw *middleware.AuthMW, cb middleware.CasbinMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = 16 << 20

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	ob := r.Group("/onboarding", session)
	ob.GET("", oh.Show)
	ob.PATCH("/fields", oh.EditFields)
	ob.POST("/next", oh.Next)
	ob.POST("/back", oh.Back)
	ob.POST("/otp/input", oh.OTPInput)
	ob.POST("/otp/verify", otpLimiter.Limit(), oh.VerifyOTP)
	ob.POST("/otp/resend", otpLimiter.Limit(), oh.ResendOTP)
	ob.PUT("/documents/:id/number", oh.SetDocumentNumber)
	ob.POST("/documents/:id/file", oh.UploadFile)
	ob.DELETE("/documents/:id/file", oh.ClearFile)
	ob.POST("/documents/reload", oh.ReloadDocumentTypes)
	ob.POST("/documents/submit", oh.SubmitDocuments)

	adm := r.Group("/admin", jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/audit-events", ah.AuditEvents)
	adm.GET("/wizards", ah.Wizards)
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
