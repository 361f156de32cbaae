package middleware

import (
	"strings"

	"bench_survey_backend/internal/config"
	"bench_survey_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// AdminAuthMiddleware guards the admin API.
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseAdminJWT(tokenString, cfg.JWT.Secret)
		if err != nil || claims.AdminID == 0 {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("admin", claims)
		c.Next()
	}
}

// SurveyAuthMiddleware guards participant endpoints. The claims carry the
// anonymous survey-user UUID allocated at registration.
func SurveyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseSurveyJWT(tokenString, cfg.JWT.Secret)
		if err != nil || claims.SurveyUserID == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("survey_user", claims)
		c.Next()
	}
}
