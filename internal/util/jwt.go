package util

import (
	"time"

	"bench_survey_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims authenticates an administrator session.
type AdminClaims struct {
	AdminID uint   `json:"admin_id"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// SurveyClaims authenticates an anonymous participant; the UUID is the only
// identity a survey user has.
type SurveyClaims struct {
	SurveyUserID string `json:"survey_user_id"`
	jwt.RegisteredClaims
}

func GenerateAdminJWT(admin *model.Admin, secret string, expiration time.Duration) (string, error) {
	claims := &AdminClaims{
		AdminID: admin.ID,
		Name:    admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseAdminJWT(tokenString, secret string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

func GenerateSurveyJWT(surveyUserID, secret string, expiration time.Duration) (string, error) {
	claims := &SurveyClaims{
		SurveyUserID: surveyUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSurveyJWT(tokenString, secret string) (*SurveyClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SurveyClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SurveyClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

func GetAdminFromContext(c *gin.Context) *AdminClaims {
	admin, exists := c.Get("admin")
	if !exists {
		return nil
	}
	claims, ok := admin.(*AdminClaims)
	if !ok {
		return nil
	}
	return claims
}

func GetSurveyUserFromContext(c *gin.Context) *SurveyClaims {
	user, exists := c.Get("survey_user")
	if !exists {
		return nil
	}
	claims, ok := user.(*SurveyClaims)
	if !ok {
		return nil
	}
	return claims
}
