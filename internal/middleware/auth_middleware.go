package middleware

import (
	"fmt"
	"strings"

	"freightlink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JWTClaims struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// AuthRequired validates the bearer token and stores the caller's identity
// on the gin context under "user_id" and "user_type".
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.ErrorResponse(c, 401, "UNAUTHORIZED", "Invalid authorization header format")
			c.Abort()
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			utils.ErrorResponse(c, 401, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.ErrorResponse(c, 401, "UNAUTHORIZED", "Invalid user identity in token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_type", claims.UserType)
		c.Next()
	}
}

// GetUserID pulls the authenticated user id off the context.
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	return userID, ok
}
