package identity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const tokenPrefix = "mock_jwt_token"

// issueToken формирует токен вида mock_jwt_token_<id>_<unix ms>.
// Подписи нет: токен только переносит ID пользователя.
func issueToken(userID int, now time.Time) string {
	return fmt.Sprintf("%s_%d_%d", tokenPrefix, userID, now.UnixMilli())
}

// parseToken достаёт ID пользователя из токена.
func parseToken(token string) (int, error) {
	parts := strings.Split(token, "_")
	if len(parts) < 4 || parts[0] != "mock" || parts[1] != "jwt" || parts[2] != "token" {
		return 0, ErrInvalidToken
	}
	id, err := strconv.Atoi(parts[3])
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
