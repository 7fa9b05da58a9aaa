package redis

import (
	"fmt"
	"strings"

	"github.com/numberparty/numberparty/internal/model"
)

// Key prefix for all room data
const keyPrefix = "npgame"

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, strings.ToUpper(string(code)))
}

// roomIndexKey returns the Redis key for the SET of active room codes
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
