package issues

import (
	"strconv"
	"strings"
	"sync"
)

var stringBuilderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

// getStringBuilder retrieves a builder from the pool and resets it.
func getStringBuilder() *strings.Builder {
	sb := stringBuilderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

// putStringBuilder returns a builder to the pool.
func putStringBuilder(sb *strings.Builder) {
	if sb == nil {
		return
	}
	stringBuilderPool.Put(sb)
}

// JoinKey appends an object key to a payload path: JoinKey("$.pet", "name")
// returns "$.pet.name".
func JoinKey(base, key string) string {
	sb := getStringBuilder()
	sb.WriteString(base)
	sb.WriteByte('.')
	sb.WriteString(key)
	result := sb.String()
	putStringBuilder(sb)
	return result
}

// JoinIndex appends an array index to a payload path: JoinIndex("$.pets", 3)
// returns "$.pets[3]".
func JoinIndex(base string, index int) string {
	sb := getStringBuilder()
	sb.WriteString(base)
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(index))
	sb.WriteByte(']')
	result := sb.String()
	putStringBuilder(sb)
	return result
}
