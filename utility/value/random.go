package value

import (
	"math/rand"
	"strings"
	"time"
)

const (
	RandomNumber            = "0123456789"
	RandomLowercaseAlphaNum = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

func Random(characters string, number int) *string {
	var generated strings.Builder
	for range number {
		generated.WriteByte(characters[Rand.Intn(len(characters))])
	}

	result := generated.String()
	return &result
}

// RunId names one upgrade run. Ids sort by start time.
func RunId(now time.Time) string {
	return now.UTC().Format("20060102T150405Z") + "-" + *Random(RandomLowercaseAlphaNum, 6)
}
