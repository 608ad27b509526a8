// Package ids generates local primary keys and booking references.
package ids

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// UUID returns a random v4 identifier. When the crypto source fails it falls
// back to a v4-shaped id built from math/rand; ids are local keys only.
func UUID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallbackUUID()
	}
	return id.String()
}

func fallbackUUID() string {
	var b [16]byte
	for i := range b {
		b[i] = byte(rand.IntN(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// Generator issues booking references from a snowflake node.
type Generator struct {
	node *snowflake.Node
}

func NewGenerator(node *snowflake.Node) *Generator {
	return &Generator{node: node}
}

// BookingRef returns a short, sortable reference such as "BK-2XQ0J9A1C".
// A nil generator falls back to a random reference.
func (g *Generator) BookingRef() string {
	if g == nil || g.node == nil {
		return "BK-" + strings.ToUpper(strings.ReplaceAll(UUID(), "-", "")[:10])
	}
	return "BK-" + strings.ToUpper(g.node.Generate().Base36())
}

func NewSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
