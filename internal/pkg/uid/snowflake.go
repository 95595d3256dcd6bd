package uid

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered 63-bit IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator for the given node (0-1023). A negative
// node is derived from the hostname so replicas rarely collide.
func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 {
		node = hostNode()
	}

	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: n}, nil
}

// Generate returns the next ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func hostNode() int64 {
	h, err := os.Hostname()
	if err != nil {
		return 0
	}

	f := fnv.New32a()
	_, _ = f.Write([]byte(h))
	return int64(f.Sum32() % 1024)
}
