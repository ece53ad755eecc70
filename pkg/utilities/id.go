package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

var (
	quoteNodeOnce sync.Once
	quoteNode     *snowflake.Node
)

// NewQuoteNumber generates a unique, sortable quote number for the quotes
// table. It uses a snowflake ID with the node taken from SNOWFLAKE_NODE,
// defaulting to node 1 when unset or unparsable. The node is created once so
// the sequence counter survives across calls.
func NewQuoteNumber() string {
	quoteNodeOnce.Do(func() {
		nodeID := int64(1)
		if env := os.Getenv("SNOWFLAKE_NODE"); env != "" {
			if v, err := strconv.ParseInt(env, 10, 64); err == nil {
				nodeID = v
			}
		}
		if n, err := snowflake.NewNode(nodeID); err == nil {
			quoteNode = n
		}
	})
	if quoteNode != nil {
		return "ORC-" + quoteNode.Generate().String()
	}
	return "ORC-" + NewKSUID()
}

// NewQuoteNumberWithNode generates a quote number from a freshly initialized
// node. If the node cannot be initialized, it falls back to a KSUID string so
// a unique number is still produced.
func NewQuoteNumberWithNode(nodeID int64) string {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return "ORC-" + NewKSUID()
	}
	return "ORC-" + node.Generate().String()
}
