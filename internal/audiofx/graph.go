package audiofx

import (
	"context"
	"fmt"
)

// renderBlock is the number of samples processed per graph step. Context
// cancellation is checked between blocks, never mid-block.
const renderBlock = 4096

// Node is one stage of the offline processing graph. Process mutates the
// per-channel block slices in place; Reset clears any filter/envelope state
// so a node can be reused across renders.
type Node interface {
	Reset()
	Process(block [][]float32)
}

// Graph is an ordered chain of processing nodes rendered offline:
// the whole input is pulled through every node block by block, to
// completion, faster than real time.
type Graph struct {
	nodes []Node
}

// NewGraph builds a graph over the given node chain.
func NewGraph(nodes ...Node) *Graph {
	return &Graph{nodes: nodes}
}

// Render runs the input through the node chain and returns a new buffer;
// the input is never modified. Cancellation is honored between blocks: once
// a block has entered the chain it always completes, so the output is never
// a torn partial write. A cancelled render returns the context's error.
func (g *Graph) Render(ctx context.Context, in *Buffer) (*Buffer, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("render graph: %w", err)
	}

	for _, n := range g.nodes {
		n.Reset()
	}

	out := in.Clone()
	total := out.Len()
	block := make([][]float32, out.Channels())

	for off := 0; off < total; off += renderBlock {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render graph: %w", err)
		}

		end := off + renderBlock
		if end > total {
			end = total
		}
		for ch := range out.Data {
			block[ch] = out.Data[ch][off:end]
		}
		for _, n := range g.nodes {
			n.Process(block)
		}
	}

	return out, nil
}
