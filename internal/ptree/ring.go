package ptree

// linkRing inserts from-vertex src immediately to the right of to-vertex dst
// in dst's redirect ring, and records the forwarding edge.
func linkRing(src, dst *Node) {
	src.ringPrev = dst
	src.ringNext = dst.ringNext
	src.ringNext.ringPrev = src
	src.ringPrev.ringNext = src
	src.fwd = dst
}

// unlinkRing excises src from its current redirect ring, resetting it to
// the trivial self-loop, and clears its forwarding edge.
func unlinkRing(src *Node) {
	src.ringPrev.ringNext = src.ringNext
	src.ringNext.ringPrev = src.ringPrev
	src.ringPrev, src.ringNext = src, src
	src.fwd = nil
}
