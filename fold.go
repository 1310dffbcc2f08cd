package brief

// Fold applies evt to the aggregated answer acc. Only message deltas change
// the answer, and they are appended in the order they are folded; no
// reordering or deduplication happens here.
func Fold(acc string, evt Event) string {
	if d, ok := evt.(EventMessageDelta); ok {
		return acc + d.Text
	}
	return acc
}
