package doctor

// ProgressSink receives run progress. Start is called once before any
// Advance, Finish once after the last. Advance may be called concurrently.
type ProgressSink interface {
	Start(total int)
	Advance(n int)
	Finish()
}

// NoProgress discards progress updates.
type NoProgress struct{}

func (NoProgress) Start(int)   {}
func (NoProgress) Advance(int) {}
func (NoProgress) Finish()     {}
