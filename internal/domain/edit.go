package domain

// EditSession is the in-progress rename of exactly one task.
type EditSession struct {
	TaskID       int64
	PendingTitle string
}
