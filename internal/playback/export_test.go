package playback

// PollNow runs one poll tick for the active polling generation and reports
// whether one was running.
func (c *Controller) PollNow() bool {
	c.cmdMu.Lock()
	ctx := c.pollCtx
	c.cmdMu.Unlock()
	if ctx == nil {
		return false
	}
	c.tick(ctx)
	return true
}

// Polling reports whether a poll generation is active.
func (c *Controller) Polling() bool {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	return c.pollCancel != nil
}
