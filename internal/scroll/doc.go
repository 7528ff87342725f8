// Package scroll implements the scroll-convergence loop that loads every
// lazily rendered item of an infinite-scroll page.
//
// On each poll the loop waits Config.Delay, scrolls the page to the bottom
// and reads a progress signal. An unchanged signal increments a stagnation
// counter; a changed one resets it. The loop ends as Converged once the
// counter reaches Config.StagnationThreshold, or as ForcedStop after
// Config.MaxPolls polls. ForcedStop is a normal outcome, not an error.
//
//	loop := scroll.NewLoop(scroll.DefaultConfig())
//	loop.OnPoll = func(r scroll.Result) { fmt.Println(r.Polls, r.Signal) }
//	res, err := loop.Run(ctx, page)
package scroll
