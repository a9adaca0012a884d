package saga

import (
	"time"

	"github.com/viant/saga/model/effect"
	"github.com/viant/saga/runtime/execution"
	"github.com/viant/saga/service/buffer"
)

// Delay returns an effect that suspends the caller for d; cancelling the
// pending effect stops the timer.
func Delay(d time.Duration) *effect.Effect {
	return effect.Call(func() (interface{}, error) {
		future := execution.NewFuture()
		timer := time.AfterFunc(d, func() { future.Resolve(true) })
		future.OnCancel(func() { timer.Stop() })
		return future, nil
	})
}

// TakeEvery forks worker on every action matching pattern; args are
// passed through with the action appended last.
func TakeEvery(pattern interface{}, worker interface{}, args ...interface{}) *effect.Effect {
	return effect.Fork(func(y *execution.Yield) (interface{}, error) {
		for {
			action, err := y.Take(pattern)
			if err != nil {
				return nil, err
			}
			if _, err := y.Fork(worker, append(withArgs(args), action)...); err != nil {
				return nil, err
			}
		}
	})
}

// TakeLatest forks worker on every matching action, cancelling the
// previous invocation if it is still running.
func TakeLatest(pattern interface{}, worker interface{}, args ...interface{}) *effect.Effect {
	return effect.Fork(func(y *execution.Yield) (interface{}, error) {
		var last *execution.Task
		for {
			action, err := y.Take(pattern)
			if err != nil {
				return nil, err
			}
			if last != nil {
				if err := y.Cancel(last); err != nil {
					return nil, err
				}
			}
			if last, err = y.Fork(worker, append(withArgs(args), action)...); err != nil {
				return nil, err
			}
		}
	})
}

// TakeLeading calls worker on a matching action and ignores further
// matches until the call returns.
func TakeLeading(pattern interface{}, worker interface{}, args ...interface{}) *effect.Effect {
	return effect.Fork(func(y *execution.Yield) (interface{}, error) {
		for {
			action, err := y.Take(pattern)
			if err != nil {
				return nil, err
			}
			if _, err := y.Call(worker, append(withArgs(args), action)...); err != nil {
				return nil, err
			}
		}
	})
}

// Throttle forks worker on a matching action at most once per interval;
// the latest action arriving during the window is kept.
func Throttle(interval time.Duration, pattern interface{}, worker interface{}, args ...interface{}) *effect.Effect {
	return effect.Fork(func(y *execution.Yield) (interface{}, error) {
		throttled, err := y.ActionChannel(pattern, buffer.Sliding(1))
		if err != nil {
			return nil, err
		}
		for {
			action, err := y.TakeFrom(throttled)
			if err != nil {
				return nil, err
			}
			if _, err := y.Fork(worker, append(withArgs(args), action)...); err != nil {
				return nil, err
			}
			if _, err := y.Do(Delay(interval)); err != nil {
				return nil, err
			}
		}
	})
}

// Debounce forks worker with the latest matching action once no further
// match has arrived for interval.
func Debounce(interval time.Duration, pattern interface{}, worker interface{}, args ...interface{}) *effect.Effect {
	return effect.Fork(func(y *execution.Yield) (interface{}, error) {
		for {
			action, err := y.Take(pattern)
			if err != nil {
				return nil, err
			}
			for {
				raced, err := y.RaceNamed(map[string]interface{}{
					"debounced": Delay(interval),
					"latest":    effect.Take(pattern),
				})
				if err != nil {
					return nil, err
				}
				if _, ok := raced["debounced"]; ok {
					if _, err := y.Fork(worker, append(withArgs(args), action)...); err != nil {
						return nil, err
					}
					break
				}
				action = raced["latest"]
			}
		}
	})
}

func withArgs(args []interface{}) []interface{} {
	return append([]interface{}{}, args...)
}
