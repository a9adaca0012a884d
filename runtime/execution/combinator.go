package execution

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/viant/saga/model/effect"
)

// combinatorShape normalises an all/race payload into ordered keys and a
// key→effect mapping, remembering whether the input was list-shaped.
func combinatorShape(payload effect.CombinatorPayload) ([]string, map[string]interface{}, bool) {
	if payload.Named != nil {
		keys := make([]string, 0, len(payload.Named))
		for key := range payload.Named {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return keys, payload.Named, false
	}
	keys := make([]string, len(payload.List))
	effects := make(map[string]interface{}, len(payload.List))
	for i, one := range payload.List {
		key := strconv.Itoa(i)
		keys[i] = key
		effects[key] = one
	}
	return keys, effects, true
}

// shouldComplete reports resume values that terminate a combinator as a
// whole: channel termination and cancellation.
func shouldComplete(result interface{}) bool {
	return result == terminate || result == effect.TaskCancel
}

// createAllStyleChildCallbacks builds one child continuation per key:
// the parent resumes once every child has succeeded, preserving the
// input shape; the first error or termination cancels the siblings and
// propagates.
func (p *proc) createAllStyleChildCallbacks(keys []string, isList bool, parentCb *callback) map[string]*callback {
	totalCount := len(keys)
	completedCount := 0
	completed := false
	listResults := make([]interface{}, totalCount)
	namedResults := make(map[string]interface{}, totalCount)
	childCallbacks := make(map[string]*callback, totalCount)

	checkEnd := func() {
		if completedCount != totalCount {
			return
		}
		completed = true
		if isList {
			parentCb.fn(listResults, nil)
			return
		}
		parentCb.fn(namedResults, nil)
	}

	for i, key := range keys {
		index := i
		childCb := &callback{cancel: noopCancel}
		childCb.fn = func(result interface{}, err error) {
			if completed {
				return
			}
			if err != nil || shouldComplete(result) {
				parentCb.invokeCancel()
				parentCb.fn(result, err)
				return
			}
			if isList {
				listResults[index] = result
			} else {
				namedResults[keys[index]] = result
			}
			completedCount++
			checkEnd()
		}
		childCallbacks[key] = childCb
	}

	parentCb.cancel = func() {
		if completed {
			return
		}
		completed = true
		for _, childCb := range childCallbacks {
			childCb.invokeCancel()
		}
	}
	return childCallbacks
}

func (p *proc) runAllEffect(payload effect.CombinatorPayload, effectID string, parentCb *callback) {
	keys, effects, isList := combinatorShape(payload)
	if len(keys) == 0 {
		if isList {
			parentCb.fn([]interface{}{}, nil)
			return
		}
		parentCb.fn(map[string]interface{}{}, nil)
		return
	}
	childCallbacks := p.createAllStyleChildCallbacks(keys, isList, parentCb)
	for _, key := range keys {
		p.digestEffect(effects[key], effectID, key, childCallbacks[key])
	}
}

// runRaceEffect resumes the parent with the first child completing with
// a non-END, non-cancel value, cancelling the losers; the first error
// propagates.
func (p *proc) runRaceEffect(payload effect.CombinatorPayload, effectID string, parentCb *callback) {
	keys, effects, isList := combinatorShape(payload)
	if len(keys) == 0 {
		if isList {
			parentCb.fn([]interface{}{}, nil)
			return
		}
		parentCb.fn(map[string]interface{}{}, nil)
		return
	}
	completed := false
	childCallbacks := make(map[string]*callback, len(keys))
	for i, key := range keys {
		index := i
		childKey := key
		childCb := &callback{cancel: noopCancel}
		childCb.fn = func(result interface{}, err error) {
			if completed {
				return
			}
			if err != nil || shouldComplete(result) {
				parentCb.invokeCancel()
				parentCb.fn(result, err)
				return
			}
			parentCb.invokeCancel()
			completed = true
			if isList {
				winner := make([]interface{}, len(keys))
				winner[index] = result
				parentCb.fn(winner, nil)
				return
			}
			parentCb.fn(map[string]interface{}{childKey: result}, nil)
		}
		childCallbacks[key] = childCb
	}
	parentCb.cancel = func() {
		if completed {
			return
		}
		completed = true
		for _, childCb := range childCallbacks {
			childCb.invokeCancel()
		}
	}
	for _, key := range keys {
		if completed {
			return
		}
		p.digestEffect(effects[key], effectID, key, childCallbacks[key])
	}
}

// describeKind labels a yielded value for monitors.
func describeKind(eff interface{}) string {
	switch actual := eff.(type) {
	case *Future:
		return "future"
	case Iterator:
		return "iterator"
	case *effect.Effect:
		return actual.Kind.String()
	default:
		return "value"
	}
}

// describeEffect labels a failing effect for the procedure trace.
func describeEffect(eff interface{}) string {
	switch actual := eff.(type) {
	case *Future:
		return "future"
	case Iterator:
		return "iterator"
	case *effect.Effect:
		return actual.Kind.String()
	default:
		return fmt.Sprintf("%T", eff)
	}
}
