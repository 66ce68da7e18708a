package combat

import "github.com/srliao/streetfire/pkg/emitter"

//ActionHookType selects when an action hook runs
type ActionHookType string

const (
	OnSpawn  ActionHookType = "ON_SPAWN"
	OnFinish ActionHookType = "ON_FINISH"
)

//Hook functions return true once they have expired and should be removed
type ActionHookFunc func(a Action) bool
type HitHookFunc func(h Hit) bool
type BlockHookFunc func(f *emitter.FireEmitter, t emitter.Transition) bool

//AddActionHook adds a hook called whenever an action is spawned or finishes
func (s *Scheduler) AddActionHook(f ActionHookFunc, key string, hook ActionHookType) {
	s.actionHooks[hook] = append(s.actionHooks[hook], f)
	s.Log.Debugf("\t[%v] new action hook added %v", s.Frame(), key)
}

//AddHitHook adds a hook called for every hit after its damage was applied
func (s *Scheduler) AddHitHook(f HitHookFunc, key string) {
	s.hitHooks = append(s.hitHooks, f)
	s.Log.Debugf("\t[%v] new hit hook added %v", s.Frame(), key)
}

//AddBlockHook adds a hook called whenever a block puts out an attack flame
func (s *Scheduler) AddBlockHook(f BlockHookFunc, key string) {
	s.blockHooks = append(s.blockHooks, f)
	s.Log.Debugf("\t[%v] new block hook added %v", s.Frame(), key)
}

func (s *Scheduler) executeActionHooks(t ActionHookType, a Action) {
	var next []ActionHookFunc
	for _, f := range s.actionHooks[t] {
		if !f(a) {
			next = append(next, f)
		}
	}
	s.actionHooks[t] = next
}

func (s *Scheduler) executeHitHooks(h Hit) {
	var next []HitHookFunc
	for _, f := range s.hitHooks {
		if !f(h) {
			next = append(next, f)
		}
	}
	s.hitHooks = next
}

func (s *Scheduler) executeBlockHooks(f *emitter.FireEmitter, t emitter.Transition) {
	var next []BlockHookFunc
	for _, fn := range s.blockHooks {
		if !fn(f, t) {
			next = append(next, fn)
		}
	}
	s.blockHooks = next
}
